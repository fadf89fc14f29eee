package evaluator

import (
	"fmt"
	"math"

	"github.com/kcl-lang/kclcore/ast"
	"github.com/kcl-lang/kclcore/internal/diagnostic"
	"github.com/kcl-lang/kclcore/lexer"
	"github.com/kcl-lang/kclcore/parser"
	"github.com/kcl-lang/kclcore/value"
)

// Evaluator holds the per-module state one eval() pass needs: the
// diagnostics sink and the Context (which also carries the predeclared
// schema table).
type Evaluator struct {
	sess *diagnostic.Session
	ctx  *Context
}

// Eval implements `eval(Program, Options) -> (Value, Context)`. The
// returned Value is a dict of every top-level variable the module's Main
// package binds, in declaration order — the same shape the planner (§4.7)
// expects as its input.
func Eval(m *ast.Module, opts Options, sess *diagnostic.Session) (value.Value, *Context) {
	ctx := newContext(opts)
	ev := &Evaluator{sess: sess, ctx: ctx}

	root := NewScope(nil)
	ev.predeclare(m, root)
	ctx.PkgScopes["__main__"] = []*Scope{root}

	ev.execBlock(m.Body, root)

	result := value.NewDict()
	for _, name := range root.Order {
		result.Dict().Set(name, root.Variables[name], value.OpOverride, -1)
	}
	return result, ctx
}

func (ev *Evaluator) predeclare(m *ast.Module, scope *Scope) {
	for _, s := range m.Body {
		switch s := s.(type) {
		case *ast.SchemaStmt:
			ev.ctx.schemas[s.Name] = s
		}
	}
}

func (ev *Evaluator) execStmt(s ast.Stmt, scope *Scope) {
	switch s := s.(type) {
	case *ast.AssignStmt:
		v := ev.evalExpr(s.Value, scope)
		for _, t := range s.Targets {
			if ident, ok := t.(*ast.Identifier); ok && len(ident.Names) == 1 {
				scope.Declare(ident.Names[0], v)
			}
		}
	case *ast.AugAssignStmt:
		ident, ok := s.Target.(*ast.Identifier)
		if !ok || len(ident.Names) != 1 {
			return
		}
		cur, _ := scope.Lookup(ident.Names[0])
		rhs := ev.evalExpr(s.Value, scope)
		scope.Assign(ident.Names[0], ev.applyAugOp(s.Op, cur, rhs, s.Span))
	case *ast.UnificationStmt:
		v := ev.evalExpr(s.Value, scope)
		if ident, ok := s.Target.(*ast.Identifier); ok && len(ident.Names) == 1 {
			if existing, ok := scope.Lookup(ident.Names[0]); ok {
				_ = value.Merge(existing, v, ev.mergeOpts(), ev.sess, s.Span)
			} else {
				scope.Declare(ident.Names[0], v)
			}
		}
	case *ast.ExprStmt:
		ev.evalExpr(s.X, scope)
	case *ast.IfStmt:
		// An if statement does not open a new lexical scope (§4.6): an
		// assignment inside it updates the enclosing scope's variable,
		// it does not shadow it — only schema/lambda bodies do that.
		if ev.evalExpr(s.Cond, scope).Bool() {
			ev.execBlock(s.Body, scope)
			return
		}
		for _, elif := range s.Elifs {
			if ev.evalExpr(elif.Cond, scope).Bool() {
				ev.execBlock(elif.Body, scope)
				return
			}
		}
		ev.execBlock(s.Else, scope)
	case *ast.AssertStmt:
		if s.If != nil && !ev.evalExpr(s.If, scope).Bool() {
			return
		}
		if !ev.evalExpr(s.Cond, scope).Bool() {
			msg := "assertion failed"
			if s.Msg != nil {
				msg = ev.evalExpr(s.Msg, scope).Str()
			}
			ev.sess.Report(diagnostic.Diagnostic{
				Kind:     diagnostic.KindSchemaCheckFailure,
				Severity: diagnostic.SevError,
				Message:  msg,
				Primary:  s.Span,
			})
		}
	}
}

func (ev *Evaluator) execBlock(stmts []ast.Stmt, scope *Scope) {
	for _, s := range stmts {
		ev.execStmt(s, scope)
	}
}

func (ev *Evaluator) applyAugOp(op string, cur, rhs value.Value, span diagnostic.Span) value.Value {
	binOp, ok := augToBinary[op]
	if !ok {
		return rhs
	}
	return ev.evalBinaryValues(binOp, cur, rhs, span)
}

var augToBinary = map[string]ast.BinaryOp{
	"+=": ast.BinAdd, "-=": ast.BinSub, "*=": ast.BinMul, "/=": ast.BinDiv,
	"//=": ast.BinFloorDiv, "%=": ast.BinMod, "**=": ast.BinPow,
	"&=": ast.BinBitAnd, "|=": ast.BinBitOr, "^=": ast.BinBitXor,
	"<<=": ast.BinShl, ">>=": ast.BinShr,
}

func (ev *Evaluator) evalExpr(e ast.Expr, scope *Scope) value.Value {
	switch e := e.(type) {
	case nil:
		return value.Undefined()
	case *ast.Identifier:
		if len(e.Names) == 0 {
			return value.Undefined()
		}
		v, ok := scope.Lookup(e.Names[0])
		if !ok {
			return value.Undefined()
		}
		return v
	case *ast.NumberLit:
		if e.IsFloat {
			return value.Float(e.Float)
		}
		ev.checkRange(e.Int, e.Span)
		return value.IntWithUnit(e.Int, e.Suffix)
	case *ast.StringLit:
		return value.Str(e.Value)
	case *ast.NameConstantLit:
		switch e.Kind {
		case "True":
			return value.Bool(true)
		case "False":
			return value.Bool(false)
		case "None":
			return value.None()
		default:
			return value.Undefined()
		}
	case *ast.JoinedStringExpr:
		s := ""
		for _, p := range e.Parts {
			switch {
			case p.Expr != nil:
				s += value.Repr(ev.evalExpr(p.Expr, scope))
			case p.FormatSpec == "expr":
				sub := parser.Parse(e.Span.File, lexer.Lex(e.Span.File, []byte(p.Literal), e.Span.Lo, ev.sess), ev.sess)
				if len(sub.Body) == 1 {
					if es, ok := sub.Body[0].(*ast.ExprStmt); ok {
						s += value.Repr(ev.evalExpr(es.X, scope))
					}
				}
			default:
				s += p.Literal
			}
		}
		return value.Str(s)
	case *ast.ListExpr:
		items := make([]value.Value, len(e.Elts))
		for i, el := range e.Elts {
			items[i] = ev.evalExpr(el, scope)
		}
		return value.NewList(items...)
	case *ast.ConfigExpr:
		return ev.evalConfigExpr(e, scope)
	case *ast.SchemaExpr:
		return ev.evalSchemaExpr(e, scope)
	case *ast.ListCompExpr:
		return ev.evalListComp(e, scope)
	case *ast.DictCompExpr:
		return ev.evalDictComp(e, scope)
	case *ast.LambdaExpr:
		return ev.evalLambda(e, scope)
	case *ast.CallExpr:
		return ev.evalCall(e, scope)
	case *ast.SelectorExpr:
		return ev.evalSelector(e, scope)
	case *ast.SubscriptExpr:
		return ev.evalSubscript(e, scope)
	case *ast.QuantExpr:
		return ev.evalQuant(e, scope)
	case *ast.CompareExpr:
		return ev.evalCompare(e, scope)
	case *ast.BinaryExpr:
		x := ev.evalExpr(e.X, scope)
		y := ev.evalExpr(e.Y, scope)
		return ev.evalBinaryValues(e.Op, x, y, e.Span)
	case *ast.UnaryExpr:
		return ev.evalUnary(e, scope)
	}
	return value.Undefined()
}

func (ev *Evaluator) evalConfigExpr(e *ast.ConfigExpr, scope *Scope) value.Value {
	d := value.NewDict()
	for _, entry := range e.Entries {
		ev.applyConfigEntry(entry, d, scope)
	}
	return d
}

func (ev *Evaluator) applyConfigEntry(entry ast.ConfigEntry, d value.Value, scope *Scope) {
	if entry.Key == nil {
		if ifEntry, ok := entry.Value.(*ast.ConfigIfEntry); ok {
			ev.applyConfigIfEntry(ifEntry, d, scope)
		}
		return
	}
	name, ok := configKeyName(entry.Key, ev, scope)
	if !ok {
		return
	}
	val := ev.evalExpr(entry.Value, scope)
	op := toValueOp(entry.Op)
	if existing, has := d.Dict().Get(name); has && op == value.OpUnion {
		_ = value.Merge(wrapForMerge(name, existing, op, entry.InsertIndex), wrapForMerge(name, val, op, entry.InsertIndex), ev.mergeOpts(), ev.sess, entry.Span)
		d.Dict().Set(name, existing, op, entry.InsertIndex)
		return
	}
	d.Dict().Set(name, val, op, entry.InsertIndex)
}

// wrapForMerge puts v under key in a fresh one-entry dict, so a union of
// two same-key config entries goes through Merge's per-key dispatch: dicts
// and lists merge into the existing value in place, and two scalars go
// through the idempotent conflict check (the existing value is kept).
func wrapForMerge(key string, v value.Value, op value.Op, idx int) value.Value {
	w := value.NewDict()
	w.Dict().Set(key, v, op, idx)
	return w
}

func (ev *Evaluator) applyConfigIfEntry(e *ast.ConfigIfEntry, d value.Value, scope *Scope) {
	if ev.evalExpr(e.Cond, scope).Bool() {
		for _, entry := range e.Body {
			ev.applyConfigEntry(entry, d, scope)
		}
		return
	}
	for _, elif := range e.Elifs {
		if ev.evalExpr(elif.Cond, scope).Bool() {
			for _, entry := range elif.Body {
				ev.applyConfigEntry(entry, d, scope)
			}
			return
		}
	}
	for _, entry := range e.Else {
		ev.applyConfigEntry(entry, d, scope)
	}
}

func configKeyName(k ast.Expr, ev *Evaluator, scope *Scope) (string, bool) {
	switch k := k.(type) {
	case *ast.Identifier:
		if len(k.Names) >= 1 {
			return k.Names[len(k.Names)-1], true
		}
	case *ast.StringLit:
		return k.Value, true
	default:
		v := ev.evalExpr(k, scope)
		if v.Kind() == value.KindStr {
			return v.Str(), true
		}
	}
	return "", false
}

func toValueOp(op ast.ConfigOp) value.Op {
	switch op {
	case ast.OpOverride:
		return value.OpOverride
	case ast.OpInsert:
		return value.OpInsert
	default:
		return value.OpUnion
	}
}

func (ev *Evaluator) evalListComp(e *ast.ListCompExpr, scope *Scope) value.Value {
	out := value.NewList()
	ev.forEachComp(e.Gens, scope, func(inner *Scope) {
		out.AppendList(ev.evalExpr(e.Elt, inner))
	})
	return out
}

func (ev *Evaluator) evalDictComp(e *ast.DictCompExpr, scope *Scope) value.Value {
	out := value.NewDict()
	ev.forEachComp(e.Gens, scope, func(inner *Scope) {
		k := ev.evalExpr(e.Key, inner)
		v := ev.evalExpr(e.Value, inner)
		out.Dict().Set(value.Repr(k), v, value.OpOverride, -1)
	})
	return out
}

func (ev *Evaluator) forEachComp(gens []ast.CompClause, scope *Scope, body func(*Scope)) {
	var rec func(i int, s *Scope)
	rec = func(i int, s *Scope) {
		if i == len(gens) {
			body(s)
			return
		}
		g := gens[i]
		iter := ev.evalExpr(g.Iter, s)
		items := iter.List()
		if iter.Kind() == value.KindDict {
			items = nil
			for _, k := range iter.Dict().Keys {
				items = append(items, value.NewList(value.Str(k), iter.Dict().Values[k]))
			}
		}
		for _, item := range items {
			inner := NewScope(s)
			bindTargets(g.Targets, item, inner)
			ok := true
			for _, ifc := range g.Ifs {
				if !ev.evalExpr(ifc, inner).Bool() {
					ok = false
					break
				}
			}
			if ok {
				rec(i+1, inner)
			}
		}
	}
	rec(0, scope)
}

func bindTargets(targets []ast.Expr, item value.Value, scope *Scope) {
	if len(targets) == 1 {
		if id, ok := targets[0].(*ast.Identifier); ok && len(id.Names) == 1 {
			scope.Declare(id.Names[0], item)
		}
		return
	}
	if item.Kind() != value.KindList {
		return
	}
	for i, t := range targets {
		if id, ok := t.(*ast.Identifier); ok && len(id.Names) == 1 && i < len(item.List()) {
			scope.Declare(id.Names[0], item.List()[i])
		}
	}
}

func (ev *Evaluator) evalLambda(e *ast.LambdaExpr, scope *Scope) value.Value {
	defScope := scope
	lam := e
	fn := &value.Func{
		Name: "lambda",
		Native: func(args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
			call := NewScope(defScope)
			for i, p := range lam.Params {
				if i < len(args) {
					call.Declare(p.Name, args[i])
				} else if v, ok := kwargs[p.Name]; ok {
					call.Declare(p.Name, v)
				} else if p.Default != nil {
					call.Declare(p.Name, ev.evalExpr(p.Default, call))
				} else {
					call.Declare(p.Name, value.Undefined())
				}
			}
			var last value.Value = value.None()
			for _, s := range lam.Body {
				if es, ok := s.(*ast.ExprStmt); ok {
					last = ev.evalExpr(es.X, call)
					continue
				}
				ev.execStmt(s, call)
			}
			return last, nil
		},
	}
	return value.NewFunc(fn)
}

func (ev *Evaluator) evalCall(e *ast.CallExpr, scope *Scope) value.Value {
	if ident, ok := e.Func.(*ast.Identifier); ok && len(ident.Names) == 1 {
		if ident.Names[0] == "option" {
			return ev.evalOptionCall(e, scope)
		}
		if ident.Names[0] == "print" {
			return ev.evalPrintCall(e, scope)
		}
		if fn, ok := builtinImpls[ident.Names[0]]; ok {
			args, kwargs := ev.evalArgs(e, scope)
			v, err := fn(args, kwargs)
			if err != nil {
				ev.sess.Report(diagnostic.Diagnostic{Kind: diagnostic.KindInvalidUnionOperand, Severity: diagnostic.SevError, Message: err.Error(), Primary: e.Span})
				return value.Undefined()
			}
			return v
		}
	}
	fnVal := ev.evalExpr(e.Func, scope)
	if fnVal.Kind() != value.KindFunc || fnVal.Func() == nil || fnVal.Func().Native == nil {
		return value.Undefined()
	}
	args, kwargs := ev.evalArgs(e, scope)
	v, err := fnVal.Func().Native(args, kwargs)
	if err != nil {
		ev.sess.Report(diagnostic.Diagnostic{Kind: diagnostic.KindInvalidUnionOperand, Severity: diagnostic.SevError, Message: err.Error(), Primary: e.Span})
		return value.Undefined()
	}
	return v
}

func (ev *Evaluator) evalArgs(e *ast.CallExpr, scope *Scope) ([]value.Value, map[string]value.Value) {
	args := make([]value.Value, len(e.Args))
	for i, a := range e.Args {
		args[i] = ev.evalExpr(a, scope)
	}
	kwargs := map[string]value.Value{}
	for _, k := range e.Kwargs {
		kwargs[k.Name] = ev.evalExpr(k.Value, scope)
	}
	return args, kwargs
}

func (ev *Evaluator) evalSelector(e *ast.SelectorExpr, scope *Scope) value.Value {
	x := ev.evalExpr(e.X, scope)
	if e.HasQuestion && (x.IsNone() || x.IsUndefined()) {
		return value.None()
	}
	if x.Kind() != value.KindDict && x.Kind() != value.KindSchema {
		return value.Undefined()
	}
	v, ok := x.Dict().Get(e.Attr)
	if !ok {
		ev.sess.Report(diagnostic.Diagnostic{
			Kind: diagnostic.KindAttributeNotFound, Severity: diagnostic.SevError,
			Message: fmt.Sprintf("attribute %q not found", e.Attr), Primary: e.Span,
		})
		return value.Undefined()
	}
	return v
}

func (ev *Evaluator) evalSubscript(e *ast.SubscriptExpr, scope *Scope) value.Value {
	x := ev.evalExpr(e.X, scope)
	if e.IsSlice {
		lo, hi, step := 0, -1, 1
		if e.Lo != nil {
			lo = int(ev.evalExpr(e.Lo, scope).Int())
		}
		if x.Kind() == value.KindList {
			hi = len(x.List())
		} else if x.Kind() == value.KindStr {
			hi = len(x.Str())
		}
		if e.Hi != nil {
			hi = int(ev.evalExpr(e.Hi, scope).Int())
		}
		if e.Step != nil {
			step = int(ev.evalExpr(e.Step, scope).Int())
		}
		return sliceValue(x, lo, hi, step)
	}
	idx := ev.evalExpr(e.Index, scope)
	switch x.Kind() {
	case value.KindList:
		i := int(idx.Int())
		if i < 0 {
			i += len(x.List())
		}
		if i < 0 || i >= len(x.List()) {
			return value.Undefined()
		}
		return x.List()[i]
	case value.KindDict, value.KindSchema:
		v, ok := x.Dict().Get(idx.Str())
		if !ok {
			return value.Undefined()
		}
		return v
	case value.KindStr:
		i := int(idx.Int())
		r := []rune(x.Str())
		if i < 0 {
			i += len(r)
		}
		if i < 0 || i >= len(r) {
			return value.Undefined()
		}
		return value.Str(string(r[i]))
	}
	return value.Undefined()
}

func sliceValue(x value.Value, lo, hi, step int) value.Value {
	if x.Kind() == value.KindStr {
		r := []rune(x.Str())
		lo, hi = clampSlice(lo, hi, len(r))
		s := ""
		for i := lo; i < hi; i += step {
			s += string(r[i])
		}
		return value.Str(s)
	}
	items := x.List()
	lo, hi = clampSlice(lo, hi, len(items))
	out := value.NewList()
	for i := lo; i < hi; i += step {
		out.AppendList(items[i])
	}
	return out
}

func clampSlice(lo, hi, n int) (int, int) {
	if lo < 0 {
		lo += n
	}
	if hi < 0 {
		hi += n
	}
	if lo < 0 {
		lo = 0
	}
	if hi > n {
		hi = n
	}
	if lo > hi {
		hi = lo
	}
	return lo, hi
}

func (ev *Evaluator) evalQuant(e *ast.QuantExpr, scope *Scope) value.Value {
	iter := ev.evalExpr(e.Iter, scope)
	items := iter.List()
	passes := func(inner *Scope) bool {
		return e.IfCond == nil || ev.evalExpr(e.IfCond, inner).Bool()
	}
	switch e.Kind {
	case ast.QuantAll:
		for _, it := range items {
			inner := NewScope(scope)
			bindTargets(e.Targets, it, inner)
			if !passes(inner) {
				continue
			}
			if !ev.evalExpr(e.Test, inner).Bool() {
				return value.Bool(false)
			}
		}
		return value.Bool(true)
	case ast.QuantAny:
		for _, it := range items {
			inner := NewScope(scope)
			bindTargets(e.Targets, it, inner)
			if passes(inner) && ev.evalExpr(e.Test, inner).Bool() {
				return value.Bool(true)
			}
		}
		return value.Bool(false)
	case ast.QuantMap:
		out := value.NewList()
		for _, it := range items {
			inner := NewScope(scope)
			bindTargets(e.Targets, it, inner)
			if !passes(inner) {
				continue
			}
			out.AppendList(ev.evalExpr(e.Test, inner))
		}
		return out
	case ast.QuantFilter:
		out := value.NewList()
		for _, it := range items {
			inner := NewScope(scope)
			bindTargets(e.Targets, it, inner)
			if passes(inner) && ev.evalExpr(e.Test, inner).Bool() {
				out.AppendList(it)
			}
		}
		return out
	}
	return value.Undefined()
}

func (ev *Evaluator) evalCompare(e *ast.CompareExpr, scope *Scope) value.Value {
	left := ev.evalExpr(e.Left, scope)
	for i, op := range e.Ops {
		right := ev.evalExpr(e.Comps[i], scope)
		ok, err := ev.compareOne(op, left, right, e.Span)
		if err != nil {
			ev.sess.Report(diagnostic.Diagnostic{Kind: diagnostic.KindInvalidUnionOperand, Severity: diagnostic.SevError, Message: err.Error(), Primary: e.Span})
			return value.Undefined()
		}
		if !ok {
			return value.Bool(false)
		}
		left = right
	}
	return value.Bool(true)
}

func (ev *Evaluator) compareOne(op ast.CompareOp, l, r value.Value, span diagnostic.Span) (bool, error) {
	switch op {
	case ast.CmpEq:
		return value.CmpEqual(l, r), nil
	case ast.CmpNe:
		return !value.CmpEqual(l, r), nil
	case ast.CmpIs:
		return value.CmpEqual(l, r), nil
	case ast.CmpIsNot:
		return !value.CmpEqual(l, r), nil
	case ast.CmpIn:
		return containsValue(r, l), nil
	case ast.CmpNotIn:
		return !containsValue(r, l), nil
	}
	c, err := value.Compare(l, r)
	if err != nil {
		return false, err
	}
	switch op {
	case ast.CmpLt:
		return c < 0, nil
	case ast.CmpLe:
		return c <= 0, nil
	case ast.CmpGt:
		return c > 0, nil
	case ast.CmpGe:
		return c >= 0, nil
	}
	return false, nil
}

func containsValue(container, item value.Value) bool {
	switch container.Kind() {
	case value.KindList:
		for _, it := range container.List() {
			if value.CmpEqual(it, item) {
				return true
			}
		}
		return false
	case value.KindDict, value.KindSchema:
		return container.Dict().Has(item.Str())
	case value.KindStr:
		return len(item.Str()) > 0 && indexOf(container.Str(), item.Str()) >= 0
	}
	return false
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func (ev *Evaluator) evalUnary(e *ast.UnaryExpr, scope *Scope) value.Value {
	x := ev.evalExpr(e.X, scope)
	switch e.Op {
	case ast.UnaryNot:
		return value.Bool(!x.Bool())
	case ast.UnaryNeg:
		if x.Kind() == value.KindFloat {
			return value.Float(-x.Float())
		}
		return value.Int(-x.Int())
	case ast.UnaryPos:
		return x
	case ast.UnaryInvert:
		return value.Int(^x.Int())
	}
	return value.Undefined()
}

func (ev *Evaluator) evalBinaryValues(op ast.BinaryOp, x, y value.Value, span diagnostic.Span) value.Value {
	switch op {
	case ast.BinOr:
		if x.Bool() {
			return x
		}
		return y
	case ast.BinAnd:
		if !x.Bool() {
			return x
		}
		return y
	}
	if x.Kind() == value.KindStr || y.Kind() == value.KindStr {
		return ev.evalStringOrListOp(op, x, y, span)
	}
	if x.Kind() == value.KindList || y.Kind() == value.KindList {
		return ev.evalStringOrListOp(op, x, y, span)
	}
	isFloat := x.Kind() == value.KindFloat || y.Kind() == value.KindFloat
	if isFloat {
		xf, yf := toFloat(x), toFloat(y)
		switch op {
		case ast.BinAdd:
			return value.Float(xf + yf)
		case ast.BinSub:
			return value.Float(xf - yf)
		case ast.BinMul:
			return value.Float(xf * yf)
		case ast.BinDiv:
			return ev.checkedFloatDiv(xf, yf, span)
		case ast.BinFloorDiv:
			return value.Float(math.Floor(xf / yf))
		case ast.BinMod:
			return value.Float(math.Mod(xf, yf))
		case ast.BinPow:
			return value.Float(math.Pow(xf, yf))
		}
		return value.Undefined()
	}
	xi, yi := toInt(x), toInt(y)
	switch op {
	case ast.BinAdd:
		return ev.rangedInt(xi+yi, span)
	case ast.BinSub:
		return ev.rangedInt(xi-yi, span)
	case ast.BinMul:
		return ev.rangedInt(xi*yi, span)
	case ast.BinDiv:
		if yi == 0 {
			ev.sess.Report(diagnostic.Diagnostic{Kind: diagnostic.KindDivideByZero, Severity: diagnostic.SevError, Message: "division by zero", Primary: span})
			return value.Undefined()
		}
		return value.Float(float64(xi) / float64(yi))
	case ast.BinFloorDiv:
		if yi == 0 {
			ev.sess.Report(diagnostic.Diagnostic{Kind: diagnostic.KindDivideByZero, Severity: diagnostic.SevError, Message: "division by zero", Primary: span})
			return value.Undefined()
		}
		return value.Int(int64(math.Floor(float64(xi) / float64(yi))))
	case ast.BinMod:
		if yi == 0 {
			ev.sess.Report(diagnostic.Diagnostic{Kind: diagnostic.KindDivideByZero, Severity: diagnostic.SevError, Message: "division by zero", Primary: span})
			return value.Undefined()
		}
		return value.Int(xi % yi)
	case ast.BinPow:
		return ev.rangedInt(int64(math.Pow(float64(xi), float64(yi))), span)
	case ast.BinBitAnd:
		return value.Int(xi & yi)
	case ast.BinBitOr:
		return value.Int(xi | yi)
	case ast.BinBitXor:
		return value.Int(xi ^ yi)
	case ast.BinShl:
		return value.Int(xi << uint(yi))
	case ast.BinShr:
		return value.Int(xi >> uint(yi))
	}
	return value.Undefined()
}

func (ev *Evaluator) evalStringOrListOp(op ast.BinaryOp, x, y value.Value, span diagnostic.Span) value.Value {
	switch op {
	case ast.BinAdd:
		if x.Kind() == value.KindStr && y.Kind() == value.KindStr {
			return value.Str(x.Str() + y.Str())
		}
		if x.Kind() == value.KindList && y.Kind() == value.KindList {
			return value.NewList(append(append([]value.Value{}, x.List()...), y.List()...)...)
		}
	case ast.BinMul:
		if x.Kind() == value.KindStr {
			n := int(toInt(y))
			s := ""
			for i := 0; i < n; i++ {
				s += x.Str()
			}
			return value.Str(s)
		}
	}
	ev.sess.Report(diagnostic.Diagnostic{
		Kind: diagnostic.KindInvalidUnionOperand, Severity: diagnostic.SevError,
		Message: fmt.Sprintf("unsupported operand types for binary operator: %s and %s", x.Kind(), y.Kind()),
		Primary: span,
	})
	return value.Undefined()
}

func toFloat(v value.Value) float64 {
	switch v.Kind() {
	case value.KindFloat:
		return v.Float()
	case value.KindInt:
		return float64(v.Int())
	case value.KindBool:
		if v.Bool() {
			return 1
		}
		return 0
	}
	return 0
}

func toInt(v value.Value) int64 {
	switch v.Kind() {
	case value.KindInt:
		return v.Int()
	case value.KindBool:
		if v.Bool() {
			return 1
		}
		return 0
	}
	return 0
}

func (ev *Evaluator) checkedFloatDiv(x, y float64, span diagnostic.Span) value.Value {
	if y == 0 {
		ev.sess.Report(diagnostic.Diagnostic{Kind: diagnostic.KindDivideByZero, Severity: diagnostic.SevError, Message: "division by zero", Primary: span})
		return value.Undefined()
	}
	return value.Float(x / y)
}

// rangedInt applies §4.6's range check: in debug_mode, every int must fit
// in i32 (strict_range_check on) or i64 (off); on overflow set err_type and
// fail with an IntOverflow diagnostic.
func (ev *Evaluator) rangedInt(i int64, span diagnostic.Span) value.Value {
	ev.checkRange(i, span)
	return value.Int(i)
}

func (ev *Evaluator) checkRange(i int64, span diagnostic.Span) {
	if !ev.ctx.Cfg.DebugMode {
		return
	}
	if ev.ctx.Cfg.StrictRangeCheck {
		if i > math.MaxInt32 || i < math.MinInt32 {
			ev.ctx.ErrType = "IntOverflow"
			ev.sess.Report(diagnostic.Diagnostic{
				Kind: diagnostic.KindIntOverflow, Severity: diagnostic.SevError,
				Message: fmt.Sprintf("integer %d overflows i32 range", i), Primary: span,
			})
		}
		return
	}
	// i64 range is always satisfied by Go's int64, so there is nothing
	// further to check in the non-strict branch.
}
