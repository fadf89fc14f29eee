package sema

import "github.com/kcl-lang/kclcore/ast"

// inferExpr infers e's type under scope, recording the result in the
// node_ty_map side table keyed by e's AstIndex (§3.7) before returning it.
func (r *Resolver) inferExpr(e ast.Expr, scope *Scope) *Type {
	ty := r.inferExprUncached(e, scope)
	if e != nil {
		r.types[e.NodeID()] = ty
	}
	return ty
}

func (r *Resolver) inferExprUncached(e ast.Expr, scope *Scope) *Type {
	switch e := e.(type) {
	case nil:
		return Any()
	case *ast.Identifier:
		return r.inferIdentifier(e, scope)
	case *ast.NumberLit:
		if e.IsFloat {
			return FloatLit(e.Float)
		}
		return IntLit(e.Int)
	case *ast.StringLit:
		return StrLit(e.Value)
	case *ast.NameConstantLit:
		switch e.Kind {
		case "True":
			return BoolLit(true)
		case "False":
			return BoolLit(false)
		case "None":
			return None()
		default:
			return Any()
		}
	case *ast.JoinedStringExpr:
		for _, p := range e.Parts {
			if p.Expr != nil {
				r.inferExpr(p.Expr, scope)
			}
		}
		return Str()
	case *ast.ListExpr:
		elem := Void()
		arms := make([]*Type, 0, len(e.Elts))
		for _, el := range e.Elts {
			arms = append(arms, r.inferExpr(el, scope))
		}
		if len(arms) > 0 {
			elem = Union(arms...)
		} else {
			elem = Any()
		}
		return List(elem)
	case *ast.ConfigExpr:
		return r.inferConfig(e, scope)
	case *ast.ConfigIfEntry:
		r.inferExpr(e.Cond, scope)
		for _, en := range e.Body {
			r.inferExpr(en.Value, scope)
		}
		for _, el := range e.Elifs {
			r.inferExpr(el.Cond, scope)
			for _, en := range el.Body {
				r.inferExpr(en.Value, scope)
			}
		}
		for _, en := range e.Else {
			r.inferExpr(en.Value, scope)
		}
		return Void()
	case *ast.SchemaExpr:
		return r.inferSchemaExpr(e, scope)
	case *ast.ListCompExpr:
		inner := EnterScope(scope)
		r.bindCompClauses(e.Gens, inner)
		elem := r.inferExpr(e.Elt, inner)
		return List(elem)
	case *ast.DictCompExpr:
		inner := EnterScope(scope)
		r.bindCompClauses(e.Gens, inner)
		k := r.inferExpr(e.Key, inner)
		v := r.inferExpr(e.Value, inner)
		return Dict(k, v)
	case *ast.LambdaExpr:
		inner := EnterScope(scope)
		params := make([]*Type, len(e.Params))
		for i, p := range e.Params {
			ty := Any()
			if p.Type != nil {
				ty = r.resolveTypeExpr(p.Type)
			}
			params[i] = ty
			inner.Declare(p.Name, ty, SymVariable, p.Span)
		}
		r.resolveBody(e.Body, inner)
		ret := Any()
		if e.Return != nil {
			ret = r.resolveTypeExpr(e.Return)
		}
		return Function(&FuncType{Params: params, Ret: ret})
	case *ast.CallExpr:
		return r.inferCall(e, scope)
	case *ast.SelectorExpr:
		r.inferExpr(e.X, scope)
		return Any()
	case *ast.SubscriptExpr:
		xTy := r.inferExpr(e.X, scope)
		if e.Index != nil {
			r.inferExpr(e.Index, scope)
		}
		r.inferExpr(e.Lo, scope)
		r.inferExpr(e.Hi, scope)
		r.inferExpr(e.Step, scope)
		if e.IsSlice {
			return xTy
		}
		switch xTy.Kind {
		case KList:
			return xTy.Elem
		case KDict:
			return xTy.Val
		default:
			return Any()
		}
	case *ast.QuantExpr:
		inner := EnterScope(scope)
		r.inferExpr(e.Iter, scope)
		for _, t := range e.Targets {
			if id, ok := t.(*ast.Identifier); ok && len(id.Names) == 1 {
				inner.Declare(id.Names[0], Any(), SymVariable, id.Span)
			}
		}
		testTy := r.inferExpr(e.Test, inner)
		if e.IfCond != nil {
			r.inferExpr(e.IfCond, inner)
		}
		switch e.Kind {
		case ast.QuantAll, ast.QuantAny:
			return Bool()
		case ast.QuantMap:
			return List(testTy)
		case ast.QuantFilter:
			return r.inferExpr(e.Iter, scope)
		}
		return Any()
	case *ast.CompareExpr:
		r.inferExpr(e.Left, scope)
		for _, c := range e.Comps {
			r.inferExpr(c, scope)
		}
		return Bool()
	case *ast.BinaryExpr:
		xTy := r.inferExpr(e.X, scope)
		yTy := r.inferExpr(e.Y, scope)
		return r.inferBinary(e.Op, xTy, yTy)
	case *ast.UnaryExpr:
		xTy := r.inferExpr(e.X, scope)
		if e.Op == ast.UnaryNot {
			return Bool()
		}
		return BaseOf(xTy)
	}
	return Any()
}

func (r *Resolver) inferBinary(op ast.BinaryOp, x, y *Type) *Type {
	switch op {
	case ast.BinOr, ast.BinAnd:
		return Union(x, y)
	default:
		bx, by := BaseOf(x), BaseOf(y)
		if bx.Kind == KFloat || by.Kind == KFloat {
			return Float()
		}
		if bx.Kind == KInt && by.Kind == KInt {
			return Int()
		}
		if bx.Kind == KStr || by.Kind == KStr {
			return Str()
		}
		return Any()
	}
}

func (r *Resolver) bindCompClauses(gens []ast.CompClause, scope *Scope) {
	for _, g := range gens {
		iterTy := r.inferExpr(g.Iter, scope)
		elemTy := Any()
		if iterTy.Kind == KList {
			elemTy = iterTy.Elem
		}
		for _, t := range g.Targets {
			if id, ok := t.(*ast.Identifier); ok && len(id.Names) == 1 {
				scope.Declare(id.Names[0], elemTy, SymVariable, id.Span)
			}
		}
		for _, ifc := range g.Ifs {
			r.inferExpr(ifc, scope)
		}
	}
}

func (r *Resolver) inferIdentifier(id *ast.Identifier, scope *Scope) *Type {
	if len(id.Names) == 0 {
		return Any()
	}
	sym, _, ok := scope.Lookup(id.Names[0])
	if !ok {
		r.sess.Report(errDiag(id.Span, "name %q is not defined", id.Names[0]))
		return Any()
	}
	return sym.Ty
}

func (r *Resolver) inferConfig(e *ast.ConfigExpr, scope *Scope) *Type {
	keyArms := []*Type{}
	valArms := []*Type{}
	for _, entry := range e.Entries {
		if entry.Key != nil {
			keyArms = append(keyArms, r.inferExpr(entry.Key, scope))
		}
		valArms = append(valArms, r.inferExpr(entry.Value, scope))
	}
	keyTy := Str()
	if len(keyArms) > 0 {
		keyTy = Union(keyArms...)
	}
	valTy := Any()
	if len(valArms) > 0 {
		valTy = Union(valArms...)
	}
	return Dict(keyTy, valTy)
}

// inferSchemaExpr resolves a schema constructor call and, per §4.4's
// dict-to-schema assignability / upgrade rule, checks the config literal's
// keys against the schema's attrs (or index signature) before returning
// the Schema type.
func (r *Resolver) inferSchemaExpr(e *ast.SchemaExpr, scope *Scope) *Type {
	for _, a := range e.Args {
		r.inferExpr(a, scope)
	}
	for _, k := range e.Kwargs {
		r.inferExpr(k.Value, scope)
	}
	ident, ok := e.Name.(*ast.Identifier)
	if !ok || len(ident.Names) == 0 {
		if e.Config != nil {
			r.inferConfig(e.Config, scope)
		}
		return Any()
	}
	st, known := r.schemas[ident.Names[len(ident.Names)-1]]
	if !known {
		r.sess.Report(errDiag(e.Span, "schema %q is not defined", ident.Names[len(ident.Names)-1]))
		if e.Config != nil {
			r.inferConfig(e.Config, scope)
		}
		return Any()
	}
	if e.Config != nil {
		r.checkConfigAgainstSchema(e.Config, st, scope)
	}
	return SchemaOf(st)
}

// checkConfigAgainstSchema implements the dict-to-schema assignability
// rule: every string-literal key present in the config must either be a
// declared attribute with an assignable value type, or be absorbed by an
// index signature; unknown keys are rejected when there is no index
// signature.
func (r *Resolver) checkConfigAgainstSchema(cfg *ast.ConfigExpr, st *SchemaType, scope *Scope) {
	for _, entry := range cfg.Entries {
		valTy := r.inferExpr(entry.Value, scope)
		name, ok := entryKeyName(entry.Key)
		if !ok {
			continue
		}
		if attr, present := st.Attrs[name]; present {
			if !IsSubtype(valTy, attr.Ty) {
				r.errType(entry.Span, "value of attribute %q has type %s, not assignable to %s", name, valTy, attr.Ty)
			}
			continue
		}
		if st.Index != nil {
			if !st.Index.AnyOther && !IsSubtype(valTy, st.Index.ValTy) {
				r.errType(entry.Span, "value for key %q has type %s, not assignable to index signature type %s", name, valTy, st.Index.ValTy)
			}
			continue
		}
		r.sess.Report(attrDiag(entry.Span, "attribute %q is not defined in schema %q", name, st.Name))
	}
}

func entryKeyName(k ast.Expr) (string, bool) {
	switch k := k.(type) {
	case *ast.Identifier:
		if len(k.Names) == 1 {
			return k.Names[0], true
		}
	case *ast.StringLit:
		return k.Value, true
	}
	return "", false
}

func (r *Resolver) inferCall(e *ast.CallExpr, scope *Scope) *Type {
	for _, a := range e.Args {
		r.inferExpr(a, scope)
	}
	for _, k := range e.Kwargs {
		r.inferExpr(k.Value, scope)
	}
	if ident, ok := e.Func.(*ast.Identifier); ok && len(ident.Names) == 1 && ident.Names[0] == "option" {
		return r.inferOptionCall(e)
	}
	fTy := r.inferExpr(e.Func, scope)
	if fTy.Kind == KFunction {
		return fTy.Func.Ret
	}
	return Any()
}

// inferOptionCall reads a `type="..."` keyword argument, when present, to
// give `option(...)`'s static type the same precision §4.6's runtime
// coercion gives its value.
func (r *Resolver) inferOptionCall(e *ast.CallExpr) *Type {
	for _, k := range e.Kwargs {
		if k.Name != "type" {
			continue
		}
		lit, ok := k.Value.(*ast.StringLit)
		if !ok {
			break
		}
		switch lit.Value {
		case "bool":
			return Bool()
		case "int":
			return Int()
		case "float":
			return Float()
		case "str":
			return Str()
		case "list":
			return List(Any())
		case "dict":
			return Dict(Str(), Any())
		}
	}
	return Any()
}
