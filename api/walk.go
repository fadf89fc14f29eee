package api

import (
	"github.com/kcl-lang/kclcore/ast"
	"github.com/kcl-lang/kclcore/internal/diagnostic"
)

// collectIdentifierSpans walks m's statement tree (mirroring the shape of
// evaluator.execStmt/evalExpr, but visiting for spans instead of
// evaluating) and returns every single-segment Identifier's span whose
// name matches.
func collectIdentifierSpans(m *ast.Module, name string) []diagnostic.Span {
	var spans []diagnostic.Span
	visit := &identVisitor{name: name}
	for _, s := range m.Body {
		visit.stmt(s)
	}
	return visit.spans
}

type identVisitor struct {
	name  string
	spans []diagnostic.Span
}

func (v *identVisitor) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.AssignStmt:
		for _, t := range s.Targets {
			v.expr(t)
		}
		v.expr(s.Value)
	case *ast.AugAssignStmt:
		v.expr(s.Target)
		v.expr(s.Value)
	case *ast.UnificationStmt:
		v.expr(s.Target)
		v.expr(s.Value)
	case *ast.ExprStmt:
		v.expr(s.X)
	case *ast.IfStmt:
		v.expr(s.Cond)
		v.stmts(s.Body)
		for _, e := range s.Elifs {
			v.expr(e.Cond)
			v.stmts(e.Body)
		}
		v.stmts(s.Else)
	case *ast.AssertStmt:
		v.expr(s.Cond)
		v.expr(s.If)
		v.expr(s.Msg)
	case *ast.SchemaStmt:
		for _, a := range s.Attrs {
			v.expr(a.Default)
		}
		for _, c := range s.Checks {
			v.expr(c.Cond)
			v.expr(c.Msg)
		}
	case *ast.RuleStmt:
		for _, c := range s.Checks {
			v.expr(c.Cond)
			v.expr(c.Msg)
		}
	}
}

func (v *identVisitor) stmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		v.stmt(s)
	}
}

func (v *identVisitor) expr(e ast.Expr) {
	if e == nil {
		return
	}
	switch e := e.(type) {
	case *ast.Identifier:
		if len(e.Names) == 1 && e.Names[0] == v.name {
			v.spans = append(v.spans, e.NodeSpan())
		}
	case *ast.ListExpr:
		for _, el := range e.Elts {
			v.expr(el)
		}
	case *ast.ConfigExpr:
		v.configEntries(e.Entries)
	case *ast.SchemaExpr:
		v.expr(e.Name)
		for _, a := range e.Args {
			v.expr(a)
		}
		for _, kw := range e.Kwargs {
			v.expr(kw.Value)
		}
		if e.Config != nil {
			v.configEntries(e.Config.Entries)
		}
	case *ast.ListCompExpr:
		v.expr(e.Elt)
		v.compClauses(e.Gens)
	case *ast.DictCompExpr:
		v.expr(e.Key)
		v.expr(e.Value)
		v.compClauses(e.Gens)
	case *ast.LambdaExpr:
		for _, s := range e.Body {
			v.stmt(s)
		}
	case *ast.CallExpr:
		v.expr(e.Func)
		for _, a := range e.Args {
			v.expr(a)
		}
		for _, kw := range e.Kwargs {
			v.expr(kw.Value)
		}
	case *ast.SelectorExpr:
		v.expr(e.X)
	case *ast.SubscriptExpr:
		v.expr(e.X)
		v.expr(e.Index)
		v.expr(e.Lo)
		v.expr(e.Hi)
		v.expr(e.Step)
	case *ast.QuantExpr:
		v.expr(e.Iter)
		v.expr(e.Test)
		v.expr(e.IfCond)
	case *ast.CompareExpr:
		v.expr(e.Left)
		for _, c := range e.Comps {
			v.expr(c)
		}
	case *ast.BinaryExpr:
		v.expr(e.X)
		v.expr(e.Y)
	case *ast.UnaryExpr:
		v.expr(e.X)
	case *ast.JoinedStringExpr:
		for _, part := range e.Parts {
			v.expr(part.Expr)
		}
	}
}

func (v *identVisitor) configEntries(entries []ast.ConfigEntry) {
	for _, entry := range entries {
		if entry.Key == nil {
			if ifEntry, ok := entry.Value.(*ast.ConfigIfEntry); ok {
				v.configIfEntry(ifEntry)
			}
			continue
		}
		// entry.Key names an attribute, not a variable reference, so it
		// is intentionally not visited here even though it is an Expr.
		v.expr(entry.Value)
	}
}

func (v *identVisitor) configIfEntry(e *ast.ConfigIfEntry) {
	v.expr(e.Cond)
	v.configEntries(e.Body)
	for _, el := range e.Elifs {
		v.expr(el.Cond)
		v.configEntries(el.Body)
	}
	v.configEntries(e.Else)
}

func (v *identVisitor) compClauses(gens []ast.CompClause) {
	for _, g := range gens {
		v.expr(g.Iter)
		for _, ifc := range g.Ifs {
			v.expr(ifc)
		}
	}
}
