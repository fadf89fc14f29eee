package preprocess

import "github.com/kcl-lang/kclcore/ast"

// entryFn rewrites one level of config entries; used by both the flatten
// and merge passes to avoid two separate tree walks.
type entryFn func([]ast.ConfigEntry) []ast.ConfigEntry

// walkStmt visits every statement reachable from s, applying fn to the
// entries of each ConfigExpr/ConfigIfEntry it finds along the way.
func walkStmt(s ast.Stmt, fn entryFn) {
	switch s := s.(type) {
	case *ast.AssignStmt:
		walkExpr(s.Value, fn)
	case *ast.AugAssignStmt:
		walkExpr(s.Value, fn)
	case *ast.UnificationStmt:
		walkExpr(s.Value, fn)
	case *ast.ExprStmt:
		walkExpr(s.X, fn)
	case *ast.IfStmt:
		walkExpr(s.Cond, fn)
		walkStmts(s.Body, fn)
		for i := range s.Elifs {
			walkExpr(s.Elifs[i].Cond, fn)
			walkStmts(s.Elifs[i].Body, fn)
		}
		walkStmts(s.Else, fn)
	case *ast.AssertStmt:
		walkExpr(s.Cond, fn)
		walkExpr(s.If, fn)
		walkExpr(s.Msg, fn)
	case *ast.SchemaStmt:
		for i := range s.Attrs {
			walkExpr(s.Attrs[i].Default, fn)
		}
		for i := range s.Checks {
			walkExpr(s.Checks[i].Cond, fn)
			walkExpr(s.Checks[i].Msg, fn)
		}
	case *ast.RuleStmt:
		for i := range s.Checks {
			walkExpr(s.Checks[i].Cond, fn)
			walkExpr(s.Checks[i].Msg, fn)
		}
	}
}

func walkStmts(stmts []ast.Stmt, fn entryFn) {
	for _, s := range stmts {
		walkStmt(s, fn)
	}
}

// walkExpr visits every expression reachable from e, rewriting any
// ConfigExpr/ConfigIfEntry entries found in place via fn.
func walkExpr(e ast.Expr, fn entryFn) {
	switch e := e.(type) {
	case nil:
		return
	case *ast.ConfigExpr:
		e.Entries = fn(e.Entries)
		for i := range e.Entries {
			walkExpr(e.Entries[i].Value, fn)
		}
	case *ast.ConfigIfEntry:
		walkExpr(e.Cond, fn)
		e.Body = fn(e.Body)
		for i := range e.Body {
			walkExpr(e.Body[i].Value, fn)
		}
		for i := range e.Elifs {
			walkExpr(e.Elifs[i].Cond, fn)
			e.Elifs[i].Body = fn(e.Elifs[i].Body)
			for j := range e.Elifs[i].Body {
				walkExpr(e.Elifs[i].Body[j].Value, fn)
			}
		}
		e.Else = fn(e.Else)
		for i := range e.Else {
			walkExpr(e.Else[i].Value, fn)
		}
	case *ast.ListExpr:
		for _, elt := range e.Elts {
			walkExpr(elt, fn)
		}
	case *ast.SchemaExpr:
		for _, a := range e.Args {
			walkExpr(a, fn)
		}
		for i := range e.Kwargs {
			walkExpr(e.Kwargs[i].Value, fn)
		}
		if e.Config != nil {
			walkExpr(e.Config, fn)
		}
	case *ast.ListCompExpr:
		walkExpr(e.Elt, fn)
		walkCompClauses(e.Gens, fn)
	case *ast.DictCompExpr:
		walkExpr(e.Key, fn)
		walkExpr(e.Value, fn)
		walkCompClauses(e.Gens, fn)
	case *ast.LambdaExpr:
		walkStmts(e.Body, fn)
	case *ast.CallExpr:
		walkExpr(e.Func, fn)
		for _, a := range e.Args {
			walkExpr(a, fn)
		}
		for i := range e.Kwargs {
			walkExpr(e.Kwargs[i].Value, fn)
		}
	case *ast.SelectorExpr:
		walkExpr(e.X, fn)
	case *ast.SubscriptExpr:
		walkExpr(e.X, fn)
		walkExpr(e.Index, fn)
		walkExpr(e.Lo, fn)
		walkExpr(e.Hi, fn)
		walkExpr(e.Step, fn)
	case *ast.QuantExpr:
		walkExpr(e.Iter, fn)
		walkExpr(e.Test, fn)
		walkExpr(e.IfCond, fn)
	case *ast.CompareExpr:
		walkExpr(e.Left, fn)
		for _, c := range e.Comps {
			walkExpr(c, fn)
		}
	case *ast.BinaryExpr:
		walkExpr(e.X, fn)
		walkExpr(e.Y, fn)
	case *ast.UnaryExpr:
		walkExpr(e.X, fn)
	case *ast.JoinedStringExpr:
		for i := range e.Parts {
			walkExpr(e.Parts[i].Expr, fn)
		}
	}
}

func walkCompClauses(gens []ast.CompClause, fn entryFn) {
	for i := range gens {
		walkExpr(gens[i].Iter, fn)
		for _, ifc := range gens[i].Ifs {
			walkExpr(ifc, fn)
		}
	}
}
