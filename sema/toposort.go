package sema

import "github.com/kcl-lang/kclcore/ast"

// topoSortSchemas orders schema statements so a base schema is always
// visited before anything that inherits from it, using the same
// three-color DFS schema/tsort.go used to order CREATE TABLE statements
// by foreign-key dependency — adapted here from DDL dependency order to
// schema inheritance order, since resolveSchemaBodies otherwise copies an
// empty Attrs map when a child schema is declared before its base in
// source order. Schemas outside this file's own set (no such base
// declared here) are left for resolveTypeExpr to resolve as a plain name
// reference; a true cycle collapses to declaration order rather than
// being reported here, since RedeclaredName-style cycle diagnostics are
// the resolver's job, not the sort's.
func topoSortSchemas(stmts []*ast.SchemaStmt) []*ast.SchemaStmt {
	byName := make(map[string]*ast.SchemaStmt, len(stmts))
	for _, s := range stmts {
		byName[s.Name] = s
	}

	var sorted []*ast.SchemaStmt
	visited := make(map[string]bool)
	visiting := make(map[string]bool)

	var visit func(name string) bool
	visit = func(name string) bool {
		if visiting[name] {
			return false
		}
		if visited[name] {
			return true
		}
		s, ok := byName[name]
		if !ok {
			return true
		}
		visiting[name] = true
		if s.Base_ != "" {
			if !visit(s.Base_) {
				return false
			}
		}
		visiting[name] = false
		visited[name] = true
		sorted = append(sorted, s)
		return true
	}

	for _, s := range stmts {
		if !visited[s.Name] {
			if !visit(s.Name) {
				// circular base chain: fall back to declaration order for
				// the statements not yet placed.
				return stmts
			}
		}
	}
	return sorted
}
