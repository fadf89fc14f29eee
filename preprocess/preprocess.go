// Package preprocess implements the two AST-rewrite passes that run
// between parsing and resolution (§4.3): nested-attribute config
// flattening, and top-level same-name statement merging for the Main
// package. Both passes mutate (and return) the Module in place, the same
// normalize-before-diff idiom the teacher's own schema/normalize.go follows
// ("Normalize implicit things in input first, and then compare").
package preprocess

import "github.com/kcl-lang/kclcore/ast"

// Run applies both passes to m and returns it.
func Run(m *ast.Module) *ast.Module {
	FlattenNestedAttrs(m)
	MergeTopLevel(m)
	return m
}

// FlattenNestedAttrs rewrites every ConfigExpr/ConfigIfEntry in the module
// so a dotted-identifier key `a.b.c: v` becomes the equivalent nest
// `{a: {b: {c: v}}}`, with every intermediate level using union (`:`)
// regardless of the original operator; only the innermost entry keeps it.
func FlattenNestedAttrs(m *ast.Module) {
	for i := range m.Body {
		walkStmt(m.Body[i], flattenConfigEntries)
	}
}

func flattenConfigEntries(entries []ast.ConfigEntry) []ast.ConfigEntry {
	out := make([]ast.ConfigEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, flattenOneEntry(e))
	}
	return out
}

func flattenOneEntry(e ast.ConfigEntry) ast.ConfigEntry {
	ident, ok := e.Key.(*ast.Identifier)
	if !ok || len(ident.Names) < 2 {
		return e
	}
	// Build the nest from the innermost name outward.
	innermost := ast.ConfigEntry{
		Key:         &ast.Identifier{Base: ident.Base, Names: ident.Names[len(ident.Names)-1:]},
		Value:       e.Value,
		Op:          e.Op,
		InsertIndex: e.InsertIndex,
		Span:        e.Span,
	}
	cur := innermost
	for i := len(ident.Names) - 2; i >= 0; i-- {
		wrapped := &ast.ConfigExpr{Base: ast.Base{Span: e.Span}, Entries: []ast.ConfigEntry{cur}}
		cur = ast.ConfigEntry{
			Key:   &ast.Identifier{Base: ident.Base, Names: ident.Names[i : i+1]},
			Value: wrapped,
			Op:    ast.OpUnion,
			Span:  e.Span,
		}
	}
	return cur
}
