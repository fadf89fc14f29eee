package api

import (
	"github.com/kcl-lang/kclcore/ast"
	"github.com/kcl-lang/kclcore/internal/diagnostic"
	"github.com/kcl-lang/kclcore/preprocess"
	"github.com/kcl-lang/kclcore/sema"
)

// ResolveOptions is a placeholder for resolve-time knobs; §6 leaves
// `options` unspecified beyond its existence, and nothing in the resolver
// currently takes a parameter, so this starts empty and grows as needed.
type ResolveOptions struct{}

// ResolveResult is `resolve_program(program, options) -> ProgramScope`,
// widened to also hand back the node_ty_map side table the resolver
// produces alongside it, since list_variables and a future language
// server both need per-node type information that ProgramScope alone
// does not carry.
type ResolveResult struct {
	Scope *sema.ProgramScope
	Types map[ast.AstIndex]*sema.Type
}

// ResolveProgram runs pre-processing (config-entry merge, nested-dotted-key
// flattening) followed by the resolver's name/type pass over m, per §4.4.
func ResolveProgram(m *ast.Module, _ ResolveOptions, sess *diagnostic.Session) *ResolveResult {
	preprocess.Run(m)
	scope, types := sema.Resolve(m, sess)
	return &ResolveResult{Scope: scope, Types: types}
}
