package ast

import "github.com/alecthomas/repr"

// Dump renders node as a human-readable, recursively-indented Go-literal
// string, used by `kcl run --trace-ast` and by test failures to produce a
// readable structural diff instead of a raw %+v blob. Grounded on the
// pack's use of alecthomas/repr for exactly this job on parsed syntax
// trees. Accepts a *Module as well as any individual Stmt/Expr, so a
// whole parse result can be dumped in one call.
func Dump(node any) string {
	return repr.String(node, repr.Indent("  "))
}
