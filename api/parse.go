// Package api implements the library entry points §6 lists as the
// program's external interface: parsing, resolving, executing, formatting,
// listing variables, and renaming symbols. Grounded on sqldef's own
// `sqldef.go`/`cli.go` pairing (a thin library surface that the `cmd/`
// binaries call into, each entry point owning one session end to end) —
// generalized from "diff two SQL schemas" to "run one stage of the KCL
// pipeline and hand back a typed result".
package api

import (
	"os"

	"github.com/kcl-lang/kclcore/ast"
	"github.com/kcl-lang/kclcore/internal/diagnostic"
	"github.com/kcl-lang/kclcore/lexer"
	"github.com/kcl-lang/kclcore/parser"
)

// ParseResult is `parse_file(path, code?) -> {module, errors}`.
type ParseResult struct {
	Module *ast.Module
	Errors []diagnostic.Diagnostic
}

// ParseFile parses path. If code is non-empty it is used as the source
// text directly (matching an editor's unsaved-buffer use case); otherwise
// path is read from disk.
func ParseFile(path string, code string) (*ParseResult, error) {
	src := code
	if src == "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		src = string(raw)
	}
	sess := diagnostic.NewSession()
	sess.SourceMap.AddFile(path, src)
	toks := lexer.Lex(path, []byte(src), 0, sess)
	m := parser.Parse(path, toks, sess)
	return &ParseResult{Module: m, Errors: sess.Diagnostics}, nil
}
