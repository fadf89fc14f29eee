package api

import (
	"os"

	"github.com/kcl-lang/kclcore/internal/diagnostic"
	"github.com/kcl-lang/kclcore/format"
	"github.com/kcl-lang/kclcore/lexer"
	"github.com/kcl-lang/kclcore/parser"
)

// FormatCode is `format_code(src) -> (new_src, changed)`. Formatting
// parses src fresh (not via ParseFile, and deliberately skipping
// pre-processing: merging duplicate top-level statements is a semantic
// rewrite the formatter must not perform) and reprints the tree.
func FormatCode(src string) (newSrc string, changed bool, err error) {
	sess := diagnostic.NewSession()
	sess.SourceMap.AddFile("<code>", src)
	toks := lexer.Lex("<code>", []byte(src), 0, sess)
	m := parser.Parse("<code>", toks, sess)
	if sess.HasErrors() {
		return src, false, &FormatError{Diagnostics: sess.Diagnostics}
	}
	out := format.Print(m)
	return out, out != src, nil
}

// FormatError reports that source could not be parsed well enough to
// format; the diagnostics are the same ones format_code's caller would get
// from parse_file.
type FormatError struct {
	Diagnostics []diagnostic.Diagnostic
}

func (e *FormatError) Error() string {
	return "format: source has syntax errors"
}

// FormatPath reads path, formats it, and rewrites the file in place when
// the formatted text differs — the one place in this library the core
// writes to disk (§6: "nothing is written except by the driver
// (formatter)").
func FormatPath(path string) (changed bool, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	newSrc, changed, err := FormatCode(string(raw))
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}
	return true, os.WriteFile(path, []byte(newSrc), info.Mode())
}
