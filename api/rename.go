package api

import (
	"os"

	"github.com/kcl-lang/kclcore/ast"
	"github.com/kcl-lang/kclcore/internal/diagnostic"
	"github.com/kcl-lang/kclcore/lexer"
	"github.com/kcl-lang/kclcore/parser"
	"github.com/kcl-lang/kclcore/util"
)

// TextEdit is one replacement a rename produces: replace the text at Span
// with NewText.
type TextEdit struct {
	Span    diagnostic.Span
	NewText string
}

// RenameSymbol is `rename_symbol(pkg_root, file_paths, symbol_path,
// new_name) -> map URL -> [TextEdit]`. Renaming is scoped to plain
// variable identifiers (assignment targets and references) within the
// given files — it does not rename a schema/rule/type declaration's own
// name token, since this AST only records a whole-statement span for
// those, not a separate span for the name; see DESIGN.md.
func RenameSymbol(pkgRoot string, filePaths []string, symbolPath string, newName string) (map[string][]TextEdit, error) {
	sel, err := ParseSymbolSelector(pkgRoot, symbolPath)
	if err != nil {
		return nil, err
	}
	name := sel.Name()

	edits := map[string][]TextEdit{}
	for _, path := range filePaths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		sess := diagnostic.NewSession()
		sess.SourceMap.AddFile(path, string(raw))
		toks := lexer.Lex(path, raw, 0, sess)
		m := parser.Parse(path, toks, sess)
		if sess.HasErrors() {
			continue
		}
		spans := collectIdentifierSpans(m, name)
		if len(spans) == 0 {
			continue
		}
		edits[path] = util.TransformSlice(spans, func(sp diagnostic.Span) TextEdit {
			return TextEdit{Span: sp, NewText: newName}
		})
	}
	return edits, nil
}

// RenameSymbolOnFile is `rename_symbol_on_file(...) -> [changed_paths]`: it
// applies RenameSymbol's edits directly to disk and reports which files
// were actually rewritten.
func RenameSymbolOnFile(pkgRoot string, filePaths []string, symbolPath string, newName string) ([]string, error) {
	edits, err := RenameSymbol(pkgRoot, filePaths, symbolPath, newName)
	if err != nil {
		return nil, err
	}
	var changed []string
	for path, fileEdits := range edits {
		raw, err := os.ReadFile(path)
		if err != nil {
			return changed, err
		}
		out := applyEdits(string(raw), fileEdits)
		info, err := os.Stat(path)
		if err != nil {
			return changed, err
		}
		if err := os.WriteFile(path, []byte(out), info.Mode()); err != nil {
			return changed, err
		}
		changed = append(changed, path)
	}
	return changed, nil
}

// applyEdits rewrites text by replacing each edit's byte span, in
// descending order of offset so earlier spans stay valid as later ones
// are applied.
func applyEdits(text string, edits []TextEdit) string {
	sorted := append([]TextEdit(nil), edits...)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j].Span.Lo > sorted[i].Span.Lo {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}
	out := text
	for _, e := range sorted {
		out = out[:e.Span.Lo] + e.NewText + out[e.Span.Hi:]
	}
	return out
}
