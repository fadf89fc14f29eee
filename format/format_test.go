package format

import (
	"testing"

	"github.com/kcl-lang/kclcore/ast"
	"github.com/kcl-lang/kclcore/internal/diagnostic"
	"github.com/kcl-lang/kclcore/lexer"
	"github.com/kcl-lang/kclcore/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseModule(t *testing.T, src string) *ast.Module {
	t.Helper()
	sess := diagnostic.NewSession()
	sess.SourceMap.AddFile("t.k", src)
	toks := lexer.Lex("t.k", []byte(src), 0, sess)
	m := parser.Parse("t.k", toks, sess)
	require.Empty(t, sess.Diagnostics)
	return m
}

func TestPrintSimpleAssign(t *testing.T) {
	m := parseModule(t, "a = 1\n")
	assert.Equal(t, "a = 1\n", Print(m))
}

func TestPrintIsIdempotent(t *testing.T) {
	src := "schema Person:\n    name: str\n    age: int = 0\n\np = Person {\n    name = \"alice\"\n}\n"
	once := Print(parseModule(t, src))
	twice := Print(parseModule(t, once))
	assert.Equal(t, once, twice)
}

func TestPrintIfStmt(t *testing.T) {
	src := "a = 0\nif True:\n    a = 1\nelse:\n    a = 2\n"
	out := Print(parseModule(t, src))
	assert.Equal(t, "a = 0\nif True:\n    a = 1\nelse:\n    a = 2\n", out)
}

func TestPrintListAndConfig(t *testing.T) {
	src := "a = [1, 2, 3]\nb = {\n    x: 1\n    y = 2\n}\n"
	out := Print(parseModule(t, src))
	assert.Equal(t, "a = [1, 2, 3]\nb = {x: 1, y = 2}\n", out)
}
