package parser

import (
	"testing"

	"github.com/kcl-lang/kclcore/ast"
	"github.com/kcl-lang/kclcore/internal/diagnostic"
	"github.com/kcl-lang/kclcore/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) (*ast.Module, *diagnostic.Session) {
	t.Helper()
	sess := diagnostic.NewSession()
	sess.SourceMap.AddFile("t.k", src)
	toks := lexer.Lex("t.k", []byte(src), 0, sess)
	m := Parse("t.k", toks, sess)
	return m, sess
}

func TestParseEmptyModule(t *testing.T) {
	m, sess := parse(t, "")
	require.Empty(t, sess.Diagnostics)
	assert.Empty(t, m.Body)
}

func TestParseAssign(t *testing.T) {
	m, sess := parse(t, "a = 1\n")
	require.Empty(t, sess.Diagnostics)
	require.Len(t, m.Body, 1)
	assign, ok := m.Body[0].(*ast.AssignStmt)
	require.True(t, ok)
	lit, ok := assign.Value.(*ast.NumberLit)
	require.True(t, ok)
	assert.EqualValues(t, 1, lit.Int)
}

func TestParseSchema(t *testing.T) {
	src := "schema S:\n    x: int\n    y?: str = \"a\"\n"
	m, sess := parse(t, src)
	require.Empty(t, sess.Diagnostics)
	require.Len(t, m.Body, 1)
	s, ok := m.Body[0].(*ast.SchemaStmt)
	require.True(t, ok)
	require.Len(t, s.Attrs, 2)
	assert.Equal(t, "x", s.Attrs[0].Name)
	assert.False(t, s.Attrs[0].Optional)
	assert.Equal(t, "y", s.Attrs[1].Name)
	assert.True(t, s.Attrs[1].Optional)
}

func TestParseUnification(t *testing.T) {
	src := "schema S:\n    x: int\n\ns: S {\n    x = 1\n}\n"
	m, sess := parse(t, src)
	require.Empty(t, sess.Diagnostics)
	require.Len(t, m.Body, 2)
	u, ok := m.Body[1].(*ast.UnificationStmt)
	require.True(t, ok)
	require.Len(t, u.Value.Config.Entries, 1)
	assert.Equal(t, ast.OpOverride, u.Value.Config.Entries[0].Op)
}

func TestParseConfigOperators(t *testing.T) {
	src := "x = {\n    a: 1\n    b = 2\n    c += 3\n}\n"
	m, sess := parse(t, src)
	require.Empty(t, sess.Diagnostics)
	assign := m.Body[0].(*ast.AssignStmt)
	cfg := assign.Value.(*ast.ConfigExpr)
	require.Len(t, cfg.Entries, 3)
	assert.Equal(t, ast.OpUnion, cfg.Entries[0].Op)
	assert.Equal(t, ast.OpOverride, cfg.Entries[1].Op)
	assert.Equal(t, ast.OpInsert, cfg.Entries[2].Op)
}

func TestParseListComprehension(t *testing.T) {
	m, sess := parse(t, "x = [i for i in [1, 2, 3] if i > 1]\n")
	require.Empty(t, sess.Diagnostics)
	assign := m.Body[0].(*ast.AssignStmt)
	comp, ok := assign.Value.(*ast.ListCompExpr)
	require.True(t, ok)
	require.Len(t, comp.Gens, 1)
	require.Len(t, comp.Gens[0].Ifs, 1)
}

func TestParseLambda(t *testing.T) {
	m, sess := parse(t, "f = lambda x: int, y: int -> int {\n    x + y\n}\n")
	require.Empty(t, sess.Diagnostics)
	assign := m.Body[0].(*ast.AssignStmt)
	lam, ok := assign.Value.(*ast.LambdaExpr)
	require.True(t, ok)
	assert.Len(t, lam.Params, 2)
	assert.NotNil(t, lam.Return)
}

func TestParseQuant(t *testing.T) {
	m, sess := parse(t, "x = all i in [1, 2, 3] { i > 0 }\n")
	require.Empty(t, sess.Diagnostics)
	assign := m.Body[0].(*ast.AssignStmt)
	q, ok := assign.Value.(*ast.QuantExpr)
	require.True(t, ok)
	assert.Equal(t, ast.QuantAll, q.Kind)
}

func TestParseOperatorPrecedence(t *testing.T) {
	m, sess := parse(t, "x = 1 + 2 * 3\n")
	require.Empty(t, sess.Diagnostics)
	assign := m.Body[0].(*ast.AssignStmt)
	bin, ok := assign.Value.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.BinAdd, bin.Op)
	rhs, ok := bin.Y.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.BinMul, rhs.Op)
}

func TestParsePowerRightAssoc(t *testing.T) {
	m, sess := parse(t, "x = 2 ** 3 ** 2\n")
	require.Empty(t, sess.Diagnostics)
	assign := m.Body[0].(*ast.AssignStmt)
	bin := assign.Value.(*ast.BinaryExpr)
	assert.Equal(t, ast.BinPow, bin.Op)
	_, ok := bin.Y.(*ast.BinaryExpr)
	require.True(t, ok, "2 ** 3 ** 2 should parse as 2 ** (3 ** 2)")
}

func TestParseImport(t *testing.T) {
	m, sess := parse(t, "import foo.bar as fb\n")
	require.Empty(t, sess.Diagnostics)
	imp, ok := m.Body[0].(*ast.ImportStmt)
	require.True(t, ok)
	assert.Equal(t, "foo.bar", imp.Path)
	assert.Equal(t, "fb", imp.Alias)
}

func TestParseIfStmt(t *testing.T) {
	src := "if a > 1:\n    b = 1\nelif a > 0:\n    b = 2\nelse:\n    b = 3\n"
	m, sess := parse(t, src)
	require.Empty(t, sess.Diagnostics)
	ifs, ok := m.Body[0].(*ast.IfStmt)
	require.True(t, ok)
	require.Len(t, ifs.Elifs, 1)
	require.Len(t, ifs.Else, 1)
}

func TestParseAssertStmt(t *testing.T) {
	m, sess := parse(t, "assert a > 0, \"must be positive\"\n")
	require.Empty(t, sess.Diagnostics)
	a, ok := m.Body[0].(*ast.AssertStmt)
	require.True(t, ok)
	require.NotNil(t, a.Msg)
}

func TestParseMismatchedClosingBraceRecovers(t *testing.T) {
	_, sess := parse(t, "x = (1, 2]\n")
	require.NotEmpty(t, sess.Diagnostics)
}
