package preprocess

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

func TestFlattenNestedAttrs(t *testing.T) {
	m := parseModule(t, "x = {\n    a.b.c = 1\n}\n")
	FlattenNestedAttrs(m)
	assign := m.Body[0].(*ast.AssignStmt)
	cfg := assign.Value.(*ast.ConfigExpr)
	require.Len(t, cfg.Entries, 1)
	a := cfg.Entries[0]
	assert.Equal(t, "a", a.Key.(*ast.Identifier).Names[0])
	assert.Equal(t, ast.OpUnion, a.Op)

	bCfg := a.Value.(*ast.ConfigExpr)
	require.Len(t, bCfg.Entries, 1)
	b := bCfg.Entries[0]
	assert.Equal(t, "b", b.Key.(*ast.Identifier).Names[0])
	assert.Equal(t, ast.OpUnion, b.Op)

	cCfg := b.Value.(*ast.ConfigExpr)
	require.Len(t, cCfg.Entries, 1)
	c := cCfg.Entries[0]
	assert.Equal(t, "c", c.Key.(*ast.Identifier).Names[0])
	assert.Equal(t, ast.OpOverride, c.Op)
	lit := c.Value.(*ast.NumberLit)
	assert.EqualValues(t, 1, lit.Int)
}

func TestFlattenLeavesPlainKeysAlone(t *testing.T) {
	m := parseModule(t, "x = {\n    a = 1\n}\n")
	FlattenNestedAttrs(m)
	cfg := m.Body[0].(*ast.AssignStmt).Value.(*ast.ConfigExpr)
	require.Len(t, cfg.Entries, 1)
	assert.Equal(t, "a", cfg.Entries[0].Key.(*ast.Identifier).Names[0])
}

func TestMergeTopLevelSameNameAssign(t *testing.T) {
	src := "schema S:\n    a: int\n    b: int\n\nx = S {\n    a = 1\n}\nx = S {\n    b = 2\n}\n"
	m := parseModule(t, src)
	MergeTopLevel(m)
	require.Len(t, m.Body, 2, "the two x = S{...} statements fold into one")
	assign, ok := m.Body[1].(*ast.AssignStmt)
	require.True(t, ok)
	sc := assign.Value.(*ast.SchemaExpr)
	require.Len(t, sc.Config.Entries, 2)
	assert.Equal(t, "a", sc.Config.Entries[0].Key.(*ast.Identifier).Names[0])
	assert.Equal(t, "b", sc.Config.Entries[1].Key.(*ast.Identifier).Names[0])
}

func TestMergeTopLevelFoldsSiblingIntoSchemaEntry(t *testing.T) {
	src := "schema Inner:\n    a: int\n    b: int\n\nschema Outer:\n    inner: Inner\n\nx = Outer {\n    inner = Inner{a = 1}\n}\nx = Outer {\n    inner: {b = 2}\n}\n"
	m := parseModule(t, src)
	MergeTopLevel(m)
	require.Len(t, m.Body, 3)
	assign := m.Body[2].(*ast.AssignStmt)
	sc := assign.Value.(*ast.SchemaExpr)
	require.Len(t, sc.Config.Entries, 1)
	inner := sc.Config.Entries[0]
	innerCfg := inner.Value.(*ast.SchemaExpr).Config
	require.Len(t, innerCfg.Entries, 2)
	assert.Equal(t, "a", innerCfg.Entries[0].Key.(*ast.Identifier).Names[0])
	assert.Equal(t, "b", innerCfg.Entries[1].Key.(*ast.Identifier).Names[0])
}

func TestMergeTopLevelSingleOccurrenceUnchanged(t *testing.T) {
	src := "schema S:\n    a: int\n\nx = S {\n    a = 1\n}\n"
	m := parseModule(t, src)
	before := len(m.Body)
	MergeTopLevel(m)
	assert.Equal(t, before, len(m.Body))
}
