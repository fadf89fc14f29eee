package sema

import (
	"testing"

	"github.com/kcl-lang/kclcore/ast"
	"github.com/kcl-lang/kclcore/internal/diagnostic"
	"github.com/kcl-lang/kclcore/lexer"
	"github.com/kcl-lang/kclcore/parser"
	"github.com/kcl-lang/kclcore/preprocess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveSrc(t *testing.T, src string) (*ProgramScope, map[ast.AstIndex]*Type, *diagnostic.Session) {
	t.Helper()
	sess := diagnostic.NewSession()
	sess.SourceMap.AddFile("t.k", src)
	toks := lexer.Lex("t.k", []byte(src), 0, sess)
	m := parser.Parse("t.k", toks, sess)
	require.Empty(t, sess.Diagnostics)
	preprocess.Run(m)
	ps, tys := Resolve(m, sess)
	return ps, tys, sess
}

func TestResolveSimpleAssign(t *testing.T) {
	ps, _, sess := resolveSrc(t, "a = 1\n")
	require.Empty(t, sess.Diagnostics)
	sym, _, ok := ps.Root.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, KIntLit, sym.Ty.Kind)
}

func TestResolveNameNotDefined(t *testing.T) {
	_, _, sess := resolveSrc(t, "a = b\n")
	require.NotEmpty(t, sess.Diagnostics)
	assert.Equal(t, diagnostic.KindNameNotDefined, sess.Diagnostics[0].Kind)
}

func TestResolveSchemaAttrTypes(t *testing.T) {
	src := "schema S:\n    x: int\n    y?: str\n"
	ps, _, sess := resolveSrc(t, src)
	require.Empty(t, sess.Diagnostics)
	st, ok := ps.Schemas["S"]
	require.True(t, ok)
	assert.Equal(t, KInt, st.Attrs["x"].Ty.Kind)
	assert.False(t, st.Attrs["x"].Optional)
	assert.Equal(t, KStr, st.Attrs["y"].Ty.Kind)
	assert.True(t, st.Attrs["y"].Optional)
}

func TestResolveNamedTypeUpgrade(t *testing.T) {
	src := "schema Inner:\n    v: int\n\nschema Outer:\n    inner: Inner\n"
	ps, _, sess := resolveSrc(t, src)
	require.Empty(t, sess.Diagnostics)
	outer := ps.Schemas["Outer"]
	assert.Equal(t, KSchema, outer.Attrs["inner"].Ty.Kind)
	assert.Equal(t, "Inner", outer.Attrs["inner"].Ty.Schema.Name)
}

func TestResolveSchemaInstantiationRejectsUnknownAttr(t *testing.T) {
	src := "schema S:\n    x: int\n\ns = S {\n    y = 1\n}\n"
	_, _, sess := resolveSrc(t, src)
	require.NotEmpty(t, sess.Diagnostics)
	assert.Equal(t, diagnostic.KindAttributeNotFound, sess.Diagnostics[0].Kind)
}

func TestResolveSchemaInstantiationTypeMismatch(t *testing.T) {
	src := "schema S:\n    x: int\n\ns = S {\n    x = \"nope\"\n}\n"
	_, _, sess := resolveSrc(t, src)
	require.NotEmpty(t, sess.Diagnostics)
	assert.Equal(t, diagnostic.KindTypeError, sess.Diagnostics[0].Kind)
}

func TestResolveIndexSignatureAbsorbsUnknownKeys(t *testing.T) {
	src := "schema S:\n    [key: str]: int\n\ns = S {\n    anything = 1\n}\n"
	_, _, sess := resolveSrc(t, src)
	assert.Empty(t, sess.Diagnostics)
}

func TestResolveAssignmentRedeclarationConflict(t *testing.T) {
	src := "a: int = 1\na: str = \"x\"\n"
	_, _, sess := resolveSrc(t, src)
	require.NotEmpty(t, sess.Diagnostics)
}

func TestIsSubtypeLiteralToBase(t *testing.T) {
	assert.True(t, IsSubtype(IntLit(3), Int()))
	assert.False(t, IsSubtype(Int(), IntLit(3)))
	assert.True(t, IsSubtype(Int(), Any()))
}

func TestIsSubtypeUnion(t *testing.T) {
	u := Union(Int(), Str())
	assert.True(t, IsSubtype(IntLit(1), u))
	assert.False(t, IsSubtype(Float(), u))
}
