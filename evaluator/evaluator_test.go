package evaluator

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

func parseModule(t *testing.T, src string) (*ast.Module, *diagnostic.Session) {
	t.Helper()
	sess := diagnostic.NewSession()
	sess.SourceMap.AddFile("t.k", src)
	toks := lexer.Lex("t.k", []byte(src), 0, sess)
	m := parser.Parse("t.k", toks, sess)
	require.Empty(t, sess.Diagnostics)
	preprocess.Run(m)
	return m, sess
}

func TestEvalArithmetic(t *testing.T) {
	m, sess := parseModule(t, "a = 1 + 2 * 3\n")
	result, _ := Eval(m, Options{}, sess)
	require.Empty(t, sess.Diagnostics)
	v, ok := result.Dict().Get("a")
	require.True(t, ok)
	assert.EqualValues(t, 7, v.Int())
}

func TestEvalStringConcat(t *testing.T) {
	m, sess := parseModule(t, "a = \"x\" + \"y\"\n")
	result, _ := Eval(m, Options{}, sess)
	v, _ := result.Dict().Get("a")
	assert.Equal(t, "xy", v.Str())
}

func TestEvalListComprehension(t *testing.T) {
	m, sess := parseModule(t, "a = [i * 2 for i in [1, 2, 3] if i > 1]\n")
	result, _ := Eval(m, Options{}, sess)
	require.Empty(t, sess.Diagnostics)
	v, _ := result.Dict().Get("a")
	require.Len(t, v.List(), 2)
	assert.EqualValues(t, 4, v.List()[0].Int())
	assert.EqualValues(t, 6, v.List()[1].Int())
}

func TestEvalIfStmt(t *testing.T) {
	m, sess := parseModule(t, "a = 0\nif True:\n    a = 1\nelse:\n    a = 2\n")
	result, _ := Eval(m, Options{}, sess)
	require.Empty(t, sess.Diagnostics)
	v, _ := result.Dict().Get("a")
	assert.EqualValues(t, 1, v.Int())
}

func TestEvalSchemaInstantiationViaAssign(t *testing.T) {
	src := "schema Person:\n    name: str\n    age: int = 0\n\np = Person {\n    name = \"alice\"\n    age = 30\n}\n"
	m, sess := parseModule(t, src)
	result, _ := Eval(m, Options{}, sess)
	require.Empty(t, sess.Diagnostics)
	v, ok := result.Dict().Get("p")
	require.True(t, ok)
	assert.Equal(t, "Person", v.SchemaName())
	name, _ := v.Dict().Get("name")
	assert.Equal(t, "alice", name.Str())
}

func TestEvalSchemaCheckFailure(t *testing.T) {
	src := "schema Person:\n    age: int\n    check:\n        age >= 0, \"age must be non-negative\"\n\np = Person {\n    age = -1\n}\n"
	m, sess := parseModule(t, src)
	Eval(m, Options{}, sess)
	require.NotEmpty(t, sess.Diagnostics)
	assert.Equal(t, diagnostic.KindSchemaCheckFailure, sess.Diagnostics[0].Kind)
}

func TestEvalUnificationMerge(t *testing.T) {
	src := "schema S:\n    x: int\n\ns: S {\n    x = 1\n}\ns: S {\n    x = 1\n}\n"
	m, sess := parseModule(t, src)
	result, _ := Eval(m, Options{}, sess)
	require.Empty(t, sess.Diagnostics)
	v, _ := result.Dict().Get("s")
	x, _ := v.Dict().Get("x")
	assert.EqualValues(t, 1, x.Int())
}

func TestEvalOptionWithDefault(t *testing.T) {
	src := "a = option(\"replicas\", type=\"int\", default=3)\n"
	m, sess := parseModule(t, src)
	result, _ := Eval(m, Options{AppArgs: map[string]string{}}, sess)
	v, _ := result.Dict().Get("a")
	assert.EqualValues(t, 3, v.Int())
}

func TestEvalOptionFromAppArgs(t *testing.T) {
	src := "a = option(\"replicas\", type=\"int\")\n"
	m, sess := parseModule(t, src)
	result, _ := Eval(m, Options{AppArgs: map[string]string{"replicas": "5"}}, sess)
	v, _ := result.Dict().Get("a")
	assert.EqualValues(t, 5, v.Int())
}

func TestEvalBuiltinLen(t *testing.T) {
	m, sess := parseModule(t, "a = len([1, 2, 3])\n")
	result, _ := Eval(m, Options{}, sess)
	v, _ := result.Dict().Get("a")
	assert.EqualValues(t, 3, v.Int())
}

func TestEvalIntOverflowInStrictDebugMode(t *testing.T) {
	m, sess := parseModule(t, "a = 2147483647 + 1\n")
	_, ctx := Eval(m, Options{DebugMode: true, StrictRangeCheck: true}, sess)
	assert.Equal(t, "IntOverflow", ctx.ErrType)
	require.NotEmpty(t, sess.Diagnostics)
}

func TestEvalPrintFeedsLogMessage(t *testing.T) {
	var logged []string
	m, sess := parseModule(t, "a = print(\"hello\", \"world\")\n")
	Eval(m, Options{LogMessage: func(msg string) { logged = append(logged, msg) }}, sess)
	require.Empty(t, sess.Diagnostics)
	require.Len(t, logged, 1)
	assert.Equal(t, "\"hello\" \"world\"\n", logged[0])
}

func TestEvalPrintRespectsEndKwarg(t *testing.T) {
	var logged []string
	m, sess := parseModule(t, "a = print(\"x\", end=\"!\")\n")
	Eval(m, Options{LogMessage: func(msg string) { logged = append(logged, msg) }}, sess)
	require.Empty(t, sess.Diagnostics)
	require.Len(t, logged, 1)
	assert.Equal(t, "\"x\"!", logged[0])
}
