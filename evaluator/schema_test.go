package evaluator

import (
	"testing"

	"github.com/kcl-lang/kclcore/internal/diagnostic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalSchemaInheritanceInheritsAttrs(t *testing.T) {
	src := "schema Base:\n    kind: str = \"base\"\n\nschema Derived(Base):\n    name: str\n\nd = Derived {\n    name = \"x\"\n}\n"
	m, sess := parseModule(t, src)
	result, _ := Eval(m, Options{}, sess)
	require.Empty(t, sess.Diagnostics)
	v, ok := result.Dict().Get("d")
	require.True(t, ok)
	kind, ok := v.Dict().Get("kind")
	require.True(t, ok)
	assert.Equal(t, "base", kind.Str())
}

func TestEvalSchemaOverridesInheritedAttrDefault(t *testing.T) {
	src := "schema Base:\n    kind: str = \"base\"\n\nschema Derived(Base):\n    kind: str = \"derived\"\n\nd = Derived {}\n"
	m, sess := parseModule(t, src)
	result, _ := Eval(m, Options{}, sess)
	require.Empty(t, sess.Diagnostics)
	v, _ := result.Dict().Get("d")
	kind, _ := v.Dict().Get("kind")
	assert.Equal(t, "derived", kind.Str())
}

func TestEvalSchemaConfigKeysRecordInsertionOrder(t *testing.T) {
	// config_keys tracks every write into config.values, in order,
	// including duplicates contributed by the config-literal merge: the
	// attribute defaults are written once each (a, b), then the config
	// literal's own merge writes both keys again in its own source order
	// (b, a).
	src := "schema S:\n    a: int = 0\n    b: int = 0\n\ns = S {\n    b = 2\n    a = 1\n}\n"
	m, sess := parseModule(t, src)
	result, _ := Eval(m, Options{}, sess)
	require.Empty(t, sess.Diagnostics)
	v, _ := result.Dict().Get("s")
	assert.Equal(t, []string{"a", "b", "b", "a"}, v.ConfigKeys())
}

func TestEvalSchemaFoldedUnionRecordsConfigKeys(t *testing.T) {
	// Preprocessing folds `s = S {}` and `s: S {a = 9}` into a single
	// instantiation `s: S {a = 9}`, so config_keys holds the two default
	// writes followed by the override's write.
	src := "schema S:\n    a: int = 1\n    b: int = 2\n\ns = S {}\ns: S {\n    a = 9\n}\n"
	m, sess := parseModule(t, src)
	result, _ := Eval(m, Options{}, sess)
	require.Empty(t, sess.Diagnostics)
	v, ok := result.Dict().Get("s")
	require.True(t, ok)
	a, _ := v.Dict().Get("a")
	b, _ := v.Dict().Get("b")
	assert.Equal(t, int64(9), a.Int())
	assert.Equal(t, int64(2), b.Int())
	assert.Equal(t, []string{"a", "b", "a"}, v.ConfigKeys())
}

func TestEvalSchemaParamsBindPositionalArgs(t *testing.T) {
	src := "schema S[name: str]:\n    greeting: str = name\n\ns = S(\"bob\") {}\n"
	m, sess := parseModule(t, src)
	result, _ := Eval(m, Options{}, sess)
	require.Empty(t, sess.Diagnostics)
	v, _ := result.Dict().Get("s")
	greeting, _ := v.Dict().Get("greeting")
	assert.Equal(t, "bob", greeting.Str())
}

func TestEvalSchemaUnionConflictReported(t *testing.T) {
	src := "schema S:\n    x: int\n\ns: S {\n    x: 1\n}\ns: S {\n    x: 2\n}\n"
	m, sess := parseModule(t, src)
	Eval(m, Options{}, sess)
	require.NotEmpty(t, sess.Diagnostics)
	assert.Equal(t, diagnostic.KindMergeConflict, sess.Diagnostics[0].Kind)
}
