package evaluator

import (
	"testing"

	"github.com/kcl-lang/kclcore/internal/diagnostic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalOptionRequiredAndMissingReportsDiagnostic(t *testing.T) {
	src := "a = option(\"replicas\", type=\"int\", required=True)\n"
	m, sess := parseModule(t, src)
	Eval(m, Options{}, sess)
	require.NotEmpty(t, sess.Diagnostics)
	assert.Equal(t, diagnostic.KindNameNotDefined, sess.Diagnostics[0].Kind)
}

func TestEvalOptionBoolCoercion(t *testing.T) {
	src := "a = option(\"debug\", type=\"bool\")\n"
	m, sess := parseModule(t, src)
	result, _ := Eval(m, Options{AppArgs: map[string]string{"debug": "true"}}, sess)
	require.Empty(t, sess.Diagnostics)
	v, _ := result.Dict().Get("a")
	assert.True(t, v.Bool())
}

func TestEvalOptionListCoercion(t *testing.T) {
	src := "a = option(\"tags\", type=\"list\")\n"
	m, sess := parseModule(t, src)
	result, _ := Eval(m, Options{AppArgs: map[string]string{"tags": "[a, b, c]"}}, sess)
	require.Empty(t, sess.Diagnostics)
	v, _ := result.Dict().Get("a")
	require.Len(t, v.List(), 3)
	assert.Equal(t, "b", v.List()[1].Str())
}
