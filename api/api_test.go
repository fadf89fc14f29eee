package api

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFileFromCode(t *testing.T) {
	res, err := ParseFile("t.k", "a = 1\n")
	require.NoError(t, err)
	require.Empty(t, res.Errors)
	assert.Len(t, res.Module.Body, 1)
}

func TestExecProgramSimpleAssign(t *testing.T) {
	res, err := ExecProgram(ExecProgramArgs{Path: "t.k", Code: "a = 1\na = 2\n"})
	require.NoError(t, err)
	require.Empty(t, res.Diagnostics)
	assert.Equal(t, `{"a": 2}`, res.JSONResult)
	assert.Equal(t, "a: 2", res.YAMLResult)
}

func TestExecProgramUnionMerge(t *testing.T) {
	src := "schema S:\n    x: int\n    y: int\n\ns: S {\n    x = 1\n}\ns: S {\n    y = 2\n}\n"
	res, err := ExecProgram(ExecProgramArgs{Path: "t.k", Code: src})
	require.NoError(t, err)
	require.Empty(t, res.Diagnostics)
	assert.Equal(t, `{"s": {"x": 1, "y": 2}}`, res.JSONResult)
}

func TestExecProgramOptionCoercion(t *testing.T) {
	src := "replicas = option(\"replicas\", type=\"int\", default=1)\n"
	res, err := ExecProgram(ExecProgramArgs{Path: "t.k", Code: src, AppArgs: map[string]string{"replicas": "3"}})
	require.NoError(t, err)
	require.Empty(t, res.Diagnostics)
	assert.Equal(t, `{"replicas": 3}`, res.JSONResult)
}

func TestExecProgramStopsBeforeEvalOnResolveError(t *testing.T) {
	res, err := ExecProgram(ExecProgramArgs{Path: "t.k", Code: "a = undefined_name\n"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Diagnostics)
	assert.Empty(t, res.JSONResult)
}

func TestFormatCodeReportsChanged(t *testing.T) {
	out, changed, err := FormatCode("a=1\n")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "a = 1\n", out)
}

func TestFormatCodeNoChangeWhenAlreadyCanonical(t *testing.T) {
	_, changed, err := FormatCode("a = 1\n")
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestFormatPathRewritesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t.k")
	require.NoError(t, os.WriteFile(path, []byte("a=1\n"), 0o644))

	changed, err := FormatPath(path)
	require.NoError(t, err)
	assert.True(t, changed)

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a = 1\n", string(out))
}

func TestListVariablesResolvesDottedPath(t *testing.T) {
	src := "schema S:\n    x: int\n\ns = S {\n    x = 1\n}\n"
	res, err := ListVariables("t.k", src, []string{"s.x", "missing.path"})
	require.NoError(t, err)
	require.Empty(t, res.ParseErrors)
	require.Contains(t, res.Variables, "s.x")
	assert.Equal(t, "int", res.Variables["s.x"].Kind)
	require.Len(t, res.Unsupported, 1)
	assert.Equal(t, "missing.path", res.Unsupported[0].Spec)
}

func TestParseSymbolSelector(t *testing.T) {
	sel, err := ParseSymbolSelector("/root/proj", "pkg.sub:Ident.sub")
	require.NoError(t, err)
	assert.Equal(t, "pkg.sub", sel.PkgPath)
	assert.Equal(t, []string{"Ident", "sub"}, sel.FieldPath)
	assert.Equal(t, "sub", sel.Name())
}

func TestParseSymbolSelectorRejectsMissingColon(t *testing.T) {
	_, err := ParseSymbolSelector("/root/proj", "noColonHere")
	assert.Error(t, err)
}

func TestRenameSymbolOnFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t.k")
	require.NoError(t, os.WriteFile(path, []byte("a = 1\nb = a + 1\n"), 0o644))

	edits, err := RenameSymbol(dir, []string{path}, "pkg:a", "renamed")
	require.NoError(t, err)
	require.Contains(t, edits, path)
	assert.Len(t, edits[path], 2)

	changed, err := RenameSymbolOnFile(dir, []string{path}, "pkg:a", "renamed")
	require.NoError(t, err)
	assert.Equal(t, []string{path}, changed)

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "renamed = 1\nb = renamed + 1\n", string(out))
}
