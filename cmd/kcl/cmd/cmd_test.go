package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execCmd(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	rootCmd.SetOut(&outBuf)
	rootCmd.SetErr(&errBuf)
	rootCmd.SetArgs(args)
	err = rootCmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

func TestParseAppArgsSplitsKeyValue(t *testing.T) {
	out := parseAppArgs([]string{"replicas=3", "name=web"})
	assert.Equal(t, "3", out["replicas"])
	assert.Equal(t, "web", out["name"])
}

func TestParseAppArgsMergesLegacyFlags(t *testing.T) {
	legacyFlags = "-D tag=v1"
	defer func() { legacyFlags = "" }()

	out := parseAppArgs([]string{"replicas=3"})
	assert.Equal(t, "3", out["replicas"])
	assert.Equal(t, "v1", out["tag"])
}

func TestRunCommandPrintsJSONResult(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t.k")
	require.NoError(t, os.WriteFile(path, []byte("a = 1\n"), 0o644))

	stdout, _, err := execCmd(t, "run", path)
	require.NoError(t, err)
	assert.Equal(t, "{\"a\": 1}\n", stdout)
}

func TestRunCommandTraceASTDumpsToStderr(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t.k")
	require.NoError(t, os.WriteFile(path, []byte("a = 1\n"), 0o644))

	_, stderr, err := execCmd(t, "run", "--trace-ast", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Module")
}

func TestRunCommandRejectsWrongArgCount(t *testing.T) {
	_, _, err := execCmd(t, "run")
	require.Error(t, err)
	assert.IsType(t, usageError{}, err)
}

func TestFmtCommandRewritesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t.k")
	require.NoError(t, os.WriteFile(path, []byte("a=1\n"), 0o644))

	_, _, err := execCmd(t, "fmt", path)
	require.NoError(t, err)

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a = 1\n", string(out))
}

func TestTestCommandIsAStub(t *testing.T) {
	_, _, err := execCmd(t, "test")
	assert.Error(t, err)
}

func TestVetCommandPrintsSchemaProjection(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t.k")
	require.NoError(t, os.WriteFile(path, []byte("schema S:\n    name: str\n    age?: int\n"), 0o644))

	stdout, _, err := execCmd(t, "vet", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "S:")
	assert.Contains(t, stdout, "\"name\"")
}

func TestModMetadataIsAStub(t *testing.T) {
	_, _, err := execCmd(t, "mod", "metadata")
	assert.Error(t, err)
}
