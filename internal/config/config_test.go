package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDecodesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kcl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sort_keys: true\napp_args:\n  env: prod\n"), 0o644))

	d, err := Load(path)
	require.NoError(t, err)
	assert.True(t, d.SortKeys)
	assert.Equal(t, "prod", d.AppArgs["env"])
}

func TestLoadMissingFileReturnsZeroValue(t *testing.T) {
	d, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.False(t, d.SortKeys)
	assert.Empty(t, d.AppArgs)
}

func TestMergeAppArgsOverrideWins(t *testing.T) {
	out := MergeAppArgs(map[string]string{"a": "1", "b": "2"}, map[string]string{"b": "3"})
	assert.Equal(t, map[string]string{"a": "1", "b": "3"}, out)
}
