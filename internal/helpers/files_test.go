package helpers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	in := map[string]int{"a": 1, "b": 2}
	require.NoError(t, SaveJSON(in, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "  \"a\": 1", "output is indented")

	var out map[string]int
	require.NoError(t, LoadJSON(path, &out))
	assert.Equal(t, in, out)

	require.Error(t, LoadJSON(filepath.Join(t.TempDir(), "missing.json"), &out))
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")

	require.NoError(t, WriteFileAtomic(path, []byte("first"), 0644))
	require.NoError(t, WriteFileAtomic(path, []byte("second"), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	assert.False(t, FileExists(path))

	require.NoError(t, os.WriteFile(path, nil, 0644))
	assert.True(t, FileExists(path))
}

func TestEnsureDir(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "a", "b", "c")
	require.NoError(t, EnsureDir(nested))
	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	require.NoError(t, EnsureDir(nested), "idempotent")
}
