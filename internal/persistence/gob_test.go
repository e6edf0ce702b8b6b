package persistence

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string
	Terms map[string]int
}

func TestSaveAndLoadGob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "snapshot.zst")
	in := sample{Name: "gen-1", Terms: map[string]int{"login": 2, "error": 2}}

	require.NoError(t, SaveGob(path, in))

	var out sample
	require.NoError(t, LoadGob(path, &out))
	assert.Equal(t, in, out)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")
}

func TestLoadGobMissingFile(t *testing.T) {
	var out sample
	err := LoadGob(filepath.Join(t.TempDir(), "missing.zst"), &out)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadGobCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.zst")
	require.NoError(t, os.WriteFile(path, []byte("not a zstd stream"), 0600))

	var out sample
	err := LoadGob(path, &out)
	require.Error(t, err)
	assert.False(t, errors.Is(err, os.ErrNotExist))
}

func TestSaveGobOverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.zst")
	require.NoError(t, SaveGob(path, sample{Name: "old"}))
	require.NoError(t, SaveGob(path, sample{Name: "new"}))

	var out sample
	require.NoError(t, LoadGob(path, &out))
	assert.Equal(t, "new", out.Name)
}
