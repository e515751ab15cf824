package checkpoint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "test.checkpoint"))
}

func TestFileStore_LoadMissingReturnsZero(t *testing.T) {
	s := newTestStore(t)

	assert.Equal(t, int64(0), s.Load())
	assert.False(t, s.Exists())
}

func TestFileStore_SaveLoad(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Save(1000))
	assert.Equal(t, int64(1000), s.Load())

	require.NoError(t, s.Save(2500))
	assert.Equal(t, int64(2500), s.Load())

	content, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "2500", string(content))
}

func TestFileStore_SaveLeavesNoTempFiles(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Save(7))

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "test.checkpoint", entries[0].Name())
}

func TestFileStore_LoadUnparsableReturnsZero(t *testing.T) {
	s := newTestStore(t)

	for _, content := range []string{"not-a-number", "", "-5"} {
		require.NoError(t, os.WriteFile(s.Path(), []byte(content), 0o644))
		assert.Equal(t, int64(0), s.Load(), content)
	}
}

func TestFileStore_LoadToleratesWhitespace(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("42\n"), 0o644))

	assert.Equal(t, int64(42), s.Load())
}

func TestFileStore_ClearIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(10))

	require.NoError(t, s.Clear())
	assert.False(t, s.Exists())
	require.NoError(t, s.Clear())
	assert.Equal(t, int64(0), s.Load())
}

func TestFileStore_SaveToMissingDirectoryFails(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "missing", "test.checkpoint"))

	assert.Error(t, s.Save(1))
}

func TestNewFileStore_DefaultPath(t *testing.T) {
	assert.Equal(t, DefaultPath, NewFileStore("").Path())
}
