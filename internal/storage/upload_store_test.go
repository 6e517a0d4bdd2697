package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSaveWritesUnderBaseDir(t *testing.T) {
	base := t.TempDir()
	store := NewLocalUploadStore(base, zap.NewNop())

	path, err := store.Save("abc123", "invoice.PDF", []byte("content"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "abc123.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestSaveSameHashOverwrites(t *testing.T) {
	base := t.TempDir()
	store := NewLocalUploadStore(base, zap.NewNop())

	_, err := store.Save("h", "a.txt", []byte("first"))
	require.NoError(t, err)
	path, err := store.Save("h", "b.txt", []byte("second"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestValidatePathRejectsTraversal(t *testing.T) {
	base := t.TempDir()
	store := NewLocalUploadStore(base, zap.NewNop())

	err := store.ValidatePath(filepath.Join(base, "..", "escape.txt"))
	assert.Error(t, err)

	err = store.ValidatePath("/etc/passwd")
	assert.Error(t, err)

	err = store.ValidatePath(filepath.Join(base, "ok.txt"))
	assert.NoError(t, err)
}

func TestSaveRejectsTraversalHash(t *testing.T) {
	base := t.TempDir()
	store := NewLocalUploadStore(base, zap.NewNop())

	_, err := store.Save("../escape", "a.txt", []byte("x"))
	assert.Error(t, err)
}
