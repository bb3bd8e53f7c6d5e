package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_SaveAndRemove(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root)
	store.now = func() time.Time { return time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC) }

	path, size, err := store.Save(context.Background(), "../../report.pdf", strings.NewReader("hello"))
	require.NoError(t, err)

	assert.EqualValues(t, 5, size)
	assert.True(t, strings.HasPrefix(path, filepath.Join("attachments", "2026", "03")), path)
	assert.Equal(t, ".pdf", filepath.Ext(path))

	data, err := os.ReadFile(filepath.Join(root, path))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, store.Remove(path))
	_, err = os.Stat(filepath.Join(root, path))
	assert.True(t, os.IsNotExist(err))

	// Removing twice is not an error.
	assert.NoError(t, store.Remove(path))
}

func TestLocalStore_SaveCancelled(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := store.Save(ctx, "a.txt", strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocalStore_RemoveStaysInsideRoot(t *testing.T) {
	parent := t.TempDir()
	outside := filepath.Join(parent, "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o600))
	store := NewLocalStore(filepath.Join(parent, "root"))

	require.NoError(t, store.Remove("../keep.txt"))
	_, err := os.Stat(outside)
	assert.NoError(t, err)
}
