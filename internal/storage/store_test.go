package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the BlobStore contract against any implementation.
func exerciseStore(t *testing.T, store BlobStore) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "likes")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "likes", `[{"id":"1"}]`))
	v, ok, err := store.Get(ctx, "likes")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, v)

	require.NoError(t, store.Set(ctx, "likes", "[]"))
	v, _, err = store.Get(ctx, "likes")
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	require.NoError(t, store.Set(ctx, "empty", ""))
	v, ok, err = store.Get(ctx, "empty")
	require.NoError(t, err)
	assert.True(t, ok, "empty values are still present")
	assert.Empty(t, v)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "blobs")
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	exerciseStore(t, store)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".blob-", "temp files must be cleaned up")
	}
}

func TestFileStore_OddKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key := "session/../../etc:likes"
	require.NoError(t, store.Set(ctx, key, "x"))
	v, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestWithPrefix(t *testing.T) {
	ctx := context.Background()
	base := NewMemoryStore()
	a := WithPrefix(base, "session-a")
	b := WithPrefix(base, "session-b")

	exerciseStore(t, a)

	_, ok, err := b.Get(ctx, "likes")
	require.NoError(t, err)
	assert.False(t, ok, "prefixes must not share keys")

	v, ok, err := base.Get(ctx, "session-a:likes")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)
}
