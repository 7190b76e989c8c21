package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/solrag/internal/core/domain"
)

func testCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := NewCache(filepath.Join(t.TempDir(), "embeddings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestPutGet(t *testing.T) {
	cache := testCache(t)
	ctx := context.Background()
	vector := []float32{0.25, -1.5, 3}

	require.NoError(t, cache.Put(ctx, "test-model", "hash1", vector))

	got, err := cache.Get(ctx, "test-model", "hash1")
	require.NoError(t, err)
	assert.Equal(t, vector, got)
}

func TestGet_Miss(t *testing.T) {
	cache := testCache(t)

	_, err := cache.Get(context.Background(), "test-model", "unknown")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGet_KeyedByModel(t *testing.T) {
	cache := testCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "model-a", "hash1", []float32{1}))

	_, err := cache.Get(ctx, "model-b", "hash1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPut_Overwrites(t *testing.T) {
	cache := testCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "test-model", "hash1", []float32{1, 2}))
	require.NoError(t, cache.Put(ctx, "test-model", "hash1", []float32{3, 4, 5}))

	got, err := cache.Get(ctx, "test-model", "hash1")
	require.NoError(t, err)
	assert.Equal(t, []float32{3, 4, 5}, got)
}

func TestCache_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "embeddings.db")
	ctx := context.Background()

	cache, err := NewCache(path)
	require.NoError(t, err)
	require.NoError(t, cache.Put(ctx, "test-model", "hash1", []float32{7, 8}))
	require.NoError(t, cache.Close())

	reopened, err := NewCache(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "test-model", "hash1")
	require.NoError(t, err)
	assert.Equal(t, []float32{7, 8}, got)
}
