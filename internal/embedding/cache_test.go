package embedding

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skillgap/internal/logging"
)

type recordingEmbedder struct {
	mu      sync.Mutex
	batches [][]string
	inner   Embedder
}

func (r *recordingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	r.mu.Lock()
	r.batches = append(r.batches, append([]string(nil), texts...))
	r.mu.Unlock()
	return r.inner.Embed(ctx, texts)
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) ([]float32, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (brokenCache) Set(context.Context, string, []float32) error {
	return errors.New("connection refused")
}

func TestCached_EmbedsOnlyMisses(t *testing.T) {
	rec := &recordingEmbedder{inner: NewNgramEmbedder(64)}
	cache := NewMemoryCache(0, 0)
	c := NewCached(rec, cache, "ngram:", logging.Discard())

	first, err := c.Embed(context.Background(), []string{"python", "sql", "python"})
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, first[0], first[2])
	assert.Equal(t, [][]string{{"python", "sql"}}, rec.batches, "duplicates embedded once")
	assert.Equal(t, 2, cache.Len())

	second, err := c.Embed(context.Background(), []string{"sql", "docker", "python"})
	require.NoError(t, err)
	assert.Equal(t, first[1], second[0])
	assert.Equal(t, first[0], second[2])
	assert.Equal(t, []string{"docker"}, rec.batches[1])
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache(2, 0)

	require.NoError(t, cache.Set(ctx, "a", []float32{1}))
	require.NoError(t, cache.Set(ctx, "b", []float32{2}))
	_, ok, _ := cache.Get(ctx, "a")
	require.True(t, ok)
	require.NoError(t, cache.Set(ctx, "c", []float32{3}))

	assert.Equal(t, 2, cache.Len())
	_, ok, _ = cache.Get(ctx, "b")
	assert.False(t, ok, "least recently used entry is evicted")
	vec, ok, _ := cache.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, []float32{1}, vec)
	_, ok, _ = cache.Get(ctx, "c")
	assert.True(t, ok)
}

func TestMemoryCache_Expires(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache(10, 20*time.Millisecond)

	require.NoError(t, cache.Set(ctx, "python", []float32{1, 2}))
	_, ok, _ := cache.Get(ctx, "python")
	require.True(t, ok)

	time.Sleep(60 * time.Millisecond)
	_, ok, _ = cache.Get(ctx, "python")
	assert.False(t, ok)
}

func TestMemoryCache_DefaultSize(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache(0, 0)
	for i := 0; i < DefaultMemoryCacheSize+5; i++ {
		require.NoError(t, cache.Set(ctx, strconv.Itoa(i), []float32{float32(i)}))
	}
	assert.Equal(t, DefaultMemoryCacheSize, cache.Len())
}

func TestCached_FullHitSkipsBackend(t *testing.T) {
	rec := &recordingEmbedder{inner: NewNgramEmbedder(64)}
	c := NewCached(rec, NewMemoryCache(0, 0), "ngram:", logging.Discard())

	_, err := c.Embed(context.Background(), []string{"go"})
	require.NoError(t, err)
	_, err = c.Embed(context.Background(), []string{"go", "go"})
	require.NoError(t, err)

	assert.Len(t, rec.batches, 1)
}

func TestCached_CacheFailureFallsThrough(t *testing.T) {
	rec := &recordingEmbedder{inner: NewNgramEmbedder(64)}
	c := NewCached(rec, brokenCache{}, "ngram:", logging.Discard())

	out, err := c.Embed(context.Background(), []string{"go", "rust"})
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Len(t, rec.batches, 1)
}

func TestCached_BackendErrorPropagates(t *testing.T) {
	failing := NewLazy("broken", func(context.Context) (Embedder, error) {
		return nil, errors.New("no model")
	})
	c := NewCached(failing, NewMemoryCache(0, 0), "x", logging.Discard())

	_, err := c.Embed(context.Background(), []string{"go"})
	var loadErr *LoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestCached_NamespaceSeparatesKeys(t *testing.T) {
	a := NewCached(NewNgramEmbedder(8), NewMemoryCache(0, 0), "gemini:m1", nil)
	b := NewCached(NewNgramEmbedder(8), NewMemoryCache(0, 0), "openai:m2", nil)
	assert.NotEqual(t, a.key("python"), b.key("python"))
	assert.Equal(t, a.key("python"), a.key("python"))
}

func TestVectorEncoding(t *testing.T) {
	vec := []float32{0, 1.5, -2.25, 3e-7}
	got, err := decodeVector(encodeVector(vec))
	require.NoError(t, err)
	assert.Equal(t, vec, got)

	_, err = decodeVector([]byte{1, 2, 3})
	assert.Error(t, err)
}
