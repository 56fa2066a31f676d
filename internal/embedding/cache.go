package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
)

// Cache stores vectors by key. A miss is reported as ok=false with a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (vec []float32, ok bool, err error)
	Set(ctx context.Context, key string, vec []float32) error
}

// DefaultMemoryCacheSize is the vector limit of a MemoryCache built with size 0.
const DefaultMemoryCacheSize = 10000

// MemoryCache is a process-local Cache holding at most size vectors. The least
// recently used vector is evicted first and entries expire after ttl.
type MemoryCache struct {
	lru *expirable.LRU[string, []float32]
}

// NewMemoryCache creates an empty MemoryCache. size <= 0 selects
// DefaultMemoryCacheSize; ttl <= 0 disables expiry.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = DefaultMemoryCacheSize
	}
	return &MemoryCache{lru: expirable.NewLRU[string, []float32](size, nil, ttl)}
}

// Get implements Cache.
func (m *MemoryCache) Get(_ context.Context, key string) ([]float32, bool, error) {
	vec, ok := m.lru.Get(key)
	return vec, ok, nil
}

// Set implements Cache.
func (m *MemoryCache) Set(_ context.Context, key string, vec []float32) error {
	m.lru.Add(key, vec)
	return nil
}

// Len returns the number of cached vectors, expired ones included until they
// are purged.
func (m *MemoryCache) Len() int {
	return m.lru.Len()
}

// RedisCache stores vectors in Redis as little-endian float32 blobs.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to the Redis instance at url (redis://...).
func NewRedisCache(url string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return NewRedisCacheFromClient(redis.NewClient(opts), ttl), nil
}

// NewRedisCacheFromClient wraps an existing client.
func NewRedisCacheFromClient(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get implements Cache.
func (r *RedisCache) Get(ctx context.Context, key string) ([]float32, bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	vec, err := decodeVector(data)
	if err != nil {
		return nil, false, err
	}
	return vec, true, nil
}

// Set implements Cache.
func (r *RedisCache) Set(ctx context.Context, key string, vec []float32) error {
	return r.client.Set(ctx, key, encodeVector(vec), r.ttl).Err()
}

// Close closes the Redis client.
func (r *RedisCache) Close() error {
	return r.client.Close()
}

func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("corrupt cached vector: %d bytes", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
	}
	return vec, nil
}

// Cached serves vectors from a Cache and embeds only the misses. Cache
// failures are logged and treated as misses.
type Cached struct {
	inner     Embedder
	cache     Cache
	namespace string
	logger    *slog.Logger
}

// NewCached decorates inner. namespace separates vectors of different
// providers and models sharing one cache.
func NewCached(inner Embedder, cache Cache, namespace string, logger *slog.Logger) *Cached {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cached{inner: inner, cache: cache, namespace: namespace, logger: logger}
}

func (c *Cached) key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "skillgap:emb:" + c.namespace + ":" + hex.EncodeToString(sum[:])
}

// Embed implements Embedder.
func (c *Cached) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, len(texts))
	missIndex := make(map[string][]int)
	var misses []string

	for i, t := range texts {
		vec, ok, err := c.cache.Get(ctx, c.key(t))
		if err != nil {
			c.logger.Warn("embedding cache read failed", "error", err)
		}
		if ok {
			out[i] = vec
			continue
		}
		if _, seen := missIndex[t]; !seen {
			misses = append(misses, t)
		}
		missIndex[t] = append(missIndex[t], i)
	}

	if len(misses) == 0 {
		return out, nil
	}

	vectors, err := c.inner.Embed(ctx, misses)
	if err != nil {
		return nil, err
	}
	if err := checkCount("cache", len(misses), len(vectors)); err != nil {
		return nil, err
	}

	for j, t := range misses {
		for _, i := range missIndex[t] {
			out[i] = vectors[j]
		}
		if err := c.cache.Set(ctx, c.key(t), vectors[j]); err != nil {
			c.logger.Warn("embedding cache write failed", "error", err)
		}
	}
	return out, nil
}

// Close closes the wrapped embedder and the cache when they hold resources.
func (c *Cached) Close() error {
	err := Close(c.inner)
	if closer, ok := c.cache.(interface{ Close() error }); ok {
		err = errors.Join(err, closer.Close())
	}
	return err
}
