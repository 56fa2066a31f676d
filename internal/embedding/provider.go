package embedding

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonathan/skillgap/internal/config"
)

// New builds the embedder selected by cfg.Embedding. The backend is wrapped in a Lazy
// so no model or client is constructed until the first Embed call, and in a
// Cached decorator unless caching is disabled.
func New(c *config.Config, logger *slog.Logger) (Embedder, error) {
	cfg := c.Embedding
	if logger == nil {
		logger = slog.Default()
	}

	provider := cfg.Provider
	if provider == "" {
		provider = config.ProviderGemini
	}

	var load Loader
	switch provider {
	case config.ProviderGemini:
		load = func(ctx context.Context) (Embedder, error) {
			return NewGeminiEmbedder(ctx, cfg.APIKey, cfg.Model)
		}
	case config.ProviderOpenAI:
		load = func(context.Context) (Embedder, error) {
			return NewOpenAIEmbedder(cfg.APIKey, cfg.Model, cfg.BaseURL)
		}
	case config.ProviderOllama:
		load = func(context.Context) (Embedder, error) {
			return NewOllamaEmbedder(cfg.BaseURL, cfg.Model), nil
		}
	case config.ProviderNgram:
		load = func(context.Context) (Embedder, error) {
			return NewNgramEmbedder(cfg.Dimension), nil
		}
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", provider)
	}

	var emb Embedder = NewLazy(provider+" embedding model", load)

	namespace := provider + ":" + cfg.Model
	switch cfg.Cache {
	case "", config.CacheNone:
		return emb, nil
	case config.CacheMemory:
		return NewCached(emb, NewMemoryCache(cfg.CacheSize, c.CacheTTLDuration()), namespace, logger), nil
	case config.CacheRedis:
		cache, err := NewRedisCache(cfg.RedisURL, c.CacheTTLDuration())
		if err != nil {
			return nil, err
		}
		return NewCached(emb, cache, namespace, logger), nil
	default:
		return nil, fmt.Errorf("unknown embedding cache %q", cfg.Cache)
	}
}
