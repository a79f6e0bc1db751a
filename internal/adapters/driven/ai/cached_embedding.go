package ai

import (
	"context"
	"log/slog"
	"time"

	"github.com/custodia-labs/sercha-federation/internal/core/ports/driven"
)

// Ensure CachedEmbedding implements EmbeddingService
var _ driven.EmbeddingService = (*CachedEmbedding)(nil)

// CachedEmbedding serves repeated queries from an EmbeddingCache.
// Cache failures are logged and never fail the call.
type CachedEmbedding struct {
	driven.EmbeddingService
	cache  driven.EmbeddingCache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedEmbedding wraps inner with a query cache
func NewCachedEmbedding(inner driven.EmbeddingService, cache driven.EmbeddingCache, ttl time.Duration, logger *slog.Logger) *CachedEmbedding {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedEmbedding{
		EmbeddingService: inner,
		cache:            cache,
		ttl:              ttl,
		logger:           logger,
	}
}

// EmbedQuery returns the cached vector or computes and stores it
func (c *CachedEmbedding) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	model := c.Model()

	vec, ok, err := c.cache.Get(ctx, model, query)
	if err != nil {
		c.logger.Warn("embedding cache read failed", "model", model, "error", err)
	} else if ok && len(vec) > 0 {
		return vec, nil
	}

	vec, err = c.EmbeddingService.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, model, query, vec, c.ttl); err != nil {
		c.logger.Warn("embedding cache write failed", "model", model, "error", err)
	}
	return vec, nil
}
