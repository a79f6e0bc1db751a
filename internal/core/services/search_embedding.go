package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
)

// queryEmbedding is the single per-request embedding shared by every
// semantic strategy. vec is written once before done is closed.
type queryEmbedding struct {
	done chan struct{}
	vec  []float32
}

// wait blocks until the embedding resolves or ctx ends; nil means keyword-only
func (q *queryEmbedding) wait(ctx context.Context) []float32 {
	select {
	case <-q.done:
		return q.vec
	case <-ctx.Done():
		return nil
	}
}

// vector returns the embedding if it has resolved
func (q *queryEmbedding) vector() []float32 {
	select {
	case <-q.done:
		return q.vec
	default:
		return nil
	}
}

// startEmbedding begins the query embedding call when the request asks for
// semantic search and at least one selected strategy can use it.
// Returns nil when no strategy should wait.
func (s *federatedSearchService) startEmbedding(ctx context.Context, params domain.FederatedSearchParams, strategies []sourceStrategy) *queryEmbedding {
	if !params.SemanticSearch {
		return nil
	}

	needed := false
	for _, st := range strategies {
		if st.UsesEmbedding() {
			needed = true
			break
		}
	}
	if !needed {
		return nil
	}

	svc := s.services.EmbeddingService()
	if svc == nil {
		s.logger.Debug("semantic search requested but no embedding service is configured")
		s.metrics.ObserveEmbeddingFallback()
		return nil
	}

	q := &queryEmbedding{done: make(chan struct{})}
	go func() {
		defer close(q.done)

		ectx, cancel := context.WithTimeout(ctx, s.ranking.StrategyTimeout)
		defer cancel()

		started := time.Now()
		vec, err := svc.EmbedQuery(ectx, params.Query)
		if err == nil && len(vec) == 0 {
			err = fmt.Errorf("empty embedding from %s", svc.Model())
		}
		if err != nil {
			s.metrics.ObserveEmbeddingFallback()
			s.logger.Warn("query embedding failed, continuing keyword-only",
				"model", svc.Model(),
				"duration_ms", time.Since(started).Milliseconds(),
				"error", fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err),
			)
			return
		}
		q.vec = vec
	}()
	return q
}
