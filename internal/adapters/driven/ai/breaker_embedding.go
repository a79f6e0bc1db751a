package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
	"github.com/custodia-labs/sercha-federation/internal/core/ports/driven"
)

// Ensure BreakerEmbedding implements EmbeddingService
var _ driven.EmbeddingService = (*BreakerEmbedding)(nil)

// BreakerEmbedding stops calling a failing provider for a cool-down period.
// While open, calls fail immediately with domain.ErrEmbeddingUnavailable.
type BreakerEmbedding struct {
	driven.EmbeddingService
	cb *gobreaker.CircuitBreaker
}

// NewBreakerEmbedding wraps inner with a circuit breaker that opens after
// failures consecutive errors and half-opens after timeout
func NewBreakerEmbedding(inner driven.EmbeddingService, failures int, timeout time.Duration, logger *slog.Logger) *BreakerEmbedding {
	if failures <= 0 {
		failures = 5
	}
	if logger == nil {
		logger = slog.Default()
	}

	settings := gobreaker.Settings{
		Name:        "embedding:" + inner.Model(),
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(failures)
		},
		// A caller giving up says nothing about provider health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("embedding circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &BreakerEmbedding{
		EmbeddingService: inner,
		cb:               gobreaker.NewCircuitBreaker(settings),
	}
}

// Embed generates embeddings through the breaker
func (b *BreakerEmbedding) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.EmbeddingService.Embed(ctx, texts)
	})
	if err != nil {
		return nil, breakerError(err)
	}
	return out.([][]float32), nil
}

// EmbedQuery generates a query embedding through the breaker
func (b *BreakerEmbedding) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.EmbeddingService.EmbedQuery(ctx, query)
	})
	if err != nil {
		return nil, breakerError(err)
	}
	return out.([]float32), nil
}

// State reports the breaker state
func (b *BreakerEmbedding) State() gobreaker.State {
	return b.cb.State()
}

func breakerError(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	return err
}
