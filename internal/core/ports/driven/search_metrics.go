package driven

import (
	"time"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
)

// SearchMetrics records search observability signals
type SearchMetrics interface {
	// ObserveSource records one strategy invocation; err is nil on success
	ObserveSource(source domain.Source, duration time.Duration, count int, err error)

	// ObserveSearch records one whole federated search
	ObserveSearch(duration time.Duration, total int, semantic bool)

	// ObserveEmbeddingFallback records a request degraded to keyword-only
	ObserveEmbeddingFallback()
}

// NopSearchMetrics discards all observations
type NopSearchMetrics struct{}

func (NopSearchMetrics) ObserveSource(domain.Source, time.Duration, int, error) {}
func (NopSearchMetrics) ObserveSearch(time.Duration, int, bool)                 {}
func (NopSearchMetrics) ObserveEmbeddingFallback()                              {}
