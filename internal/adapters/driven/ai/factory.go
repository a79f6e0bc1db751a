package ai

import (
	"fmt"
	"log/slog"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
	"github.com/custodia-labs/sercha-federation/internal/core/ports/driven"
)

// Ensure Factory implements AIServiceFactory
var _ driven.AIServiceFactory = (*Factory)(nil)

// Factory creates AI services based on configuration.
// Services are wrapped in a circuit breaker and, when a cache is given,
// a query cache in front of it.
type Factory struct {
	cache  driven.EmbeddingCache
	logger *slog.Logger
}

// NewFactory creates a new AI service factory; cache may be nil
func NewFactory(cache driven.EmbeddingCache, logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{cache: cache, logger: logger}
}

// CreateEmbeddingService creates an embedding service from settings
func (f *Factory) CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", err, settings.Provider)
	}

	var (
		svc driven.EmbeddingService
		err error
	)
	switch settings.Provider {
	case domain.AIProviderOpenAI:
		svc, err = NewOpenAIEmbedding(settings.APIKey, settings.Model, settings.BaseURL, settings.Dimensions)
	case domain.AIProviderOllama:
		svc, err = NewOllamaEmbedding(settings.BaseURL, settings.Model, settings.Dimensions)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidProvider, settings.Provider)
	}
	if err != nil {
		return nil, err
	}

	svc = NewBreakerEmbedding(svc, settings.BreakerFailures, settings.BreakerTimeout, f.logger)
	if f.cache != nil {
		svc = NewCachedEmbedding(svc, f.cache, settings.CacheTTL, f.logger)
	}
	return svc, nil
}
