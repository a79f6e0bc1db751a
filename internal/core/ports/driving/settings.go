package driving

import (
	"context"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
)

// UpdateEmbeddingRequest changes the embedding configuration.
// Nil fields keep their current value; an empty provider disables embeddings.
type UpdateEmbeddingRequest struct {
	Provider   *domain.AIProvider `json:"provider,omitempty"`
	Model      *string            `json:"model,omitempty"`
	APIKey     *string            `json:"api_key,omitempty"`
	BaseURL    *string            `json:"base_url,omitempty"`
	Dimensions *int               `json:"dimensions,omitempty"`
}

// EmbeddingStatus describes the configured and the live embedding service
type EmbeddingStatus struct {
	Provider     domain.AIProvider `json:"provider,omitempty"`
	Model        string            `json:"model,omitempty"`
	BaseURL      string            `json:"base_url,omitempty"`
	Dimensions   int               `json:"dimensions,omitempty"`
	HasAPIKey    bool              `json:"has_api_key"`
	IsConfigured bool              `json:"is_configured"`
	Available    bool              `json:"available"`
	Error        string            `json:"error,omitempty"`
}

// SettingsService manages the embedding provider at runtime (admin only)
type SettingsService interface {
	// EmbeddingStatus returns the current configuration with the API key masked
	EmbeddingStatus(ctx context.Context) (*EmbeddingStatus, error)

	// UpdateEmbedding applies the request and hot-swaps the embedding service.
	// Invalid settings return ErrInvalidProvider; an unreachable provider is
	// reported through the status and leaves semantic search disabled.
	UpdateEmbedding(ctx context.Context, req UpdateEmbeddingRequest) (*EmbeddingStatus, error)

	// TestConnection health checks the live embedding service
	TestConnection(ctx context.Context) error
}
