package driving

import (
	"context"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
)

// FederatedSearchService searches every selected source and returns one ranked list
type FederatedSearchService interface {
	// Search fans the query out to the selected sources, merges, ranks and paginates.
	// Only an invalid request is returned as an error; source and embedding
	// failures are reported through the per-source stats.
	Search(ctx context.Context, params domain.FederatedSearchParams) (*domain.FederatedSearchResult, error)
}
