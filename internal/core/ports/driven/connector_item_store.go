package driven

import (
	"context"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
)

// ConnectorItemStore reads items previously synced from external connectors
type ConnectorItemStore interface {
	// FindByKeyword matches synced items of active connectors visible to the filter
	FindByKeyword(ctx context.Context, query string, filter domain.ContentFilter, limit int) ([]*domain.ConnectorItem, error)

	// ListActiveConnectors returns the active connectors visible to the filter
	ListActiveConnectors(ctx context.Context, filter domain.ContentFilter) ([]*domain.Connector, error)
}

// LiveSearcher queries an external system directly.
// Live search is slow and rate limited, so it only runs when explicitly enabled.
type LiveSearcher interface {
	// ConnectorType returns the connector type this searcher serves (e.g. "github")
	ConnectorType() string

	// Search returns up to limit items matching the query in the external system
	Search(ctx context.Context, connector *domain.Connector, query string, limit int) ([]*domain.ConnectorItem, error)
}
