package driven

import (
	"context"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
)

// KnowledgeItemStore reads the generic knowledge-item repository.
// Implementations only return published items and honour space and content type filters.
type KnowledgeItemStore interface {
	// FindByKeyword matches the query against title, summary and content
	FindByKeyword(ctx context.Context, query string, filter domain.ContentFilter, limit int) ([]*domain.KnowledgeItem, error)

	// FindWithEmbedding returns up to limit items that carry a stored vector
	FindWithEmbedding(ctx context.Context, filter domain.ContentFilter, limit int) ([]*domain.KnowledgeItemWithEmbedding, error)
}
