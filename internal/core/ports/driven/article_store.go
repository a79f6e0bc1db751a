package driven

import (
	"context"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
)

// ArticleStore reads curated knowledge-base articles.
// Implementations only return published articles.
type ArticleStore interface {
	// FindByKeyword matches the query against title, summary and body.
	// Category and author fields are populated on every returned article.
	FindByKeyword(ctx context.Context, query string, filter domain.ContentFilter, limit int) ([]*domain.Article, error)

	// FindWithEmbedding returns up to limit articles that carry a stored vector
	FindWithEmbedding(ctx context.Context, filter domain.ContentFilter, limit int) ([]*domain.ArticleWithEmbedding, error)
}
