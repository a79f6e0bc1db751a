package driven

import (
	"context"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
)

// NewsStore reads the news/activity feed (published posts only)
type NewsStore interface {
	FindByKeyword(ctx context.Context, query string, filter domain.ContentFilter, limit int) ([]*domain.NewsPost, error)
}
