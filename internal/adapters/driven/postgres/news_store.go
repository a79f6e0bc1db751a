package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
	"github.com/custodia-labs/sercha-federation/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.NewsStore = (*NewsStore)(nil)

// NewsStore implements driven.NewsStore using PostgreSQL
type NewsStore struct {
	db *DB
}

// NewNewsStore creates a new NewsStore
func NewNewsStore(db *DB) *NewsStore {
	return &NewsStore{db: db}
}

// FindByKeyword matches title and content of published posts, pinned first
func (s *NewsStore) FindByKeyword(ctx context.Context, query string, filter domain.ContentFilter, limit int) ([]*domain.NewsPost, error) {
	q := `
		SELECT n.id, n.organization_id, n.title, COALESCE(n.content, ''), COALESCE(n.image_url, ''),
		       n.pinned, n.like_count, n.status,
		       COALESCE(n.author_id, ''), COALESCE(u.name, ''), COALESCE(u.avatar_url, ''),
		       n.published_at, n.updated_at
		FROM news_posts n
		LEFT JOIN users u ON u.id = n.author_id
		WHERE n.status = $1
		  AND ($2 = '' OR n.organization_id = $2)
		  AND (n.title ILIKE $3 OR n.content ILIKE $3)
		ORDER BY n.pinned DESC, n.published_at DESC NULLS LAST
		LIMIT $4
	`

	rows, err := s.db.QueryContext(ctx, q, domain.StatusPublished, filter.OrganizationID, likePattern(query), limit)
	if err != nil {
		return nil, fmt.Errorf("query news posts: %w", err)
	}
	defer rows.Close()

	var posts []*domain.NewsPost
	for rows.Next() {
		var p domain.NewsPost
		var publishedAt sql.NullTime
		if err := rows.Scan(
			&p.ID, &p.OrganizationID, &p.Title, &p.Content, &p.ImageURL,
			&p.Pinned, &p.LikeCount, &p.Status,
			&p.AuthorID, &p.AuthorName, &p.AuthorAvatar,
			&publishedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan news post: %w", err)
		}
		if publishedAt.Valid {
			p.PublishedAt = publishedAt.Time
		}
		posts = append(posts, &p)
	}
	return posts, rows.Err()
}
