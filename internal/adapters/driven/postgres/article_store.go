package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
	"github.com/custodia-labs/sercha-federation/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ArticleStore = (*ArticleStore)(nil)

// ArticleStore implements driven.ArticleStore using PostgreSQL
type ArticleStore struct {
	db *DB
}

// NewArticleStore creates a new ArticleStore
func NewArticleStore(db *DB) *ArticleStore {
	return &ArticleStore{db: db}
}

const articleColumns = `
	a.id, a.organization_id, a.title, COALESCE(a.slug, ''), COALESCE(a.summary, ''), COALESCE(a.body, ''),
	a.status, COALESCE(a.category_id, ''), COALESCE(c.name, ''),
	COALESCE(a.author_id, ''), COALESCE(u.name, ''), COALESCE(u.avatar_url, ''),
	COALESCE(a.thumbnail_url, ''), a.created_at, a.updated_at`

const articleJoins = `
	FROM articles a
	LEFT JOIN article_categories c ON c.id = a.category_id
	LEFT JOIN users u ON u.id = a.author_id`

// FindByKeyword matches title, summary and body of published articles
func (s *ArticleStore) FindByKeyword(ctx context.Context, query string, filter domain.ContentFilter, limit int) ([]*domain.Article, error) {
	q := `SELECT` + articleColumns + articleJoins + `
		WHERE a.status = $1
		  AND ($2 = '' OR a.organization_id = $2)
		  AND (a.title ILIKE $3 OR a.summary ILIKE $3 OR a.body ILIKE $3)
		ORDER BY a.updated_at DESC
		LIMIT $4
	`

	rows, err := s.db.QueryContext(ctx, q, domain.StatusPublished, filter.OrganizationID, likePattern(query), limit)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	var articles []*domain.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// FindWithEmbedding returns published articles carrying a stored vector
func (s *ArticleStore) FindWithEmbedding(ctx context.Context, filter domain.ContentFilter, limit int) ([]*domain.ArticleWithEmbedding, error) {
	q := `SELECT` + articleColumns + `, a.embedding` + articleJoins + `
		WHERE a.status = $1
		  AND ($2 = '' OR a.organization_id = $2)
		  AND a.embedding IS NOT NULL
		ORDER BY a.updated_at DESC
		LIMIT $3
	`

	rows, err := s.db.QueryContext(ctx, q, domain.StatusPublished, filter.OrganizationID, limit)
	if err != nil {
		return nil, fmt.Errorf("query article embeddings: %w", err)
	}
	defer rows.Close()

	var out []*domain.ArticleWithEmbedding
	for rows.Next() {
		var vec pgvector.Vector
		a, err := scanArticle(rows, &vec)
		if err != nil {
			return nil, err
		}
		out = append(out, &domain.ArticleWithEmbedding{Article: a, Embedding: vec.Slice()})
	}
	return out, rows.Err()
}

func scanArticle(rows *sql.Rows, extra ...any) (*domain.Article, error) {
	var a domain.Article
	dest := []any{
		&a.ID, &a.OrganizationID, &a.Title, &a.Slug, &a.Summary, &a.Body,
		&a.Status, &a.CategoryID, &a.CategoryName,
		&a.AuthorID, &a.AuthorName, &a.AuthorAvatar,
		&a.ThumbnailURL, &a.CreatedAt, &a.UpdatedAt,
	}
	if err := rows.Scan(append(dest, extra...)...); err != nil {
		return nil, fmt.Errorf("scan article: %w", err)
	}
	return &a, nil
}
