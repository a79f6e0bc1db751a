package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
	"github.com/custodia-labs/sercha-federation/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.KnowledgeItemStore = (*KnowledgeItemStore)(nil)

// KnowledgeItemStore implements driven.KnowledgeItemStore using PostgreSQL
type KnowledgeItemStore struct {
	db *DB
}

// NewKnowledgeItemStore creates a new KnowledgeItemStore
func NewKnowledgeItemStore(db *DB) *KnowledgeItemStore {
	return &KnowledgeItemStore{db: db}
}

const knowledgeItemColumns = `
	k.id, k.organization_id, COALESCE(k.space_id, ''), k.title, COALESCE(k.summary, ''), COALESCE(k.content, ''),
	COALESCE(k.content_type, ''), COALESCE(k.source_type, ''), COALESCE(k.source_url, ''),
	k.status, k.tags, k.view_count, COALESCE(k.author_id, ''), COALESCE(u.name, ''),
	k.created_at, k.updated_at`

// knowledgeItemFilter binds $1 status, $2 organization, $3 spaces, $4 content types
const knowledgeItemFilter = `
	FROM knowledge_items k
	LEFT JOIN users u ON u.id = k.author_id
	WHERE k.status = $1
	  AND ($2 = '' OR k.organization_id = $2)
	  AND ($3::text[] IS NULL OR k.space_id = ANY($3::text[]))
	  AND ($4::text[] IS NULL OR k.content_type = ANY($4::text[]))`

// FindByKeyword matches title, summary and content of published items
func (s *KnowledgeItemStore) FindByKeyword(ctx context.Context, query string, filter domain.ContentFilter, limit int) ([]*domain.KnowledgeItem, error) {
	q := `SELECT` + knowledgeItemColumns + knowledgeItemFilter + `
		  AND (k.title ILIKE $5 OR k.summary ILIKE $5 OR k.content ILIKE $5)
		ORDER BY k.updated_at DESC
		LIMIT $6
	`

	rows, err := s.db.QueryContext(ctx, q,
		domain.StatusPublished, filter.OrganizationID, textArray(filter.KBSpaceIDs), textArray(filter.ContentTypes),
		likePattern(query), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query knowledge items: %w", err)
	}
	defer rows.Close()

	var items []*domain.KnowledgeItem
	for rows.Next() {
		item, err := scanKnowledgeItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// FindWithEmbedding returns published items carrying a stored vector
func (s *KnowledgeItemStore) FindWithEmbedding(ctx context.Context, filter domain.ContentFilter, limit int) ([]*domain.KnowledgeItemWithEmbedding, error) {
	q := `SELECT` + knowledgeItemColumns + `, k.embedding` + knowledgeItemFilter + `
		  AND k.embedding IS NOT NULL
		ORDER BY k.updated_at DESC
		LIMIT $5
	`

	rows, err := s.db.QueryContext(ctx, q,
		domain.StatusPublished, filter.OrganizationID, textArray(filter.KBSpaceIDs), textArray(filter.ContentTypes),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query knowledge item embeddings: %w", err)
	}
	defer rows.Close()

	var out []*domain.KnowledgeItemWithEmbedding
	for rows.Next() {
		var vec pgvector.Vector
		item, err := scanKnowledgeItem(rows, &vec)
		if err != nil {
			return nil, err
		}
		out = append(out, &domain.KnowledgeItemWithEmbedding{Item: item, Embedding: vec.Slice()})
	}
	return out, rows.Err()
}

func scanKnowledgeItem(rows *sql.Rows, extra ...any) (*domain.KnowledgeItem, error) {
	var k domain.KnowledgeItem
	dest := []any{
		&k.ID, &k.OrganizationID, &k.SpaceID, &k.Title, &k.Summary, &k.Content,
		&k.ContentType, &k.SourceType, &k.SourceURL,
		&k.Status, pq.Array(&k.Tags), &k.ViewCount, &k.AuthorID, &k.AuthorName,
		&k.CreatedAt, &k.UpdatedAt,
	}
	if err := rows.Scan(append(dest, extra...)...); err != nil {
		return nil, fmt.Errorf("scan knowledge item: %w", err)
	}
	return &k, nil
}
