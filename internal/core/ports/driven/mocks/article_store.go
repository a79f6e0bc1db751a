package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
	"github.com/custodia-labs/sercha-federation/internal/core/ports/driven"
)

// Ensure MockArticleStore implements ArticleStore
var _ driven.ArticleStore = (*MockArticleStore)(nil)

// MockArticleStore is an in-memory ArticleStore for testing
type MockArticleStore struct {
	faults
	mu         sync.RWMutex
	articles   []*domain.Article
	embeddings map[string][]float32
}

// NewMockArticleStore creates a new MockArticleStore
func NewMockArticleStore() *MockArticleStore {
	return &MockArticleStore{embeddings: make(map[string][]float32)}
}

// Add stores an article and, when embedding is non-nil, its vector
func (m *MockArticleStore) Add(article *domain.Article, embedding []float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.articles = append(m.articles, article)
	if embedding != nil {
		m.embeddings[article.ID] = embedding
	}
}

func (m *MockArticleStore) FindByKeyword(ctx context.Context, query string, filter domain.ContentFilter, limit int) ([]*domain.Article, error) {
	if err := m.enter(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*domain.Article
	for _, a := range m.articles {
		if a.Status != domain.StatusPublished || !inOrg(filter.OrganizationID, a.OrganizationID) {
			continue
		}
		if matchesQuery(query, a.Title, a.Summary, a.Body) {
			out = append(out, a)
		}
	}
	return capLimit(out, limit), nil
}

func (m *MockArticleStore) FindWithEmbedding(ctx context.Context, filter domain.ContentFilter, limit int) ([]*domain.ArticleWithEmbedding, error) {
	if err := m.enter(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*domain.ArticleWithEmbedding
	for _, a := range m.articles {
		vec, ok := m.embeddings[a.ID]
		if !ok || a.Status != domain.StatusPublished || !inOrg(filter.OrganizationID, a.OrganizationID) {
			continue
		}
		out = append(out, &domain.ArticleWithEmbedding{Article: a, Embedding: vec})
	}
	return capLimit(out, limit), nil
}
