package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
	"github.com/custodia-labs/sercha-federation/internal/core/ports/driven"
)

// Ensure MockNewsStore implements NewsStore
var _ driven.NewsStore = (*MockNewsStore)(nil)

// MockNewsStore is an in-memory NewsStore for testing
type MockNewsStore struct {
	faults
	mu    sync.RWMutex
	posts []*domain.NewsPost
}

// NewMockNewsStore creates a new MockNewsStore
func NewMockNewsStore() *MockNewsStore {
	return &MockNewsStore{}
}

// Add stores a post
func (m *MockNewsStore) Add(post *domain.NewsPost) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts = append(m.posts, post)
}

func (m *MockNewsStore) FindByKeyword(ctx context.Context, query string, filter domain.ContentFilter, limit int) ([]*domain.NewsPost, error) {
	if err := m.enter(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*domain.NewsPost
	for _, p := range m.posts {
		if p.Status != domain.StatusPublished || !inOrg(filter.OrganizationID, p.OrganizationID) {
			continue
		}
		if matchesQuery(query, p.Title, p.Content) {
			out = append(out, p)
		}
	}
	return capLimit(out, limit), nil
}
