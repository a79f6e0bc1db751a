package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
	"github.com/custodia-labs/sercha-federation/internal/core/ports/driven"
)

// Ensure MockKnowledgeItemStore implements KnowledgeItemStore
var _ driven.KnowledgeItemStore = (*MockKnowledgeItemStore)(nil)

// MockKnowledgeItemStore is an in-memory KnowledgeItemStore for testing
type MockKnowledgeItemStore struct {
	faults
	mu         sync.RWMutex
	items      []*domain.KnowledgeItem
	embeddings map[string][]float32
}

// NewMockKnowledgeItemStore creates a new MockKnowledgeItemStore
func NewMockKnowledgeItemStore() *MockKnowledgeItemStore {
	return &MockKnowledgeItemStore{embeddings: make(map[string][]float32)}
}

// Add stores an item and, when embedding is non-nil, its vector
func (m *MockKnowledgeItemStore) Add(item *domain.KnowledgeItem, embedding []float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, item)
	if embedding != nil {
		m.embeddings[item.ID] = embedding
	}
}

func (m *MockKnowledgeItemStore) visible(item *domain.KnowledgeItem, filter domain.ContentFilter) bool {
	if item.Status != domain.StatusPublished || !inOrg(filter.OrganizationID, item.OrganizationID) {
		return false
	}
	if len(filter.KBSpaceIDs) > 0 && !containsString(filter.KBSpaceIDs, item.SpaceID) {
		return false
	}
	if len(filter.ContentTypes) > 0 && !containsString(filter.ContentTypes, item.ContentType) {
		return false
	}
	return true
}

func (m *MockKnowledgeItemStore) FindByKeyword(ctx context.Context, query string, filter domain.ContentFilter, limit int) ([]*domain.KnowledgeItem, error) {
	if err := m.enter(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*domain.KnowledgeItem
	for _, item := range m.items {
		if m.visible(item, filter) && matchesQuery(query, item.Title, item.Summary, item.Content) {
			out = append(out, item)
		}
	}
	return capLimit(out, limit), nil
}

func (m *MockKnowledgeItemStore) FindWithEmbedding(ctx context.Context, filter domain.ContentFilter, limit int) ([]*domain.KnowledgeItemWithEmbedding, error) {
	if err := m.enter(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*domain.KnowledgeItemWithEmbedding
	for _, item := range m.items {
		vec, ok := m.embeddings[item.ID]
		if ok && m.visible(item, filter) {
			out = append(out, &domain.KnowledgeItemWithEmbedding{Item: item, Embedding: vec})
		}
	}
	return capLimit(out, limit), nil
}
