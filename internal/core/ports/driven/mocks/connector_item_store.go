package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
	"github.com/custodia-labs/sercha-federation/internal/core/ports/driven"
)

// Ensure mocks implement the connector ports
var (
	_ driven.ConnectorItemStore = (*MockConnectorItemStore)(nil)
	_ driven.LiveSearcher       = (*MockLiveSearcher)(nil)
)

// MockConnectorItemStore is an in-memory ConnectorItemStore for testing
type MockConnectorItemStore struct {
	faults
	mu         sync.RWMutex
	connectors map[string]*domain.Connector
	items      []*domain.ConnectorItem
}

// NewMockConnectorItemStore creates a new MockConnectorItemStore
func NewMockConnectorItemStore() *MockConnectorItemStore {
	return &MockConnectorItemStore{connectors: make(map[string]*domain.Connector)}
}

// AddConnector registers a connector
func (m *MockConnectorItemStore) AddConnector(c *domain.Connector) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectors[c.ID] = c
}

// AddItem stores a synced item; connector type and name are filled from its connector
func (m *MockConnectorItemStore) AddItem(item *domain.ConnectorItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.connectors[item.ConnectorID]; ok {
		item.ConnectorType = c.Type
		item.ConnectorName = c.Name
	}
	m.items = append(m.items, item)
}

func (m *MockConnectorItemStore) visible(c *domain.Connector, filter domain.ContentFilter) bool {
	if c == nil || !c.IsActive() || !inOrg(filter.OrganizationID, c.OrganizationID) {
		return false
	}
	return c.OwnerID == "" || filter.UserID == "" || c.OwnerID == filter.UserID
}

func (m *MockConnectorItemStore) FindByKeyword(ctx context.Context, query string, filter domain.ContentFilter, limit int) ([]*domain.ConnectorItem, error) {
	if err := m.enter(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*domain.ConnectorItem
	for _, item := range m.items {
		if item.Status != domain.StatusSynced || !m.visible(m.connectors[item.ConnectorID], filter) {
			continue
		}
		if len(filter.ContentTypes) > 0 && !containsString(filter.ContentTypes, item.ContentType) {
			continue
		}
		if matchesQuery(query, item.Title, item.Content) {
			out = append(out, item)
		}
	}
	return capLimit(out, limit), nil
}

func (m *MockConnectorItemStore) ListActiveConnectors(ctx context.Context, filter domain.ContentFilter) ([]*domain.Connector, error) {
	if err := m.enter(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*domain.Connector
	for _, c := range m.connectors {
		if m.visible(c, filter) {
			out = append(out, c)
		}
	}
	return out, nil
}

// MockLiveSearcher returns canned items for one connector type
type MockLiveSearcher struct {
	faults
	connectorType string
	mu            sync.RWMutex
	items         []*domain.ConnectorItem
}

// NewMockLiveSearcher creates a MockLiveSearcher for connectorType
func NewMockLiveSearcher(connectorType string) *MockLiveSearcher {
	return &MockLiveSearcher{connectorType: connectorType}
}

// AddItem adds an item the searcher will return when it matches the query
func (m *MockLiveSearcher) AddItem(item *domain.ConnectorItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, item)
}

func (m *MockLiveSearcher) ConnectorType() string {
	return m.connectorType
}

func (m *MockLiveSearcher) Search(ctx context.Context, connector *domain.Connector, query string, limit int) ([]*domain.ConnectorItem, error) {
	if err := m.enter(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*domain.ConnectorItem
	for _, item := range m.items {
		if item.ConnectorID == connector.ID && matchesQuery(query, item.Title, item.Content) {
			out = append(out, item)
		}
	}
	return capLimit(out, limit), nil
}
