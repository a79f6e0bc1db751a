package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
	"github.com/custodia-labs/sercha-federation/internal/core/ports/driven"
)

// Ensure MockDirectoryStore implements DirectoryStore
var _ driven.DirectoryStore = (*MockDirectoryStore)(nil)

// MockDirectoryStore is an in-memory DirectoryStore for testing
type MockDirectoryStore struct {
	faults
	mu       sync.RWMutex
	profiles []*domain.EmployeeProfile
	accounts []*domain.UserAccount
}

// NewMockDirectoryStore creates a new MockDirectoryStore
func NewMockDirectoryStore() *MockDirectoryStore {
	return &MockDirectoryStore{}
}

// AddProfile stores an employee profile
func (m *MockDirectoryStore) AddProfile(p *domain.EmployeeProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles = append(m.profiles, p)
}

// AddAccount stores a user account
func (m *MockDirectoryStore) AddAccount(a *domain.UserAccount) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts = append(m.accounts, a)
}

func (m *MockDirectoryStore) FindProfilesByKeyword(ctx context.Context, query string, filter domain.ContentFilter, limit int) ([]*domain.EmployeeProfile, error) {
	if err := m.enter(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*domain.EmployeeProfile
	for _, p := range m.profiles {
		if inOrg(filter.OrganizationID, p.OrganizationID) && matchesQuery(query, p.FullName, p.Email, p.JobTitle, p.Department) {
			out = append(out, p)
		}
	}
	return capLimit(out, limit), nil
}

func (m *MockDirectoryStore) FindAccountsByKeyword(ctx context.Context, query string, filter domain.ContentFilter, limit int) ([]*domain.UserAccount, error) {
	if err := m.enter(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*domain.UserAccount
	for _, a := range m.accounts {
		if inOrg(filter.OrganizationID, a.OrganizationID) && matchesQuery(query, a.Name, a.Email) {
			out = append(out, a)
		}
	}
	return capLimit(out, limit), nil
}
