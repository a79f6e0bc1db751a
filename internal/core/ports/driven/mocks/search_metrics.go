package mocks

import (
	"sync"
	"time"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
	"github.com/custodia-labs/sercha-federation/internal/core/ports/driven"
)

// Ensure MockSearchMetrics implements SearchMetrics
var _ driven.SearchMetrics = (*MockSearchMetrics)(nil)

// SourceObservation is one recorded ObserveSource call
type SourceObservation struct {
	Source   domain.Source
	Duration time.Duration
	Count    int
	Err      error
}

// MockSearchMetrics records observations for assertions
type MockSearchMetrics struct {
	mu        sync.Mutex
	Sources   []SourceObservation
	Searches  int
	Semantic  int
	Fallbacks int
}

// NewMockSearchMetrics creates a new MockSearchMetrics
func NewMockSearchMetrics() *MockSearchMetrics {
	return &MockSearchMetrics{}
}

func (m *MockSearchMetrics) ObserveSource(source domain.Source, duration time.Duration, count int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sources = append(m.Sources, SourceObservation{Source: source, Duration: duration, Count: count, Err: err})
}

func (m *MockSearchMetrics) ObserveSearch(duration time.Duration, total int, semantic bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Searches++
	if semantic {
		m.Semantic++
	}
}

func (m *MockSearchMetrics) ObserveEmbeddingFallback() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Fallbacks++
}

// SourceCalls returns a copy of the recorded source observations
func (m *MockSearchMetrics) SourceCalls() []SourceObservation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SourceObservation, len(m.Sources))
	copy(out, m.Sources)
	return out
}
