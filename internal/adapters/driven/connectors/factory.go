package connectors

import (
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/sercha-federation/internal/adapters/driven/connectors/github"
	"github.com/custodia-labs/sercha-federation/internal/core/ports/driven"
)

// Factory keeps the live searchers available for each connector type.
type Factory struct {
	mu       sync.RWMutex
	searcher map[string]driven.LiveSearcher
}

// NewFactory creates an empty live searcher factory.
func NewFactory() *Factory {
	return &Factory{
		searcher: make(map[string]driven.LiveSearcher),
	}
}

// NewDefaultFactory registers every built-in live searcher.
func NewDefaultFactory(githubConfig *github.Config) *Factory {
	f := NewFactory()
	f.Register(github.NewLiveSearcher(githubConfig))
	return f
}

// Register registers a live searcher for its connector type.
// A later registration replaces an earlier one.
func (f *Factory) Register(searcher driven.LiveSearcher) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searcher[searcher.ConnectorType()] = searcher
}

// Get returns the live searcher for a connector type.
func (f *Factory) Get(connectorType string) (driven.LiveSearcher, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	s, ok := f.searcher[connectorType]
	if !ok {
		return nil, fmt.Errorf("no live searcher for connector type %q", connectorType)
	}
	return s, nil
}

// SupportedTypes returns all registered connector types, sorted.
func (f *Factory) SupportedTypes() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	types := make([]string, 0, len(f.searcher))
	for t := range f.searcher {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Searchers returns the registered live searchers ordered by type.
func (f *Factory) Searchers() []driven.LiveSearcher {
	types := f.SupportedTypes()
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]driven.LiveSearcher, 0, len(types))
	for _, t := range types {
		out = append(out, f.searcher[t])
	}
	return out
}
