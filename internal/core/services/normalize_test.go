package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
)

func result(source domain.Source, id string, score float64) domain.SearchResult {
	return domain.SearchResult{
		ID:       domain.NewResultID(source, id),
		Source:   source,
		SourceID: id,
		Title:    id,
		Score:    score,
	}
}

func TestNormalize_KeepsHighestScore(t *testing.T) {
	tests := []struct {
		name  string
		input []domain.SearchResult
	}{
		{
			name:  "higher first",
			input: []domain.SearchResult{result(domain.SourceArticles, "a1", 0.9), result(domain.SourceArticles, "a1", 0.4)},
		},
		{
			name:  "higher last",
			input: []domain.SearchResult{result(domain.SourceArticles, "a1", 0.4), result(domain.SourceArticles, "a1", 0.9)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Normalize(tt.input)
			require.Len(t, out, 1)
			assert.Equal(t, 0.9, out[0].Score)
		})
	}
}

func TestNormalize_SourceIsPartOfKey(t *testing.T) {
	out := Normalize([]domain.SearchResult{
		result(domain.SourceArticles, "42", 0.8),
		result(domain.SourceKnowledgeItems, "42", 0.7),
	})
	assert.Len(t, out, 2)
}

func TestNormalize_UniqueKeys(t *testing.T) {
	var input []domain.SearchResult
	for i := 0; i < 5; i++ {
		input = append(input,
			result(domain.SourceNews, "n1", float64(i)/10),
			result(domain.SourceNews, "n2", 0.5),
			result(domain.SourceEmployees, "u1", 0.7),
		)
	}

	out := Normalize(input)
	seen := make(map[domain.DedupKey]bool)
	for _, r := range out {
		assert.False(t, seen[r.Key()], "duplicate key %v", r.Key())
		seen[r.Key()] = true
	}
	assert.Len(t, out, 3)
}

func TestNormalize_Empty(t *testing.T) {
	assert.Empty(t, Normalize(nil))
}
