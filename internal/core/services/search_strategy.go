package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
)

// sourceStrategy searches one kind of content repository.
// Run returns results already scored for its source; a repository failure is
// returned as an error so the orchestrator can record it.
type sourceStrategy interface {
	Source() domain.Source
	UsesEmbedding() bool
	Run(ctx context.Context, query string, embedding []float32, params domain.FederatedSearchParams) ([]domain.SearchResult, error)
}

// sourceError marks a repository failure inside a strategy
func sourceError(source domain.Source, op string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", domain.ErrSourceUnavailable, source, op, err)
}

// semanticPass scores vector-bearing candidates against the query embedding.
// Candidates below the threshold are dropped; survivors are scored with their similarity.
func semanticPass[T any](
	query []float32,
	candidates []T,
	threshold float64,
	vector func(T) []float32,
	toResult func(T) domain.SearchResult,
) []domain.SearchResult {
	if len(query) == 0 {
		return nil
	}

	var out []domain.SearchResult
	for _, c := range candidates {
		sim := CosineSimilarity(query, vector(c))
		if sim < threshold {
			continue
		}
		r := toResult(c)
		r.Score = sim
		out = append(out, r)
	}
	return out
}

// mergePasses joins keyword and semantic hits of one strategy.
// An item found by both keeps its keyword entry, boosted by a fraction of its
// similarity and capped at 1; semantic-only items keep their similarity score.
func mergePasses(keyword, semantic []domain.SearchResult, boost float64) []domain.SearchResult {
	if len(semantic) == 0 {
		return keyword
	}

	keywordIdx := make(map[string]int, len(keyword))
	for i, r := range keyword {
		keywordIdx[r.SourceID] = i
	}
	semanticIdx := make(map[string]int)

	out := keyword
	for _, s := range semantic {
		if i, ok := keywordIdx[s.SourceID]; ok {
			out[i].Score = min(1, out[i].Score+s.Score*boost)
			continue
		}
		if i, ok := semanticIdx[s.SourceID]; ok {
			if s.Score > out[i].Score {
				out[i] = s
			}
			continue
		}
		semanticIdx[s.SourceID] = len(out)
		out = append(out, s)
	}
	return out
}

// timePtr returns nil for the zero time
func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
