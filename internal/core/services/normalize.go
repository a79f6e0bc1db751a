package services

import "github.com/custodia-labs/sercha-federation/internal/core/domain"

// Normalize collapses results sharing a (source, source_id) key, keeping the
// highest scoring one. Output order is unspecified.
func Normalize(results []domain.SearchResult) []domain.SearchResult {
	best := make(map[domain.DedupKey]int, len(results))
	out := make([]domain.SearchResult, 0, len(results))

	for _, r := range results {
		key := r.Key()
		if i, ok := best[key]; ok {
			if r.Score > out[i].Score {
				out[i] = r
			}
			continue
		}
		best[key] = len(out)
		out = append(out, r)
	}
	return out
}
