package services

import (
	"context"
	"strings"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
	"github.com/custodia-labs/sercha-federation/internal/core/ports/driven"
)

// directoryStrategy searches people across employee profiles and bare accounts.
// Results are keyed by user ID so a person appears once.
type directoryStrategy struct {
	store   driven.DirectoryStore
	ranking domain.RankingConfig
}

func (s *directoryStrategy) Source() domain.Source { return domain.SourceEmployees }

func (s *directoryStrategy) UsesEmbedding() bool { return false }

func (s *directoryStrategy) Run(ctx context.Context, query string, _ []float32, params domain.FederatedSearchParams) ([]domain.SearchResult, error) {
	filter := params.Filter()
	limit := s.ranking.PerSourceLimit(params.Limit, params.Offset)

	profiles, err := s.store.FindProfilesByKeyword(ctx, query, filter, limit)
	if err != nil {
		return nil, sourceError(s.Source(), "profiles", err)
	}
	accounts, err := s.store.FindAccountsByKeyword(ctx, query, filter, limit)
	if err != nil {
		return nil, sourceError(s.Source(), "accounts", err)
	}

	people := make(map[string]bool, len(profiles))
	results := make([]domain.SearchResult, 0, len(profiles)+len(accounts))

	for _, p := range profiles {
		personID := firstNonEmpty(p.UserID, p.ID)
		if people[personID] {
			continue
		}
		people[personID] = true

		results = append(results, domain.SearchResult{
			ID:           domain.NewResultID(domain.SourceEmployees, personID),
			Source:       domain.SourceEmployees,
			SourceID:     personID,
			Title:        p.FullName,
			Excerpt:      joinNonEmpty(" · ", p.JobTitle, p.Department),
			Content:      preview(p.Bio, previewRunes),
			ContentType:  "person",
			URL:          "/people/" + personID,
			ThumbnailURL: p.AvatarURL,
			Category:     p.Department,
			Score:        s.ranking.EmployeeProfileScore,
			Highlight:    buildHighlight(query, p.FullName, p.Bio),
			Metadata: domain.EmployeeMetadata{
				Department: p.Department,
				JobTitle:   p.JobTitle,
				Email:      p.Email,
				HasProfile: true,
			},
			CreatedAt: timePtr(p.CreatedAt),
			UpdatedAt: timePtr(p.UpdatedAt),
		})
	}

	for _, a := range accounts {
		// a profile already represents this person
		if people[a.ID] {
			continue
		}
		people[a.ID] = true

		results = append(results, domain.SearchResult{
			ID:           domain.NewResultID(domain.SourceEmployees, a.ID),
			Source:       domain.SourceEmployees,
			SourceID:     a.ID,
			Title:        firstNonEmpty(a.Name, a.Email),
			Excerpt:      a.Email,
			ContentType:  "person",
			URL:          "/people/" + a.ID,
			ThumbnailURL: a.AvatarURL,
			Score:        s.ranking.UserAccountScore,
			Highlight:    buildHighlight(query, a.Name, ""),
			Metadata:     domain.EmployeeMetadata{Email: a.Email},
			CreatedAt:    timePtr(a.CreatedAt),
		})
	}

	return results, nil
}

func joinNonEmpty(sep string, values ...string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, sep)
}
