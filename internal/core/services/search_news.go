package services

import (
	"context"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
	"github.com/custodia-labs/sercha-federation/internal/core/ports/driven"
)

// newsStrategy searches the news feed. Keyword only; pinning overrides the score.
type newsStrategy struct {
	store   driven.NewsStore
	ranking domain.RankingConfig
}

func (s *newsStrategy) Source() domain.Source { return domain.SourceNews }

func (s *newsStrategy) UsesEmbedding() bool { return false }

func (s *newsStrategy) Run(ctx context.Context, query string, _ []float32, params domain.FederatedSearchParams) ([]domain.SearchResult, error) {
	posts, err := s.store.FindByKeyword(ctx, query, params.Filter(), s.ranking.PerSourceLimit(params.Limit, params.Offset))
	if err != nil {
		return nil, sourceError(s.Source(), "keyword", err)
	}

	results := make([]domain.SearchResult, 0, len(posts))
	for _, p := range posts {
		score := s.ranking.NewsScore
		if p.Pinned {
			score = s.ranking.NewsPinnedScore
		}

		r := domain.SearchResult{
			ID:           domain.NewResultID(domain.SourceNews, p.ID),
			Source:       domain.SourceNews,
			SourceID:     p.ID,
			Title:        p.Title,
			Excerpt:      preview(p.Content, previewRunes),
			Content:      preview(p.Content, previewRunes),
			ContentType:  "news",
			URL:          "/news/" + p.ID,
			ThumbnailURL: p.ImageURL,
			Score:        score,
			Highlight:    buildHighlight(query, p.Title, p.Content),
			Metadata:     domain.NewsMetadata{Pinned: p.Pinned, LikeCount: p.LikeCount},
			CreatedAt:    timePtr(p.PublishedAt),
			UpdatedAt:    timePtr(p.UpdatedAt),
		}
		if p.AuthorID != "" || p.AuthorName != "" {
			r.Author = &domain.Author{ID: p.AuthorID, Name: p.AuthorName, AvatarURL: p.AuthorAvatar}
		}
		results = append(results, r)
	}
	return results, nil
}
