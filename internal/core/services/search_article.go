package services

import (
	"context"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
	"github.com/custodia-labs/sercha-federation/internal/core/ports/driven"
)

// articleStrategy searches curated knowledge-base articles
type articleStrategy struct {
	store   driven.ArticleStore
	ranking domain.RankingConfig
}

func (s *articleStrategy) Source() domain.Source { return domain.SourceArticles }

func (s *articleStrategy) UsesEmbedding() bool { return true }

func (s *articleStrategy) Run(ctx context.Context, query string, embedding []float32, params domain.FederatedSearchParams) ([]domain.SearchResult, error) {
	filter := params.Filter()

	articles, err := s.store.FindByKeyword(ctx, query, filter, s.ranking.PerSourceLimit(params.Limit, params.Offset))
	if err != nil {
		return nil, sourceError(s.Source(), "keyword", err)
	}

	keyword := make([]domain.SearchResult, 0, len(articles))
	for _, a := range articles {
		r := articleResult(a, query)
		r.Score = s.ranking.ArticleKeywordScore
		keyword = append(keyword, r)
	}

	if embedding == nil {
		return keyword, nil
	}

	candidates, err := s.store.FindWithEmbedding(ctx, filter, s.ranking.SemanticCandidateLimit)
	if err != nil {
		return nil, sourceError(s.Source(), "semantic", err)
	}
	semantic := semanticPass(embedding, candidates, s.ranking.SemanticThreshold,
		func(c *domain.ArticleWithEmbedding) []float32 { return c.Embedding },
		func(c *domain.ArticleWithEmbedding) domain.SearchResult { return articleResult(c.Article, query) },
	)

	return mergePasses(keyword, semantic, s.ranking.SemanticBoost), nil
}

func articleResult(a *domain.Article, query string) domain.SearchResult {
	r := domain.SearchResult{
		ID:           domain.NewResultID(domain.SourceArticles, a.ID),
		Source:       domain.SourceArticles,
		SourceID:     a.ID,
		Title:        a.Title,
		Excerpt:      excerpt(a.Summary, a.Body),
		Content:      preview(a.Body, previewRunes),
		ContentType:  "article",
		URL:          "/articles/" + firstNonEmpty(a.Slug, a.ID),
		ThumbnailURL: a.ThumbnailURL,
		Category:     a.CategoryName,
		Highlight:    buildHighlight(query, a.Title, a.Body),
		Metadata: domain.ArticleMetadata{
			CategoryID: a.CategoryID,
			Slug:       a.Slug,
		},
		CreatedAt: timePtr(a.CreatedAt),
		UpdatedAt: timePtr(a.UpdatedAt),
	}
	if a.AuthorID != "" || a.AuthorName != "" {
		r.Author = &domain.Author{ID: a.AuthorID, Name: a.AuthorName, AvatarURL: a.AuthorAvatar}
	}
	return r
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
