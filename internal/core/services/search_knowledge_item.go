package services

import (
	"context"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
	"github.com/custodia-labs/sercha-federation/internal/core/ports/driven"
)

// knowledgeItemStrategy searches the generic knowledge store
type knowledgeItemStrategy struct {
	store   driven.KnowledgeItemStore
	ranking domain.RankingConfig
}

func (s *knowledgeItemStrategy) Source() domain.Source { return domain.SourceKnowledgeItems }

func (s *knowledgeItemStrategy) UsesEmbedding() bool { return true }

func (s *knowledgeItemStrategy) Run(ctx context.Context, query string, embedding []float32, params domain.FederatedSearchParams) ([]domain.SearchResult, error) {
	filter := params.Filter()

	items, err := s.store.FindByKeyword(ctx, query, filter, s.ranking.PerSourceLimit(params.Limit, params.Offset))
	if err != nil {
		return nil, sourceError(s.Source(), "keyword", err)
	}

	keyword := make([]domain.SearchResult, 0, len(items))
	for _, item := range items {
		r := knowledgeItemResult(item, query)
		r.Score = s.ranking.KnowledgeItemKeywordScore
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
		func(c *domain.KnowledgeItemWithEmbedding) []float32 { return c.Embedding },
		func(c *domain.KnowledgeItemWithEmbedding) domain.SearchResult {
			return knowledgeItemResult(c.Item, query)
		},
	)

	return mergePasses(keyword, semantic, s.ranking.SemanticBoost), nil
}

func knowledgeItemResult(item *domain.KnowledgeItem, query string) domain.SearchResult {
	r := domain.SearchResult{
		ID:          domain.NewResultID(domain.SourceKnowledgeItems, item.ID),
		Source:      domain.SourceKnowledgeItems,
		SourceID:    item.ID,
		Title:       item.Title,
		Excerpt:     excerpt(item.Summary, item.Content),
		Content:     preview(item.Content, previewRunes),
		ContentType: item.ContentType,
		URL:         item.SourceURL,
		Tags:        item.Tags,
		Highlight:   buildHighlight(query, item.Title, item.Content),
		Metadata: domain.KnowledgeItemMetadata{
			SourceType: item.SourceType,
			ViewCount:  item.ViewCount,
			SpaceID:    item.SpaceID,
		},
		CreatedAt: timePtr(item.CreatedAt),
		UpdatedAt: timePtr(item.UpdatedAt),
	}
	if item.AuthorID != "" || item.AuthorName != "" {
		r.Author = &domain.Author{ID: item.AuthorID, Name: item.AuthorName}
	}
	return r
}
