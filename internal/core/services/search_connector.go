package services

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
	"github.com/custodia-labs/sercha-federation/internal/core/ports/driven"
)

// connectorStrategy searches items synced from external connectors.
// Live searchers are only consulted when ranking.ConnectorSearchLive is set.
type connectorStrategy struct {
	store   driven.ConnectorItemStore
	live    map[string]driven.LiveSearcher
	ranking domain.RankingConfig
	logger  *slog.Logger
}

func newConnectorStrategy(store driven.ConnectorItemStore, searchers []driven.LiveSearcher, ranking domain.RankingConfig, logger *slog.Logger) *connectorStrategy {
	live := make(map[string]driven.LiveSearcher, len(searchers))
	for _, ls := range searchers {
		live[ls.ConnectorType()] = ls
	}
	return &connectorStrategy{store: store, live: live, ranking: ranking, logger: logger}
}

func (s *connectorStrategy) Source() domain.Source { return domain.SourceConnectors }

func (s *connectorStrategy) UsesEmbedding() bool { return false }

func (s *connectorStrategy) Run(ctx context.Context, query string, _ []float32, params domain.FederatedSearchParams) ([]domain.SearchResult, error) {
	limit := s.ranking.PerSourceLimit(params.Limit, params.Offset)

	items, err := s.store.FindByKeyword(ctx, query, params.Filter(), limit)
	if err != nil {
		return nil, sourceError(s.Source(), "keyword", err)
	}

	results := make([]domain.SearchResult, 0, len(items))
	synced := make(map[string]bool, len(items))
	for _, item := range items {
		synced[item.ConnectorID+"/"+item.ExternalID] = true
		results = append(results, s.result(item, item.ID, query, false))
	}

	if !s.ranking.ConnectorSearchLive || len(s.live) == 0 {
		return results, nil
	}

	for _, item := range s.searchLive(ctx, query, params, limit) {
		if synced[item.ConnectorID+"/"+item.ExternalID] {
			continue
		}
		synced[item.ConnectorID+"/"+item.ExternalID] = true
		results = append(results, s.result(item, item.ConnectorID+":"+item.ExternalID, query, true))
	}
	return results, nil
}

// searchLive queries every active connector that has a live searcher.
// A failing connector is logged and contributes nothing.
func (s *connectorStrategy) searchLive(ctx context.Context, query string, params domain.FederatedSearchParams, limit int) []*domain.ConnectorItem {
	connectors, err := s.store.ListActiveConnectors(ctx, params.Filter())
	if err != nil {
		s.logger.Warn("live connector search skipped", "error", err)
		return nil
	}

	type target struct {
		connector *domain.Connector
		searcher  driven.LiveSearcher
	}
	var targets []target
	for _, c := range connectors {
		if ls, ok := s.live[c.Type]; ok && c.IsActive() {
			targets = append(targets, target{connector: c, searcher: ls})
		}
	}

	found := make([][]*domain.ConnectorItem, len(targets))
	var g errgroup.Group
	for i, t := range targets {
		g.Go(func() error {
			items, err := t.searcher.Search(ctx, t.connector, query, limit)
			if err != nil {
				s.logger.Warn("live connector search failed",
					"connector_id", t.connector.ID,
					"connector_type", t.connector.Type,
					"error", err,
				)
				return nil
			}
			tagged := make([]*domain.ConnectorItem, 0, len(items))
			for _, item := range items {
				cp := *item
				cp.ConnectorID = t.connector.ID
				cp.ConnectorType = t.connector.Type
				cp.ConnectorName = t.connector.Name
				tagged = append(tagged, &cp)
			}
			found[i] = tagged
			return nil
		})
	}
	_ = g.Wait()

	var out []*domain.ConnectorItem
	for _, items := range found {
		out = append(out, items...)
	}
	return out
}

func (s *connectorStrategy) result(item *domain.ConnectorItem, sourceID, query string, live bool) domain.SearchResult {
	r := domain.SearchResult{
		ID:          domain.NewResultID(domain.SourceConnectors, sourceID),
		Source:      domain.SourceConnectors,
		SourceID:    sourceID,
		Title:       item.Title,
		Excerpt:     preview(item.Content, previewRunes),
		Content:     preview(item.Content, previewRunes),
		ContentType: item.ContentType,
		URL:         item.URL,
		Category:    item.ConnectorName,
		Score:       s.ranking.ConnectorScore,
		Highlight:   buildHighlight(query, item.Title, item.Content),
		Metadata: domain.ConnectorMetadata{
			ConnectorID:   item.ConnectorID,
			ConnectorType: item.ConnectorType,
			ConnectorName: item.ConnectorName,
			ExternalID:    item.ExternalID,
			Live:          live,
		},
		CreatedAt: timePtr(item.CreatedAt),
		UpdatedAt: timePtr(item.UpdatedAt),
	}
	if item.AuthorName != "" {
		r.Author = &domain.Author{Name: item.AuthorName}
	}
	return r
}
