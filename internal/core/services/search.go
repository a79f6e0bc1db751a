package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
	"github.com/custodia-labs/sercha-federation/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-federation/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-federation/internal/runtime"
)

// Ensure federatedSearchService implements FederatedSearchService
var _ driving.FederatedSearchService = (*federatedSearchService)(nil)

var tracer = otel.Tracer("github.com/custodia-labs/sercha-federation/internal/core/services")

// federatedSearchService fans a query out to source strategies and merges the results
type federatedSearchService struct {
	strategies map[domain.Source]sourceStrategy
	services   *runtime.Services // Dynamic embedding service
	ranking    domain.RankingConfig
	metrics    driven.SearchMetrics
	logger     *slog.Logger
}

// FederatedSearchConfig holds dependencies for the federated search service.
// A nil store disables its source; requests naming it are served without it.
type FederatedSearchConfig struct {
	Articles       driven.ArticleStore
	KnowledgeItems driven.KnowledgeItemStore
	News           driven.NewsStore
	Directory      driven.DirectoryStore
	Connectors     driven.ConnectorItemStore
	LiveSearchers  []driven.LiveSearcher
	Services       *runtime.Services
	Ranking        *domain.RankingConfig // nil uses DefaultRankingConfig
	Metrics        driven.SearchMetrics
	Logger         *slog.Logger
}

// NewFederatedSearchService creates a new FederatedSearchService
func NewFederatedSearchService(cfg FederatedSearchConfig) (driving.FederatedSearchService, error) {
	ranking := domain.DefaultRankingConfig()
	if cfg.Ranking != nil {
		ranking = *cfg.Ranking
	}
	if err := ranking.Validate(); err != nil {
		return nil, fmt.Errorf("ranking config: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var metrics driven.SearchMetrics = driven.NopSearchMetrics{}
	if cfg.Metrics != nil {
		metrics = cfg.Metrics
	}

	services := cfg.Services
	if services == nil {
		services = runtime.NewServices(domain.NewRuntimeConfig("none"))
	}

	strategies := make(map[domain.Source]sourceStrategy)
	if cfg.Articles != nil {
		strategies[domain.SourceArticles] = &articleStrategy{store: cfg.Articles, ranking: ranking}
	}
	if cfg.KnowledgeItems != nil {
		strategies[domain.SourceKnowledgeItems] = &knowledgeItemStrategy{store: cfg.KnowledgeItems, ranking: ranking}
	}
	if cfg.News != nil {
		strategies[domain.SourceNews] = &newsStrategy{store: cfg.News, ranking: ranking}
	}
	if cfg.Directory != nil {
		strategies[domain.SourceEmployees] = &directoryStrategy{store: cfg.Directory, ranking: ranking}
	}
	if cfg.Connectors != nil {
		strategies[domain.SourceConnectors] = newConnectorStrategy(cfg.Connectors, cfg.LiveSearchers, ranking, logger)
	}

	return &federatedSearchService{
		strategies: strategies,
		services:   services,
		ranking:    ranking,
		metrics:    metrics,
		logger:     logger,
	}, nil
}

// strategyOutcome is what one strategy goroutine hands back after the join
type strategyOutcome struct {
	results []domain.SearchResult
	stats   domain.SourceStats
}

// Search runs the selected strategies concurrently and ranks their merged results
func (s *federatedSearchService) Search(ctx context.Context, params domain.FederatedSearchParams) (*domain.FederatedSearchResult, error) {
	start := time.Now()

	params.Query = strings.TrimSpace(params.Query)
	if params.Query == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}
	params.Limit, params.Offset = s.page(params.Limit, params.Offset)

	ctx, span := tracer.Start(ctx, "federated_search", trace.WithAttributes(
		attribute.Int("search.limit", params.Limit),
		attribute.Int("search.offset", params.Offset),
		attribute.Bool("search.semantic", params.SemanticSearch),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.ranking.SearchTimeout)
	defer cancel()

	strategies := s.selectStrategies(params)
	embedding := s.startEmbedding(ctx, params, strategies)

	// Each goroutine owns exactly one slot; results are merged after Wait.
	outcomes := make([]strategyOutcome, len(strategies))
	var g errgroup.Group
	for i, st := range strategies {
		g.Go(func() error {
			outcomes[i] = s.runStrategy(ctx, st, embedding, params)
			return nil
		})
	}
	_ = g.Wait()

	var combined []domain.SearchResult
	stats := make([]domain.SourceStats, 0, len(outcomes))
	for _, o := range outcomes {
		combined = append(combined, o.results...)
		stats = append(stats, o.stats)
	}

	ranked := s.rank(Normalize(combined), params.MinScore)
	total := len(ranked)

	result := &domain.FederatedSearchResult{
		Results: paginate(ranked, params.Offset, params.Limit),
		Total:   total,
		Sources: stats,
		Query:   params.Query,
		TookMs:  time.Since(start).Milliseconds(),
		HasMore: params.Offset < total-params.Limit,
	}

	semantic := embedding != nil && embedding.vector() != nil
	s.metrics.ObserveSearch(time.Since(start), total, semantic)
	span.SetAttributes(attribute.Int("search.total", total), attribute.Bool("search.semantic_used", semantic))
	s.logger.Debug("federated search completed",
		"sources", len(stats),
		"total", total,
		"semantic", semantic,
		"took_ms", result.TookMs,
	)

	return result, nil
}

// page applies limit defaults and bounds
func (s *federatedSearchService) page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = s.ranking.DefaultLimit
	}
	if limit > s.ranking.MaxLimit {
		limit = s.ranking.MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	// keeps offset+limit representable
	if offset > math.MaxInt-limit {
		offset = math.MaxInt - limit
	}
	return limit, offset
}

// selectStrategies resolves requested sources into strategies in scheduling order.
// Aliases and duplicates collapse; connectors additionally need IncludeConnectors.
func (s *federatedSearchService) selectStrategies(params domain.FederatedSearchParams) []sourceStrategy {
	requested := params.Sources
	if len(requested) == 0 {
		requested = domain.DefaultSources()
	}

	wanted := make(map[domain.Source]bool, len(requested))
	for _, src := range requested {
		if !src.IsValid() {
			s.logger.Debug("ignoring unknown search source", "source", src)
			continue
		}
		wanted[src.Canonical()] = true
	}

	if wanted[domain.SourceConnectors] && !params.IncludeConnectors {
		s.logger.Debug("connector source requested without include_connectors")
		delete(wanted, domain.SourceConnectors)
	}

	var selected []sourceStrategy
	for _, src := range domain.AllSources() {
		if !wanted[src] {
			continue
		}
		st, ok := s.strategies[src]
		if !ok {
			s.logger.Debug("search source not configured", "source", src)
			continue
		}
		selected = append(selected, st)
	}
	return selected
}

// runStrategy invokes one strategy with its own timeout and converts any
// failure into an empty outcome that still carries stats.
func (s *federatedSearchService) runStrategy(ctx context.Context, st sourceStrategy, embedding *queryEmbedding, params domain.FederatedSearchParams) strategyOutcome {
	source := st.Source()

	var vec []float32
	if st.UsesEmbedding() && embedding != nil {
		vec = embedding.wait(ctx)
	}

	ctx, span := tracer.Start(ctx, "federated_search.strategy", trace.WithAttributes(
		attribute.String("search.source", string(source)),
		attribute.Bool("search.semantic", vec != nil),
	))
	defer span.End()

	sctx, cancel := context.WithTimeout(ctx, s.ranking.StrategyTimeout)
	defer cancel()

	started := time.Now()
	results, err := invokeStrategy(sctx, st, params.Query, vec, params)
	elapsed := time.Since(started)

	if err != nil && errors.Is(sctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("%w after %s", domain.ErrStrategyTimeout, s.ranking.StrategyTimeout)
	}

	stats := domain.SourceStats{
		Source:     source,
		Count:      len(results),
		DurationMs: elapsed.Milliseconds(),
	}
	s.metrics.ObserveSource(source, elapsed, len(results), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Warn("search source failed",
			"source", source,
			"duration_ms", stats.DurationMs,
			"error", err,
		)
		stats.Count = 0
		stats.Error = err.Error()
		return strategyOutcome{stats: stats}
	}

	span.SetAttributes(attribute.Int("search.count", len(results)))
	return strategyOutcome{results: results, stats: stats}
}

// invokeStrategy runs st in its own goroutine so a strategy that ignores
// cancellation cannot hold the request past its deadline. Panics become errors.
func invokeStrategy(ctx context.Context, st sourceStrategy, query string, embedding []float32, params domain.FederatedSearchParams) ([]domain.SearchResult, error) {
	type reply struct {
		results []domain.SearchResult
		err     error
	}
	done := make(chan reply, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- reply{err: fmt.Errorf("%w: %s panicked: %v", domain.ErrSourceUnavailable, st.Source(), r)}
			}
		}()
		results, err := st.Run(ctx, query, embedding, params)
		done <- reply{results: results, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		return r.results, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// rank clamps scores, applies the floor and sorts by score then ID
func (s *federatedSearchService) rank(results []domain.SearchResult, minScore float64) []domain.SearchResult {
	kept := results[:0]
	for _, r := range results {
		r.Score = domain.ClampScore(r.Score)
		if r.Score >= minScore {
			kept = append(kept, r)
		}
	}

	slices.SortFunc(kept, func(a, b domain.SearchResult) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return kept
}

func paginate(results []domain.SearchResult, offset, limit int) []domain.SearchResult {
	if offset >= len(results) {
		return []domain.SearchResult{}
	}
	end := min(offset+limit, len(results))
	return results[offset:end]
}
