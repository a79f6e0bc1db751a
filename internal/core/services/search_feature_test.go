package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/cucumber/godog"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
	"github.com/custodia-labs/sercha-federation/internal/core/ports/driven/mocks"
)

// searchWorld is the per-scenario state of the feature suite
type searchWorld struct {
	articles   *mocks.MockArticleStore
	items      *mocks.MockKnowledgeItemStore
	news       *mocks.MockNewsStore
	connectors *mocks.MockConnectorItemStore
	embedding  *mocks.MockEmbeddingService
	minScore   float64
	result     *domain.FederatedSearchResult
	err        error
}

func newSearchWorld() *searchWorld {
	w := &searchWorld{
		articles:   mocks.NewMockArticleStore(),
		items:      mocks.NewMockKnowledgeItemStore(),
		news:       mocks.NewMockNewsStore(),
		connectors: mocks.NewMockConnectorItemStore(),
		embedding:  mocks.NewMockEmbeddingService(),
	}
	w.connectors.AddConnector(&domain.Connector{ID: "c1", Type: "github", Name: "GitHub", Status: domain.StatusActive})
	return w
}

func (w *searchWorld) publishedArticle(id, title string) error {
	w.articles.Add(&domain.Article{ID: id, Title: title, Status: domain.StatusPublished}, nil)
	return nil
}

func (w *searchWorld) publishedKnowledgeItem(id, title string) error {
	w.items.Add(&domain.KnowledgeItem{ID: id, Title: title, Status: domain.StatusPublished}, nil)
	return nil
}

func (w *searchWorld) newsPost(kind, id, title string) error {
	w.news.Add(&domain.NewsPost{ID: id, Title: title, Pinned: kind == "pinned", Status: domain.StatusPublished})
	return nil
}

func (w *searchWorld) syncedConnectorItem(id, title string) error {
	w.connectors.AddItem(&domain.ConnectorItem{ID: id, ConnectorID: "c1", ExternalID: "ext-" + id, Title: title, Status: domain.StatusSynced})
	return nil
}

func (w *searchWorld) embeddingFails() error {
	w.embedding.SetFailNext(true)
	return nil
}

func (w *searchWorld) newsUnavailable() error {
	w.news.SetError(errors.New("connection refused"))
	return nil
}

func (w *searchWorld) scoreFloor(min float64) error {
	w.minScore = min
	return nil
}

func (w *searchWorld) search(ctx context.Context, query, sources string, semantic, connectors bool) error {
	svc, err := NewFederatedSearchService(FederatedSearchConfig{
		Articles:       w.articles,
		KnowledgeItems: w.items,
		News:           w.news,
		Connectors:     w.connectors,
		Services:       createTestServices(w.embedding),
	})
	if err != nil {
		return err
	}
	w.result, w.err = svc.Search(ctx, domain.FederatedSearchParams{
		Query:             query,
		Sources:           domain.ParseSources(sources),
		MinScore:          w.minScore,
		SemanticSearch:    semantic,
		IncludeConnectors: connectors,
	})
	return nil
}

func (w *searchWorld) searchFor(ctx context.Context, query, sources string) error {
	return w.search(ctx, query, sources, false, false)
}

func (w *searchWorld) searchSemanticallyFor(ctx context.Context, query, sources string) error {
	return w.search(ctx, query, sources, true, false)
}

func (w *searchWorld) searchWithConnectors(ctx context.Context, query, sources string) error {
	return w.search(ctx, query, sources, false, true)
}

func (w *searchWorld) searchSucceeds() error {
	if w.err != nil {
		return fmt.Errorf("expected success, got %v", w.err)
	}
	return nil
}

func (w *searchWorld) resultCount(n int) error {
	if err := w.searchSucceeds(); err != nil {
		return err
	}
	if len(w.result.Results) != n {
		return fmt.Errorf("expected %d results, got %d", n, len(w.result.Results))
	}
	return nil
}

func (w *searchWorld) totalIs(n int) error {
	if w.result.Total != n {
		return fmt.Errorf("expected total %d, got %d", n, w.result.Total)
	}
	return nil
}

func (w *searchWorld) resultIs(pos int, id string, score float64) error {
	if pos < 1 || pos > len(w.result.Results) {
		return fmt.Errorf("no result at position %d", pos)
	}
	r := w.result.Results[pos-1]
	if r.ID != id {
		return fmt.Errorf("expected result %d to be %s, got %s", pos, id, r.ID)
	}
	if math.Abs(r.Score-score) > 1e-9 {
		return fmt.Errorf("expected %s to score %v, got %v", id, score, r.Score)
	}
	return nil
}

func (w *searchWorld) sourceHits(source string, n int) error {
	for _, s := range w.result.Sources {
		if string(s.Source) == source {
			if s.Count != n {
				return fmt.Errorf("expected %s to report %d hits, got %d", source, n, s.Count)
			}
			return nil
		}
	}
	return fmt.Errorf("no stats entry for %s", source)
}

func (w *searchWorld) sourceFailed(source string, n int) error {
	if err := w.sourceHits(source, n); err != nil {
		return err
	}
	for _, s := range w.result.Sources {
		if string(s.Source) == source && s.Error == "" {
			return fmt.Errorf("expected %s to carry an error", source)
		}
	}
	return nil
}

func initializeSearchScenario(sc *godog.ScenarioContext) {
	var w *searchWorld
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		w = newSearchWorld()
		return ctx, nil
	})

	sc.Step(`^a published article "([^"]*)" titled "([^"]*)"$`, func(id, title string) error { return w.publishedArticle(id, title) })
	sc.Step(`^a published knowledge item "([^"]*)" titled "([^"]*)"$`, func(id, title string) error { return w.publishedKnowledgeItem(id, title) })
	sc.Step(`^a (published|pinned) news post "([^"]*)" titled "([^"]*)"$`, func(kind, id, title string) error { return w.newsPost(kind, id, title) })
	sc.Step(`^a synced connector item "([^"]*)" titled "([^"]*)"$`, func(id, title string) error { return w.syncedConnectorItem(id, title) })
	sc.Step(`^the embedding service fails$`, func() error { return w.embeddingFails() })
	sc.Step(`^the news source is unavailable$`, func() error { return w.newsUnavailable() })
	sc.Step(`^the score floor is ([0-9.]+)$`, func(min float64) error { return w.scoreFloor(min) })

	sc.Step(`^I search for "([^"]*)" in sources "([^"]*)"$`, func(ctx context.Context, q, s string) error { return w.searchFor(ctx, q, s) })
	sc.Step(`^I search semantically for "([^"]*)" in sources "([^"]*)"$`, func(ctx context.Context, q, s string) error { return w.searchSemanticallyFor(ctx, q, s) })
	sc.Step(`^I search for "([^"]*)" in sources "([^"]*)" including connectors$`, func(ctx context.Context, q, s string) error { return w.searchWithConnectors(ctx, q, s) })

	sc.Step(`^the search succeeds$`, func() error { return w.searchSucceeds() })
	sc.Step(`^I get (\d+) results?$`, func(n int) error { return w.resultCount(n) })
	sc.Step(`^the total is (\d+)$`, func(n int) error { return w.totalIs(n) })
	sc.Step(`^result (\d+) is "([^"]*)" with score ([0-9.]+)$`, func(pos int, id string, score float64) error { return w.resultIs(pos, id, score) })
	sc.Step(`^source "([^"]*)" reported (\d+) hits?$`, func(source string, n int) error { return w.sourceHits(source, n) })
	sc.Step(`^source "([^"]*)" reported (\d+) hits? with an error$`, func(source string, n int) error { return w.sourceFailed(source, n) })
}

func TestFederatedSearchFeatures(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "federated-search",
		ScenarioInitializer: initializeSearchScenario,
		Options: &godog.Options{
			Format:   "progress",
			Paths:    []string{"testdata/features"},
			Strict:   true,
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("feature scenarios failed")
	}
}
