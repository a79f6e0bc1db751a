package services

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
	"github.com/custodia-labs/sercha-federation/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-federation/internal/core/ports/driven/mocks"
)

var (
	queryVec    = []float32{1, 0, 0}
	exactVec    = []float32{1, 0, 0}
	nearVec     = []float32{1, 1, 0}   // ~0.707
	weakVec     = []float32{0.2, 1, 0} // ~0.196
	oppositeVec = []float32{-1, 0, 0}
)

func testParams(query string) domain.FederatedSearchParams {
	return domain.FederatedSearchParams{Query: query, Limit: 20}
}

func byID(results []domain.SearchResult) map[string]domain.SearchResult {
	out := make(map[string]domain.SearchResult, len(results))
	for _, r := range results {
		out[r.ID] = r
	}
	return out
}

func TestSemanticPass_Threshold(t *testing.T) {
	type cand struct {
		id  string
		vec []float32
	}
	candidates := []cand{{"exact", exactVec}, {"near", nearVec}, {"weak", weakVec}, {"opposite", oppositeVec}, {"short", []float32{1}}}

	out := semanticPass(queryVec, candidates, 0.3,
		func(c cand) []float32 { return c.vec },
		func(c cand) domain.SearchResult { return result(domain.SourceArticles, c.id, 0) },
	)

	got := byID(out)
	require.Len(t, got, 2)
	assert.InDelta(t, 1.0, got["articles-exact"].Score, 1e-6)
	assert.InDelta(t, 0.7071, got["articles-near"].Score, 1e-3)
	for _, r := range out {
		assert.GreaterOrEqual(t, r.Score, 0.3)
	}
}

func TestSemanticPass_NoQueryEmbedding(t *testing.T) {
	out := semanticPass(nil, []int{1, 2}, 0.3,
		func(int) []float32 { return exactVec },
		func(int) domain.SearchResult { return domain.SearchResult{} },
	)
	assert.Nil(t, out)
}

func TestMergePasses(t *testing.T) {
	keyword := []domain.SearchResult{
		result(domain.SourceArticles, "both", 0.8),
		result(domain.SourceArticles, "kw", 0.8),
	}
	semantic := []domain.SearchResult{
		result(domain.SourceArticles, "both", 0.5),
		result(domain.SourceArticles, "sem", 0.6),
		result(domain.SourceArticles, "sem", 0.4),
	}

	out := byID(mergePasses(keyword, semantic, 0.3))
	require.Len(t, out, 3)
	assert.InDelta(t, 0.95, out["articles-both"].Score, 1e-9)
	assert.InDelta(t, 0.8, out["articles-kw"].Score, 1e-9)
	assert.InDelta(t, 0.6, out["articles-sem"].Score, 1e-9)
}

func TestMergePasses_CapsAtOne(t *testing.T) {
	out := mergePasses(
		[]domain.SearchResult{result(domain.SourceArticles, "a", 0.9)},
		[]domain.SearchResult{result(domain.SourceArticles, "a", 1.0)},
		0.3,
	)
	require.Len(t, out, 1)
	assert.Equal(t, 1.0, out[0].Score)
}

func TestArticleStrategy(t *testing.T) {
	store := mocks.NewMockArticleStore()
	store.Add(&domain.Article{
		ID: "a1", Title: "Vacation Policy 2024", Body: "How vacation works", Status: domain.StatusPublished,
		CategoryID: "c1", CategoryName: "HR", AuthorID: "u1", AuthorName: "Ada", Slug: "vacation-policy",
	}, exactVec)
	store.Add(&domain.Article{ID: "a2", Title: "Parental leave", Status: domain.StatusPublished}, nearVec)
	store.Add(&domain.Article{ID: "a3", Title: "Office plants", Status: domain.StatusPublished}, weakVec)
	store.Add(&domain.Article{ID: "a4", Title: "Vacation draft", Status: "draft"}, exactVec)

	s := &articleStrategy{store: store, ranking: domain.DefaultRankingConfig()}

	t.Run("keyword only", func(t *testing.T) {
		out, err := s.Run(context.Background(), "vacation", nil, testParams("vacation"))
		require.NoError(t, err)
		require.Len(t, out, 1)
		r := out[0]
		assert.Equal(t, "articles-a1", r.ID)
		assert.Equal(t, domain.SourceArticles, r.Source)
		assert.Equal(t, 0.8, r.Score)
		assert.Equal(t, "HR", r.Category)
		require.NotNil(t, r.Author)
		assert.Equal(t, "Ada", r.Author.Name)
		assert.Equal(t, "/articles/vacation-policy", r.URL)
		assert.Equal(t, domain.ArticleMetadata{CategoryID: "c1", Slug: "vacation-policy"}, r.Metadata)
		assert.NotNil(t, r.Highlight)
	})

	t.Run("keyword and semantic", func(t *testing.T) {
		out, err := s.Run(context.Background(), "vacation", queryVec, testParams("vacation"))
		require.NoError(t, err)
		got := byID(out)
		require.Len(t, got, 2)
		assert.Equal(t, 1.0, got["articles-a1"].Score)
		assert.InDelta(t, 0.7071, got["articles-a2"].Score, 1e-3)
		assert.NotContains(t, got, "articles-a3")
		assert.NotContains(t, got, "articles-a4")
	})

	t.Run("store failure", func(t *testing.T) {
		failing := mocks.NewMockArticleStore()
		failing.SetError(errors.New("connection refused"))
		_, err := (&articleStrategy{store: failing, ranking: domain.DefaultRankingConfig()}).
			Run(context.Background(), "vacation", nil, testParams("vacation"))
		assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	})
}

func TestArticleStrategy_CorruptVector(t *testing.T) {
	nanVec := []float32{float32(math.NaN()), 1, 0}

	store := mocks.NewMockArticleStore()
	store.Add(&domain.Article{ID: "a1", Title: "Vacation Policy", Status: domain.StatusPublished}, nanVec)
	store.Add(&domain.Article{ID: "a2", Title: "Office plants", Status: domain.StatusPublished}, nanVec)

	s := &articleStrategy{store: store, ranking: domain.DefaultRankingConfig()}
	out, err := s.Run(context.Background(), "vacation", queryVec, testParams("vacation"))
	require.NoError(t, err)

	got := byID(out)
	require.Len(t, got, 1)
	assert.Equal(t, 0.8, got["articles-a1"].Score)
	assert.NotContains(t, got, "articles-a2")
}

func TestKnowledgeItemStrategy(t *testing.T) {
	store := mocks.NewMockKnowledgeItemStore()
	store.Add(&domain.KnowledgeItem{
		ID: "k1", SpaceID: "s1", Title: "Expense guide", Content: "Submit expense reports monthly",
		ContentType: "document", SourceType: "upload", Status: domain.StatusPublished,
		Tags: []string{"finance"}, ViewCount: 12,
	}, exactVec)
	store.Add(&domain.KnowledgeItem{
		ID: "k2", SpaceID: "s2", Title: "Expense FAQ", ContentType: "faq", Status: domain.StatusPublished,
	}, nil)

	s := &knowledgeItemStrategy{store: store, ranking: domain.DefaultRankingConfig()}

	out, err := s.Run(context.Background(), "expense", nil, testParams("expense"))
	require.NoError(t, err)
	got := byID(out)
	require.Len(t, got, 2)
	k1 := got["knowledge_items-k1"]
	assert.Equal(t, 0.7, k1.Score)
	assert.Equal(t, []string{"finance"}, k1.Tags)
	assert.Equal(t, domain.KnowledgeItemMetadata{SourceType: "upload", ViewCount: 12, SpaceID: "s1"}, k1.Metadata)

	params := testParams("expense")
	params.KBSpaceIDs = []string{"s2"}
	out, err = s.Run(context.Background(), "expense", nil, params)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "k2", out[0].SourceID)

	params = testParams("expense")
	params.ContentTypes = []string{"document"}
	out, err = s.Run(context.Background(), "expense", queryVec, params)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.InDelta(t, 1.0, out[0].Score, 1e-9)
}

func TestNewsStrategy_PinnedOverride(t *testing.T) {
	store := mocks.NewMockNewsStore()
	store.Add(&domain.NewsPost{ID: "n1", Title: "Town hall moved", Pinned: true, Status: domain.StatusPublished, LikeCount: 3})
	store.Add(&domain.NewsPost{ID: "n2", Title: "Town hall recap", Status: domain.StatusPublished})
	store.Add(&domain.NewsPost{ID: "n3", Title: "Town hall draft", Status: "draft"})

	s := &newsStrategy{store: store, ranking: domain.DefaultRankingConfig()}
	assert.False(t, s.UsesEmbedding())

	out, err := s.Run(context.Background(), "town hall", queryVec, testParams("town hall"))
	require.NoError(t, err)
	got := byID(out)
	require.Len(t, got, 2)
	assert.Equal(t, 0.9, got["news-n1"].Score)
	assert.Equal(t, 0.6, got["news-n2"].Score)
	assert.Equal(t, domain.NewsMetadata{Pinned: true, LikeCount: 3}, got["news-n1"].Metadata)
}

func TestDirectoryStrategy_SuppressesAccountWithProfile(t *testing.T) {
	store := mocks.NewMockDirectoryStore()
	store.AddProfile(&domain.EmployeeProfile{ID: "p1", UserID: "u1", FullName: "Grace Hopper", JobTitle: "Admiral", Department: "Navy"})
	store.AddAccount(&domain.UserAccount{ID: "u1", Name: "Grace Hopper", Email: "grace@example.com"})
	store.AddAccount(&domain.UserAccount{ID: "u2", Name: "Grace Kelly", Email: "kelly@example.com"})

	s := &directoryStrategy{store: store, ranking: domain.DefaultRankingConfig()}
	out, err := s.Run(context.Background(), "grace", nil, testParams("grace"))
	require.NoError(t, err)

	got := byID(out)
	require.Len(t, got, 2)
	assert.Equal(t, 0.7, got["employees-u1"].Score)
	assert.Equal(t, "Admiral · Navy", got["employees-u1"].Excerpt)
	assert.True(t, got["employees-u1"].Metadata.(domain.EmployeeMetadata).HasProfile)
	assert.Equal(t, 0.65, got["employees-u2"].Score)
	assert.False(t, got["employees-u2"].Metadata.(domain.EmployeeMetadata).HasProfile)
}

func TestDirectoryStrategy_StoreFailure(t *testing.T) {
	store := mocks.NewMockDirectoryStore()
	store.SetError(errors.New("boom"))
	s := &directoryStrategy{store: store, ranking: domain.DefaultRankingConfig()}
	_, err := s.Run(context.Background(), "grace", nil, testParams("grace"))
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func newConnectorFixture() (*mocks.MockConnectorItemStore, *mocks.MockLiveSearcher) {
	store := mocks.NewMockConnectorItemStore()
	store.AddConnector(&domain.Connector{ID: "c1", Type: "github", Name: "Engineering GitHub", Status: domain.StatusActive})
	store.AddConnector(&domain.Connector{ID: "c2", Type: "github", Name: "Old GitHub", Status: "disabled"})
	store.AddItem(&domain.ConnectorItem{ID: "i1", ConnectorID: "c1", ExternalID: "ext-1", Title: "Deploy runbook", Status: domain.StatusSynced})
	store.AddItem(&domain.ConnectorItem{ID: "i2", ConnectorID: "c1", ExternalID: "ext-2", Title: "Deploy notes", Status: "pending"})
	store.AddItem(&domain.ConnectorItem{ID: "i3", ConnectorID: "c2", ExternalID: "ext-3", Title: "Deploy legacy", Status: domain.StatusSynced})

	live := mocks.NewMockLiveSearcher("github")
	live.AddItem(&domain.ConnectorItem{ConnectorID: "c1", ExternalID: "ext-1", Title: "Deploy runbook"})
	live.AddItem(&domain.ConnectorItem{ConnectorID: "c1", ExternalID: "ext-9", Title: "Deploy checklist"})
	return store, live
}

func TestConnectorStrategy_SyncedOnlyByDefault(t *testing.T) {
	store, live := newConnectorFixture()
	s := newConnectorStrategy(store, []driven.LiveSearcher{live}, domain.DefaultRankingConfig(), slog.Default())

	out, err := s.Run(context.Background(), "deploy", nil, testParams("deploy"))
	require.NoError(t, err)
	require.Len(t, out, 1)
	r := out[0]
	assert.Equal(t, "connectors-i1", r.ID)
	assert.Equal(t, 0.6, r.Score)
	assert.Equal(t, domain.ConnectorMetadata{
		ConnectorID: "c1", ConnectorType: "github", ConnectorName: "Engineering GitHub", ExternalID: "ext-1",
	}, r.Metadata)
	assert.Equal(t, 0, live.Calls())
}

func TestConnectorStrategy_LiveOptIn(t *testing.T) {
	store, live := newConnectorFixture()
	ranking := domain.DefaultRankingConfig()
	ranking.ConnectorSearchLive = true
	s := newConnectorStrategy(store, []driven.LiveSearcher{live}, ranking, slog.Default())

	out, err := s.Run(context.Background(), "deploy", nil, testParams("deploy"))
	require.NoError(t, err)
	got := byID(out)
	require.Len(t, got, 2)
	assert.Contains(t, got, "connectors-i1")

	liveHit, ok := got["connectors-c1:ext-9"]
	require.True(t, ok)
	assert.Equal(t, 0.6, liveHit.Score)
	meta := liveHit.Metadata.(domain.ConnectorMetadata)
	assert.True(t, meta.Live)
	assert.Equal(t, "Engineering GitHub", meta.ConnectorName)
	assert.Equal(t, 1, live.Calls())
}

func TestConnectorStrategy_LiveFailureIsSkipped(t *testing.T) {
	store, live := newConnectorFixture()
	live.SetError(errors.New("rate limited"))
	ranking := domain.DefaultRankingConfig()
	ranking.ConnectorSearchLive = true
	s := newConnectorStrategy(store, []driven.LiveSearcher{live}, ranking, slog.Default())

	out, err := s.Run(context.Background(), "deploy", nil, testParams("deploy"))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "connectors-i1", out[0].ID)
}
