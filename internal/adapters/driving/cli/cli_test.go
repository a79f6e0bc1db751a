package cli

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-federation/internal/config"
	"github.com/custodia-labs/sercha-federation/internal/core/domain"
)

type mockSearchService struct {
	last   domain.FederatedSearchParams
	result *domain.FederatedSearchResult
	err    error
}

func (m *mockSearchService) Search(ctx context.Context, params domain.FederatedSearchParams) (*domain.FederatedSearchResult, error) {
	m.last = params
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &domain.FederatedSearchResult{Query: params.Query, Results: []domain.SearchResult{}}, nil
}

type mockRunner struct {
	ran bool
	err error
}

func (m *mockRunner) Run(ctx context.Context) error {
	m.ran = true
	return m.err
}

// setupTestApp installs a builder returning the given app and resets flag state
func setupTestApp(t *testing.T, app *App) (*bytes.Buffer, *config.Config) {
	t.Helper()

	var seen config.Config
	builder = func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
		seen = *cfg
		return app, nil
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(new(bytes.Buffer))

	t.Cleanup(func() {
		builder = nil
		rootCmd.SetArgs(nil)
		configPath = ""
		serveHost, servePort = "", 0
		searchOrg, searchUser, searchSources = "", "", nil
		searchLimit, searchOffset, searchMinScore = 10, 0, 0
		searchSemantic, searchConnectors, searchJSON = true, false, false
		for _, cmd := range []*cobra.Command{serveCmd, searchCmd} {
			for _, name := range []string{"host", "port", "org", "user", "sources", "limit", "offset", "min-score", "semantic", "connectors", "json"} {
				if f := cmd.Flags().Lookup(name); f != nil {
					f.Changed = false
				}
			}
		}
	})
	return buf, &seen
}

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	setupTestApp(t, &App{Search: &mockSearchService{}})
	rootCmd.SetArgs([]string{"search", "--org", "org-1"})

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_RequiresOrg(t *testing.T) {
	setupTestApp(t, &App{Search: &mockSearchService{}})
	rootCmd.SetArgs([]string{"search", "vpn"})

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "org")
}

func TestSearchCmd_HasLimitFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag)
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "10", flag.DefValue)

	semantic := searchCmd.Flags().Lookup("semantic")
	require.NotNil(t, semantic)
	assert.Equal(t, "true", semantic.DefValue)
}

func TestSearchCmd_PassesParams(t *testing.T) {
	search := &mockSearchService{}
	setupTestApp(t, &App{Search: search})
	rootCmd.SetArgs([]string{"search", "--org", "org-1", "--user", "u-1", "-s", "news,Employees",
		"-n", "5", "--offset", "10", "--min-score", "0.3", "--semantic=false", "--connectors", "holiday policy"})

	require.NoError(t, rootCmd.Execute())

	p := search.last
	assert.Equal(t, "holiday policy", p.Query)
	assert.Equal(t, "org-1", p.OrganizationID)
	assert.Equal(t, "u-1", p.UserID)
	assert.Equal(t, []domain.Source{domain.SourceNews, domain.SourceEmployees}, p.Sources)
	assert.Equal(t, 5, p.Limit)
	assert.Equal(t, 10, p.Offset)
	assert.Equal(t, 0.3, p.MinScore)
	assert.False(t, p.SemanticSearch)
	assert.True(t, p.IncludeConnectors)
}

func TestSearchCmd_Table(t *testing.T) {
	search := &mockSearchService{result: &domain.FederatedSearchResult{
		Total: 1,
		Results: []domain.SearchResult{
			{Title: "Holiday Policy", Score: 0.8, Source: domain.SourceArticles, URL: "/articles/holiday-policy", Excerpt: "Annual leave"},
		},
		Sources: []domain.SourceStats{
			{Source: domain.SourceArticles, Count: 1, DurationMs: 4},
			{Source: domain.SourceNews, Error: "source unavailable"},
		},
	}}
	buf, _ := setupTestApp(t, &App{Search: search})
	rootCmd.SetArgs([]string{"search", "--org", "org-1", "holiday"})

	require.NoError(t, rootCmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "[1] Holiday Policy (0.80) [articles]")
	assert.Contains(t, out, "/articles/holiday-policy")
	assert.Contains(t, out, "news: 0 (0ms, source unavailable)")
}

func TestSearchCmd_NoResults(t *testing.T) {
	buf, _ := setupTestApp(t, &App{Search: &mockSearchService{}})
	rootCmd.SetArgs([]string{"search", "--org", "org-1", "nothing"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "No results found.")
}

func TestSearchCmd_JSON(t *testing.T) {
	buf, _ := setupTestApp(t, &App{Search: &mockSearchService{}})
	rootCmd.SetArgs([]string{"search", "--org", "org-1", "--json", "vpn"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), `"query": "vpn"`)
}

func TestSearchCmd_ServiceError(t *testing.T) {
	setupTestApp(t, &App{Search: &mockSearchService{err: domain.ErrInvalidInput}})
	rootCmd.SetArgs([]string{"search", "--org", "org-1", "vpn"})

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestSearchCmd_NoBuilder(t *testing.T) {
	setupTestApp(t, nil)
	builder = nil
	rootCmd.SetArgs([]string{"search", "--org", "org-1", "vpn"})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "builder not configured")
}

func TestServeCmd_RunsServerWithOverrides(t *testing.T) {
	runner := &mockRunner{}
	closed := false
	_, seen := setupTestApp(t, &App{Server: runner, Close: func() { closed = true }})
	rootCmd.SetArgs([]string{"serve", "--port", "9191"})

	require.NoError(t, rootCmd.Execute())

	assert.True(t, runner.ran)
	assert.True(t, closed)
	assert.Equal(t, 9191, seen.Server.Port)
}

func TestServeCmd_ServerError(t *testing.T) {
	setupTestApp(t, &App{Server: &mockRunner{err: errors.New("address in use")}})
	rootCmd.SetArgs([]string{"serve"})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address in use")
}

func TestServeCmd_NoServer(t *testing.T) {
	setupTestApp(t, &App{})
	rootCmd.SetArgs([]string{"serve"})

	assert.Error(t, rootCmd.Execute())
}

func TestVersionCmd(t *testing.T) {
	buf, _ := setupTestApp(t, &App{})
	version = "1.2.3"
	t.Cleanup(func() { version = "dev" })
	rootCmd.SetArgs([]string{"version"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "sercha-federation 1.2.3")
}
