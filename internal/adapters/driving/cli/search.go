package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
)

var (
	searchOrg        string
	searchUser       string
	searchSources    []string
	searchLimit      int
	searchOffset     int
	searchMinScore   float64
	searchSemantic   bool
	searchConnectors bool
	searchJSON       bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run a federated search from the command line",
	Long: `Runs one federated search against the configured database and prints the
ranked results. Semantic ranking is used when an embedding provider is configured.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchOrg, "org", "", "organization to search in")
	searchCmd.Flags().StringVar(&searchUser, "user", "", "user the search runs as (scopes connector items)")
	searchCmd.Flags().StringSliceVarP(&searchSources, "sources", "s", nil, "sources to search (default articles,knowledge_items)")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "number of results to skip")
	searchCmd.Flags().Float64Var(&searchMinScore, "min-score", 0, "drop results scoring below this")
	searchCmd.Flags().BoolVar(&searchSemantic, "semantic", true, "use semantic ranking when available")
	searchCmd.Flags().BoolVar(&searchConnectors, "connectors", false, "include connector items")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	_ = searchCmd.MarkFlagRequired("org")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	app, _, err := loadApp(cmd, nil)
	if err != nil {
		return err
	}
	defer app.close()

	if app.Search == nil {
		return errors.New("search service not configured")
	}

	params := domain.FederatedSearchParams{
		Query:             args[0],
		OrganizationID:    searchOrg,
		UserID:            searchUser,
		Limit:             searchLimit,
		Offset:            searchOffset,
		MinScore:          searchMinScore,
		SemanticSearch:    searchSemantic,
		IncludeConnectors: searchConnectors,
	}
	for _, s := range searchSources {
		params.Sources = append(params.Sources, domain.ParseSources(s)...)
	}

	result, err := app.Search.Search(cmd.Context(), params)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, result)
	}
	return outputSearchTable(cmd, result)
}

func outputSearchJSON(cmd *cobra.Command, result *domain.FederatedSearchResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, result *domain.FederatedSearchResult) error {
	if len(result.Results) == 0 {
		cmd.Println("No results found.")
	} else {
		cmd.Printf("Results (%d of %d, %dms):\n\n", len(result.Results), result.Total, result.TookMs)
		for i, r := range result.Results {
			// Format: [N] Title (score) [source]
			cmd.Printf("  [%d] %s (%.2f) [%s]\n", searchOffset+i+1, r.Title, r.Score, r.Source)
			if r.URL != "" {
				cmd.Printf("      %s\n", r.URL)
			}
			if r.Excerpt != "" {
				cmd.Printf("      %s\n", r.Excerpt)
			}
		}
		cmd.Println()
	}

	for _, s := range result.Sources {
		if s.Error != "" {
			cmd.Printf("  %s: %d (%dms, %s)\n", s.Source, s.Count, s.DurationMs, s.Error)
			continue
		}
		cmd.Printf("  %s: %d (%dms)\n", s.Source, s.Count, s.DurationMs)
	}
	return nil
}
