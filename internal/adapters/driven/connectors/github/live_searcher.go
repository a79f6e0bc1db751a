package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
	"github.com/custodia-labs/sercha-federation/internal/core/ports/driven"
)

// Ensure LiveSearcher implements the interface.
var _ driven.LiveSearcher = (*LiveSearcher)(nil)

// maxPerPage is the largest page the search API returns.
const maxPerPage = 100

// LiveSearcher queries GitHub issues and pull requests directly.
type LiveSearcher struct {
	config  *Config
	limiter *RateLimiter
}

// NewLiveSearcher creates a GitHub live searcher.
func NewLiveSearcher(config *Config) *LiveSearcher {
	if config == nil {
		config = DefaultConfig()
	}
	return &LiveSearcher{
		config:  config,
		limiter: NewRateLimiter(config.RequestsPerSecond),
	}
}

// ConnectorType returns "github".
func (s *LiveSearcher) ConnectorType() string {
	return ConnectorType
}

// Search returns up to limit issues and pull requests matching query within
// the connector's repository or owner.
func (s *LiveSearcher) Search(ctx context.Context, connector *domain.Connector, query string, limit int) ([]*domain.ConnectorItem, error) {
	t, err := targetFromConnector(connector, s.config.APIBaseURL)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, nil
	}
	if limit > maxPerPage {
		limit = maxPerPage
	}

	client, err := s.client(ctx, t)
	if err != nil {
		return nil, err
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	result, resp, err := client.Search.Issues(ctx, t.searchQuery(query), &gh.SearchOptions{
		ListOptions: gh.ListOptions{PerPage: limit},
	})
	s.limiter.UpdateFromResponse(resp)
	if err != nil {
		return nil, wrapError(err, "search issues")
	}

	items := make([]*domain.ConnectorItem, 0, len(result.Issues))
	for _, issue := range result.Issues {
		items = append(items, issueItem(issue, t))
	}
	return items, nil
}

// client builds a go-github client authenticated with the connector's token.
func (s *LiveSearcher) client(ctx context.Context, t target) (*gh.Client, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: t.token})
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = s.config.Timeout

	client := gh.NewClient(tc)
	base, err := url.Parse(strings.TrimSuffix(t.baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	client.BaseURL = base
	return client, nil
}

// issueItem maps an issue or pull request to a connector item.
// External IDs match the ones written by the sync pipeline.
func issueItem(issue *gh.Issue, t target) *domain.ConnectorItem {
	kind, contentType := "issue", "github_issue"
	if issue.IsPullRequest() {
		kind, contentType = "pr", "github_pull_request"
	}

	externalID := fmt.Sprintf("%s-%d", kind, issue.GetNumber())
	if t.repo == "" {
		if repo := repoFullName(issue.GetRepositoryURL()); repo != "" {
			externalID = repo + "/" + externalID
		}
	}

	return &domain.ConnectorItem{
		ExternalID:  externalID,
		Title:       issue.GetTitle(),
		Content:     issue.GetBody(),
		ContentType: contentType,
		URL:         issue.GetHTMLURL(),
		AuthorName:  issue.GetUser().GetLogin(),
		Status:      issue.GetState(),
		CreatedAt:   issue.GetCreatedAt().Time,
		UpdatedAt:   issue.GetUpdatedAt().Time,
	}
}

// repoFullName extracts owner/name from an API repository URL.
func repoFullName(apiURL string) string {
	_, after, ok := strings.Cut(apiURL, "/repos/")
	if !ok {
		return ""
	}
	return strings.Trim(after, "/")
}

// wrapError adds context to GitHub API errors.
func wrapError(err error, op string) error {
	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%s: rate limited until %s: %w", op, rateErr.Rate.Reset.Time, err)
	}
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return fmt.Errorf("%s: secondary rate limit: %w", op, err)
	}
	var respErr *gh.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrUnauthorized, err)
		case http.StatusForbidden:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrForbidden, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
