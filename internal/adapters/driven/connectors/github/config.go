package github

import (
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
)

// ConnectorType is the connector type served by this package
const ConnectorType = "github"

// Connector config keys
const (
	configToken      = "token"
	configOwner      = "owner"
	configRepo       = "repo"
	configAPIBaseURL = "api_base_url"
)

// Config contains configuration for GitHub live search.
type Config struct {
	// APIBaseURL is the base URL for GitHub API.
	// Defaults to https://api.github.com for github.com.
	// For GitHub Enterprise, use https://<hostname>/api/v3
	APIBaseURL string

	// RequestsPerSecond throttles search calls proactively.
	// The search API allows 30 requests per minute for authenticated users.
	RequestsPerSecond float64

	// Timeout bounds a single API call.
	Timeout time.Duration
}

// DefaultConfig returns the default GitHub live search configuration.
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:        "https://api.github.com",
		RequestsPerSecond: 0.5,
		Timeout:           10 * time.Second,
	}
}

// target is what one connector allows searching
type target struct {
	token   string
	owner   string
	repo    string
	baseURL string
}

func targetFromConnector(c *domain.Connector, defaultBaseURL string) (target, error) {
	t := target{
		token:   c.Config[configToken],
		owner:   c.Config[configOwner],
		repo:    c.Config[configRepo],
		baseURL: c.Config[configAPIBaseURL],
	}
	if t.token == "" {
		return target{}, fmt.Errorf("connector %s: missing %s", c.ID, configToken)
	}
	if t.owner == "" {
		return target{}, fmt.Errorf("connector %s: missing %s", c.ID, configOwner)
	}
	if t.baseURL == "" {
		t.baseURL = defaultBaseURL
	}
	return t, nil
}

// scope restricts a search to the connector's repository or owner
func (t target) scope() string {
	if t.repo != "" {
		return "repo:" + t.owner + "/" + t.repo
	}
	return "user:" + t.owner
}

func (t target) searchQuery(query string) string {
	return strings.TrimSpace(query) + " " + t.scope()
}
