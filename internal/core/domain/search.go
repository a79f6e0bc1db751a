package domain

import (
	"math"
	"strings"
	"time"
)

// Source identifies the content repository a search result came from
type Source string

const (
	SourceInternalKB     Source = "internal_kb" // alias for SourceArticles
	SourceArticles       Source = "articles"
	SourceConnectors     Source = "connectors"
	SourceKnowledgeItems Source = "knowledge_items"
	SourceNews           Source = "news"
	SourceEmployees      Source = "employees"
)

// AllSources lists every source a caller may request, in scheduling order
func AllSources() []Source {
	return []Source{
		SourceArticles,
		SourceKnowledgeItems,
		SourceNews,
		SourceEmployees,
		SourceConnectors,
	}
}

// DefaultSources is used when a request does not name any source
func DefaultSources() []Source {
	return []Source{SourceArticles, SourceKnowledgeItems}
}

// Canonical resolves aliases to the source value a strategy reports
func (s Source) Canonical() Source {
	if s == SourceInternalKB {
		return SourceArticles
	}
	return s
}

// IsValid reports whether s is a known source or alias
func (s Source) IsValid() bool {
	switch s {
	case SourceInternalKB, SourceArticles, SourceConnectors, SourceKnowledgeItems, SourceNews, SourceEmployees:
		return true
	}
	return false
}

// ParseSources converts a comma separated list into sources, skipping blanks
func ParseSources(raw string) []Source {
	var sources []Source
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sources = append(sources, Source(strings.ToLower(part)))
	}
	return sources
}

// FederatedSearchParams is a single federated search request
type FederatedSearchParams struct {
	Query             string   `json:"query"`
	Sources           []Source `json:"sources,omitempty"`
	ContentTypes      []string `json:"content_types,omitempty"`
	KBSpaceIDs        []string `json:"kb_space_ids,omitempty"`
	OrganizationID    string   `json:"organization_id,omitempty"`
	UserID            string   `json:"user_id,omitempty"`
	Limit             int      `json:"limit"`
	Offset            int      `json:"offset"`
	MinScore          float64  `json:"min_score"`
	SemanticSearch    bool     `json:"semantic_search"`
	IncludeConnectors bool     `json:"include_connectors"`
}

// Filter derives the repository filter for this request
func (p FederatedSearchParams) Filter() ContentFilter {
	return ContentFilter{
		OrganizationID: p.OrganizationID,
		UserID:         p.UserID,
		KBSpaceIDs:     p.KBSpaceIDs,
		ContentTypes:   p.ContentTypes,
	}
}

// FederatedSearchResult is the merged, ranked and paginated response
type FederatedSearchResult struct {
	Results []SearchResult `json:"results"`
	Total   int            `json:"total"`
	Sources []SourceStats  `json:"sources"`
	Query   string         `json:"query"`
	TookMs  int64          `json:"took_ms"`
	HasMore bool           `json:"has_more"`
}

// SourceStats records what one strategy contributed and how long it took.
// A failed strategy still reports an entry with Count 0.
type SourceStats struct {
	Source     Source `json:"source"`
	Count      int    `json:"count"`
	DurationMs int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// SearchResult is one normalized hit regardless of origin
type SearchResult struct {
	ID           string         `json:"id"`
	Source       Source         `json:"source"`
	SourceID     string         `json:"source_id"`
	Title        string         `json:"title"`
	Excerpt      string         `json:"excerpt,omitempty"`
	Content      string         `json:"content,omitempty"`
	ContentType  string         `json:"content_type,omitempty"`
	URL          string         `json:"url,omitempty"`
	ThumbnailURL string         `json:"thumbnail_url,omitempty"`
	Author       *Author        `json:"author,omitempty"`
	Category     string         `json:"category,omitempty"`
	Tags         []string       `json:"tags,omitempty"`
	Score        float64        `json:"score"`
	Highlight    *Highlight     `json:"highlight,omitempty"`
	Metadata     ResultMetadata `json:"metadata,omitempty"`
	CreatedAt    *time.Time     `json:"created_at,omitempty"`
	UpdatedAt    *time.Time     `json:"updated_at,omitempty"`
}

// DedupKey is the identity used to collapse repeated discoveries of one item
type DedupKey struct {
	Source   Source
	SourceID string
}

// Key returns the dedup key of the result
func (r SearchResult) Key() DedupKey {
	return DedupKey{Source: r.Source, SourceID: r.SourceID}
}

// NewResultID builds the response-unique result ID
func NewResultID(source Source, sourceID string) string {
	return string(source) + "-" + sourceID
}

// ClampScore bounds a raw score to [0, 1]
func ClampScore(score float64) float64 {
	if score < 0 || math.IsNaN(score) {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// Author is the person credited for a result
type Author struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Highlight carries emphasized match fragments
type Highlight struct {
	Title   []string `json:"title,omitempty"`
	Content []string `json:"content,omitempty"`
}

// ResultMetadata is the per-source payload attached to a result.
// Only the metadata types declared in this package implement it.
type ResultMetadata interface {
	MetadataSource() Source
}

// ArticleMetadata is attached to article hits
type ArticleMetadata struct {
	CategoryID string `json:"category_id,omitempty"`
	Slug       string `json:"slug,omitempty"`
}

func (ArticleMetadata) MetadataSource() Source { return SourceArticles }

// KnowledgeItemMetadata is attached to knowledge item hits
type KnowledgeItemMetadata struct {
	SourceType string `json:"source_type,omitempty"`
	ViewCount  int    `json:"view_count"`
	SpaceID    string `json:"space_id,omitempty"`
}

func (KnowledgeItemMetadata) MetadataSource() Source { return SourceKnowledgeItems }

// NewsMetadata is attached to news hits
type NewsMetadata struct {
	Pinned    bool `json:"pinned"`
	LikeCount int  `json:"like_count"`
}

func (NewsMetadata) MetadataSource() Source { return SourceNews }

// EmployeeMetadata is attached to directory hits
type EmployeeMetadata struct {
	Department string `json:"department,omitempty"`
	JobTitle   string `json:"job_title,omitempty"`
	Email      string `json:"email,omitempty"`
	HasProfile bool   `json:"has_profile"`
}

func (EmployeeMetadata) MetadataSource() Source { return SourceEmployees }

// ConnectorMetadata is attached to connector hits
type ConnectorMetadata struct {
	ConnectorID   string `json:"connector_id"`
	ConnectorType string `json:"connector_type"`
	ConnectorName string `json:"connector_name"`
	ExternalID    string `json:"external_id,omitempty"`
	Live          bool   `json:"live,omitempty"`
}

func (ConnectorMetadata) MetadataSource() Source { return SourceConnectors }
