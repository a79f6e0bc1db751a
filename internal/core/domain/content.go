package domain

import "time"

// Publication and sync states recognised at the store boundary
const (
	StatusPublished = "published"
	StatusActive    = "active"
	StatusSynced    = "synced"
)

// ContentFilter narrows repository queries to what a request may see
type ContentFilter struct {
	OrganizationID string
	UserID         string
	KBSpaceIDs     []string
	ContentTypes   []string
}

// Article is a curated knowledge-base article
type Article struct {
	ID             string
	OrganizationID string
	Title          string
	Slug           string
	Summary        string
	Body           string
	Status         string
	CategoryID     string
	CategoryName   string
	AuthorID       string
	AuthorName     string
	AuthorAvatar   string
	ThumbnailURL   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ArticleWithEmbedding is an article carrying its stored vector
type ArticleWithEmbedding struct {
	Article   *Article
	Embedding []float32
}

// KnowledgeItem is an entry of the generic knowledge store
type KnowledgeItem struct {
	ID             string
	OrganizationID string
	SpaceID        string
	Title          string
	Summary        string
	Content        string
	ContentType    string
	SourceType     string
	SourceURL      string
	Status         string
	Tags           []string
	ViewCount      int
	AuthorID       string
	AuthorName     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// KnowledgeItemWithEmbedding is a knowledge item carrying its stored vector
type KnowledgeItemWithEmbedding struct {
	Item      *KnowledgeItem
	Embedding []float32
}

// NewsPost is an entry of the news/activity feed
type NewsPost struct {
	ID             string
	OrganizationID string
	Title          string
	Content        string
	ImageURL       string
	Pinned         bool
	LikeCount      int
	Status         string
	AuthorID       string
	AuthorName     string
	AuthorAvatar   string
	PublishedAt    time.Time
	UpdatedAt      time.Time
}

// EmployeeProfile is a directory profile row linked to a user account
type EmployeeProfile struct {
	ID             string
	OrganizationID string
	UserID         string
	FullName       string
	Email          string
	JobTitle       string
	Department     string
	Bio            string
	AvatarURL      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UserAccount is a bare account without directory enrichment
type UserAccount struct {
	ID             string
	OrganizationID string
	Name           string
	Email          string
	AvatarURL      string
	CreatedAt      time.Time
}

// Connector is a configured external system integration
type Connector struct {
	ID             string
	OrganizationID string
	OwnerID        string
	Type           string
	Name           string
	Status         string
	Config         map[string]string
}

// IsActive reports whether the connector may be searched
func (c *Connector) IsActive() bool {
	return c.Status == StatusActive
}

// ConnectorItem is an item previously synced from an external system
type ConnectorItem struct {
	ID            string
	ConnectorID   string
	ConnectorType string
	ConnectorName string
	ExternalID    string
	Title         string
	Content       string
	ContentType   string
	URL           string
	AuthorName    string
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
