package domain

import "time"

// AIProvider identifies the embedding provider
type AIProvider string

const (
	AIProviderOpenAI AIProvider = "openai"
	// AIProviderOllama is served through its OpenAI-compatible endpoint
	AIProviderOllama AIProvider = "ollama"
)

// EmbeddingSettings configures the query embedding service
type EmbeddingSettings struct {
	Provider   AIProvider    `json:"provider" mapstructure:"provider"`
	Model      string        `json:"model" mapstructure:"model"`
	APIKey     string        `json:"-" mapstructure:"api_key"` // Never serialize to JSON
	BaseURL    string        `json:"base_url,omitempty" mapstructure:"base_url"`
	Dimensions int           `json:"dimensions,omitempty" mapstructure:"dimensions"`
	CacheTTL   time.Duration `json:"cache_ttl,omitempty" mapstructure:"cache_ttl"`

	// Circuit breaker: consecutive failures before opening, and how long it stays open
	BreakerFailures int           `json:"breaker_failures,omitempty" mapstructure:"breaker_failures"`
	BreakerTimeout  time.Duration `json:"breaker_timeout,omitempty" mapstructure:"breaker_timeout"`
}

// DefaultEmbeddingSettings returns an unconfigured OpenAI setup
func DefaultEmbeddingSettings() EmbeddingSettings {
	return EmbeddingSettings{
		Provider:        AIProviderOpenAI,
		Model:           "text-embedding-3-small",
		CacheTTL:        24 * time.Hour,
		BreakerFailures: 5,
		BreakerTimeout:  30 * time.Second,
	}
}

// IsConfigured returns true if embedding settings are properly configured
func (e *EmbeddingSettings) IsConfigured() bool {
	if e.Provider == "" {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// Validate checks the settings for a known provider
func (e *EmbeddingSettings) Validate() error {
	if e.Provider != "" && !e.Provider.IsValid() {
		return ErrInvalidProvider
	}
	if e.Provider == AIProviderOllama && e.BaseURL == "" {
		return ErrInvalidProvider
	}
	return nil
}

// RequiresAPIKey returns true if this provider requires an API key
func (p AIProvider) RequiresAPIKey() bool {
	switch p {
	case AIProviderOllama:
		return false // Self-hosted, no API key needed
	default:
		return true
	}
}

// IsValid returns true if this is a known provider
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOpenAI, AIProviderOllama:
		return true
	default:
		return false
	}
}
