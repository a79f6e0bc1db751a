package domain

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultEmbeddingSettings(t *testing.T) {
	s := DefaultEmbeddingSettings()

	if s.Provider != AIProviderOpenAI {
		t.Errorf("expected openai provider, got %s", s.Provider)
	}
	if s.Model != "text-embedding-3-small" {
		t.Errorf("unexpected model %s", s.Model)
	}
	if s.CacheTTL != 24*time.Hour {
		t.Errorf("unexpected cache ttl %v", s.CacheTTL)
	}
	if s.IsConfigured() {
		t.Error("defaults carry no API key and must not count as configured")
	}
}

func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings EmbeddingSettings
		want     bool
	}{
		{"empty provider", EmbeddingSettings{}, false},
		{"openai without key", EmbeddingSettings{Provider: AIProviderOpenAI}, false},
		{"openai with key", EmbeddingSettings{Provider: AIProviderOpenAI, APIKey: "sk-test"}, true},
		{"ollama without key", EmbeddingSettings{Provider: AIProviderOllama, BaseURL: "http://localhost:11434/v1"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.settings.IsConfigured(); got != tt.want {
				t.Errorf("IsConfigured() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEmbeddingSettings_Validate(t *testing.T) {
	tests := []struct {
		name     string
		settings EmbeddingSettings
		wantErr  bool
	}{
		{"empty", EmbeddingSettings{}, false},
		{"openai", EmbeddingSettings{Provider: AIProviderOpenAI}, false},
		{"ollama with url", EmbeddingSettings{Provider: AIProviderOllama, BaseURL: "http://ollama:11434/v1"}, false},
		{"ollama without url", EmbeddingSettings{Provider: AIProviderOllama}, true},
		{"unknown", EmbeddingSettings{Provider: "cohere"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidProvider) {
				t.Errorf("expected ErrInvalidProvider, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAIProvider_RequiresAPIKey(t *testing.T) {
	if !AIProviderOpenAI.RequiresAPIKey() {
		t.Error("openai requires an API key")
	}
	if AIProviderOllama.RequiresAPIKey() {
		t.Error("ollama does not require an API key")
	}
}

func TestAIProvider_IsValid(t *testing.T) {
	for _, p := range []AIProvider{AIProviderOpenAI, AIProviderOllama} {
		if !p.IsValid() {
			t.Errorf("%s should be valid", p)
		}
	}
	for _, p := range []AIProvider{"", "anthropic", "voyage"} {
		if p.IsValid() {
			t.Errorf("%q should be invalid", p)
		}
	}
}
