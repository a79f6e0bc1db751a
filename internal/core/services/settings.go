package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/custodia-labs/sercha-federation/internal/core/domain"
	"github.com/custodia-labs/sercha-federation/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-federation/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-federation/internal/runtime"
)

// Ensure settingsService implements SettingsService
var _ driving.SettingsService = (*settingsService)(nil)

// settingsService implements the SettingsService interface.
// Settings live in memory and start from the process configuration.
type settingsService struct {
	mu        sync.Mutex
	embedding domain.EmbeddingSettings
	lastError string

	aiFactory driven.AIServiceFactory
	services  *runtime.Services
	logger    *slog.Logger
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(
	aiFactory driven.AIServiceFactory,
	services *runtime.Services,
	initial domain.EmbeddingSettings,
	logger *slog.Logger,
) driving.SettingsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &settingsService{
		embedding: initial,
		aiFactory: aiFactory,
		services:  services,
		logger:    logger,
	}
}

// EmbeddingStatus returns the current embedding configuration
func (s *settingsService) EmbeddingStatus(ctx context.Context) (*driving.EmbeddingStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status(), nil
}

// UpdateEmbedding updates the embedding configuration and hot-reloads the service
func (s *settingsService) UpdateEmbedding(ctx context.Context, req driving.UpdateEmbeddingRequest) (*driving.EmbeddingStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.embedding
	if req.Provider != nil {
		settings.Provider = *req.Provider
	}
	if req.Model != nil {
		settings.Model = *req.Model
	}
	if req.APIKey != nil {
		settings.APIKey = *req.APIKey
	}
	if req.BaseURL != nil {
		settings.BaseURL = *req.BaseURL
	}
	if req.Dimensions != nil {
		if *req.Dimensions < 0 {
			return nil, fmt.Errorf("%w: dimensions must not be negative", domain.ErrInvalidInput)
		}
		settings.Dimensions = *req.Dimensions
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	s.embedding = settings
	s.lastError = ""

	if !settings.IsConfigured() {
		// Explicitly disable
		s.services.SetEmbeddingService(nil)
		s.logger.Info("embedding service disabled")
		return s.status(), nil
	}

	svc, err := s.aiFactory.CreateEmbeddingService(&settings)
	if err == nil {
		err = s.services.ValidateAndSetEmbedding(ctx, svc)
	}
	if err != nil {
		// Keep serving keyword-only; the previous service is not restored
		s.services.SetEmbeddingService(nil)
		s.lastError = err.Error()
		s.logger.Warn("embedding service unavailable after settings update",
			"provider", settings.Provider, "model", settings.Model, "error", err)
		return s.status(), nil
	}

	s.logger.Info("embedding service reloaded", "provider", settings.Provider, "model", settings.Model)
	return s.status(), nil
}

// TestConnection checks the live embedding service
func (s *settingsService) TestConnection(ctx context.Context) error {
	svc := s.services.EmbeddingService()
	if svc == nil {
		return fmt.Errorf("%w: no embedding service configured", domain.ErrServiceUnavailable)
	}
	if err := svc.HealthCheck(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}
	return nil
}

// status must be called with mu held
func (s *settingsService) status() *driving.EmbeddingStatus {
	st := &driving.EmbeddingStatus{
		Provider:     s.embedding.Provider,
		Model:        s.embedding.Model,
		BaseURL:      s.embedding.BaseURL,
		Dimensions:   s.embedding.Dimensions,
		HasAPIKey:    s.embedding.APIKey != "",
		IsConfigured: s.embedding.IsConfigured(),
		Available:    s.services.EmbeddingService() != nil,
		Error:        s.lastError,
	}
	if svc := s.services.EmbeddingService(); svc != nil {
		st.Model = svc.Model()
	}
	return st
}
