package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/custodia-labs/sercha-federation/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-federation/internal/runtime"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string
	logger     *slog.Logger
	cors       []string

	// Services
	authService     driving.AuthService
	searchService   driving.FederatedSearchService
	settingsService driving.SettingsService
	services        *runtime.Services

	// Infrastructure
	db             Pinger       // PostgreSQL health check
	redisClient    Pinger       // Redis health check (optional)
	metricsHandler http.Handler // Prometheus exposition (optional)
}

// Config holds server configuration
type Config struct {
	Host        string
	Port        int
	Version     string
	CORSOrigins []string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:    "0.0.0.0",
		Port:    8080,
		Version: "dev",
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	logger *slog.Logger,
	authService driving.AuthService,
	searchService driving.FederatedSearchService,
	settingsService driving.SettingsService, // can be nil
	services *runtime.Services,
	db Pinger,
	redisClient Pinger, // can be nil
	metricsHandler http.Handler, // can be nil
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		router:          http.NewServeMux(),
		version:         cfg.Version,
		logger:          logger,
		cors:            cfg.CORSOrigins,
		authService:     authService,
		searchService:   searchService,
		settingsService: settingsService,
		services:        services,
		db:              db,
		redisClient:     redisClient,
		metricsHandler:  metricsHandler,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	authMiddleware := NewAuthMiddleware(s.authService)

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)
	if s.metricsHandler != nil {
		s.router.Handle("GET /metrics", s.metricsHandler)
	}

	// Search endpoints (authenticated)
	s.router.Handle("POST /api/v1/search",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleSearch)))
	s.router.Handle("GET /api/v1/search",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleSearchQuery)))
	s.router.Handle("GET /api/v1/search/capabilities",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleCapabilities)))

	// Settings endpoints (admin only)
	if s.settingsService != nil {
		admin := func(h http.HandlerFunc) http.Handler {
			return authMiddleware.Authenticate(authMiddleware.RequireAdmin(h))
		}
		s.router.Handle("GET /api/v1/settings/embedding", admin(s.handleGetEmbeddingSettings))
		s.router.Handle("PUT /api/v1/settings/embedding", admin(s.handleUpdateEmbeddingSettings))
		s.router.Handle("POST /api/v1/settings/embedding/test", admin(s.handleTestEmbedding))
	}
}

// Handler returns the router wrapped in the middleware chain
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	if len(s.cors) > 0 {
		h = NewCORSMiddleware(s.cors).Handler(h)
	}
	h = NewRecoveryMiddleware(s.logger).Handler(h)
	h = NewLoggingMiddleware(s.logger).Handler(h)
	return h
}

// Start starts the HTTP server and blocks until SIGINT/SIGTERM
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
