package main

// @title           Sercha Federation API
// @version         1.0
// @description     Federated intranet search. One query over articles, knowledge items, news, the employee directory and connector items, returned as a single ranked list.

// @contact.name   Sercha OSS
// @contact.url    https://github.com/custodia-labs/sercha-federation/issues

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Format: "Bearer {token}"

import (
	"context"
	"fmt"
	"log/slog"
	stdhttp "net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/sercha-federation/internal/adapters/driven/ai"
	"github.com/custodia-labs/sercha-federation/internal/adapters/driven/auth"
	"github.com/custodia-labs/sercha-federation/internal/adapters/driven/connectors"
	"github.com/custodia-labs/sercha-federation/internal/adapters/driven/connectors/github"
	"github.com/custodia-labs/sercha-federation/internal/adapters/driven/metrics"
	"github.com/custodia-labs/sercha-federation/internal/adapters/driven/postgres"
	redisadapter "github.com/custodia-labs/sercha-federation/internal/adapters/driven/redis"
	"github.com/custodia-labs/sercha-federation/internal/adapters/driving/cli"
	"github.com/custodia-labs/sercha-federation/internal/adapters/driving/http"
	"github.com/custodia-labs/sercha-federation/internal/config"
	"github.com/custodia-labs/sercha-federation/internal/core/domain"
	"github.com/custodia-labs/sercha-federation/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-federation/internal/core/services"
	"github.com/custodia-labs/sercha-federation/internal/runtime"
)

var version = "dev"

func main() {
	if err := cli.Execute(context.Background(), version, build); err != nil {
		os.Exit(1)
	}
}

// build wires every adapter and service from configuration
func build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (app *cli.App, err error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	defer func() {
		if err != nil {
			closeAll()
		}
	}()

	// ===== PostgreSQL =====
	logger.Info("connecting to PostgreSQL")
	db, err := postgres.Connect(ctx, postgres.Config{
		URL:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	closers = append(closers, func() { _ = db.Close() })

	if cfg.Database.InitSchema {
		if err := db.InitSchema(ctx); err != nil {
			return nil, fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	key, err := cfg.ConnectorSecretKey()
	if err != nil {
		return nil, err
	}
	var keyring *postgres.SecretKeyring
	if key != nil {
		if keyring, err = postgres.NewSecretKeyring(key); err != nil {
			return nil, err
		}
	}

	// ===== Redis (optional) =====
	var (
		embeddingCache driven.EmbeddingCache
		cachePinger    http.Pinger
		cacheBackend   = "none"
	)
	if cfg.Redis.URL != "" {
		logger.Info("connecting to Redis")
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		client := redis.NewClient(opts)
		closers = append(closers, func() { _ = client.Close() })

		cache := redisadapter.NewEmbeddingCache(client)
		if err := cache.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		embeddingCache = cache
		cachePinger = cache
		cacheBackend = "redis"
	}

	// ===== Embeddings (optional) =====
	runtimeServices := runtime.NewServices(domain.NewRuntimeConfig(cacheBackend))
	closers = append(closers, func() { _ = runtimeServices.Close() })

	aiFactory := ai.NewFactory(embeddingCache, logger)
	embedding, err := aiFactory.CreateEmbeddingService(&cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding service: %w", err)
	}
	if err := runtimeServices.ValidateAndSetEmbedding(ctx, embedding); err != nil {
		// Keyword search keeps working; semantic ranking stays off
		logger.Warn("embedding service unavailable, semantic search disabled", "error", err)
	}

	// ===== Metrics =====
	var (
		searchMetrics  driven.SearchMetrics
		metricsHandler stdhttp.Handler
	)
	if cfg.Server.MetricsEnabled {
		m, err := metrics.NewPrometheusMetrics(prometheus.DefaultRegisterer)
		if err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		searchMetrics = m
		metricsHandler = promhttp.Handler()
	}

	// ===== Services =====
	githubConfig := &github.Config{
		APIBaseURL:        cfg.GitHub.APIBaseURL,
		RequestsPerSecond: cfg.GitHub.RequestsPerSecond,
		Timeout:           cfg.GitHub.Timeout,
	}
	searchService, err := services.NewFederatedSearchService(services.FederatedSearchConfig{
		Articles:       postgres.NewArticleStore(db),
		KnowledgeItems: postgres.NewKnowledgeItemStore(db),
		News:           postgres.NewNewsStore(db),
		Directory:      postgres.NewDirectoryStore(db),
		Connectors:     postgres.NewConnectorItemStore(db, keyring, logger),
		LiveSearchers:  connectors.NewDefaultFactory(githubConfig).Searchers(),
		Services:       runtimeServices,
		Ranking:        &cfg.Search,
		Metrics:        searchMetrics,
		Logger:         logger,
	})
	if err != nil {
		return nil, err
	}
	authService := services.NewAuthService(auth.NewAdapter(cfg.Auth.JWTSecret))
	settingsService := services.NewSettingsService(aiFactory, runtimeServices, cfg.Embedding, logger)

	logger.Info("runtime config",
		"cache_backend", cacheBackend,
		"embedding", runtimeServices.Config().EmbeddingAvailable(),
		"connector_search_live", cfg.Search.ConnectorSearchLive,
	)

	server := http.NewServer(http.Config{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		Version:     version,
		CORSOrigins: cfg.Server.CORSOrigins,
	}, logger, authService, searchService, settingsService, runtimeServices, db, cachePinger, metricsHandler)

	return &cli.App{
		Search: searchService,
		Server: server,
		Close:  closeAll,
	}, nil
}
