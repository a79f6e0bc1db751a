// Package cli provides the command line interface of sercha-federation.
package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-federation/internal/config"
	"github.com/custodia-labs/sercha-federation/internal/core/ports/driving"
)

// Runner serves until its context is cancelled
type Runner interface {
	Run(ctx context.Context) error
}

// App is the wired application a command runs against
type App struct {
	Search driving.FederatedSearchService
	Server Runner
	// Close releases connections; may be nil
	Close func()
}

// Builder wires adapters and services from configuration
type Builder func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error)

var (
	configPath string
	version    = "dev"
	builder    Builder
)

var rootCmd = &cobra.Command{
	Use:   "sercha-federation",
	Short: "Federated intranet search",
	Long: `sercha-federation searches articles, knowledge items, news, the employee
directory and connector items with one query and returns a single ranked list.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a config file (yaml, json or toml)")
}

// Execute runs the root command
func Execute(ctx context.Context, v string, b Builder) error {
	version = v
	builder = b
	return rootCmd.ExecuteContext(ctx)
}

// loadApp reads configuration, applies overrides and wires the application
func loadApp(cmd *cobra.Command, override func(*config.Config)) (*App, *slog.Logger, error) {
	if builder == nil {
		return nil, nil, errors.New("application builder not configured")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if override != nil {
		override(cfg)
	}

	logger := config.NewLogger(cfg.Log, cmd.ErrOrStderr())
	if cfg.UsesDefaultSecret() {
		logger.Warn("using the development JWT secret; set JWT_SECRET in production")
	}

	app, err := builder(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return app, logger, nil
}

func (a *App) close() {
	if a != nil && a.Close != nil {
		a.Close()
	}
}
