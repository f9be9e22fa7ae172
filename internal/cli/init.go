// Package cli provides common CLI initialization utilities shared by the
// crimedash subcommands.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"crimedash/internal/backend"
	"crimedash/internal/config"
	"crimedash/internal/dashboard"
	"crimedash/internal/dataset"
	applog "crimedash/internal/log"
	"crimedash/internal/storage"
)

// SetupLogger builds the application logger from the configured format and
// level and installs it as the slog default.
func SetupLogger(format, level string) (*applog.Logger, error) {
	lvl, err := applog.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger := applog.New(applog.Config{
		Level:     lvl,
		Component: applog.ComponentApp,
		Handler:   applog.NewHandler(os.Stdout, applog.Format(format), lvl),
	})
	applog.SetDefault(logger)
	return logger, nil
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDataset opens the configured source and loads it under the
// configured totals policy. The source is closed before returning.
func LoadDataset(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dataset.Dataset, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateSource(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("open %s source: %w", bcfg.Type, err)
	}
	defer func() {
		if err := res.Close(); err != nil {
			logger.Warn("Closing dataset source failed", applog.FieldError, err)
		}
	}()

	return dataset.Load(ctx, res.Source, dataset.Options{
		TotalsPolicy: dataset.TotalsPolicy(cfg.TotalsPolicy),
		Logger:       logger,
	})
}

// LoadDefaults reads the dashboard defaults file, or returns the built-in
// defaults when none is configured.
func LoadDefaults(cfg *config.Config) (dashboard.Defaults, error) {
	return dashboard.LoadDefaults(cfg.DashboardDefaultsFile)
}

// InitSQLite initializes a SQLite repository with the given path.
func InitSQLite(dbPath string) (*storage.SQLiteRepository, error) {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		return nil, fmt.Errorf("initialize SQLite repository at %s: %w", dbPath, err)
	}
	return repo, nil
}

// LastImport reports the most recent import into the configured SQLite
// store. ok is false for other sources and for a store never imported into.
func LastImport(ctx context.Context, cfg *config.Config) (imp storage.Import, ok bool, err error) {
	if backend.SourceType(cfg.DatasetSource) != backend.SQLiteSource {
		return storage.Import{}, false, nil
	}
	repo, err := InitSQLite(cfg.SQLiteDBPath)
	if err != nil {
		return storage.Import{}, false, err
	}
	defer repo.Close()
	return repo.LastImport(ctx)
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
