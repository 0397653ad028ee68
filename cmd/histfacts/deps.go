package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ersonp/histfacts/internal/application/handlers"
	"github.com/ersonp/histfacts/internal/domain/ports"
	"github.com/ersonp/histfacts/internal/domain/services"
	"github.com/ersonp/histfacts/internal/infrastructure/config"
	journal "github.com/ersonp/histfacts/internal/infrastructure/journal/sqlite"
	"github.com/ersonp/histfacts/internal/infrastructure/notify"
	"github.com/ersonp/histfacts/internal/infrastructure/remote/parse"
)

// Deps holds high-level dependencies for commands.
// Only the handler and read-side components are exposed.
type Deps struct {
	Config  *config.Config
	Records *handlers.RecordsHandler
	Journal ports.AttemptJournal
	Toast   *notify.Toast
}

// basePath returns the directory holding .histfacts.
func basePath() (string, error) {
	if globalConfigDir != "" {
		return globalConfigDir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return cwd, nil
}

// loadConfig reads and validates the configuration for the current base path.
func loadConfig() (*config.Config, error) {
	base, err := basePath()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(base)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// withDeps loads config and builds dependencies, then calls the provided function.
// It handles cleanup automatically.
func withDeps(ctx context.Context, fn func(*Deps) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return withConfigDeps(ctx, cfg, fn)
}

func withConfigDeps(ctx context.Context, cfg *config.Config, fn func(*Deps) error) error {
	logger, err := newLogger(os.Stderr, cfg.Log)
	if err != nil {
		return err
	}

	client, err := parse.NewClient(cfg.Parse, parse.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("creating parse client: %w", err)
	}
	logger.Debug("using parse endpoint", "endpoint", client.Endpoint())

	repo, err := journal.NewRepository(ctx, cfg.Journal, logger)
	if err != nil {
		return fmt.Errorf("opening attempt journal: %w", err)
	}
	defer repo.Close()

	fetchService, err := services.NewFetchService(client, services.FetchOptions{
		MaxAttempts: cfg.Fetch.MaxAttempts,
		RetryDelay:  cfg.Fetch.RetryDelay,
	}, services.WithObserver(repo), services.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("creating fetch service: %w", err)
	}

	toast := notify.NewToast(cfg.Notify.Duration)
	defer toast.Dismiss()
	notifier := notify.Multi{notify.NewConsole(os.Stderr), toast}

	deps := &Deps{
		Config:  cfg,
		Records: handlers.NewRecordsHandler(fetchService, notifier, handlers.WithLogger(logger)),
		Journal: repo,
		Toast:   toast,
	}

	return fn(deps)
}
