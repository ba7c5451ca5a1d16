// Package bootstrap assembles the object graph shared by the service and the
// CLI from a loaded configuration.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/quotesync/internal/adapters/clients"
	"github.com/jsamuelsen/quotesync/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quotesync/internal/adapters/storage"
	"github.com/jsamuelsen/quotesync/internal/app"
	"github.com/jsamuelsen/quotesync/internal/platform/config"
	"github.com/jsamuelsen/quotesync/internal/platform/telemetry"
	"github.com/jsamuelsen/quotesync/internal/ports"
)

// Options control Build.
type Options struct {
	Config *config.Config
	Logger *slog.Logger

	// Registerer receives the sync metrics. Nil disables them.
	Registerer prometheus.Registerer

	// UserAgent is sent on every remote request.
	UserAgent string
}

// Components is the assembled graph. Close releases it.
type Components struct {
	Backend storage.Backend
	Library *app.Library
	Remote  *acl.PlaceholderClient
	Quotes  *app.QuoteService
	Sync    *app.SyncService
	Health  *ports.DefaultHealthRegistry
}

// Build opens storage, loads the library, and wires the services.
func Build(ctx context.Context, opts Options) (*Components, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New("bootstrap: config is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	backend, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	library := app.NewLibrary(app.LibraryConfig{
		Store:  storage.NewQuoteStore(backend),
		Logger: logger,
	})
	library.Load(ctx)

	httpClient, err := clients.New(clients.Config{
		BaseURL:     cfg.Services.Remote.BaseURL,
		ServiceName: cfg.Services.Remote.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		UserAgent:   opts.UserAgent,
		Logger:      logger,
	})
	if err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("creating remote client: %w", err)
	}

	remote := acl.NewPlaceholderClient(acl.PlaceholderClientConfig{
		Client: httpClient,
		Logger: logger,
	})

	var observer ports.SyncObserver
	if opts.Registerer != nil {
		observer = telemetry.NewSyncMetrics(opts.Registerer)
	}

	health := ports.NewHealthRegistry()
	for _, checker := range []ports.HealthChecker{backend, remote} {
		if err := health.Register(checker); err != nil {
			_ = backend.Close()
			return nil, fmt.Errorf("registering %s health check: %w", checker.Name(), err)
		}
	}

	return &Components{
		Backend: backend,
		Library: library,
		Remote:  remote,
		Quotes: app.NewQuoteService(app.QuoteServiceConfig{
			Library: library,
			Logger:  logger,
		}),
		Sync: app.NewSyncService(app.SyncServiceConfig{
			Library:          library,
			Remote:           remote,
			Observer:         observer,
			Logger:           logger,
			PageSize:         cfg.Sync.PageSize,
			StatusResetDelay: cfg.Sync.StatusResetDelay,
		}),
		Health: health,
	}, nil
}

// Close stops the sync status timer and closes storage.
func (c *Components) Close() error {
	c.Sync.Close()

	return c.Backend.Close()
}
