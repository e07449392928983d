// Package app provides the application context and dependency management
// for the legisync CLI. It centralizes configuration, logging, and the
// construction of sources and remote stores.
package app

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/openstatehouse/legisync"
	"github.com/openstatehouse/legisync/internal/cmd/application"
	"github.com/openstatehouse/legisync/internal/sources/registry"
	"github.com/openstatehouse/legisync/internal/stores/memory"
	"github.com/openstatehouse/legisync/internal/stores/rest"
	"github.com/openstatehouse/legisync/internal/stores/sqlite"
	"github.com/openstatehouse/legisync/pkg/errors"
	"github.com/openstatehouse/legisync/pkg/logging"
	"github.com/openstatehouse/legisync/pkg/remote"
	"github.com/openstatehouse/legisync/pkg/sources"
)

// App represents the legisync application with all its dependencies.
type App struct {
	build  application.BuildInfo
	config *Config
	logger *zerolog.Logger
	out    io.Writer

	// Remote store (lazy-initialized, shared by every syncer of the run)
	mu     sync.Mutex
	store  remote.Store
	closer io.Closer
}

var _ application.Application = (*App)(nil)

// Option configures an App.
type Option func(*App) error

// WithStore makes the App use store instead of the configured driver.
func WithStore(store remote.Store) Option {
	return func(a *App) error {
		a.store = store
		return nil
	}
}

// WithOutput redirects command results.
func WithOutput(w io.Writer) Option {
	return func(a *App) error {
		a.out = w
		return nil
	}
}

// WithConfig replaces the loaded configuration.
func WithConfig(cfg *Config) Option {
	return func(a *App) error {
		a.config = cfg
		return nil
	}
}

// New loads the configuration, applies opts and builds the logger.
func New(build application.BuildInfo, opts ...Option) (*App, error) {
	app := &App{build: build, out: os.Stdout}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	logger := NewLogger(app.config)
	app.logger = &logger

	return app, nil
}

// Build returns the version stamped into the binary.
func (a *App) Build() application.BuildInfo {
	return a.build
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Out returns where command results are written.
func (a *App) Out() io.Writer {
	return a.out
}

// Syncer opens the configured source, connects the store, and returns a
// syncer bound to the source's jurisdiction.
func (a *App) Syncer(ctx context.Context, opts ...legisync.Option) (*legisync.Syncer, error) {
	if err := a.config.Validate(); err != nil {
		return nil, err
	}

	store, err := a.Store()
	if err != nil {
		return nil, err
	}

	source, err := registry.Get(ctx, sources.ID(a.config.Source), registry.Config{
		Path:   a.config.SourcePath,
		URL:    a.config.SourceURL,
		APIKey: a.config.SourceAPIKey,
	})
	if err != nil {
		return nil, err
	}

	ctx = logging.WithLogger(ctx, a.logger)
	opts = append([]legisync.Option{legisync.WithPageSize(a.config.PageSize)}, opts...)
	return legisync.New(ctx, source, store, opts...)
}

// Store returns the remote store, connecting it on first use.
func (a *App) Store() (remote.Store, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.store != nil {
		return a.store, nil
	}

	switch a.config.StoreDriver {
	case StoreREST:
		a.store = rest.NewFromURL(a.config.StoreURL, a.config.StoreAPIKey)
	case StoreSQLite:
		db, err := sqlite.Open(a.config.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.store, a.closer = db, db
	case StoreMemory:
		a.logger.Warn().Msg("Using the in-memory store, nothing will be persisted")
		a.store = memory.New()
	default:
		return nil, errors.NewValidationError("store.driver", a.config.StoreDriver, "unknown store driver")
	}

	a.logger.Debug().Str("driver", a.config.StoreDriver).Msg("Connected remote store")
	return a.store, nil
}

// Shutdown releases the store connection.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closer == nil {
		return nil
	}
	a.logger.Debug().Msg("Closing remote store")
	err := a.closer.Close()
	a.closer = nil
	return err
}
