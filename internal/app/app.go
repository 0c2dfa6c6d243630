// Package app wires the stores, the coordinator and the connectivity monitor
// from a loaded configuration.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sagar5412/webNotes/internal/config"
	"github.com/sagar5412/webNotes/internal/database"
	"github.com/sagar5412/webNotes/internal/hybrid"
	"github.com/sagar5412/webNotes/internal/netwatch"
	"github.com/sagar5412/webNotes/internal/remote"
	"github.com/sagar5412/webNotes/internal/retry"
	"github.com/sagar5412/webNotes/internal/store"
	"github.com/sagar5412/webNotes/internal/welcome"
)

// App holds one client instance.
type App struct {
	Config config.Config
	Logger *slog.Logger
	Local  *store.LocalStore
	Remote *remote.Client
	Notes  *hybrid.Coordinator

	db       *sql.DB
	monitor  *netwatch.Monitor
	watching bool
}

// Option adjusts how New builds the app.
type Option func(*options)

type options struct {
	observer func(hybrid.Transition)
}

// WithObserver forwards coordinator state changes to fn in addition to the
// log.
func WithObserver(fn func(hybrid.Transition)) Option {
	return func(o *options) { o.observer = fn }
}

// New opens the database and builds every component. It does not touch the
// network; call Connect for that.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = slog.Default()
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	local := store.NewLocalStore(db, store.WithLogger(logger))
	if cfg.WelcomeNotes {
		if _, err := welcome.Seed(ctx, local, logger); err != nil {
			db.Close()
			return nil, fmt.Errorf("seed welcome notes: %w", err)
		}
	}

	client := remote.NewClient(remote.Config{
		BaseURL:       cfg.Remote.APIURL,
		SessionToken:  cfg.Remote.SessionToken,
		SessionCookie: cfg.Remote.SessionCookie,
		Timeout:       cfg.Remote.Timeout,
	}, logger)

	hopts := []hybrid.Option{
		hybrid.WithLogger(logger),
		hybrid.WithRetryPolicy(RetryPolicy(cfg.Retry)),
		hybrid.WithDedupeOnMigrate(cfg.Migration.Dedupe),
		hybrid.WithInitialOnline(!cfg.Offline),
		hybrid.WithObserver(func(t hybrid.Transition) {
			logger.Info("storage mode changed", "from", t.From, "to", t.To, "reason", t.Reason)
			if o.observer != nil {
				o.observer(t)
			}
		}),
	}
	if cfg.Remote.SessionToken != "" && !cfg.Offline {
		hopts = append(hopts, hybrid.WithSessionProvider(client))
	}
	coord := hybrid.New(local, client, hopts...)

	a := &App{
		Config: cfg,
		Logger: logger,
		Local:  local,
		Remote: client,
		Notes:  coord,
		db:     db,
	}
	a.monitor = netwatch.New(netwatch.Config{
		Interval: cfg.Netwatch.Interval,
		Timeout:  cfg.Netwatch.Timeout,
	}, client, a.setOnline, logger)
	return a, nil
}

func (a *App) setOnline(ctx context.Context, online bool) {
	if err := a.Notes.SetOnline(ctx, online); err != nil {
		a.Logger.Error("apply network state", "error", err)
	}
}

// Connect probes the API host once and, when it answers, checks the
// session. Local data is migrated if this brings the client into remote
// mode for the first time. In offline mode nothing is sent.
func (a *App) Connect(ctx context.Context) error {
	if a.Config.Offline {
		return a.Notes.SetOnline(ctx, false)
	}
	if !a.monitor.Check(ctx) {
		return nil
	}
	if err := a.Notes.RefreshAuth(ctx); err != nil {
		a.Logger.Warn("session check failed", "error", err)
	}
	return nil
}

// Watch keeps probing the API host in the background until Close.
func (a *App) Watch(ctx context.Context) error {
	if a.Config.Offline {
		return errors.New("cannot watch the network in offline mode")
	}
	a.monitor.Start(ctx)
	a.watching = true
	return nil
}

// Close stops background work and closes the database.
func (a *App) Close() error {
	if a.watching {
		a.monitor.Stop()
		a.watching = false
	}
	return a.db.Close()
}

// RetryPolicy builds the coordinator's retry policy from configuration.
func RetryPolicy(cfg config.RetryConfig) retry.Policy {
	switch cfg.Backoff {
	case config.BackoffConstant:
		return retry.Constant(cfg.Attempts, cfg.Delay)
	case config.BackoffExponential:
		return retry.Exponential(cfg.Attempts, cfg.Delay, cfg.MaxDelay)
	default:
		return retry.Policy{MaxAttempts: cfg.Attempts}
	}
}
