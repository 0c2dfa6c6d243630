// Package hybrid serves notes and folders from the remote store while a
// signed-in user is online and from the local store otherwise, moving local
// data to the remote store the first time it becomes reachable.
package hybrid

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/sagar5412/webNotes/internal/model"
	"github.com/sagar5412/webNotes/internal/retry"
	"github.com/sagar5412/webNotes/internal/storage"
)

// State is the routing state of the coordinator.
type State string

const (
	StateLocal     State = "local"
	StateRemote    State = "remote"
	StateMigrating State = "migrating"
	// StateFallback lasts for a single call that was meant for the remote
	// store and is being served locally after a remote failure.
	StateFallback State = "fallback"
)

// Transition is reported to the observer on every state change.
type Transition struct {
	From   State
	To     State
	Reason string
}

// LocalBackend is the local store as the coordinator needs it.
type LocalBackend interface {
	storage.Adapter
	MigrationDone(ctx context.Context) (bool, error)
	SetMigrationDone(ctx context.Context, done bool) error
	Snapshot(ctx context.Context) ([]model.Folder, []model.Note, error)
	RemoveMigrated(ctx context.Context, folderIDs, noteIDs []string) error
}

// SessionProvider reports whether a user is currently signed in.
type SessionProvider interface {
	Authenticated(ctx context.Context) (bool, error)
}

// Status is a point-in-time view of the coordinator.
type Status struct {
	State         State            `json:"state"`
	Online        bool             `json:"online"`
	Authenticated bool             `json:"authenticated"`
	MigrationDone bool             `json:"migrationDone"`
	SyncStatus    model.SyncStatus `json:"syncStatus"`
	Fallbacks     int              `json:"fallbacks"`
}

// Coordinator implements storage.Adapter on top of a local and a remote store.
type Coordinator struct {
	local    LocalBackend
	remote   storage.Adapter
	session  SessionProvider
	policy   retry.Policy
	dedupe   bool
	logger   *slog.Logger
	observer func(Transition)
	group    singleflight.Group

	mu            sync.Mutex
	online        bool
	authenticated bool
	authKnown     bool
	migrating     bool
	fallbacks     int
}

var _ storage.Adapter = (*Coordinator)(nil)

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithRetryPolicy sets the policy applied to every remote call.
func WithRetryPolicy(p retry.Policy) Option {
	return func(c *Coordinator) { c.policy = p }
}

// WithSessionProvider sets where RefreshAuth reads the session from.
func WithSessionProvider(s SessionProvider) Option {
	return func(c *Coordinator) { c.session = s }
}

// WithDedupeOnMigrate makes migration reuse remote folders and skip remote
// notes that already match a local entity.
func WithDedupeOnMigrate(on bool) Option {
	return func(c *Coordinator) { c.dedupe = on }
}

// WithObserver registers a callback for state transitions. It runs on the
// goroutine that caused the transition and must not block.
func WithObserver(fn func(Transition)) Option {
	return func(c *Coordinator) { c.observer = fn }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = logger }
}

// WithInitialOnline sets the network state assumed before the first event.
func WithInitialOnline(online bool) Option {
	return func(c *Coordinator) { c.online = online }
}

// New creates a coordinator. It starts online and signed out; without a
// session provider the signed-out state is taken as known.
func New(local LocalBackend, remote storage.Adapter, opts ...Option) *Coordinator {
	c := &Coordinator{
		local:  local,
		remote: remote,
		policy: retry.None(),
		logger: slog.Default(),
		online: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.authKnown = c.session == nil
	c.logger = c.logger.With("component", "hybrid")
	return c
}

func (c *Coordinator) stateLocked() State {
	switch {
	case c.migrating:
		return StateMigrating
	case c.authenticated && c.online:
		return StateRemote
	default:
		return StateLocal
	}
}

// State returns the current routing state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Coordinator) emit(from, to State, reason string) {
	if from == to {
		return
	}
	c.logger.Debug("state change", "from", from, "to", to, "reason", reason)
	if c.observer != nil {
		c.observer(Transition{From: from, To: to, Reason: reason})
	}
}

// SyncStatus derives the indicator shown to the user from session, network
// and migration state. Offline is always unsynced. Individual call outcomes
// do not affect it.
func (c *Coordinator) SyncStatus() model.SyncStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.syncStatusLocked()
}

func (c *Coordinator) syncStatusLocked() model.SyncStatus {
	switch {
	case c.migrating:
		return model.SyncStatusSyncing
	case !c.online:
		return model.SyncStatusUnsynced
	case !c.authKnown:
		return model.SyncStatusSyncing
	case c.stateLocked() == StateRemote:
		return model.SyncStatusSynced
	default:
		return model.SyncStatusUnsynced
	}
}

// Status reports the coordinator state together with the persisted
// migration flag.
func (c *Coordinator) Status(ctx context.Context) (Status, error) {
	done, err := c.local.MigrationDone(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("read migration flag: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		State:         c.stateLocked(),
		Online:        c.online,
		Authenticated: c.authenticated,
		MigrationDone: done,
		SyncStatus:    c.syncStatusLocked(),
		Fallbacks:     c.fallbacks,
	}, nil
}

// SetOnline records a network change. Going offline forces local routing.
// Coming back online while signed in migrates local data if that never
// succeeded.
func (c *Coordinator) SetOnline(ctx context.Context, online bool) error {
	reason := "offline"
	if online {
		reason = "online"
	}
	return c.apply(ctx, reason, func() { c.online = online })
}

// SetAuthenticated records a session change. A new session triggers
// migration if it never succeeded for this client.
func (c *Coordinator) SetAuthenticated(ctx context.Context, authenticated bool) error {
	reason := "signed out"
	if authenticated {
		reason = "signed in"
	}
	return c.apply(ctx, reason, func() {
		c.authenticated = authenticated
		c.authKnown = true
	})
}

// RefreshAuth asks the session provider whether a user is signed in. A
// provider error counts as signed out and is returned after the state
// was applied.
func (c *Coordinator) RefreshAuth(ctx context.Context) error {
	if c.session == nil {
		return nil
	}
	ok, err := c.session.Authenticated(ctx)
	if err != nil {
		c.logger.Warn("session check failed, treating as signed out", "error", err)
		ok = false
	}
	if applyErr := c.SetAuthenticated(ctx, ok); applyErr != nil {
		return applyErr
	}
	if err != nil {
		return fmt.Errorf("check session: %w", err)
	}
	return nil
}

// apply changes the connectivity inputs and enters Migrating in the same
// step when the change makes the remote store reachable and local data was
// never migrated. Migration failures are logged, not returned; the state
// change always takes effect.
func (c *Coordinator) apply(ctx context.Context, reason string, change func()) error {
	done, flagErr := c.local.MigrationDone(ctx)
	if flagErr != nil {
		flagErr = fmt.Errorf("read migration flag: %w", flagErr)
		done = true
	}

	c.mu.Lock()
	from := c.stateLocked()
	change()
	start := !done && !c.migrating && c.authenticated && c.online
	if start {
		c.migrating = true
	}
	to := c.stateLocked()
	c.mu.Unlock()
	c.emit(from, to, reason)

	if !start {
		return flagErr
	}
	if err := c.runMigration(ctx); err != nil {
		c.logger.Error("migration failed, will retry on next session", "error", err)
	}
	return nil
}

// ResetMigration clears the persisted flag so the next session migrates
// local data again.
func (c *Coordinator) ResetMigration(ctx context.Context) error {
	if err := c.local.SetMigrationDone(ctx, false); err != nil {
		return fmt.Errorf("reset migration: %w", err)
	}
	return nil
}
