package store

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Keys of the persisted local state.
const (
	NotesKey     = "webnotes_notes_v1"
	FoldersKey   = "webnotes_folders_v1"
	SettingsKey  = "webnotes_settings_v1"
	MigratedKey  = "webnotes_migrated"
	SeededKey    = "webnotes_seeded"
	flagTrueText = "true"
)

// LocalStore keeps notes, folders and settings of a single client in the
// key/value table. Each collection lives under one key and is rewritten
// whole on every change.
type LocalStore struct {
	mu     sync.Mutex
	kv     *KVStore
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// Option configures a LocalStore.
type Option func(*LocalStore)

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(s *LocalStore) { s.now = now }
}

// WithIDGenerator replaces the id source.
func WithIDGenerator(newID func() string) Option {
	return func(s *LocalStore) { s.newID = newID }
}

// WithLogger sets the logger used for recoverable read problems.
func WithLogger(logger *slog.Logger) Option {
	return func(s *LocalStore) { s.logger = logger }
}

func NewLocalStore(db *sql.DB, opts ...Option) *LocalStore {
	s := &LocalStore{
		kv:     NewKVStore(db),
		logger: slog.Default(),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// load decodes the collection under key into v. A missing key leaves v as
// is. A value that no longer decodes is logged and treated as missing.
func (s *LocalStore) load(ctx context.Context, key string, v any) error {
	_, err := s.kv.GetJSON(ctx, key, v)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrCorrupt) {
		s.logger.Warn("discarding unreadable local collection", "key", key, "error", err)
		return nil
	}
	return err
}

func (s *LocalStore) save(ctx context.Context, key string, v any) error {
	return s.kv.SetJSON(ctx, key, v)
}

// inTx runs fn against a view of the store whose reads and writes share one
// transaction. The caller holds s.mu.
func (s *LocalStore) inTx(ctx context.Context, fn func(tx *LocalStore) error) error {
	return s.kv.InTx(ctx, func(kv *KVStore) error {
		return fn(&LocalStore{kv: kv, logger: s.logger, now: s.now, newID: s.newID})
	})
}

func (s *LocalStore) flag(ctx context.Context, key string) (bool, error) {
	v, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return false, err
	}
	return ok && v == flagTrueText, nil
}

func (s *LocalStore) setFlag(ctx context.Context, key string, on bool) error {
	if !on {
		return s.kv.Delete(ctx, key)
	}
	return s.kv.Set(ctx, key, flagTrueText)
}

// MigrationDone reports whether local data was already moved to the remote
// store for this client.
func (s *LocalStore) MigrationDone(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flag(ctx, MigratedKey)
}

func (s *LocalStore) SetMigrationDone(ctx context.Context, done bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setFlag(ctx, MigratedKey, done)
}

// Seeded reports whether the welcome notes were ever written.
func (s *LocalStore) Seeded(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flag(ctx, SeededKey)
}

func (s *LocalStore) MarkSeeded(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setFlag(ctx, SeededKey, true)
}
