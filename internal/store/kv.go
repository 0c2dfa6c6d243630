package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrCorrupt marks a stored value that no longer decodes.
var ErrCorrupt = errors.New("corrupt value")

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// KVStore is the durable key/value table backing the local collections.
type KVStore struct {
	db   execer
	conn *sql.DB // nil inside a transaction
}

func NewKVStore(db *sql.DB) *KVStore {
	return &KVStore{db: db, conn: db}
}

// InTx runs fn against a KVStore bound to one transaction. The transaction
// commits when fn returns nil and rolls back otherwise. Calling InTx on a
// store that is already inside a transaction joins it.
func (s *KVStore) InTx(ctx context.Context, fn func(tx *KVStore) error) error {
	if s.conn == nil {
		return fn(s)
	}
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&KVStore{db: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

// Get returns the value stored under key. ok is false when the key has never
// been written or was deleted.
func (s *KVStore) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	err = s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// GetJSON decodes the value under key into v. It reports false, leaving v
// untouched, when the key is absent.
func (s *KVStore) GetJSON(ctx context.Context, key string, v any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("decode %q: %w: %w", key, ErrCorrupt, err)
	}
	return true, nil
}

// SetJSON replaces the value under key with the JSON encoding of v.
func (s *KVStore) SetJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	return s.Set(ctx, key, string(data))
}
