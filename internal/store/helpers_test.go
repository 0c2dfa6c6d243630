package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/sagar5412/webNotes/internal/database"
)

type fakeClock struct {
	t time.Time
}

// Now advances one second per call so every write gets a distinct time.
func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

type seqIDs struct {
	n int
}

func (g *seqIDs) Next() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

func setupLocalTestStore(t *testing.T) (*LocalStore, *fakeClock) {
	t.Helper()
	db, err := database.Open(database.MemoryPath)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	ids := &seqIDs{}
	return NewLocalStore(db, WithClock(clock.Now), WithIDGenerator(ids.Next)), clock
}

func strp(s string) *string { return &s }
