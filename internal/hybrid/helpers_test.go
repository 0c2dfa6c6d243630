package hybrid

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sagar5412/webNotes/internal/database"
	"github.com/sagar5412/webNotes/internal/model"
	"github.com/sagar5412/webNotes/internal/remote"
	"github.com/sagar5412/webNotes/internal/remote/remotetest"
	"github.com/sagar5412/webNotes/internal/storage"
	"github.com/sagar5412/webNotes/internal/store"
)

func setupLocal(t *testing.T) *store.LocalStore {
	t.Helper()
	db, err := database.Open(database.MemoryPath)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return store.NewLocalStore(db)
}

func setupRemote(t *testing.T) (*remotetest.Server, *remote.Client) {
	t.Helper()
	srv := remotetest.New()
	t.Cleanup(srv.Close)
	return srv, remote.NewClient(remote.Config{BaseURL: srv.URL, SessionToken: remotetest.Token}, nil)
}

// recorder collects transitions reported to the observer.
type recorder struct {
	mu  sync.Mutex
	got []Transition
}

func (r *recorder) observe(t Transition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, t)
}

func (r *recorder) states() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]State, 0, len(r.got))
	for _, t := range r.got {
		out = append(out, t.To)
	}
	return out
}

// failingFolders wraps a remote store and rejects folder creation for the
// listed names.
type failingFolders struct {
	storage.Adapter
	names map[string]bool
}

func (f failingFolders) CreateFolder(ctx context.Context, name string) (model.Folder, error) {
	if f.names[name] {
		return model.Folder{}, &storage.RemoteFailure{Op: "create folder", Status: 500, Err: errors.New("boom")}
	}
	return f.Adapter.CreateFolder(ctx, name)
}

func strp(s string) *string { return &s }

func folderName(t *testing.T, folders []model.Folder, id *string) string {
	t.Helper()
	if id == nil {
		return ""
	}
	for _, f := range folders {
		if f.ID == *id {
			return f.Name
		}
	}
	t.Fatalf("folder %s not found", *id)
	return ""
}
