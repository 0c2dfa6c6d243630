package hybrid

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sagar5412/webNotes/internal/model"
	"github.com/sagar5412/webNotes/internal/remote/remotetest"
	"github.com/sagar5412/webNotes/internal/storage"
	"github.com/sagar5412/webNotes/internal/store"
)

// seedLocal creates folders "Work" and "Home" with one note each and one
// unfiled note.
func seedLocal(t *testing.T, local *store.LocalStore) {
	t.Helper()
	ctx := context.Background()
	work, err := local.CreateFolder(ctx, "Work")
	if err != nil {
		t.Fatalf("create folder Work: %v", err)
	}
	home, err := local.CreateFolder(ctx, "Home")
	if err != nil {
		t.Fatalf("create folder Home: %v", err)
	}
	for _, in := range []model.NoteInput{
		{Title: strp("standup"), Content: strp("notes"), FolderID: &work.ID},
		{Title: strp("groceries"), FolderID: &home.ID},
		{Title: strp("loose")},
	} {
		if _, err := local.CreateNote(ctx, in); err != nil {
			t.Fatalf("create note %s: %v", *in.Title, err)
		}
	}
}

func assertMigrationDone(t *testing.T, local *store.LocalStore, want bool) {
	t.Helper()
	done, err := local.MigrationDone(context.Background())
	if err != nil {
		t.Fatalf("migration flag: %v", err)
	}
	if done != want {
		t.Errorf("migration done = %v, want %v", done, want)
	}
}

func TestMigrationMovesLocalData(t *testing.T) {
	ctx := context.Background()
	local := setupLocal(t)
	seedLocal(t, local)
	srv, client := setupRemote(t)
	c := New(local, client)

	if err := c.SetAuthenticated(ctx, true); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	folders := srv.Folders()
	if len(folders) != 2 {
		t.Fatalf("remote folders = %d, want 2", len(folders))
	}
	notes := srv.Notes()
	if len(notes) != 3 {
		t.Fatalf("remote notes = %d, want 3", len(notes))
	}
	placed := map[string]string{}
	for _, n := range notes {
		placed[n.Title] = folderName(t, folders, n.FolderID)
	}
	want := map[string]string{"standup": "Work", "groceries": "Home", "loose": ""}
	if diff := cmp.Diff(want, placed); diff != "" {
		t.Errorf("note placement mismatch (-want +got):\n%s", diff)
	}

	localFolders, localNotes, err := local.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(localFolders) != 0 || len(localNotes) != 0 {
		t.Errorf("local store kept %d folders and %d notes, want none", len(localFolders), len(localNotes))
	}
	assertMigrationDone(t, local, true)
	if c.State() != StateRemote {
		t.Errorf("state = %s, want %s", c.State(), StateRemote)
	}

	srv.ResetCalls()
	if err := c.Migrate(ctx); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	if err := c.SetOnline(ctx, false); err != nil {
		t.Fatalf("go offline: %v", err)
	}
	if err := c.SetOnline(ctx, true); err != nil {
		t.Fatalf("go online: %v", err)
	}
	if srv.Calls() != 0 {
		t.Errorf("remote calls after migration = %d, want 0", srv.Calls())
	}
}

func TestMigrationOfEmptyStoreMakesNoCalls(t *testing.T) {
	ctx := context.Background()
	local := setupLocal(t)
	srv, client := setupRemote(t)
	c := New(local, client)

	if err := c.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if srv.Calls() != 0 {
		t.Errorf("remote calls = %d, want 0", srv.Calls())
	}
	assertMigrationDone(t, local, true)
}

func TestMigrationWaitsForNetwork(t *testing.T) {
	ctx := context.Background()
	local := setupLocal(t)
	seedLocal(t, local)
	srv, client := setupRemote(t)
	c := New(local, client, WithInitialOnline(false))

	if err := c.SetAuthenticated(ctx, true); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if srv.Calls() != 0 {
		t.Errorf("remote calls while offline = %d, want 0", srv.Calls())
	}
	if c.State() != StateLocal {
		t.Errorf("state = %s, want %s", c.State(), StateLocal)
	}

	if err := c.SetOnline(ctx, true); err != nil {
		t.Fatalf("go online: %v", err)
	}
	if got := len(srv.Notes()); got != 3 {
		t.Errorf("remote notes = %d, want 3", got)
	}
	if c.State() != StateRemote {
		t.Errorf("state = %s, want %s", c.State(), StateRemote)
	}
}

func TestMigrationSkipsFailedFolder(t *testing.T) {
	ctx := context.Background()
	local := setupLocal(t)
	seedLocal(t, local)
	srv, client := setupRemote(t)
	c := New(local, failingFolders{Adapter: client, names: map[string]bool{"Home": true}})

	if err := c.SetAuthenticated(ctx, true); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	folders := srv.Folders()
	if len(folders) != 1 || folders[0].Name != "Work" {
		t.Errorf("remote folders = %v, want only Work", folders)
	}
	var titles []string
	for _, n := range srv.Notes() {
		titles = append(titles, n.Title)
	}
	slices.Sort(titles)
	if diff := cmp.Diff([]string{"loose", "standup"}, titles); diff != "" {
		t.Errorf("remote titles mismatch (-want +got):\n%s", diff)
	}

	localFolders, localNotes, err := local.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(localFolders) != 1 || localFolders[0].Name != "Home" {
		t.Fatalf("local folders = %v, want only Home", localFolders)
	}
	if len(localNotes) != 1 || localNotes[0].Title != "groceries" {
		t.Fatalf("local notes = %v, want only groceries", localNotes)
	}
	if fid := localNotes[0].FolderID; fid == nil || *fid != localFolders[0].ID {
		t.Errorf("groceries folder_id = %v, want %s", fid, localFolders[0].ID)
	}
	assertMigrationDone(t, local, true)
}

func TestMigrationSkipsFailedNote(t *testing.T) {
	ctx := context.Background()
	local := setupLocal(t)
	if _, err := local.CreateNote(ctx, model.NoteInput{Title: strp("only")}); err != nil {
		t.Fatalf("create note: %v", err)
	}
	srv, client := setupRemote(t)
	srv.Fail(remotetest.CreateNote, http.StatusBadGateway)
	c := New(local, client)

	if err := c.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if got := len(srv.Notes()); got != 0 {
		t.Errorf("remote notes = %d, want 0", got)
	}
	notes, err := local.ListNotes(ctx, model.AllNotes())
	if err != nil {
		t.Fatalf("list local notes: %v", err)
	}
	if len(notes) != 1 {
		t.Errorf("local notes = %d, want 1", len(notes))
	}
}

func TestMigrationAbortsOnExpiredSession(t *testing.T) {
	ctx := context.Background()
	local := setupLocal(t)
	seedLocal(t, local)
	srv, client := setupRemote(t)
	srv.SetSignedIn(false)
	c := New(local, client)

	if err := c.Migrate(ctx); !errors.Is(err, storage.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}

	assertMigrationDone(t, local, false)
	folders, notes, err := local.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(folders) != 2 || len(notes) != 3 {
		t.Errorf("local store has %d folders and %d notes, want 2 and 3", len(folders), len(notes))
	}
	if c.State() != StateLocal {
		t.Errorf("state = %s, want %s", c.State(), StateLocal)
	}
}

func TestMigrationAbortsOnCanceledContext(t *testing.T) {
	local := setupLocal(t)
	seedLocal(t, local)
	srv, client := setupRemote(t)
	c := New(local, client)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Migrate(ctx); err == nil {
		t.Fatal("expected migrate to fail on a canceled context")
	}
	if got := len(srv.Folders()); got != 0 {
		t.Errorf("remote folders = %d, want 0", got)
	}
	assertMigrationDone(t, local, false)
}

func TestConcurrentMigrationsRunOnce(t *testing.T) {
	ctx := context.Background()
	local := setupLocal(t)
	seedLocal(t, local)
	srv, client := setupRemote(t)
	c := New(local, client)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := c.Migrate(ctx); err != nil {
				t.Errorf("migrate: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := len(srv.Folders()); got != 2 {
		t.Errorf("remote folders = %d, want 2", got)
	}
	if got := len(srv.Notes()); got != 3 {
		t.Errorf("remote notes = %d, want 3", got)
	}
	if c.State() != StateLocal {
		t.Errorf("state = %s, want %s", c.State(), StateLocal)
	}
}

func TestMigrationKeepsPins(t *testing.T) {
	ctx := context.Background()
	local := setupLocal(t)
	n, err := local.CreateNote(ctx, model.NoteInput{Title: strp("important")})
	if err != nil {
		t.Fatalf("create note: %v", err)
	}
	if _, err := local.PinNote(ctx, n.ID); err != nil {
		t.Fatalf("pin note: %v", err)
	}
	srv, client := setupRemote(t)
	c := New(local, client)

	if err := c.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	notes := srv.Notes()
	if len(notes) != 1 {
		t.Fatalf("remote notes = %d, want 1", len(notes))
	}
	if !notes[0].IsPinned || notes[0].PinnedAt == nil {
		t.Errorf("note lost its pin: pinned=%v pinned_at=%v", notes[0].IsPinned, notes[0].PinnedAt)
	}
}

func TestMigrationDedupe(t *testing.T) {
	ctx := context.Background()
	srv, client := setupRemote(t)
	work, err := client.CreateFolder(ctx, "Work")
	if err != nil {
		t.Fatalf("create remote folder: %v", err)
	}
	if _, err := client.CreateNote(ctx, model.NoteInput{Title: strp("standup"), Content: strp("notes"), FolderID: &work.ID}); err != nil {
		t.Fatalf("create remote note: %v", err)
	}

	local := setupLocal(t)
	seedLocal(t, local)
	c := New(local, client, WithDedupeOnMigrate(true))

	if err := c.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if got := len(srv.Folders()); got != 2 {
		t.Errorf("remote folders = %d, want 2", got)
	}
	if got := len(srv.Notes()); got != 3 {
		t.Errorf("remote notes = %d, want 3", got)
	}

	folders, notes, err := local.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(folders) != 0 || len(notes) != 0 {
		t.Errorf("local store kept %d folders and %d notes, want none", len(folders), len(notes))
	}
}

func TestResetMigrationMovesNewLocalData(t *testing.T) {
	ctx := context.Background()
	local := setupLocal(t)
	srv, client := setupRemote(t)
	c := New(local, client)
	if err := c.SetAuthenticated(ctx, true); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if err := c.SetOnline(ctx, false); err != nil {
		t.Fatalf("go offline: %v", err)
	}

	if _, err := c.CreateNote(ctx, model.NoteInput{Title: strp("offline")}); err != nil {
		t.Fatalf("create note: %v", err)
	}
	if err := c.ResetMigration(ctx); err != nil {
		t.Fatalf("reset migration: %v", err)
	}
	if err := c.SetOnline(ctx, true); err != nil {
		t.Fatalf("go online: %v", err)
	}

	notes := srv.Notes()
	if len(notes) != 1 || notes[0].Title != "offline" {
		t.Errorf("remote notes = %v, want only the offline note", notes)
	}
}
