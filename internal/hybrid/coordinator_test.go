package hybrid

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/sagar5412/webNotes/internal/model"
	"github.com/sagar5412/webNotes/internal/remote/remotetest"
	"github.com/sagar5412/webNotes/internal/retry"
	"github.com/sagar5412/webNotes/internal/storage"
)

func TestSignedOutNeverCallsRemote(t *testing.T) {
	ctx := context.Background()
	local := setupLocal(t)
	srv, client := setupRemote(t)
	c := New(local, client)

	if _, err := c.CreateNote(ctx, model.NoteInput{Title: strp("draft")}); err != nil {
		t.Fatalf("create note: %v", err)
	}
	notes, err := c.ListNotes(ctx, model.AllNotes())
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("notes = %d, want 1", len(notes))
	}
	if _, err := c.ListFolders(ctx); err != nil {
		t.Fatalf("list folders: %v", err)
	}

	if srv.Calls() != 0 {
		t.Errorf("remote calls = %d, want 0", srv.Calls())
	}
	if c.State() != StateLocal {
		t.Errorf("state = %s, want %s", c.State(), StateLocal)
	}
	if c.SyncStatus() != model.SyncStatusUnsynced {
		t.Errorf("sync status = %s, want %s", c.SyncStatus(), model.SyncStatusUnsynced)
	}
}

func TestSignedInRoutesRemote(t *testing.T) {
	ctx := context.Background()
	local := setupLocal(t)
	srv, client := setupRemote(t)
	c := New(local, client)
	if err := c.SetAuthenticated(ctx, true); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if c.State() != StateRemote {
		t.Fatalf("state = %s, want %s", c.State(), StateRemote)
	}

	f, err := c.CreateFolder(ctx, "  Work  ")
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	if f.Name != "Work" {
		t.Errorf("name = %q, want %q", f.Name, "Work")
	}
	n, err := c.CreateNote(ctx, model.NoteInput{Title: strp("remote"), FolderID: &f.ID})
	if err != nil {
		t.Fatalf("create note: %v", err)
	}

	remoteNotes := srv.Notes()
	if len(remoteNotes) != 1 || remoteNotes[0].ID != n.ID {
		t.Errorf("remote notes = %v, want only %s", remoteNotes, n.ID)
	}
	localNotes, err := local.ListNotes(ctx, model.AllNotes())
	if err != nil {
		t.Fatalf("list local notes: %v", err)
	}
	if len(localNotes) != 0 {
		t.Errorf("local notes = %d, want 0", len(localNotes))
	}
}

func TestListNotesSortedForDisplay(t *testing.T) {
	ctx := context.Background()
	local := setupLocal(t)
	_, client := setupRemote(t)
	c := New(local, client)
	if err := c.SetAuthenticated(ctx, true); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	var ids []string
	for _, title := range []string{"a", "b", "plain"} {
		n, err := c.CreateNote(ctx, model.NoteInput{Title: strp(title)})
		if err != nil {
			t.Fatalf("create note %s: %v", title, err)
		}
		ids = append(ids, n.ID)
	}
	a, b, plain := ids[0], ids[1], ids[2]
	if _, err := c.PinNote(ctx, b); err != nil {
		t.Fatalf("pin b: %v", err)
	}
	if _, err := c.PinNote(ctx, a); err != nil {
		t.Fatalf("pin a: %v", err)
	}

	notes, err := c.ListNotes(ctx, model.AllNotes())
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	got := make([]string, 0, len(notes))
	for _, n := range notes {
		got = append(got, n.ID)
	}
	if diff := cmp.Diff([]string{a, b, plain}, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestFallbackServesLocally(t *testing.T) {
	ctx := context.Background()
	local := setupLocal(t)
	srv, client := setupRemote(t)
	rec := &recorder{}
	c := New(local, client, WithObserver(rec.observe))
	if err := c.SetAuthenticated(ctx, true); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	doneBefore, err := local.MigrationDone(ctx)
	if err != nil {
		t.Fatalf("migration flag: %v", err)
	}

	srv.Fail(remotetest.CreateNote, http.StatusInternalServerError)
	n, err := c.CreateNote(ctx, model.NoteInput{Title: strp("kept")})
	if err != nil {
		t.Fatalf("create note: %v", err)
	}
	if n.ID == "" || n.Title != "kept" {
		t.Errorf("note = %+v, want a kept note with an id", n)
	}

	stored, err := local.GetNote(ctx, n.ID)
	if err != nil {
		t.Fatalf("note not stored locally: %v", err)
	}
	if stored.ID != n.ID {
		t.Errorf("stored id = %s, want %s", stored.ID, n.ID)
	}

	doneAfter, err := local.MigrationDone(ctx)
	if err != nil {
		t.Fatalf("migration flag: %v", err)
	}
	if doneAfter != doneBefore {
		t.Errorf("migration flag changed from %v to %v", doneBefore, doneAfter)
	}
	if c.State() != StateRemote {
		t.Errorf("state = %s, want %s", c.State(), StateRemote)
	}
	want := []State{StateMigrating, StateRemote, StateFallback, StateRemote}
	if diff := cmp.Diff(want, rec.states()); diff != "" {
		t.Errorf("transitions mismatch (-want +got):\n%s", diff)
	}

	st, err := c.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.Fallbacks != 1 {
		t.Errorf("fallbacks = %d, want 1", st.Fallbacks)
	}
}

func TestRetryPolicyAttemptsBeforeFallback(t *testing.T) {
	ctx := context.Background()
	local := setupLocal(t)
	if _, err := local.CreateFolder(ctx, "local only"); err != nil {
		t.Fatalf("create folder: %v", err)
	}
	if err := local.SetMigrationDone(ctx, true); err != nil {
		t.Fatalf("set migration flag: %v", err)
	}

	srv, client := setupRemote(t)
	c := New(local, client, WithRetryPolicy(retry.Constant(3, time.Millisecond)))
	if err := c.SetAuthenticated(ctx, true); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	srv.Fail(remotetest.ListFolders, http.StatusServiceUnavailable)
	folders, err := c.ListFolders(ctx)
	if err != nil {
		t.Fatalf("list folders: %v", err)
	}
	if len(folders) != 1 || folders[0].Name != "local only" {
		t.Errorf("folders = %v, want the local folder", folders)
	}
	if got := srv.CallsTo(remotetest.ListFolders); got != 3 {
		t.Errorf("list folder attempts = %d, want 3", got)
	}
}

func TestNotFoundIsSurfaced(t *testing.T) {
	ctx := context.Background()
	local := setupLocal(t)
	_, client := setupRemote(t)
	c := New(local, client)
	if err := c.SetAuthenticated(ctx, true); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	_, err := c.GetNote(ctx, "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if c.State() != StateRemote {
		t.Errorf("state = %s, want %s", c.State(), StateRemote)
	}
}

func TestValidationRejectedBeforeRouting(t *testing.T) {
	ctx := context.Background()
	local := setupLocal(t)
	srv, client := setupRemote(t)
	c := New(local, client)
	if err := c.SetAuthenticated(ctx, true); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	srv.ResetCalls()

	if _, err := c.CreateFolder(ctx, "   "); !storage.IsValidation(err) {
		t.Errorf("create blank folder: err = %v, want validation error", err)
	}
	if _, err := c.RenameFolder(ctx, "f-1", ""); !storage.IsValidation(err) {
		t.Errorf("rename to blank: err = %v, want validation error", err)
	}
	if srv.Calls() != 0 {
		t.Errorf("remote calls = %d, want 0", srv.Calls())
	}
}

func TestOfflineRoutesLocal(t *testing.T) {
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
	srv.ResetCalls()

	if c.State() != StateLocal {
		t.Errorf("state = %s, want %s", c.State(), StateLocal)
	}
	if c.SyncStatus() != model.SyncStatusUnsynced {
		t.Errorf("sync status = %s, want %s", c.SyncStatus(), model.SyncStatusUnsynced)
	}
	if _, err := c.CreateNote(ctx, model.NoteInput{Title: strp("on the train")}); err != nil {
		t.Fatalf("create note offline: %v", err)
	}
	if srv.Calls() != 0 {
		t.Errorf("remote calls while offline = %d, want 0", srv.Calls())
	}

	if err := c.SetOnline(ctx, true); err != nil {
		t.Fatalf("go online: %v", err)
	}
	if c.State() != StateRemote {
		t.Errorf("state = %s, want %s", c.State(), StateRemote)
	}
	if srv.Calls() != 0 {
		t.Errorf("remote calls after reconnect = %d, want 0", srv.Calls())
	}
}

func TestOfflineBeforeSessionCheckIsUnsynced(t *testing.T) {
	ctx := context.Background()
	local := setupLocal(t)
	srv, client := setupRemote(t)
	c := New(local, client, WithSessionProvider(client))

	if err := c.SetOnline(ctx, false); err != nil {
		t.Fatalf("go offline: %v", err)
	}
	if c.State() != StateLocal {
		t.Errorf("state = %s, want %s", c.State(), StateLocal)
	}
	if c.SyncStatus() != model.SyncStatusUnsynced {
		t.Errorf("sync status = %s, want %s", c.SyncStatus(), model.SyncStatusUnsynced)
	}
	s, err := c.GetSettings(ctx)
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if s.SyncStatus != model.SyncStatusUnsynced {
		t.Errorf("settings sync status = %s, want %s", s.SyncStatus, model.SyncStatusUnsynced)
	}
	if srv.Calls() != 0 {
		t.Errorf("remote calls = %d, want 0", srv.Calls())
	}
}

func TestSyncStatusFollowsSession(t *testing.T) {
	ctx := context.Background()
	local := setupLocal(t)
	srv, client := setupRemote(t)
	c := New(local, client, WithSessionProvider(client))

	if c.SyncStatus() != model.SyncStatusSyncing {
		t.Errorf("sync status before session check = %s, want %s", c.SyncStatus(), model.SyncStatusSyncing)
	}

	if err := c.RefreshAuth(ctx); err != nil {
		t.Fatalf("refresh auth: %v", err)
	}
	if c.State() != StateRemote {
		t.Errorf("state = %s, want %s", c.State(), StateRemote)
	}
	s, err := c.GetSettings(ctx)
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if s.SyncStatus != model.SyncStatusSynced {
		t.Errorf("sync status = %s, want %s", s.SyncStatus, model.SyncStatusSynced)
	}

	srv.SetSignedIn(false)
	if err := c.RefreshAuth(ctx); err != nil {
		t.Fatalf("refresh auth: %v", err)
	}
	if c.State() != StateLocal {
		t.Errorf("state = %s, want %s", c.State(), StateLocal)
	}
	s, err = c.UpdateSettings(ctx, model.SettingsPatch{Theme: strp("light")})
	if err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if s.Theme != "light" {
		t.Errorf("theme = %q, want %q", s.Theme, "light")
	}
	if s.SyncStatus != model.SyncStatusUnsynced {
		t.Errorf("sync status = %s, want %s", s.SyncStatus, model.SyncStatusUnsynced)
	}
}

func TestSettingsStayLocal(t *testing.T) {
	ctx := context.Background()
	local := setupLocal(t)
	srv, client := setupRemote(t)
	c := New(local, client)
	if err := c.SetAuthenticated(ctx, true); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	srv.ResetCalls()

	if _, err := c.UpdateSettings(ctx, model.SettingsPatch{FontSize: strp("large")}); err != nil {
		t.Fatalf("update settings: %v", err)
	}
	s, err := local.GetSettings(ctx)
	if err != nil {
		t.Fatalf("get local settings: %v", err)
	}
	if s.FontSize != "large" {
		t.Errorf("font size = %q, want %q", s.FontSize, "large")
	}
	if srv.Calls() != 0 {
		t.Errorf("remote calls = %d, want 0", srv.Calls())
	}
}
