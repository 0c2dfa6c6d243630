package hybrid

import (
	"context"
	"errors"
	"fmt"

	"github.com/sagar5412/webNotes/internal/model"
	"github.com/sagar5412/webNotes/internal/storage"
)

// Migrate copies local folders and notes to the remote store once per
// client. Concurrent calls share a single run. A canceled context or an
// expired session aborts the run and leaves the migration flag unset;
// failures of single entities are logged and those entities stay local.
func (c *Coordinator) Migrate(ctx context.Context) error {
	c.mu.Lock()
	from := c.stateLocked()
	c.migrating = true
	to := c.stateLocked()
	c.mu.Unlock()
	c.emit(from, to, "migrate")

	return c.runMigration(ctx)
}

func (c *Coordinator) runMigration(ctx context.Context) error {
	_, err, _ := c.group.Do("migrate", func() (any, error) {
		return nil, c.migrate(ctx)
	})

	c.mu.Lock()
	from := c.stateLocked()
	c.migrating = false
	to := c.stateLocked()
	c.mu.Unlock()
	c.emit(from, to, "migration finished")
	return err
}

// migrationResult counts what one migration run moved.
type migrationResult struct {
	Folders        int
	Notes          int
	SkippedFolders int
	SkippedNotes   int
}

func (c *Coordinator) migrate(ctx context.Context) error {
	done, err := c.local.MigrationDone(ctx)
	if err != nil {
		return fmt.Errorf("read migration flag: %w", err)
	}
	if done {
		return nil
	}

	folders, notes, err := c.local.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("read local data: %w", err)
	}
	if len(folders) == 0 && len(notes) == 0 {
		return c.markMigrated(ctx)
	}
	c.logger.Info("migrating local data", "folders", len(folders), "notes", len(notes))

	var seen *remoteIndex
	if c.dedupe {
		seen, err = c.indexRemote(ctx)
		if err != nil {
			return fmt.Errorf("index remote data: %w", err)
		}
	}

	var res migrationResult
	folderIDs := make(map[string]string, len(folders))
	failed := make(map[string]bool)
	movedFolders := make([]string, 0, len(folders))
	for _, f := range folders {
		id, err := c.migrateFolder(ctx, f, seen)
		if err != nil {
			if isFatal(ctx, err) {
				return fmt.Errorf("migrate folder %q: %w", f.Name, err)
			}
			c.logger.Warn("skipping folder", "folder_id", f.ID, "name", f.Name, "error", err)
			failed[f.ID] = true
			res.SkippedFolders++
			continue
		}
		folderIDs[f.ID] = id
		movedFolders = append(movedFolders, f.ID)
		res.Folders++
	}

	movedNotes := make([]string, 0, len(notes))
	for _, n := range notes {
		var target *string
		if n.FolderID != nil {
			if failed[*n.FolderID] {
				c.logger.Warn("skipping note in skipped folder", "note_id", n.ID, "folder_id", *n.FolderID)
				res.SkippedNotes++
				continue
			}
			if id, ok := folderIDs[*n.FolderID]; ok {
				target = &id
			}
		}
		if err := c.migrateNote(ctx, n, target, seen); err != nil {
			if isFatal(ctx, err) {
				return fmt.Errorf("migrate note %q: %w", n.ID, err)
			}
			c.logger.Warn("skipping note", "note_id", n.ID, "error", err)
			res.SkippedNotes++
			continue
		}
		movedNotes = append(movedNotes, n.ID)
		res.Notes++
	}

	if err := c.local.RemoveMigrated(ctx, movedFolders, movedNotes); err != nil {
		return fmt.Errorf("clear migrated data: %w", err)
	}
	if err := c.markMigrated(ctx); err != nil {
		return err
	}
	c.logger.Info("migration complete",
		"folders", res.Folders, "notes", res.Notes,
		"skipped_folders", res.SkippedFolders, "skipped_notes", res.SkippedNotes)
	return nil
}

func (c *Coordinator) markMigrated(ctx context.Context) error {
	if err := c.local.SetMigrationDone(ctx, true); err != nil {
		return fmt.Errorf("set migration flag: %w", err)
	}
	return nil
}

func (c *Coordinator) migrateFolder(ctx context.Context, f model.Folder, seen *remoteIndex) (string, error) {
	if id, ok := seen.takeFolder(f.Name); ok {
		c.logger.Debug("reusing remote folder", "folder_id", f.ID, "remote_id", id)
		return id, nil
	}
	var created model.Folder
	err := c.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		created, err = c.remote.CreateFolder(ctx, f.Name)
		return err
	})
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

func (c *Coordinator) migrateNote(ctx context.Context, n model.Note, folderID *string, seen *remoteIndex) error {
	if seen.takeNote(n.Title, n.Content, folderID) {
		c.logger.Debug("note already on remote", "note_id", n.ID)
		return nil
	}
	title, content := n.Title, n.Content
	var created model.Note
	err := c.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		created, err = c.remote.CreateNote(ctx, model.NoteInput{
			Title:    &title,
			Content:  &content,
			FolderID: folderID,
		})
		return err
	})
	if err != nil {
		return err
	}
	if !n.IsPinned {
		return nil
	}
	err = c.policy.Do(ctx, func(ctx context.Context) error {
		_, err := c.remote.PinNote(ctx, created.ID)
		return err
	})
	if err != nil && isFatal(ctx, err) {
		return err
	}
	if err != nil {
		c.logger.Warn("note migrated without pin", "note_id", n.ID, "remote_id", created.ID, "error", err)
	}
	return nil
}

func isFatal(ctx context.Context, err error) bool {
	return ctx.Err() != nil ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, storage.ErrUnauthorized)
}

// remoteIndex tracks remote entities that local ones may be merged into.
// A nil index matches nothing.
type remoteIndex struct {
	folders map[string][]string
	notes   map[noteKey]int
}

type noteKey struct {
	title, content, folder string
}

func keyFor(title, content string, folderID *string) noteKey {
	k := noteKey{title: title, content: content}
	if folderID != nil {
		k.folder = *folderID
	}
	return k
}

func (c *Coordinator) indexRemote(ctx context.Context) (*remoteIndex, error) {
	var folders []model.Folder
	err := c.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		folders, err = c.remote.ListFolders(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	var notes []model.Note
	err = c.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		notes, err = c.remote.ListNotes(ctx, model.AllNotes())
		return err
	})
	if err != nil {
		return nil, err
	}

	idx := &remoteIndex{
		folders: make(map[string][]string, len(folders)),
		notes:   make(map[noteKey]int, len(notes)),
	}
	for _, f := range folders {
		idx.folders[f.Name] = append(idx.folders[f.Name], f.ID)
	}
	for _, n := range notes {
		idx.notes[keyFor(n.Title, n.Content, n.FolderID)]++
	}
	return idx, nil
}

func (idx *remoteIndex) takeFolder(name string) (string, bool) {
	if idx == nil {
		return "", false
	}
	ids := idx.folders[name]
	if len(ids) == 0 {
		return "", false
	}
	idx.folders[name] = ids[1:]
	return ids[0], true
}

func (idx *remoteIndex) takeNote(title, content string, folderID *string) bool {
	if idx == nil {
		return false
	}
	k := keyFor(title, content, folderID)
	if idx.notes[k] == 0 {
		return false
	}
	idx.notes[k]--
	return true
}
