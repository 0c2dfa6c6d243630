package hybrid

import (
	"context"
	"errors"

	"github.com/sagar5412/webNotes/internal/model"
	"github.com/sagar5412/webNotes/internal/storage"
)

// route runs remoteFn under the retry policy when the coordinator is in
// remote mode and localFn otherwise. A remote failure other than a missing
// entity is logged and the call is served by localFn instead.
func route[T any](ctx context.Context, c *Coordinator, op string,
	remoteFn, localFn func(context.Context) (T, error)) (T, error) {
	if c.State() != StateRemote {
		return localFn(ctx)
	}

	var out T
	err := c.policy.Do(ctx, func(ctx context.Context) error {
		v, err := remoteFn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err == nil {
		return out, nil
	}
	if !shouldFallBack(ctx, err) {
		return out, err
	}

	c.logger.Warn("remote call failed, serving locally", "op", op, "error", err)
	c.enterFallback(op)
	defer c.leaveFallback(op)
	return localFn(ctx)
}

func shouldFallBack(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if errors.Is(err, storage.ErrNotFound) {
		return false
	}
	return storage.IsRemoteFailure(err)
}

func (c *Coordinator) enterFallback(op string) {
	c.mu.Lock()
	c.fallbacks++
	c.mu.Unlock()
	c.emit(StateRemote, StateFallback, op)
}

func (c *Coordinator) leaveFallback(op string) {
	c.emit(StateFallback, c.State(), op)
}

func (c *Coordinator) ListNotes(ctx context.Context, filter model.NoteFilter) ([]model.Note, error) {
	notes, err := route(ctx, c, "list notes",
		func(ctx context.Context) ([]model.Note, error) { return c.remote.ListNotes(ctx, filter) },
		func(ctx context.Context) ([]model.Note, error) { return c.local.ListNotes(ctx, filter) },
	)
	if err != nil {
		return nil, err
	}
	storage.SortForDisplay(notes)
	return notes, nil
}

func (c *Coordinator) GetNote(ctx context.Context, id string) (model.Note, error) {
	return route(ctx, c, "get note",
		func(ctx context.Context) (model.Note, error) { return c.remote.GetNote(ctx, id) },
		func(ctx context.Context) (model.Note, error) { return c.local.GetNote(ctx, id) },
	)
}

func (c *Coordinator) CreateNote(ctx context.Context, in model.NoteInput) (model.Note, error) {
	return route(ctx, c, "create note",
		func(ctx context.Context) (model.Note, error) { return c.remote.CreateNote(ctx, in) },
		func(ctx context.Context) (model.Note, error) { return c.local.CreateNote(ctx, in) },
	)
}

func (c *Coordinator) UpdateNote(ctx context.Context, id string, patch model.NotePatch) (model.Note, error) {
	return route(ctx, c, "update note",
		func(ctx context.Context) (model.Note, error) { return c.remote.UpdateNote(ctx, id, patch) },
		func(ctx context.Context) (model.Note, error) { return c.local.UpdateNote(ctx, id, patch) },
	)
}

func (c *Coordinator) DeleteNote(ctx context.Context, id string) error {
	_, err := route(ctx, c, "delete note",
		func(ctx context.Context) (struct{}, error) { return struct{}{}, c.remote.DeleteNote(ctx, id) },
		func(ctx context.Context) (struct{}, error) { return struct{}{}, c.local.DeleteNote(ctx, id) },
	)
	return err
}

func (c *Coordinator) MoveNote(ctx context.Context, id string, folderID *string) (model.Note, error) {
	return route(ctx, c, "move note",
		func(ctx context.Context) (model.Note, error) { return c.remote.MoveNote(ctx, id, folderID) },
		func(ctx context.Context) (model.Note, error) { return c.local.MoveNote(ctx, id, folderID) },
	)
}

func (c *Coordinator) PinNote(ctx context.Context, id string) (model.Note, error) {
	return route(ctx, c, "pin note",
		func(ctx context.Context) (model.Note, error) { return c.remote.PinNote(ctx, id) },
		func(ctx context.Context) (model.Note, error) { return c.local.PinNote(ctx, id) },
	)
}

func (c *Coordinator) ListFolders(ctx context.Context) ([]model.Folder, error) {
	return route(ctx, c, "list folders",
		func(ctx context.Context) ([]model.Folder, error) { return c.remote.ListFolders(ctx) },
		func(ctx context.Context) ([]model.Folder, error) { return c.local.ListFolders(ctx) },
	)
}

func (c *Coordinator) GetFolder(ctx context.Context, id string) (model.Folder, error) {
	return route(ctx, c, "get folder",
		func(ctx context.Context) (model.Folder, error) { return c.remote.GetFolder(ctx, id) },
		func(ctx context.Context) (model.Folder, error) { return c.local.GetFolder(ctx, id) },
	)
}

func (c *Coordinator) CreateFolder(ctx context.Context, name string) (model.Folder, error) {
	name, err := storage.ValidateFolderName(name)
	if err != nil {
		return model.Folder{}, err
	}
	return route(ctx, c, "create folder",
		func(ctx context.Context) (model.Folder, error) { return c.remote.CreateFolder(ctx, name) },
		func(ctx context.Context) (model.Folder, error) { return c.local.CreateFolder(ctx, name) },
	)
}

func (c *Coordinator) RenameFolder(ctx context.Context, id, name string) (model.Folder, error) {
	name, err := storage.ValidateFolderName(name)
	if err != nil {
		return model.Folder{}, err
	}
	return route(ctx, c, "rename folder",
		func(ctx context.Context) (model.Folder, error) { return c.remote.RenameFolder(ctx, id, name) },
		func(ctx context.Context) (model.Folder, error) { return c.local.RenameFolder(ctx, id, name) },
	)
}

func (c *Coordinator) DeleteFolder(ctx context.Context, id string) error {
	_, err := route(ctx, c, "delete folder",
		func(ctx context.Context) (struct{}, error) { return struct{}{}, c.remote.DeleteFolder(ctx, id) },
		func(ctx context.Context) (struct{}, error) { return struct{}{}, c.local.DeleteFolder(ctx, id) },
	)
	return err
}

// GetSettings always reads the local store; the sync status reflects the
// coordinator state.
func (c *Coordinator) GetSettings(ctx context.Context) (model.Settings, error) {
	s, err := c.local.GetSettings(ctx)
	if err != nil {
		return model.Settings{}, err
	}
	s.SyncStatus = c.SyncStatus()
	return s, nil
}

func (c *Coordinator) UpdateSettings(ctx context.Context, patch model.SettingsPatch) (model.Settings, error) {
	s, err := c.local.UpdateSettings(ctx, patch)
	if err != nil {
		return model.Settings{}, err
	}
	s.SyncStatus = c.SyncStatus()
	return s, nil
}
