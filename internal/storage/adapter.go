// Package storage defines the contract shared by every backing store of
// notes and folders, together with the errors they report.
package storage

import (
	"context"

	"github.com/sagar5412/webNotes/internal/model"
)

// Adapter is the capability every backing store exposes, and the one the
// hybrid coordinator exposes to callers.
type Adapter interface {
	ListNotes(ctx context.Context, filter model.NoteFilter) ([]model.Note, error)
	GetNote(ctx context.Context, id string) (model.Note, error)
	CreateNote(ctx context.Context, in model.NoteInput) (model.Note, error)
	UpdateNote(ctx context.Context, id string, patch model.NotePatch) (model.Note, error)
	DeleteNote(ctx context.Context, id string) error
	MoveNote(ctx context.Context, id string, folderID *string) (model.Note, error)
	PinNote(ctx context.Context, id string) (model.Note, error)

	ListFolders(ctx context.Context) ([]model.Folder, error)
	GetFolder(ctx context.Context, id string) (model.Folder, error)
	CreateFolder(ctx context.Context, name string) (model.Folder, error)
	RenameFolder(ctx context.Context, id, name string) (model.Folder, error)
	DeleteFolder(ctx context.Context, id string) error

	GetSettings(ctx context.Context) (model.Settings, error)
	UpdateSettings(ctx context.Context, patch model.SettingsPatch) (model.Settings, error)
}
