package store

import (
	"context"
	"fmt"

	"github.com/sagar5412/webNotes/internal/model"
	"github.com/sagar5412/webNotes/internal/storage"
)

var _ storage.Adapter = (*LocalStore)(nil)

func (s *LocalStore) loadNotes(ctx context.Context) ([]model.Note, error) {
	notes := []model.Note{}
	if err := s.load(ctx, NotesKey, &notes); err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}
	return notes, nil
}

func (s *LocalStore) saveNotes(ctx context.Context, notes []model.Note) error {
	if err := s.save(ctx, NotesKey, notes); err != nil {
		return fmt.Errorf("save notes: %w", err)
	}
	return nil
}

func findNote(notes []model.Note, id string) int {
	for i := range notes {
		if notes[i].ID == id {
			return i
		}
	}
	return -1
}

// checkFolderRef rejects a folder reference to a folder this store does not hold.
func (s *LocalStore) checkFolderRef(ctx context.Context, folderID *string) error {
	if folderID == nil {
		return nil
	}
	folders, err := s.loadFolders(ctx)
	if err != nil {
		return err
	}
	if findFolder(folders, *folderID) < 0 {
		return storage.Invalid("folderId", fmt.Sprintf("folder %q does not exist", *folderID))
	}
	return nil
}

// ListNotes returns the stored notes matching filter, newest first.
func (s *LocalStore) ListNotes(ctx context.Context, filter model.NoteFilter) ([]model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.loadNotes(ctx)
	if err != nil {
		return nil, err
	}
	if filter.All() {
		return notes, nil
	}
	matched := []model.Note{}
	for _, n := range notes {
		if filter.Match(n) {
			matched = append(matched, n)
		}
	}
	return matched, nil
}

func (s *LocalStore) GetNote(ctx context.Context, id string) (model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.loadNotes(ctx)
	if err != nil {
		return model.Note{}, err
	}
	i := findNote(notes, id)
	if i < 0 {
		return model.Note{}, fmt.Errorf("get note %s: %w", id, storage.ErrNotFound)
	}
	return notes[i], nil
}

func (s *LocalStore) CreateNote(ctx context.Context, in model.NoteInput) (model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkFolderRef(ctx, in.FolderID); err != nil {
		return model.Note{}, fmt.Errorf("create note: %w", err)
	}

	now := s.now()
	n := model.Note{
		ID:        s.newID(),
		Title:     model.DefaultNoteTitle,
		FolderID:  in.FolderID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Title != nil && *in.Title != "" {
		n.Title = *in.Title
	}
	if in.Content != nil {
		n.Content = *in.Content
	}
	return n, s.insertNote(ctx, n)
}

// ImportNote stores n as given, keeping its pin state and timestamps. A
// missing id or timestamp is filled in. Used for seeded content.
func (s *LocalStore) ImportNote(ctx context.Context, n model.Note) (model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkFolderRef(ctx, n.FolderID); err != nil {
		return model.Note{}, fmt.Errorf("import note: %w", err)
	}
	now := s.now()
	if n.ID == "" {
		n.ID = s.newID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = n.CreatedAt
	}
	if n.IsPinned && n.PinnedAt == nil {
		n.PinnedAt = &now
	}
	if !n.IsPinned {
		n.PinnedAt = nil
	}
	return n, s.insertNote(ctx, n)
}

func (s *LocalStore) insertNote(ctx context.Context, n model.Note) error {
	notes, err := s.loadNotes(ctx)
	if err != nil {
		return err
	}
	if findNote(notes, n.ID) >= 0 {
		return fmt.Errorf("insert note: id %s already in use", n.ID)
	}
	return s.saveNotes(ctx, append([]model.Note{n}, notes...))
}

func (s *LocalStore) UpdateNote(ctx context.Context, id string, patch model.NotePatch) (model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.loadNotes(ctx)
	if err != nil {
		return model.Note{}, err
	}
	i := findNote(notes, id)
	if i < 0 {
		return model.Note{}, fmt.Errorf("update note %s: %w", id, storage.ErrNotFound)
	}
	if patch.SetFolder {
		if err := s.checkFolderRef(ctx, patch.FolderID); err != nil {
			return model.Note{}, fmt.Errorf("update note %s: %w", id, err)
		}
	}

	n := &notes[i]
	if patch.Title != nil {
		n.Title = *patch.Title
	}
	if patch.Content != nil {
		n.Content = *patch.Content
	}
	if patch.SetFolder {
		n.FolderID = patch.FolderID
	}
	n.UpdatedAt = s.now()

	if err := s.saveNotes(ctx, notes); err != nil {
		return model.Note{}, err
	}
	return *n, nil
}

func (s *LocalStore) DeleteNote(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.loadNotes(ctx)
	if err != nil {
		return err
	}
	i := findNote(notes, id)
	if i < 0 {
		return fmt.Errorf("delete note %s: %w", id, storage.ErrNotFound)
	}
	return s.saveNotes(ctx, append(notes[:i], notes[i+1:]...))
}

func (s *LocalStore) MoveNote(ctx context.Context, id string, folderID *string) (model.Note, error) {
	return s.UpdateNote(ctx, id, model.NotePatch{SetFolder: true, FolderID: folderID})
}

// PinNote toggles the pin state of a note.
func (s *LocalStore) PinNote(ctx context.Context, id string) (model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.loadNotes(ctx)
	if err != nil {
		return model.Note{}, err
	}
	i := findNote(notes, id)
	if i < 0 {
		return model.Note{}, fmt.Errorf("pin note %s: %w", id, storage.ErrNotFound)
	}

	now := s.now()
	n := &notes[i]
	n.IsPinned = !n.IsPinned
	if n.IsPinned {
		n.PinnedAt = &now
	} else {
		n.PinnedAt = nil
	}
	n.UpdatedAt = now

	if err := s.saveNotes(ctx, notes); err != nil {
		return model.Note{}, err
	}
	return *n, nil
}
