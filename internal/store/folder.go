package store

import (
	"context"
	"fmt"

	"github.com/sagar5412/webNotes/internal/model"
	"github.com/sagar5412/webNotes/internal/storage"
)

func (s *LocalStore) loadFolders(ctx context.Context) ([]model.Folder, error) {
	folders := []model.Folder{}
	if err := s.load(ctx, FoldersKey, &folders); err != nil {
		return nil, fmt.Errorf("load folders: %w", err)
	}
	return folders, nil
}

func (s *LocalStore) saveFolders(ctx context.Context, folders []model.Folder) error {
	if err := s.save(ctx, FoldersKey, folders); err != nil {
		return fmt.Errorf("save folders: %w", err)
	}
	return nil
}

func findFolder(folders []model.Folder, id string) int {
	for i := range folders {
		if folders[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *LocalStore) ListFolders(ctx context.Context) ([]model.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadFolders(ctx)
}

func (s *LocalStore) GetFolder(ctx context.Context, id string) (model.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	folders, err := s.loadFolders(ctx)
	if err != nil {
		return model.Folder{}, err
	}
	i := findFolder(folders, id)
	if i < 0 {
		return model.Folder{}, fmt.Errorf("get folder %s: %w", id, storage.ErrNotFound)
	}
	return folders[i], nil
}

func (s *LocalStore) CreateFolder(ctx context.Context, name string) (model.Folder, error) {
	name, err := storage.ValidateFolderName(name)
	if err != nil {
		return model.Folder{}, fmt.Errorf("create folder: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	folders, err := s.loadFolders(ctx)
	if err != nil {
		return model.Folder{}, err
	}
	f := model.Folder{ID: s.newID(), Name: name, CreatedAt: s.now()}
	if err := s.saveFolders(ctx, append([]model.Folder{f}, folders...)); err != nil {
		return model.Folder{}, err
	}
	return f, nil
}

func (s *LocalStore) RenameFolder(ctx context.Context, id, name string) (model.Folder, error) {
	name, err := storage.ValidateFolderName(name)
	if err != nil {
		return model.Folder{}, fmt.Errorf("rename folder %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	folders, err := s.loadFolders(ctx)
	if err != nil {
		return model.Folder{}, err
	}
	i := findFolder(folders, id)
	if i < 0 {
		return model.Folder{}, fmt.Errorf("rename folder %s: %w", id, storage.ErrNotFound)
	}
	folders[i].Name = name
	if err := s.saveFolders(ctx, folders); err != nil {
		return model.Folder{}, err
	}
	return folders[i], nil
}

// DeleteFolder removes a folder and unfiles every note that was in it. Both
// collections change in one transaction.
func (s *LocalStore) DeleteFolder(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inTx(ctx, func(tx *LocalStore) error {
		folders, err := tx.loadFolders(ctx)
		if err != nil {
			return err
		}
		i := findFolder(folders, id)
		if i < 0 {
			return fmt.Errorf("delete folder %s: %w", id, storage.ErrNotFound)
		}
		if err := tx.saveFolders(ctx, append(folders[:i], folders[i+1:]...)); err != nil {
			return err
		}
		return tx.unfile(ctx, map[string]bool{id: true})
	})
}

// unfile clears the folder of every note filed under one of gone.
func (s *LocalStore) unfile(ctx context.Context, gone map[string]bool) error {
	notes, err := s.loadNotes(ctx)
	if err != nil {
		return err
	}
	changed := false
	now := s.now()
	for i := range notes {
		if notes[i].FolderID != nil && gone[*notes[i].FolderID] {
			notes[i].FolderID = nil
			notes[i].UpdatedAt = now
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.saveNotes(ctx, notes)
}
