package store

import (
	"context"
	"fmt"

	"github.com/sagar5412/webNotes/internal/model"
)

// Snapshot returns every local folder and note in one consistent read.
func (s *LocalStore) Snapshot(ctx context.Context) ([]model.Folder, []model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	folders, err := s.loadFolders(ctx)
	if err != nil {
		return nil, nil, err
	}
	notes, err := s.loadNotes(ctx)
	if err != nil {
		return nil, nil, err
	}
	return folders, notes, nil
}

// RemoveMigrated drops the given folders and notes after they were copied to
// the remote store. Notes left behind in a removed folder become unfiled.
// Collections that end up empty are removed from storage. Either both
// collections change or neither does.
func (s *LocalStore) RemoveMigrated(ctx context.Context, folderIDs, noteIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	goneFolders := toSet(folderIDs)
	goneNotes := toSet(noteIDs)

	folders, err := s.loadFolders(ctx)
	if err != nil {
		return err
	}
	keptFolders := folders[:0]
	for _, f := range folders {
		if !goneFolders[f.ID] {
			keptFolders = append(keptFolders, f)
		}
	}

	notes, err := s.loadNotes(ctx)
	if err != nil {
		return err
	}
	keptNotes := notes[:0]
	for _, n := range notes {
		if goneNotes[n.ID] {
			continue
		}
		if n.FolderID != nil && goneFolders[*n.FolderID] {
			n.FolderID = nil
		}
		keptNotes = append(keptNotes, n)
	}

	return s.inTx(ctx, func(tx *LocalStore) error {
		if err := tx.replaceOrClear(ctx, FoldersKey, len(keptFolders), keptFolders); err != nil {
			return fmt.Errorf("remove migrated folders: %w", err)
		}
		if err := tx.replaceOrClear(ctx, NotesKey, len(keptNotes), keptNotes); err != nil {
			return fmt.Errorf("remove migrated notes: %w", err)
		}
		return nil
	})
}

func (s *LocalStore) replaceOrClear(ctx context.Context, key string, n int, v any) error {
	if n == 0 {
		return s.kv.Delete(ctx, key)
	}
	return s.save(ctx, key, v)
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
