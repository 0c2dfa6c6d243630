// Package welcome writes the introductory notes a fresh client starts with.
package welcome

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sagar5412/webNotes/internal/model"
)

//go:embed notes/*.md
var notesFS embed.FS

// Target is the local store the notes are written to.
type Target interface {
	Seeded(ctx context.Context) (bool, error)
	MarkSeeded(ctx context.Context) error
	ListNotes(ctx context.Context, filter model.NoteFilter) ([]model.Note, error)
	ImportNote(ctx context.Context, n model.Note) (model.Note, error)
}

type page struct {
	title  string
	file   string
	pinned bool
}

// pages are listed in display order.
var pages = []page{
	{title: "🎉 Welcome to WebNotes!", file: "notes/welcome.md", pinned: true},
	{title: "⌨️ Commands", file: "notes/shortcuts.md"},
	{title: "📝 Markdown Examples", file: "notes/markdown.md"},
}

// Notes returns the welcome notes without ids or timestamps.
func Notes() ([]model.Note, error) {
	notes := make([]model.Note, 0, len(pages))
	for _, p := range pages {
		body, err := notesFS.ReadFile(p.file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p.file, err)
		}
		notes = append(notes, model.Note{
			Title:    p.title,
			Content:  strings.TrimSpace(string(body)),
			IsPinned: p.pinned,
		})
	}
	return notes, nil
}

// Seed writes the welcome notes once per client, and only into an empty
// store. It reports how many notes were written.
func Seed(ctx context.Context, t Target, logger *slog.Logger) (int, error) {
	seeded, err := t.Seeded(ctx)
	if err != nil {
		return 0, fmt.Errorf("read seeded flag: %w", err)
	}
	if seeded {
		return 0, nil
	}

	existing, err := t.ListNotes(ctx, model.AllNotes())
	if err != nil {
		return 0, fmt.Errorf("list notes: %w", err)
	}
	if len(existing) > 0 {
		return 0, t.MarkSeeded(ctx)
	}

	notes, err := Notes()
	if err != nil {
		return 0, err
	}
	// New notes are prepended, so write the last page first.
	for i := len(notes) - 1; i >= 0; i-- {
		if _, err := t.ImportNote(ctx, notes[i]); err != nil {
			return 0, fmt.Errorf("import %q: %w", notes[i].Title, err)
		}
	}
	if err := t.MarkSeeded(ctx); err != nil {
		return 0, fmt.Errorf("mark seeded: %w", err)
	}
	if logger != nil {
		logger.Info("seeded welcome notes", "count", len(notes))
	}
	return len(notes), nil
}
