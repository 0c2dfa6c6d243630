package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/sagar5412/webNotes/internal/model"
)

const timeLayout = "2006-01-02 15:04"

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer, header ...any) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	if len(header) == 0 {
		return t
	}
	row := make(table.Row, 0, len(header))
	for _, h := range header {
		row = append(row, text.Bold.Sprint(h))
	}
	t.AppendHeader(row)
	return t
}

func localTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(timeLayout)
}

func (c *cli) printNotes(w io.Writer, notes []model.Note, folders []model.Folder) error {
	if c.jsonOut {
		return writeJSON(w, notes)
	}
	names := make(map[string]string, len(folders))
	for _, f := range folders {
		names[f.ID] = f.Name
	}

	t := newTable(w, "ID", "", "Title", "Folder", "Updated")
	for _, n := range notes {
		pin := ""
		if n.IsPinned {
			pin = "📌"
		}
		folder := ""
		if n.FolderID != nil {
			folder = names[*n.FolderID]
			if folder == "" {
				folder = *n.FolderID
			}
		}
		t.AppendRow(table.Row{n.ID, pin, n.Title, folder, localTime(n.UpdatedAt)})
	}
	t.Render()
	return nil
}

func (c *cli) printNote(w io.Writer, n model.Note) error {
	if c.jsonOut {
		return writeJSON(w, n)
	}
	folder := "-"
	if n.FolderID != nil {
		folder = *n.FolderID
	}
	pinned := "no"
	if n.PinnedAt != nil {
		pinned = localTime(*n.PinnedAt)
	}
	t := newTable(w, "Field", "Value")
	t.AppendRows([]table.Row{
		{"ID", n.ID},
		{"Title", n.Title},
		{"Folder", folder},
		{"Pinned", pinned},
		{"Created", localTime(n.CreatedAt)},
		{"Updated", localTime(n.UpdatedAt)},
	})
	t.Render()
	if n.Content != "" {
		fmt.Fprintf(w, "\n%s\n", n.Content)
	}
	return nil
}

func (c *cli) printFolders(w io.Writer, folders []model.Folder) error {
	if c.jsonOut {
		return writeJSON(w, folders)
	}
	t := newTable(w, "ID", "Name", "Created")
	for _, f := range folders {
		t.AppendRow(table.Row{f.ID, f.Name, localTime(f.CreatedAt)})
	}
	t.Render()
	return nil
}

func (c *cli) printFolder(w io.Writer, f model.Folder) error {
	if c.jsonOut {
		return writeJSON(w, f)
	}
	_, err := fmt.Fprintf(w, "%s\t%s\n", f.ID, f.Name)
	return err
}

type settingsView struct {
	model.Settings
	SyncStatus model.SyncStatus `json:"syncStatus"`
}

func (c *cli) printSettings(w io.Writer, s model.Settings) error {
	if c.jsonOut {
		return writeJSON(w, settingsView{Settings: s, SyncStatus: s.SyncStatus})
	}
	t := newTable(w, "Setting", "Value")
	t.AppendRows([]table.Row{
		{"theme", s.Theme},
		{"font size", s.FontSize},
		{"line numbers", s.ShowLineNumbers},
		{"sync status", syncColor(s.SyncStatus)},
	})
	t.Render()
	return nil
}

func syncColor(s model.SyncStatus) string {
	switch s {
	case model.SyncStatusSynced:
		return text.FgGreen.Sprint(s)
	case model.SyncStatusSyncing:
		return text.FgYellow.Sprint(s)
	default:
		return text.FgHiBlack.Sprint(s)
	}
}
