package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sagar5412/webNotes/internal/hybrid"
)

func newStatusCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where notes are stored right now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.app.Notes.Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("read status: %w", err)
			}
			return c.printStatus(cmd, st)
		},
	}
}

type statusView struct {
	hybrid.Status
	API    string `json:"api"`
	DBPath string `json:"dbPath"`
}

func (c *cli) printStatus(cmd *cobra.Command, st hybrid.Status) error {
	w := cmd.OutOrStdout()
	view := statusView{Status: st, API: c.app.Remote.BaseURL(), DBPath: c.app.Config.DBPath}
	if c.jsonOut {
		return writeJSON(w, view)
	}
	t := newTable(w)
	t.AppendRows([]table.Row{
		{"mode", st.State},
		{"sync", syncColor(st.SyncStatus)},
		{"online", st.Online},
		{"signed in", st.Authenticated},
		{"migrated", st.MigrationDone},
		{"api", view.API},
		{"database", view.DBPath},
	})
	t.Render()
	return nil
}
