package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sagar5412/webNotes/internal/hybrid"
)

func newWatchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep checking the connection and report storage mode changes",
		Long: `watch probes the API host on the configured interval until interrupted.
Coming back online while signed in migrates local notes if that has not
happened yet.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()
			c.onTransition = func(t hybrid.Transition) {
				if c.jsonOut {
					writeJSON(w, t)
					return
				}
				fmt.Fprintf(w, "%s  %s -> %s (%s)\n", time.Now().Format(time.TimeOnly), t.From, t.To, t.Reason)
			}
			defer func() { c.onTransition = nil }()

			if err := c.app.Watch(ctx); err != nil {
				return err
			}
			if !c.jsonOut {
				fmt.Fprintf(w, "Watching %s, mode %s. Press Ctrl+C to stop.\n", c.app.Remote.BaseURL(), c.app.Notes.State())
			}
			<-ctx.Done()
			return nil
		},
	}
}
