package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd(c *cli) *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Move notes kept on this device to your account",
		Long: `migrate copies local folders and notes to your account and removes the
local copies. It runs automatically the first time you are signed in and online;
use --reset to run it again for notes written while offline.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.app.Notes.Status(ctx)
			if err != nil {
				return fmt.Errorf("read status: %w", err)
			}
			if !st.Online || !st.Authenticated {
				return errors.New("not signed in and online; notes stay on this device")
			}
			if reset {
				if err := c.app.Notes.ResetMigration(ctx); err != nil {
					return err
				}
			}
			if err := c.app.Notes.Migrate(ctx); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			st, err = c.app.Notes.Status(ctx)
			if err != nil {
				return fmt.Errorf("read status: %w", err)
			}
			return c.printStatus(cmd, st)
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "forget that migration already ran")
	return cmd
}
