package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFolderCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "folder",
		Aliases: []string{"folders", "f"},
		Short:   "Manage folders",
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List folders",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			folders, err := c.app.Notes.ListFolders(cmd.Context())
			if err != nil {
				return fmt.Errorf("list folders: %w", err)
			}
			return c.printFolders(cmd.OutOrStdout(), folders)
		},
	}

	create := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := c.app.Notes.CreateFolder(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("create folder: %w", err)
			}
			return c.printFolder(cmd.OutOrStdout(), f)
		},
	}

	rename := &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := c.app.Notes.RenameFolder(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("rename folder: %w", err)
			}
			return c.printFolder(cmd.OutOrStdout(), f)
		},
	}

	remove := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a folder; its notes become unfiled",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Notes.DeleteFolder(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete folder: %w", err)
			}
			if !c.jsonOut {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted folder %s\n", args[0])
			}
			return nil
		},
	}

	cmd.AddCommand(list, create, rename, remove)
	return cmd
}
