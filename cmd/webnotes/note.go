package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sagar5412/webNotes/internal/model"
)

func newNoteCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "note",
		Aliases: []string{"notes", "n"},
		Short:   "Create, edit and organize notes",
	}
	cmd.AddCommand(
		newNoteListCmd(c),
		newNoteShowCmd(c),
		newNoteNewCmd(c),
		newNoteEditCmd(c),
		newNoteRmCmd(c),
		newNoteMvCmd(c),
		newNotePinCmd(c),
	)
	return cmd
}

func newNoteListCmd(c *cli) *cobra.Command {
	var folderID string
	var unfiled bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List notes, pinned first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			filter := model.AllNotes()
			switch {
			case unfiled:
				filter = model.Unfiled()
			case folderID != "":
				filter = model.InFolder(folderID)
			}

			notes, err := c.app.Notes.ListNotes(ctx, filter)
			if err != nil {
				return fmt.Errorf("list notes: %w", err)
			}

			var folders []model.Folder
			if !c.jsonOut {
				folders, err = c.app.Notes.ListFolders(ctx)
				if err != nil {
					return fmt.Errorf("list folders: %w", err)
				}
			}
			return c.printNotes(cmd.OutOrStdout(), notes, folders)
		},
	}
	cmd.Flags().StringVar(&folderID, "folder", "", "only notes in this folder")
	cmd.Flags().BoolVar(&unfiled, "unfiled", false, "only notes without a folder")
	cmd.MarkFlagsMutuallyExclusive("folder", "unfiled")
	return cmd
}

func newNoteShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one note with its content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := c.app.Notes.GetNote(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("get note: %w", err)
			}
			return c.printNote(cmd.OutOrStdout(), n)
		},
	}
}

func newNoteNewCmd(c *cli) *cobra.Command {
	var title, content, folderID string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in model.NoteInput
			if cmd.Flags().Changed("title") {
				in.Title = &title
			}
			if cmd.Flags().Changed("content") {
				in.Content = &content
			}
			if folderID != "" {
				in.FolderID = &folderID
			}
			n, err := c.app.Notes.CreateNote(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("create note: %w", err)
			}
			return c.printNote(cmd.OutOrStdout(), n)
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "note title")
	cmd.Flags().StringVarP(&content, "content", "c", "", "note content")
	cmd.Flags().StringVarP(&folderID, "folder", "f", "", "folder id")
	return cmd
}

func newNoteEditCmd(c *cli) *cobra.Command {
	var title, content, folderID string
	var unfiled bool

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a note's title, content or folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			var patch model.NotePatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("content") {
				patch.Content = &content
			}
			switch {
			case unfiled:
				patch.SetFolder = true
			case folderID != "":
				patch.SetFolder = true
				patch.FolderID = &folderID
			}
			if patch.Empty() {
				return errors.New("nothing to change: pass --title, --content, --folder or --unfiled")
			}

			n, err := c.app.Notes.UpdateNote(cmd.Context(), id, patch)
			if err != nil {
				return fmt.Errorf("update note: %w", err)
			}
			return c.printNote(cmd.OutOrStdout(), n)
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&content, "content", "c", "", "new content")
	cmd.Flags().StringVarP(&folderID, "folder", "f", "", "move into this folder")
	cmd.Flags().BoolVar(&unfiled, "unfiled", false, "remove from its folder")
	cmd.MarkFlagsMutuallyExclusive("folder", "unfiled")
	return cmd
}

func newNoteRmCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a note",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Notes.DeleteNote(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete note: %w", err)
			}
			if !c.jsonOut {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %s\n", args[0])
			}
			return nil
		},
	}
}

func newNoteMvCmd(c *cli) *cobra.Command {
	var unfiled bool

	cmd := &cobra.Command{
		Use:   "mv <id> [folder-id]",
		Short: "Move a note into a folder, or out of any folder with --unfiled",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var target *string
			switch {
			case unfiled && len(args) == 2:
				return errors.New("pass either a folder id or --unfiled")
			case len(args) == 2:
				target = &args[1]
			case !unfiled:
				return errors.New("missing folder id; use --unfiled to remove the note from its folder")
			}
			n, err := c.app.Notes.MoveNote(cmd.Context(), args[0], target)
			if err != nil {
				return fmt.Errorf("move note: %w", err)
			}
			return c.printNote(cmd.OutOrStdout(), n)
		},
	}
	cmd.Flags().BoolVar(&unfiled, "unfiled", false, "remove the note from its folder")
	return cmd
}

func newNotePinCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "pin <id>",
		Short: "Pin a note, or unpin it if it is pinned",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := c.app.Notes.PinNote(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("pin note: %w", err)
			}
			return c.printNote(cmd.OutOrStdout(), n)
		},
	}
}
