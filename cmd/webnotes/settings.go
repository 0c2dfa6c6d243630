package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sagar5412/webNotes/internal/model"
)

func newSettingsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change editor settings",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show settings and sync status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.app.Notes.GetSettings(cmd.Context())
			if err != nil {
				return fmt.Errorf("get settings: %w", err)
			}
			return c.printSettings(cmd.OutOrStdout(), s)
		},
	}

	var theme, fontSize string
	var lineNumbers bool
	set := &cobra.Command{
		Use:   "set",
		Short: "Change settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch model.SettingsPatch
			if cmd.Flags().Changed("theme") {
				patch.Theme = &theme
			}
			if cmd.Flags().Changed("font-size") {
				patch.FontSize = &fontSize
			}
			if cmd.Flags().Changed("line-numbers") {
				patch.ShowLineNumbers = &lineNumbers
			}
			if patch == (model.SettingsPatch{}) {
				return errors.New("nothing to change: pass --theme, --font-size or --line-numbers")
			}
			s, err := c.app.Notes.UpdateSettings(cmd.Context(), patch)
			if err != nil {
				return fmt.Errorf("update settings: %w", err)
			}
			return c.printSettings(cmd.OutOrStdout(), s)
		},
	}
	set.Flags().StringVar(&theme, "theme", "", "dark, light or system")
	set.Flags().StringVar(&fontSize, "font-size", "", "small, medium or large")
	set.Flags().BoolVar(&lineNumbers, "line-numbers", false, "show line numbers")

	cmd.AddCommand(show, set)
	return cmd
}
