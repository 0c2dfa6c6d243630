package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sagar5412/webNotes/internal/app"
	"github.com/sagar5412/webNotes/internal/config"
	"github.com/sagar5412/webNotes/internal/hybrid"
	"github.com/sagar5412/webNotes/internal/logging"
)

// cli carries global flags and the app shared by every subcommand.
type cli struct {
	configPath string
	logLevel   string
	offline    bool
	jsonOut    bool

	root *cobra.Command
	app  *app.App
	// onTransition, when set, receives coordinator state changes.
	onTransition func(hybrid.Transition)
}

func newCLI() *cli {
	c := &cli{}

	root := &cobra.Command{
		Use:   "webnotes",
		Short: "Notes that work offline and sync to your account when signed in",
		Long: `webnotes keeps notes and folders on this device until you sign in.
While signed in and online, every change goes to your account; local notes are
moved there the first time that happens.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.open(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default $WEBNOTES_CONFIG or the user config dir)")
	flags.StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&c.offline, "offline", false, "work on this device only")
	flags.BoolVar(&c.jsonOut, "json", false, "print JSON instead of tables")

	root.AddCommand(
		newNoteCmd(c),
		newFolderCmd(c),
		newSettingsCmd(c),
		newStatusCmd(c),
		newMigrateCmd(c),
		newWatchCmd(c),
	)
	c.root = root
	return c
}

// Execute runs the command line and releases the app afterwards, whether
// the command failed or not.
func (c *cli) Execute(ctx context.Context) error {
	err := c.root.ExecuteContext(ctx)
	if c.app != nil {
		if cerr := c.app.Close(); cerr != nil && err == nil {
			err = cerr
		}
		c.app = nil
	}
	return err
}

func (c *cli) open(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	if c.offline {
		cfg.Offline = true
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())

	a, err := app.New(cmd.Context(), cfg, logger, app.WithObserver(func(t hybrid.Transition) {
		if c.onTransition != nil {
			c.onTransition(t)
		}
	}))
	if err != nil {
		return err
	}
	if err := a.Connect(cmd.Context()); err != nil {
		a.Close()
		return err
	}
	c.app = a
	return nil
}
