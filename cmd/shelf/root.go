package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/five82/shelf/internal/app"
	"github.com/five82/shelf/internal/config"
	"github.com/five82/shelf/internal/shiori"
)

// cliLogLevel keeps subcommand output clean unless --log-level asks for more.
const cliLogLevel = "warn"

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	prefsPath  string
	refresh    time.Duration
	logLevel   string

	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &globalFlags{stderr: stderr}

	root := &cobra.Command{
		Use:   "shelf",
		Short: "Terminal client for a Shiori bookmark server",
		Long: `shelf reads, adds and deletes bookmarks on a Shiori server.

Run without a subcommand to open the interactive UI. Settings come from
~/.config/shelf/config.toml and SHELF_* environment variables.`,
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if flags.logLevel == "" {
				return nil
			}
			if _, err := logrus.ParseLevel(flags.logLevel); err != nil {
				return usagef("invalid --log-level %q", flags.logLevel)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.refresh < 0 {
				return usagef("--refresh must not be negative")
			}
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: flags.configPath,
				PrefsPath:  flags.prefsPath,
				Refresh:    flags.refresh,
				LogLevel:   flags.logLevel,
			})
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.config/shelf/config.toml)")
	pf.StringVar(&flags.prefsPath, "prefs", "", "UI preferences file (default ~/.config/shelf/prefs.toml)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.Flags().DurationVar(&flags.refresh, "refresh", 0, "background refresh interval for the UI, e.g. 2m (0 uses the config)")

	root.AddCommand(
		newLoginCmd(flags),
		newListCmd(flags),
		newArticleCmd(flags),
		newAddCmd(flags),
		newDeleteCmd(flags),
		newLogsCmd(flags),
	)
	return root
}

// loadConfig reads the config and sends logs to stderr.
func (g *globalFlags) loadConfig() (config.Config, io.Closer, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	level := strings.TrimSpace(g.logLevel)
	if level == "" {
		level = cliLogLevel
	}
	closer, err := app.SetupLogging(cfg, level, g.stderr, false)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, closer, nil
}

// connect loads the config and builds a client.
func (g *globalFlags) connect() (*shiori.Client, config.Config, io.Closer, error) {
	cfg, closer, err := g.loadConfig()
	if err != nil {
		return nil, config.Config{}, nil, err
	}
	client, err := app.NewClient(cfg)
	if err != nil {
		closer.Close()
		return nil, config.Config{}, nil, err
	}
	return client, cfg, closer, nil
}
