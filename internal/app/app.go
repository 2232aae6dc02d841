package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/shelf/internal/config"
	"github.com/five82/shelf/internal/logging"
	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/shiori"
	"github.com/five82/shelf/internal/state"
	"github.com/five82/shelf/internal/ui"
)

// Options configure the shelf TUI.
type Options struct {
	ConfigPath string
	PrefsPath  string        // empty uses default ~/.config/shelf/prefs.toml
	Refresh    time.Duration // background refresh; zero uses the config value
	LogLevel   string        // overrides the config log level when set
}

// Run boots the shelf TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.Refresh > 0 {
		cfg.Refresh = opts.Refresh
	}

	// The TUI owns the terminal, so logs always go to the file.
	closer, err := SetupLogging(cfg, opts.LogLevel, nil, true)
	if err != nil {
		return err
	}
	defer closer.Close()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}

	client, err := NewClient(cfg)
	if err != nil {
		return err
	}

	store := &state.Store{}
	if cfg.Refresh > 0 {
		StartPoller(ctx, store, client, cfg.Refresh)
	}

	logrus.WithFields(logrus.Fields{
		"server":  client.BaseURL(),
		"refresh": cfg.Refresh.String(),
	}).Info("starting tui")

	uiOpts := ui.Options{
		Context:   ctx,
		Client:    client,
		Store:     store,
		ServerURL: client.BaseURL(),
		LogPath:   cfg.LogFile,
		ThemeName: userPrefs.Theme,
		Sort:      userPrefs.Sort,
		PrefsPath: opts.PrefsPath,
	}
	return ui.Run(uiOpts)
}

// NewClient builds a bookmark client from cfg.
func NewClient(cfg config.Config) (*shiori.Client, error) {
	client, err := shiori.NewClient(shiori.Options{
		BaseURL:  cfg.ServerURL,
		Username: cfg.Username,
		Password: cfg.Password,
		Timeout:  cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("init client: %w", err)
	}
	return client, nil
}

// SetupLogging configures logrus from cfg. levelOverride wins over the
// configured level when non-empty. With toFile false, logs go to out.
func SetupLogging(cfg config.Config, levelOverride string, out io.Writer, toFile bool) (io.Closer, error) {
	level := cfg.LogLevel
	if v := strings.TrimSpace(levelOverride); v != "" {
		level = v
	}
	opts := logging.Options{
		Level:  level,
		Format: cfg.LogFormat,
		Output: out,
	}
	if toFile {
		opts.File = cfg.LogFile
	}
	closer, err := logging.Setup(opts)
	if err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}
	return closer, nil
}
