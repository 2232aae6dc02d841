package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the settings shelf needs to reach the bookmark server.
type Config struct {
	Path string // resolved config file path

	ServerURL string
	Username  string
	Password  string
	Timeout   time.Duration

	LogLevel  string
	LogFormat string
	LogFile   string

	Refresh time.Duration // TUI background refresh; zero disables
}

const (
	defaultConfigPath = "~/.config/shelf/config.toml"
	defaultLogFile    = "~/.local/state/shelf/shelf.log"
	defaultTimeout    = 30 * time.Second
	defaultLogLevel   = "info"
	defaultLogFormat  = "text"
	envPrefix         = "shelf"
)

// fileConfig mirrors the TOML file.
type fileConfig struct {
	ServerURL string `toml:"server_url"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	Timeout   string `toml:"timeout"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	LogFile   string `toml:"log_file"`
	Refresh   string `toml:"refresh"`
}

// envConfig holds SHELF_* overrides. Empty values leave the file setting.
type envConfig struct {
	ServerURL string        `split_words:"true"`
	Username  string        `split_words:"true"`
	Password  string        `split_words:"true"`
	Timeout   time.Duration `split_words:"true"`
	LogLevel  string        `split_words:"true"`
	LogFormat string        `split_words:"true"`
	LogFile   string        `split_words:"true"`
	Refresh   time.Duration `split_words:"true"`
}

// Default returns the configuration used when no file or environment
// settings exist.
func Default() Config {
	return Config{
		Timeout:   defaultTimeout,
		LogLevel:  defaultLogLevel,
		LogFormat: defaultLogFormat,
		LogFile:   mustExpand(defaultLogFile),
	}
}

// Load reads the config file at path (or the default location), then applies
// .env files and SHELF_* environment overrides. A missing file is not an
// error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	cfg.Path = resolved

	if err := loadDotenv(filepath.Join(filepath.Dir(resolved), ".env"), ".env"); err != nil {
		return Config{}, err
	}

	if err := cfg.applyFile(resolved); err != nil {
		return Config{}, err
	}

	var env envConfig
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	cfg.applyEnv(env)

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw fileConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	c.ServerURL = strings.TrimSpace(raw.ServerURL)
	c.Username = strings.TrimSpace(raw.Username)
	c.Password = raw.Password

	if v := strings.TrimSpace(raw.Timeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse config: timeout: %w", err)
		}
		if d > 0 {
			c.Timeout = d
		}
	}
	if v := strings.TrimSpace(raw.Refresh); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse config: refresh: %w", err)
		}
		if d > 0 {
			c.Refresh = d
		}
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(raw.LogFormat); v != "" {
		c.LogFormat = v
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		c.LogFile = mustExpand(v)
	}
	return nil
}

func (c *Config) applyEnv(env envConfig) {
	if v := strings.TrimSpace(env.ServerURL); v != "" {
		c.ServerURL = v
	}
	if v := strings.TrimSpace(env.Username); v != "" {
		c.Username = v
	}
	if env.Password != "" {
		c.Password = env.Password
	}
	if env.Timeout > 0 {
		c.Timeout = env.Timeout
	}
	if env.Refresh > 0 {
		c.Refresh = env.Refresh
	}
	if v := strings.TrimSpace(env.LogLevel); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(env.LogFormat); v != "" {
		c.LogFormat = v
	}
	if v := strings.TrimSpace(env.LogFile); v != "" {
		c.LogFile = mustExpand(v)
	}
}

// loadDotenv loads each existing file without overriding variables that are
// already set.
func loadDotenv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
