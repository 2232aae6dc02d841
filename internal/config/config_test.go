package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolateEnv clears SHELF_* string settings so the developer's environment
// does not leak into the test.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SHELF_SERVER_URL", "SHELF_USERNAME", "SHELF_PASSWORD",
		"SHELF_LOG_LEVEL", "SHELF_LOG_FORMAT", "SHELF_LOG_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	isolateEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ServerURL != "" || cfg.Username != "" || cfg.Password != "" {
		t.Fatalf("credentials = %q/%q/%q, want all empty", cfg.ServerURL, cfg.Username, cfg.Password)
	}
	if cfg.Timeout != defaultTimeout {
		t.Fatalf("Timeout = %v, want %v", cfg.Timeout, defaultTimeout)
	}
	if cfg.LogLevel != defaultLogLevel || cfg.LogFormat != defaultLogFormat {
		t.Fatalf("log = %q/%q, want %q/%q", cfg.LogLevel, cfg.LogFormat, defaultLogLevel, defaultLogFormat)
	}

	wantLogFile, err := expandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("expandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != wantLogFile {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLogFile)
	}
	if cfg.Refresh != 0 {
		t.Fatalf("Refresh = %v, want 0", cfg.Refresh)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	isolateEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
server_url = "  http://10.0.0.5:8080  "
username   = " shiori "
password   = " gopher "
timeout    = "5s"
refresh    = "2m"
log_level  = "debug"
log_format = "json"
log_file   = "  ~/.shelf/shelf.log  "
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Path != path {
		t.Fatalf("Path = %q, want %q", cfg.Path, path)
	}
	if cfg.ServerURL != "http://10.0.0.5:8080" {
		t.Fatalf("ServerURL = %q, want %q", cfg.ServerURL, "http://10.0.0.5:8080")
	}
	if cfg.Username != "shiori" {
		t.Fatalf("Username = %q, want %q", cfg.Username, "shiori")
	}
	if cfg.Password != " gopher " {
		t.Fatalf("Password = %q, want it untrimmed", cfg.Password)
	}
	if cfg.Timeout != 5*time.Second || cfg.Refresh != 2*time.Minute {
		t.Fatalf("Timeout/Refresh = %v/%v, want 5s/2m", cfg.Timeout, cfg.Refresh)
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Fatalf("log = %q/%q, want debug/json", cfg.LogLevel, cfg.LogFormat)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	isolateEnv(t)
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
timeout   = "   "
log_level = ""
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Timeout != defaultTimeout {
		t.Fatalf("Timeout = %v, want %v", cfg.Timeout, defaultTimeout)
	}
	if cfg.LogLevel != defaultLogLevel {
		t.Fatalf("LogLevel = %q, want %q", cfg.LogLevel, defaultLogLevel)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`server_url = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoad_InvalidDurationFails(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`timeout = "soon"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("Load returned nil error, want duration error")
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	isolateEnv(t)
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
server_url = "http://file:8080"
username   = "file-user"
password   = "file-pass"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("SHELF_SERVER_URL", "http://env:8080")
	t.Setenv("SHELF_PASSWORD", "env-pass")
	t.Setenv("SHELF_TIMEOUT", "7s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ServerURL != "http://env:8080" {
		t.Fatalf("ServerURL = %q, want env override", cfg.ServerURL)
	}
	if cfg.Username != "file-user" {
		t.Fatalf("Username = %q, want file value", cfg.Username)
	}
	if cfg.Password != "env-pass" {
		t.Fatalf("Password = %q, want env override", cfg.Password)
	}
	if cfg.Timeout != 7*time.Second {
		t.Fatalf("Timeout = %v, want 7s", cfg.Timeout)
	}
}

func TestLoad_DotenvNextToConfig(t *testing.T) {
	isolateEnv(t)
	t.Setenv("HOME", t.TempDir())
	// isolateEnv set SHELF_USERNAME to "", which .env must not override;
	// use a variable that is genuinely unset instead.
	os.Unsetenv("SHELF_USERNAME")
	t.Cleanup(func() { os.Unsetenv("SHELF_USERNAME") })

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SHELF_USERNAME=dotenv-user\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Username != "dotenv-user" {
		t.Fatalf("Username = %q, want dotenv-user", cfg.Username)
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
