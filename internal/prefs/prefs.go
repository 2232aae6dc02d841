// Package prefs handles shelf user preferences persistence.
// Preferences are stored in ~/.config/shelf/prefs.toml.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/shelf/internal/config"
)

// Sort orders for the bookmark list.
const (
	SortNewest = "newest"
	SortOldest = "oldest"
	SortTitle  = "title"
)

var sortOrder = []string{SortNewest, SortOldest, SortTitle}

// Prefs holds user preferences for shelf.
type Prefs struct {
	Theme string `toml:"theme"`
	Sort  string `toml:"sort"`
}

const (
	defaultPrefsPath = "~/.config/shelf/prefs.toml"
	defaultTheme     = "Nightfox"
	defaultSort      = SortNewest
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Defaults returns the preferences used when no file exists.
func Defaults() Prefs {
	return Prefs{Theme: defaultTheme, Sort: defaultSort}
}

// NextSort returns the sort order after current.
func NextSort(current string) string {
	for i, s := range sortOrder {
		if s == current {
			return sortOrder[(i+1)%len(sortOrder)]
		}
	}
	return sortOrder[0]
}

// Load reads preferences from the given path, falling back to defaults if missing.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Defaults(), nil
	}

	bytes, err := os.ReadFile(resolved)
	if err != nil {
		return Defaults(), nil // Graceful degradation
	}

	prefs := Defaults()
	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Defaults(), nil // Graceful degradation
	}

	if strings.TrimSpace(prefs.Theme) == "" {
		prefs.Theme = defaultTheme
	}
	if !validSort(prefs.Sort) {
		prefs.Sort = defaultSort
	}

	return prefs, nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

func validSort(s string) bool {
	for _, v := range sortOrder {
		if v == s {
			return true
		}
	}
	return false
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return config.ExpandPath(defaultPrefsPath)
	}
	return config.ExpandPath(path)
}
