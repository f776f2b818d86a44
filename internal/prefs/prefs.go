// Package prefs persists the settings a user changes from inside nixtop.
// Preferences are stored in ~/.config/nixtop/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds the refresh interval and pane layout last chosen in the UI.
type Prefs struct {
	Layout     string `toml:"layout"`
	IntervalMS int64  `toml:"interval_ms"`
}

const (
	defaultPrefsPath = "~/.config/nixtop/prefs.toml"
	defaultLayout    = "horizontal"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Interval returns the stored interval, or zero when none is stored.
func (p Prefs) Interval() time.Duration {
	if p.IntervalMS <= 0 {
		return 0
	}
	return time.Duration(p.IntervalMS) * time.Millisecond
}

// WithInterval returns a copy of p storing d.
func (p Prefs) WithInterval(d time.Duration) Prefs {
	p.IntervalMS = d.Milliseconds()
	return p
}

// Load reads preferences from the given path, falling back to defaults if missing.
func Load(path string) (Prefs, error) {
	prefs := Prefs{Layout: defaultLayout}

	resolved, err := resolvePath(path)
	if err != nil {
		return prefs, nil
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs, nil // Graceful degradation
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Prefs{Layout: defaultLayout}, nil // Graceful degradation
	}

	prefs.Layout = strings.ToLower(strings.TrimSpace(prefs.Layout))
	if prefs.Layout != "horizontal" && prefs.Layout != "vertical" {
		prefs.Layout = defaultLayout
	}
	if prefs.IntervalMS < 0 {
		prefs.IntervalMS = 0
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

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
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
