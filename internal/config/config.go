package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/nixtop/internal/nixps"
	"github.com/five82/nixtop/internal/state"
)

// Config holds the settings read from nixtop's config file.
type Config struct {
	Command  string
	Args     []string
	Interval time.Duration
	LogFile  string
	LogLevel string
}

const (
	defaultConfigPath = "~/.config/nixtop/config.toml"
	defaultLogLevel   = "info"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Command:  nixps.DefaultCommand,
		Args:     append([]string(nil), nixps.DefaultArgs...),
		Interval: state.DefaultInterval,
		LogLevel: defaultLogLevel,
	}
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load locates and parses the config file, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Command  string   `toml:"command"`
		Args     []string `toml:"args"`
		Interval string   `toml:"interval"`
		LogFile  string   `toml:"log_file"`
		LogLevel string   `toml:"log_level"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if command := strings.TrimSpace(raw.Command); command != "" {
		cfg.Command = command
	}

	if raw.Args != nil {
		args := make([]string, 0, len(raw.Args))
		for _, a := range raw.Args {
			if a = strings.TrimSpace(a); a != "" {
				args = append(args, a)
			}
		}
		cfg.Args = args
	}

	if value := strings.TrimSpace(raw.Interval); value != "" {
		interval, err := ParseInterval(value)
		if err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		cfg.Interval = interval
	}

	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}

	if level := strings.ToLower(strings.TrimSpace(raw.LogLevel)); level != "" {
		cfg.LogLevel = level
	}

	return cfg, nil
}

// ParseInterval parses a duration such as "5s" or "750ms" and raises it to
// state.MinInterval.
func ParseInterval(value string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("interval %q: %w", value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("interval %q: must be positive", value)
	}
	if d < state.MinInterval {
		d = state.MinInterval
	}
	return d, nil
}

// ExpandPath resolves a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
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
