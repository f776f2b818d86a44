// Package config loads nixtop's TOML configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/nixtop/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # File Format
//
//	command = "nix"
//	args = ["ps", "--json"]
//	interval = "5s"
//	log_file = ""
//	log_level = "info"
//
// String values are trimmed before use. The interval is parsed with
// time.ParseDuration; values below 100ms are raised to 100ms. An empty
// log_file disables logging; a leading ~ in it is expanded to the home
// directory.
//
// # Error Handling
//
// A missing file is not an error. Unreadable files, invalid TOML and
// unparsable intervals are returned as errors prefixed with "open config",
// "read config" or "parse config", and the caller is expected to abort
// startup.
package config
