// Package app is the composition root of nixtop.
//
// Run loads the config file and saved preferences, merges them with the
// command-line options (flag > prefs > config > default), configures the file
// logger, builds the nix ps client and its refresh scheduler, and hands
// everything to the Bubble Tea UI. It blocks until the UI exits.
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()        config.toml
//	       ├─────> prefs.Load()         prefs.toml
//	       ├─────> logging.Configure()  log file (or discard)
//	       ├─────> nixps.NewClient()    nix ps --json
//	       ├─────> poller.New()         refresh cycles
//	       └─────> ui.Run()             TUI (blocks)
//
// The context passed to the UI is cancelled when Run returns, so a refresh
// cycle that is still waiting or fetching ends with the program.
package app
