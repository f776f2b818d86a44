// Package ui is nixtop's Bubble Tea front end.
//
// # Event Loop
//
// Model is the only owner of the dashboard state. Bubble Tea delivers key
// presses, window sizes and the results of background commands to Update
// one at a time, in arrival order, and calls View after each one. Nothing
// outside Update touches the state.
//
// Background work is limited to two kinds of tea.Cmd:
//
//   - a refresh cycle: wait for the current interval, run nix ps, and return
//     a refreshMsg. Init issues an immediate fetch; every applied refreshMsg
//     arms exactly one new cycle with the interval in effect at that moment.
//   - a prefs save after the interval or layout changed.
//
// Both honour the context from Options. When it is cancelled they return no
// message, so nothing is delivered after shutdown.
//
// # Quitting
//
// q and ctrl+c go through the state interpreter, which reports a quit
// effect. The model turns it into a quitMsg; handling that clears Running,
// returns tea.Quit, and from then on View renders nothing and refreshes are
// dropped.
//
// # Layout
//
//	nixtop · nix ps --json · 3 builds · - 5000ms + · updated 12:00:01
//	┌──── Builds (3) ────┐┌──────── hello-2.12.1 ────────┐
//	│ PID Package  Time  ││ pid 4243 · nix 4242 · cpu 3s │
//	│ ...                ││ bash -e builder.sh           │
//	│                    ││ └───make -j8                 │
//	└────────────────────┘└──────────────────────────────┘
//	- faster • + slower • ↑/k up • ...
//
// The l key stacks the panes vertically instead. The tree pane is a
// viewport scrolled with pgup/pgdown.
package ui
