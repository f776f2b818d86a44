// Package state holds the dashboard state and the pure transitions on it.
//
// # Ownership
//
// A State value is owned by the UI loop. Nothing else reads or writes it;
// the refresh scheduler hands its results over as poller.Result values and
// the loop folds them in with ApplyResult. Because every transition takes a
// State and returns a new one, State needs no locking.
//
// # Selection
//
// Selection is stored as a row index into Visible(), the builds left after
// the name filter. Whenever the rows change underneath it (ReplaceBuilds,
// SetFilter) the selected build is re-located by derivation path. If it is
// gone the selection is cleared.
//
// # Commands
//
// Key presses are decoded by the UI into Command values. Apply interprets
// them without side effects and returns an Effect telling the loop whether
// to quit or persist preferences:
//
//	next, eff := s.Apply(state.CmdIncreaseInterval)
//	if eff == state.EffectPrefsChanged {
//		// save interval and layout
//	}
//
// The refresh interval moves in IntervalStep increments and never drops
// below MinInterval. There is no upper bound.
package state
