package state

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/five82/nixtop/internal/nixps"
)

// selection is a row index into Visible(). The zero value selects nothing.
type selection struct {
	index int
	ok    bool
}

// Visible returns the builds shown in the table: all builds, or those whose
// name fuzzy-matches Filter.
func (s State) Visible() nixps.Snapshot {
	query := strings.TrimSpace(s.Filter)
	if query == "" {
		return s.Builds
	}
	out := make(nixps.Snapshot, 0, len(s.Builds))
	for _, b := range s.Builds {
		if fuzzy.MatchFold(query, b.Name()) {
			out = append(out, b)
		}
	}
	return out
}

// SelectedIndex returns the selected row in Visible().
func (s State) SelectedIndex() (int, bool) {
	if !s.selection.ok {
		return 0, false
	}
	return s.selection.index, true
}

// Selected returns the selected build.
func (s State) Selected() (nixps.Build, bool) {
	idx, ok := s.SelectedIndex()
	if !ok {
		return nixps.Build{}, false
	}
	visible := s.Visible()
	if idx < 0 || idx >= len(visible) {
		return nixps.Build{}, false
	}
	return visible[idx], true
}

// Select selects row idx of Visible(). Out of range indexes clear the
// selection.
func (s State) Select(idx int) State {
	if idx < 0 || idx >= len(s.Visible()) {
		s.selection = selection{}
		return s
	}
	s.selection = selection{index: idx, ok: true}
	return s
}

// ClearSelection deselects any row.
func (s State) ClearSelection() State {
	s.selection = selection{}
	return s
}

// ReplaceBuilds swaps in a new snapshot. The selection follows the selected
// build by derivation rather than by row number and is cleared when that
// build is gone.
func (s State) ReplaceBuilds(builds nixps.Snapshot) State {
	return s.reconcile(func(next *State) { next.Builds = builds })
}

// SetFilter changes the table filter, keeping the selected build selected
// when it still matches.
func (s State) SetFilter(query string) State {
	return s.reconcile(func(next *State) { next.Filter = query })
}

// reconcile captures the selected identity, applies change and re-locates
// the identity in the new visible rows.
func (s State) reconcile(change func(*State)) State {
	prev, had := s.Selected()
	change(&s)
	s.selection = selection{}
	if !had {
		return s
	}
	if idx := s.Visible().Index(prev.Derivation); idx >= 0 {
		s.selection = selection{index: idx, ok: true}
	}
	return s
}
