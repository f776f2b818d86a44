package state

import (
	"time"

	"github.com/five82/nixtop/internal/nixps"
	"github.com/five82/nixtop/internal/poller"
)

const (
	// IntervalStep is how much one key press changes the refresh interval.
	IntervalStep = 100 * time.Millisecond
	// MinInterval is the shortest refresh interval a user can select.
	MinInterval = 100 * time.Millisecond
	// DefaultInterval is used when no interval is configured.
	DefaultInterval = 5 * time.Second
)

// Layout decides how the build table and the process tree share the screen.
type Layout int

const (
	LayoutHorizontal Layout = iota // table left, tree right
	LayoutVertical                 // table above tree
)

// String returns the name used in prefs files and flags.
func (l Layout) String() string {
	if l == LayoutVertical {
		return "vertical"
	}
	return "horizontal"
}

// ParseLayout maps a prefs/flag value to a Layout, defaulting to horizontal.
func ParseLayout(value string) Layout {
	if value == "vertical" {
		return LayoutVertical
	}
	return LayoutHorizontal
}

// State is everything the dashboard renders. It is owned by the UI loop and
// only ever replaced or mutated there; background work hands results over
// as poller.Result values.
type State struct {
	Builds   nixps.Snapshot
	Interval time.Duration
	Running  bool
	Layout   Layout
	Filter   string

	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int

	selection selection
}

// New creates the startup state: no builds, no selection, running.
func New(interval time.Duration, layout Layout) State {
	return State{
		Interval: ClampInterval(interval),
		Running:  true,
		Layout:   layout,
	}
}

// ClampInterval applies the default and the floor to a configured interval.
func ClampInterval(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultInterval
	}
	if d < MinInterval {
		return MinInterval
	}
	return d
}

// IsOffline returns true when the data source has failed repeatedly.
func (s State) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// HasData reports whether at least one fetch has succeeded.
func (s State) HasData() bool {
	return !s.LastUpdated.IsZero()
}

// ApplyResult replaces the builds with a successful result, keeping the
// selected build selected. On error the previous builds are kept and only the
// error bookkeeping changes.
func (s State) ApplyResult(res poller.Result) State {
	if res.Err != nil {
		s.LastError = res.Err
		s.ConsecutiveFailures++
		return s
	}
	s = s.ReplaceBuilds(res.Builds)
	s.LastError = nil
	s.ConsecutiveFailures = 0
	s.LastUpdated = res.FetchedAt
	if s.LastUpdated.IsZero() {
		s.LastUpdated = time.Now()
	}
	return s
}
