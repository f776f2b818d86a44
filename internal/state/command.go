package state

// Command is a user intent decoded from a key press.
type Command int

const (
	CmdNone Command = iota
	CmdDecreaseInterval
	CmdIncreaseInterval
	CmdSelectPrev
	CmdSelectNext
	CmdSelectFirst
	CmdSelectLast
	CmdClearSelection
	CmdToggleLayout
	CmdQuit
)

// Effect tells the caller what to do beyond adopting the returned state.
type Effect int

const (
	EffectNone Effect = iota
	// EffectQuit asks the loop to stop.
	EffectQuit
	// EffectPrefsChanged means interval or layout changed and can be saved.
	EffectPrefsChanged
)

// Apply returns the state after cmd. It never blocks and has no side
// effects; anything external is reported through the Effect.
func (s State) Apply(cmd Command) (State, Effect) {
	switch cmd {
	case CmdDecreaseInterval:
		next := s.Interval - IntervalStep
		if next < MinInterval {
			return s, EffectNone
		}
		s.Interval = next
		return s, EffectPrefsChanged

	case CmdIncreaseInterval:
		s.Interval += IntervalStep
		return s, EffectPrefsChanged

	case CmdSelectPrev:
		return s.selectPrev(), EffectNone

	case CmdSelectNext:
		return s.selectNext(), EffectNone

	case CmdSelectFirst:
		return s.Select(0), EffectNone

	case CmdSelectLast:
		return s.Select(len(s.Visible()) - 1), EffectNone

	case CmdClearSelection:
		return s.ClearSelection(), EffectNone

	case CmdToggleLayout:
		if s.Layout == LayoutHorizontal {
			s.Layout = LayoutVertical
		} else {
			s.Layout = LayoutHorizontal
		}
		return s, EffectPrefsChanged

	case CmdQuit:
		return s, EffectQuit
	}
	return s, EffectNone
}

func (s State) selectPrev() State {
	n := len(s.Visible())
	if n == 0 {
		return s.ClearSelection()
	}
	idx, ok := s.SelectedIndex()
	if !ok {
		return s.Select(n - 1)
	}
	if idx > 0 {
		idx--
	}
	return s.Select(idx)
}

func (s State) selectNext() State {
	n := len(s.Visible())
	if n == 0 {
		return s.ClearSelection()
	}
	idx, ok := s.SelectedIndex()
	if !ok {
		return s.Select(0)
	}
	if idx < n-1 {
		idx++
	}
	return s.Select(idx)
}
