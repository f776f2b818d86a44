package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/nixtop/internal/state"
)

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit         key.Binding
	Help         key.Binding
	ToggleLayout key.Binding

	// Refresh interval
	Slower key.Binding
	Faster key.Binding

	// Selection
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Clear  key.Binding

	// Process tree
	PageUp   key.Binding
	PageDown key.Binding

	// Filter input
	Filter  key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		ToggleLayout: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "layout"),
		),

		Faster: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "faster"),
		),
		Slower: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "slower"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "first"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "last"),
		),
		Clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "deselect"),
		),

		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "tree up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "tree down"),
		),

		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply filter"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear filter"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Faster, k.Slower, k.Up, k.Down, k.Filter, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.Clear},
		{k.Faster, k.Slower, k.ToggleLayout},
		{k.PageUp, k.PageDown},
		{k.Filter, k.Confirm, k.Cancel},
		{k.Help, k.Quit},
	}
}

// command translates a key press outside filter mode into a state command.
func (k keyMap) command(msg tea.KeyMsg) state.Command {
	switch {
	case key.Matches(msg, k.Quit):
		return state.CmdQuit
	case key.Matches(msg, k.Faster):
		return state.CmdDecreaseInterval
	case key.Matches(msg, k.Slower):
		return state.CmdIncreaseInterval
	case key.Matches(msg, k.Up):
		return state.CmdSelectPrev
	case key.Matches(msg, k.Down):
		return state.CmdSelectNext
	case key.Matches(msg, k.Top):
		return state.CmdSelectFirst
	case key.Matches(msg, k.Bottom):
		return state.CmdSelectLast
	case key.Matches(msg, k.Clear):
		return state.CmdClearSelection
	case key.Matches(msg, k.ToggleLayout):
		return state.CmdToggleLayout
	}
	return state.CmdNone
}
