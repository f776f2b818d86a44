package ui

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/five82/nixtop/internal/poller"
	"github.com/five82/nixtop/internal/prefs"
	"github.com/five82/nixtop/internal/state"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Scheduler *poller.Scheduler
	Interval  time.Duration
	Layout    state.Layout
	PrefsPath string
	Logger    *log.Logger
	// Source names the data command in the header, e.g. "nix ps --json".
	Source string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	scheduler *poller.Scheduler
	prefsPath string
	logger    *log.Logger
	source    string
	now       func() time.Time

	// Dashboard state
	state state.State

	// UI state
	theme     Theme
	keys      keyMap
	help      help.Model
	filter    textinput.Model
	filtering bool
	width     int
	height    int
	ready     bool

	// Tree pane
	tree    viewport.Model
	treeFor string // derivation currently shown in the tree pane
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	filter := textinput.New()
	filter.Prompt = "/"
	filter.Placeholder = "filter builds"

	return Model{
		ctx:       ctx,
		scheduler: opts.Scheduler,
		prefsPath: prefsPath,
		logger:    logger,
		source:    opts.Source,
		now:       time.Now,
		state:     state.New(opts.Interval, opts.Layout),
		theme:     DefaultTheme(),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		filter:    filter,
		tree:      viewport.New(0, 0),
	}
}

// State returns the dashboard state.
func (m Model) State() state.State {
	return m.state
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return fetchCmd(m.ctx, m.scheduler)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		return m.handleRefresh(poller.Result(msg))

	case quitMsg:
		m.state.Running = false
		m.logger.Info("quit requested")
		return m, tea.Quit

	case prefsSavedMsg:
		if msg.err != nil {
			m.logger.Warn("save prefs failed", "path", m.prefsPath, "err", msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		if !m.state.Running {
			return m, nil
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.state.Running {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}
	return m.renderMain()
}

// handleRefresh folds one scheduler result into the state and arms the
// next cycle with the interval in effect now.
func (m Model) handleRefresh(res poller.Result) (tea.Model, tea.Cmd) {
	if !m.state.Running {
		return m, nil
	}
	if res.Err != nil {
		m.logger.Warn("refresh failed",
			"err", res.Err,
			"failures", m.state.ConsecutiveFailures+1,
		)
	} else {
		m.logger.Debug("refresh", "builds", len(res.Builds))
	}
	m.state = m.state.ApplyResult(res)
	m.syncTree()
	return m, nextCmd(m.ctx, m.scheduler, m.state.Interval)
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		return m.handleFilterKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil

	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		m.filter.SetValue(m.state.Filter)
		m.filter.CursorEnd()
		m.resize()
		cmd := m.filter.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.PageUp):
		m.tree.ViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.tree.ViewDown()
		return m, nil
	}

	return m.apply(m.keys.command(msg))
}

// handleFilterKey edits the filter while the prompt is focused.
func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m.apply(state.CmdQuit)

	case key.Matches(msg, m.keys.Confirm):
		m.filtering = false
		m.filter.Blur()
		m.resize()
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.state = m.state.SetFilter("")
		m.syncTree()
		m.resize()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.state = m.state.SetFilter(m.filter.Value())
	m.syncTree()
	return m, cmd
}

// apply runs a command through the state interpreter and turns its effect
// into a tea.Cmd.
func (m Model) apply(cmd state.Command) (tea.Model, tea.Cmd) {
	if cmd == state.CmdNone {
		return m, nil
	}
	prevLayout := m.state.Layout

	next, effect := m.state.Apply(cmd)
	m.state = next
	m.syncTree()

	switch effect {
	case state.EffectQuit:
		return m, emitQuit
	case state.EffectPrefsChanged:
		if m.state.Layout != prevLayout {
			m.resize()
		}
		p := prefs.Prefs{Layout: m.state.Layout.String()}.WithInterval(m.state.Interval)
		return m, savePrefsCmd(m.prefsPath, p)
	}
	return m, nil
}

// Messages

type refreshMsg poller.Result

type quitMsg struct{}

type prefsSavedMsg struct{ err error }

// Commands

func emitQuit() tea.Msg {
	return quitMsg{}
}

// fetchCmd loads the first snapshot without waiting.
func fetchCmd(ctx context.Context, s *poller.Scheduler) tea.Cmd {
	if s == nil {
		return nil
	}
	return func() tea.Msg {
		res, ok := s.Fetch(ctx)
		if !ok {
			return nil
		}
		return refreshMsg(res)
	}
}

// nextCmd runs one delayed refresh cycle.
func nextCmd(ctx context.Context, s *poller.Scheduler, interval time.Duration) tea.Cmd {
	if s == nil {
		return nil
	}
	return func() tea.Msg {
		res, ok := s.Next(ctx, interval)
		if !ok {
			return nil
		}
		return refreshMsg(res)
	}
}

func savePrefsCmd(path string, p prefs.Prefs) tea.Cmd {
	return func() tea.Msg {
		return prefsSavedMsg{err: prefs.Save(path, p)}
	}
}

// Run starts the Bubble Tea program and blocks until it exits. Cancelling
// opts.Context or interrupting the program ends it without an error.
func Run(opts Options) error {
	m := New(opts)
	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		// The context owns SIGINT/SIGTERM.
		programOpts = append(programOpts, tea.WithContext(opts.Context), tea.WithoutSignalHandler())
	}
	p := tea.NewProgram(m, programOpts...)
	_, err := p.Run()
	return exitError(opts.Context, err)
}

// exitError maps the program's exit error to what Run reports. Interrupts
// and kills caused by a cancelled ctx are normal shutdowns.
func exitError(ctx context.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, tea.ErrInterrupted):
		return nil
	case errors.Is(err, tea.ErrProgramKilled) && ctx != nil && ctx.Err() != nil:
		return nil
	}
	return err
}
