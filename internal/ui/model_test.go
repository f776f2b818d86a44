package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/nixtop/internal/nixps"
	"github.com/five82/nixtop/internal/poller"
	"github.com/five82/nixtop/internal/prefs"
	"github.com/five82/nixtop/internal/state"
)

const testHash = "0123456789abcdfghijklmnpqrsvwxyz"

type stubFetcher struct {
	builds nixps.Snapshot
	err    error
}

func (f stubFetcher) Fetch(context.Context) (nixps.Snapshot, error) {
	return f.builds, f.err
}

func build(name string, nixPID int) nixps.Build {
	return nixps.Build{
		Derivation: "/nix/store/" + testHash + "-" + name + ".drv",
		MainPID:    nixPID + 1,
		NixPID:     nixPID,
		Processes: []nixps.Process{
			{PID: nixPID + 1, ParentPID: nixPID, Argv: []string{"bash", "-e", "builder.sh"}},
			{PID: nixPID + 2, ParentPID: nixPID + 1, Argv: []string{"make", "-j8"}},
		},
	}
}

func snapshot(builds ...nixps.Build) nixps.Snapshot {
	return nixps.Sorted(builds)
}

func newTestModel(t *testing.T, fetcher nixps.Fetcher) Model {
	t.Helper()
	var sched *poller.Scheduler
	if fetcher != nil {
		sched = poller.New(fetcher)
	}
	return New(Options{
		Context:   context.Background(),
		Scheduler: sched,
		Interval:  time.Second,
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
		Source:    "nix ps --json",
	})
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model, cmd
}

func keyPress(k string) tea.KeyMsg {
	switch k {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func refresh(builds nixps.Snapshot) refreshMsg {
	return refreshMsg(poller.Result{Builds: builds, FetchedAt: time.Now()})
}

func TestModel_QuitKeyEndsLoop(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		t.Run(k, func(t *testing.T) {
			m := newTestModel(t, stubFetcher{})
			m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

			m, cmd := update(t, m, keyPress(k))
			if cmd == nil {
				t.Fatal("quit key returned no command")
			}
			msg := cmd()
			if _, ok := msg.(quitMsg); !ok {
				t.Fatalf("quit key produced %T, want quitMsg", msg)
			}

			m, cmd = update(t, m, msg)
			if m.State().Running {
				t.Fatal("Running = true after quitMsg")
			}
			if cmd == nil {
				t.Fatal("quitMsg returned no command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Fatal("quitMsg did not return tea.Quit")
			}
			if got := m.View(); got != "" {
				t.Fatalf("View() after quit = %q, want empty", got)
			}
		})
	}
}

func TestModel_NoWorkAfterQuit(t *testing.T) {
	m := newTestModel(t, stubFetcher{})
	m, _ = update(t, m, refresh(snapshot(build("hello-1.0", 10))))
	m, _ = update(t, m, quitMsg{})

	m, cmd := update(t, m, refresh(snapshot(build("zlib-1.3", 20))))
	if cmd != nil {
		t.Fatal("refresh after quit scheduled another cycle")
	}
	if got := m.State().Builds[0].PName(); got != "hello" {
		t.Fatalf("refresh after quit was applied: %q", got)
	}

	if _, cmd := update(t, m, keyPress("+")); cmd != nil {
		t.Fatal("key after quit produced a command")
	}
}

func TestModel_RefreshesApplyInArrivalOrder(t *testing.T) {
	m := newTestModel(t, stubFetcher{})

	const n = 50
	var last nixps.Snapshot
	for i := 0; i < n; i++ {
		last = snapshot(build("pkg-1."+string(rune('a'+i%26)), 100+i), build("other-2.0", 5000+i))
		var cmd tea.Cmd
		m, cmd = update(t, m, refresh(last))
		if cmd == nil {
			t.Fatalf("refresh %d did not re-arm the scheduler", i)
		}
	}

	got := m.State().Builds
	if len(got) != len(last) {
		t.Fatalf("len(Builds) = %d, want %d", len(got), len(last))
	}
	for i := range got {
		if got[i].Derivation != last[i].Derivation || got[i].NixPID != last[i].NixPID {
			t.Fatalf("Builds[%d] = %+v, want %+v", i, got[i], last[i])
		}
	}
}

func TestModel_RefreshErrorKeepsSnapshot(t *testing.T) {
	m := newTestModel(t, stubFetcher{})
	m, _ = update(t, m, refresh(snapshot(build("hello-1.0", 10))))

	m, cmd := update(t, m, refreshMsg(poller.Result{Err: errors.New("exit status 1")}))
	if cmd == nil {
		t.Fatal("failed refresh stopped scheduling")
	}
	s := m.State()
	if len(s.Builds) != 1 || s.LastError == nil {
		t.Fatalf("state after error = %+v", s)
	}
}

func TestModel_InitFetchesImmediately(t *testing.T) {
	want := snapshot(build("hello-1.0", 10))
	m := newTestModel(t, stubFetcher{builds: want})

	cmd := m.Init()
	if cmd == nil {
		t.Fatal("Init returned no command")
	}
	msg, ok := cmd().(refreshMsg)
	if !ok {
		t.Fatalf("Init command produced %T, want refreshMsg", msg)
	}
	if len(msg.Builds) != 1 || msg.Builds[0].Derivation != want[0].Derivation {
		t.Fatalf("initial builds = %#v", msg.Builds)
	}
}

func TestModel_NextCycleUsesCurrentInterval(t *testing.T) {
	m := newTestModel(t, stubFetcher{builds: snapshot(build("hello-1.0", 10))})
	for i := 0; i < 9; i++ {
		m, _ = update(t, m, keyPress("-"))
	}
	if m.State().Interval != 100*time.Millisecond {
		t.Fatalf("Interval = %v, want 100ms", m.State().Interval)
	}

	_, cmd := update(t, m, refresh(nil))
	start := time.Now()
	msg := cmd()
	elapsed := time.Since(start)
	if _, ok := msg.(refreshMsg); !ok {
		t.Fatalf("next cycle produced %T, want refreshMsg", msg)
	}
	if elapsed < 100*time.Millisecond || elapsed > 900*time.Millisecond {
		t.Fatalf("next cycle took %v, want about 100ms", elapsed)
	}
}

func TestModel_CancelledContextYieldsNoMessage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := New(Options{
		Context:   ctx,
		Scheduler: poller.New(stubFetcher{}),
		Interval:  time.Hour,
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	})

	if msg := m.Init()(); msg != nil {
		t.Fatalf("Init with cancelled context produced %T", msg)
	}
	_, cmd := update(t, m, refresh(nil))
	if msg := cmd(); msg != nil {
		t.Fatalf("next cycle with cancelled context produced %T", msg)
	}
}

func TestModel_IntervalKeysPersistPrefs(t *testing.T) {
	m := newTestModel(t, stubFetcher{})

	m, cmd := update(t, m, keyPress("="))
	if m.State().Interval != 1100*time.Millisecond {
		t.Fatalf("Interval = %v, want 1.1s", m.State().Interval)
	}
	saved, ok := cmd().(prefsSavedMsg)
	if !ok || saved.err != nil {
		t.Fatalf("save prefs = %#v", saved)
	}

	p, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.IntervalMS != 1100 || p.Layout != "horizontal" {
		t.Fatalf("saved prefs = %+v", p)
	}
	if _, err := os.Stat(m.prefsPath); err != nil {
		t.Fatalf("prefs file missing: %v", err)
	}
}

func TestModel_LayoutToggle(t *testing.T) {
	m := newTestModel(t, stubFetcher{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	m, cmd := update(t, m, keyPress("l"))
	if m.State().Layout != state.LayoutVertical {
		t.Fatalf("Layout = %v, want vertical", m.State().Layout)
	}
	if cmd == nil {
		t.Fatal("layout toggle did not save prefs")
	}
	if m.tree.Width != 98 {
		t.Fatalf("tree width = %d, want full width after toggle", m.tree.Width)
	}
}

func TestModel_SelectionFollowsBuildAcrossRefresh(t *testing.T) {
	m := newTestModel(t, stubFetcher{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
	m, _ = update(t, m, refresh(snapshot(build("bash-5.2", 10), build("hello-1.0", 20))))

	m, _ = update(t, m, keyPress("down"))
	m, _ = update(t, m, keyPress("down"))
	if b, ok := m.State().Selected(); !ok || b.PName() != "hello" {
		t.Fatalf("selected = %+v, %v", b, ok)
	}

	m, _ = update(t, m, refresh(snapshot(build("aaa-0.1", 5), build("bash-5.2", 10), build("hello-1.0", 20))))
	idx, ok := m.State().SelectedIndex()
	if !ok || idx != 2 {
		t.Fatalf("SelectedIndex = %d,%v, want 2", idx, ok)
	}

	m, _ = update(t, m, keyPress("esc"))
	if _, ok := m.State().Selected(); ok {
		t.Fatal("esc did not clear the selection")
	}
}

func TestModel_ViewShowsTableAndTree(t *testing.T) {
	m := newTestModel(t, stubFetcher{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 30})
	m, _ = update(t, m, refresh(snapshot(build("hello-2.12.1", 4242))))

	view := m.View()
	for _, want := range []string{"nixtop", "1000ms", "PID", "Package", "hello", "2.12.1", "4242", "Select a build"} {
		if !strings.Contains(view, want) {
			t.Fatalf("View() missing %q:\n%s", want, view)
		}
	}

	m, _ = update(t, m, keyPress("down"))
	view = m.View()
	for _, want := range []string{"bash -e builder.sh", "└───make -j8", "cpu <1s"} {
		if !strings.Contains(view, want) {
			t.Fatalf("View() with selection missing %q:\n%s", want, view)
		}
	}
}

func TestModel_ViewShowsOffline(t *testing.T) {
	m := newTestModel(t, stubFetcher{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 30})
	for i := 0; i < 2; i++ {
		m, _ = update(t, m, refreshMsg(poller.Result{Err: errors.New("nix: not found")}))
	}
	if view := m.View(); !strings.Contains(view, "offline: nix: not found") {
		t.Fatalf("View() missing offline notice:\n%s", view)
	}
}

func TestModel_FilterMode(t *testing.T) {
	m := newTestModel(t, stubFetcher{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
	m, _ = update(t, m, refresh(snapshot(build("bash-5.2", 10), build("hello-1.0", 20), build("python3-3.11", 30))))

	m, _ = update(t, m, keyPress("/"))
	if !m.filtering {
		t.Fatal("/ did not enter filter mode")
	}
	for _, r := range "hel" {
		m, _ = update(t, m, keyPress(string(r)))
	}
	if m.State().Filter != "hel" {
		t.Fatalf("Filter = %q, want hel", m.State().Filter)
	}
	m, _ = update(t, m, keyPress("enter"))
	if m.filtering {
		t.Fatal("enter did not leave filter mode")
	}
	if got := len(m.State().Visible()); got != 1 {
		t.Fatalf("Visible() = %d rows, want 1", got)
	}

	m, _ = update(t, m, keyPress("/"))
	m, _ = update(t, m, keyPress("esc"))
	if m.State().Filter != "" || m.filtering {
		t.Fatalf("esc left filter %q, filtering=%v", m.State().Filter, m.filtering)
	}
}

func TestModel_FilterModeTypesQuitKey(t *testing.T) {
	m := newTestModel(t, stubFetcher{})
	m, _ = update(t, m, keyPress("/"))

	m, cmd := update(t, m, keyPress("q"))
	if cmd != nil {
		if _, ok := cmd().(quitMsg); ok {
			t.Fatal("q quit while filtering")
		}
	}
	if m.State().Filter != "q" {
		t.Fatalf("Filter = %q, want q", m.State().Filter)
	}

	_, cmd = update(t, m, keyPress("ctrl+c"))
	if cmd == nil {
		t.Fatal("ctrl+c while filtering returned no command")
	}
	if _, ok := cmd().(quitMsg); !ok {
		t.Fatal("ctrl+c while filtering did not quit")
	}
}

func TestExitError(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	boom := errors.New("boom")

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want error
	}{
		{"clean", context.Background(), nil, nil},
		{"interrupted", context.Background(), tea.ErrInterrupted, nil},
		{"interrupted without context", nil, tea.ErrInterrupted, nil},
		{"killed by cancelled context", cancelled, tea.ErrProgramKilled, nil},
		{"killed with live context", context.Background(), tea.ErrProgramKilled, tea.ErrProgramKilled},
		{"killed without context", nil, tea.ErrProgramKilled, tea.ErrProgramKilled},
		{"other error", cancelled, boom, boom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitError(tt.ctx, tt.err); !errors.Is(got, tt.want) || (tt.want == nil) != (got == nil) {
				t.Fatalf("exitError() = %v, want %v", got, tt.want)
			}
		})
	}
}
