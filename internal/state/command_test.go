package state

import (
	"testing"
	"time"
)

func TestApply_IntervalSteps(t *testing.T) {
	s := New(time.Second, LayoutHorizontal)

	s, eff := s.Apply(CmdIncreaseInterval)
	if s.Interval != 1100*time.Millisecond || eff != EffectPrefsChanged {
		t.Fatalf("after increase: %v %v", s.Interval, eff)
	}

	s, eff = s.Apply(CmdDecreaseInterval)
	if s.Interval != time.Second || eff != EffectPrefsChanged {
		t.Fatalf("after decrease: %v %v", s.Interval, eff)
	}
}

func TestApply_IntervalFloor(t *testing.T) {
	s := New(200*time.Millisecond, LayoutHorizontal)

	s, _ = s.Apply(CmdDecreaseInterval)
	if s.Interval != MinInterval {
		t.Fatalf("Interval = %v, want %v", s.Interval, MinInterval)
	}

	s, eff := s.Apply(CmdDecreaseInterval)
	if s.Interval != MinInterval {
		t.Fatalf("Interval dropped below floor: %v", s.Interval)
	}
	if eff != EffectNone {
		t.Fatalf("no-op decrease reported %v", eff)
	}
}

func TestApply_IntervalHasNoCeiling(t *testing.T) {
	s := New(time.Hour, LayoutHorizontal)
	for i := 0; i < 10; i++ {
		s, _ = s.Apply(CmdIncreaseInterval)
	}
	if want := time.Hour + 10*IntervalStep; s.Interval != want {
		t.Fatalf("Interval = %v, want %v", s.Interval, want)
	}
}

func TestApply_Navigation(t *testing.T) {
	s := New(time.Second, LayoutHorizontal).ReplaceBuilds(builds("a-1", "b-1", "c-1"))

	steps := []struct {
		cmd  Command
		want int // -1 means no selection
	}{
		{CmdSelectNext, 0},
		{CmdSelectNext, 1},
		{CmdSelectNext, 2},
		{CmdSelectNext, 2},
		{CmdSelectPrev, 1},
		{CmdSelectPrev, 0},
		{CmdSelectPrev, 0},
		{CmdSelectLast, 2},
		{CmdSelectFirst, 0},
		{CmdClearSelection, -1},
		{CmdSelectPrev, 2},
	}
	for i, step := range steps {
		var eff Effect
		s, eff = s.Apply(step.cmd)
		if eff != EffectNone {
			t.Fatalf("step %d: effect %v, want none", i, eff)
		}
		idx, ok := s.SelectedIndex()
		if step.want < 0 {
			if ok {
				t.Fatalf("step %d: selection %d, want none", i, idx)
			}
			continue
		}
		if !ok || idx != step.want {
			t.Fatalf("step %d: selection %d,%v, want %d", i, idx, ok, step.want)
		}
	}
}

func TestApply_NavigationWithoutBuilds(t *testing.T) {
	s := New(time.Second, LayoutHorizontal)
	for _, cmd := range []Command{CmdSelectNext, CmdSelectPrev, CmdSelectFirst, CmdSelectLast} {
		s, _ = s.Apply(cmd)
		if _, ok := s.SelectedIndex(); ok {
			t.Fatalf("command %v selected a row in an empty table", cmd)
		}
	}
}

func TestApply_ToggleLayout(t *testing.T) {
	s := New(time.Second, LayoutHorizontal)
	s, eff := s.Apply(CmdToggleLayout)
	if s.Layout != LayoutVertical || eff != EffectPrefsChanged {
		t.Fatalf("toggle: %v %v", s.Layout, eff)
	}
	s, _ = s.Apply(CmdToggleLayout)
	if s.Layout != LayoutHorizontal {
		t.Fatalf("second toggle: %v", s.Layout)
	}
}

func TestApply_Quit(t *testing.T) {
	s := New(time.Second, LayoutHorizontal)
	next, eff := s.Apply(CmdQuit)
	if eff != EffectQuit {
		t.Fatalf("effect = %v, want quit", eff)
	}
	if !next.Running {
		t.Fatal("Apply must leave Running to the loop")
	}
}
