package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"cminus/internal/driver"
)

func TestCheckViewCountsSettledFiles(t *testing.T) {
	model := NewCheckView("check", []string{"a.cm", "b.cm", "c.cm"}, nil)
	v := model.(*checkView)

	steps := []driver.ProgressEvent{
		{Path: "a.cm", Status: driver.ProgressStarted},
		{Path: "a.cm", Status: driver.ProgressDone},
		{Path: "b.cm", Status: driver.ProgressDone, Errors: 3},
		{Path: "b.cm", Status: driver.ProgressDone, Errors: 5}, // повтор не считается
		{Path: "c.cm", Status: driver.ProgressFailed},
		{Path: "missing.cm", Status: driver.ProgressDone},
	}
	for _, ev := range steps {
		model, _ = model.Update(eventMsg(ev))
	}
	if v.settled != 3 || v.dirty != 2 || v.diagTotal != 3 {
		t.Fatalf("settled=%d dirty=%d total=%d", v.settled, v.dirty, v.diagTotal)
	}
	view := model.View()
	for _, want := range []string{"3/3 files", "2 with diagnostics (3 total)", "ok", "3 diagnostics", "unreadable"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view lacks %q:\n%s", want, view)
		}
	}

	model, cmd := model.Update(doneMsg{})
	if cmd == nil || !v.closed {
		t.Fatalf("closed feed must quit")
	}
	if !strings.Contains(model.View(), "done: check") {
		t.Fatalf("final view must be marked done")
	}
}

func TestCheckViewNarrowTerminal(t *testing.T) {
	model := NewCheckView("check", []string{strings.Repeat("x", 200) + ".cm"}, nil)
	model, _ = model.Update(tea.WindowSizeMsg{Width: 50, Height: 10})
	for _, line := range strings.Split(model.View(), "\n") {
		if strings.Contains(line, "xxx") && !strings.HasSuffix(line, "...") {
			t.Fatalf("long path must be clipped: %q", line)
		}
	}
}

func TestRowLabels(t *testing.T) {
	cases := map[string]driver.ProgressEvent{
		"queued":        {Status: driver.ProgressQueued},
		"checking":      {Status: driver.ProgressStarted},
		"unreadable":    {Status: driver.ProgressFailed},
		"cached":        {Status: driver.ProgressDone, Cached: true},
		"ok":            {Status: driver.ProgressDone},
		"1 diagnostic":  {Status: driver.ProgressDone, Errors: 1},
		"2 diagnostics": {Status: driver.ProgressDone, Errors: 2, Cached: true},
	}
	for want, ev := range cases {
		if got := (fileRow{state: stateOf(ev), diags: ev.Errors}).label(); got != want {
			t.Fatalf("label(%+v) = %q, want %q", ev, got, want)
		}
	}
}

func TestClip(t *testing.T) {
	if got := clip("короткий", 20); got != "короткий" {
		t.Fatalf("short value changed: %q", got)
	}
	if got := clip("abcdefghij", 6); got != "abc..." {
		t.Fatalf("clip = %q", got)
	}
	if got := clip("abcdef", 2); got != "ab" {
		t.Fatalf("narrow clip = %q", got)
	}
}
