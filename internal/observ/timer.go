package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase is one timed pass: tokenize, parse, symbols or typecheck.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string // e.g. "nodes=42"
}

// Timer records pass durations. A nil *Timer is valid and records nothing,
// so callers time unconditionally. Safe for concurrent use.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
	byName map[string]int
}

func NewTimer() *Timer { return &Timer{byName: map[string]int{}} }

// Begin opens a phase; the handle goes to End.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.add(Phase{Name: name, Start: time.Now()})
}

func (t *Timer) add(p Phase) int {
	t.phases = append(t.phases, p)
	i := len(t.phases) - 1
	if _, seen := t.byName[p.Name]; !seen {
		t.byName[p.Name] = i
	}
	return i
}

// End closes the phase behind handle; unknown handles are ignored.
func (t *Timer) End(handle int, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if handle < 0 || handle >= len(t.phases) {
		return
	}
	t.phases[handle].Dur = time.Since(t.phases[handle].Start)
	t.phases[handle].Note = note
}

// Merge folds other into t by phase name: durations add up, unknown phases
// are appended without their note.
func (t *Timer) Merge(other *Timer) {
	if t == nil || other == nil || t == other {
		return
	}
	incoming := other.Phases()
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, p := range incoming {
		if i, ok := t.byName[p.Name]; ok {
			t.phases[i].Dur += p.Dur
			continue
		}
		p.Note = ""
		t.add(p)
	}
}

// Phases copies what was recorded.
func (t *Timer) Phases() []Phase {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Phase(nil), t.phases...)
}

// Total is the sum of all phase durations.
func (t *Timer) Total() time.Duration {
	var sum time.Duration
	for _, p := range t.Phases() {
		sum += p.Dur
	}
	return sum
}

// Summary is the --timings table printed after a check.
func (t *Timer) Summary() string {
	var b strings.Builder
	row := func(name string, d time.Duration, note string) {
		fmt.Fprintf(&b, "  %-12s %9.3f ms", name, millis(d))
		if note != "" {
			b.WriteString("  " + note)
		}
		b.WriteByte('\n')
	}
	b.WriteString("timings:\n")
	for _, p := range t.Phases() {
		row(p.Name, p.Dur, p.Note)
	}
	row("total", t.Total(), "")
	return b.String()
}

func millis(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }
