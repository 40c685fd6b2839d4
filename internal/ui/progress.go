package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"cminus/internal/driver"
)

// fileState is the row state of one .cm file.
type fileState uint8

const (
	stateQueued fileState = iota
	stateChecking
	stateClean
	stateCached
	stateDirty // есть диагностики
	stateFailed
)

func (s fileState) settled() bool { return s >= stateClean }

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	stateStyles  = map[fileState]lipgloss.Style{
		stateQueued:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		stateChecking: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		stateClean:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		stateCached:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		stateDirty:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		stateFailed:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
)

const stateColumn = 14

type fileRow struct {
	path  string
	state fileState
	diags int
}

func (r fileRow) label() string {
	switch r.state {
	case stateChecking:
		return "checking"
	case stateClean:
		return "ok"
	case stateCached:
		return "cached"
	case stateDirty:
		if r.diags == 1 {
			return "1 diagnostic"
		}
		return strconv.Itoa(r.diags) + " diagnostics"
	case stateFailed:
		return "unreadable"
	default:
		return "queued"
	}
}

type (
	eventMsg driver.ProgressEvent
	doneMsg  struct{}
)

// checkView renders a directory check: one row per file, a bar of settled
// files and a running diagnostics total.
type checkView struct {
	heading string
	feed    <-chan driver.ProgressEvent
	spin    spinner.Model
	bar     progress.Model
	rows    []fileRow
	byPath  map[string]int

	settled, dirty, diagTotal int

	cols   int
	closed bool
}

// NewCheckView builds the Bubble Tea model for a directory check over files.
// It quits once feed is closed.
func NewCheckView(heading string, files []string, feed <-chan driver.ProgressEvent) tea.Model {
	v := &checkView{
		heading: heading,
		feed:    feed,
		spin:    spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		rows:    make([]fileRow, len(files)),
		byPath:  make(map[string]int, len(files)),
	}
	v.resize(80)
	for i, f := range files {
		v.rows[i] = fileRow{path: f}
		v.byPath[f] = i
	}
	return v
}

func (v *checkView) resize(cols int) {
	v.cols = cols
	v.bar.Width = max(cols-4, 10)
}

func (v *checkView) Init() tea.Cmd {
	return tea.Batch(v.spin.Tick, v.next())
}

func (v *checkView) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-v.feed; ok {
			return eventMsg(ev)
		}
		return doneMsg{}
	}
}

func (v *checkView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return v, tea.Batch(v.record(driver.ProgressEvent(msg)), v.next())
	case doneMsg:
		v.closed = true
		return v, tea.Quit
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			v.resize(msg.Width)
		}
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return v, tea.Quit
		}
	case spinner.TickMsg:
		if !v.closed {
			var cmd tea.Cmd
			v.spin, cmd = v.spin.Update(msg)
			return v, cmd
		}
	case progress.FrameMsg:
		m, cmd := v.bar.Update(msg)
		v.bar = m.(progress.Model)
		return v, cmd
	}
	return v, nil
}

// record applies ev to its row; only the first settling event of a file
// moves the counters.
func (v *checkView) record(ev driver.ProgressEvent) tea.Cmd {
	i, ok := v.byPath[ev.Path]
	if !ok {
		return nil
	}
	row := &v.rows[i]
	if row.state.settled() {
		return nil
	}
	row.state, row.diags = stateOf(ev), ev.Errors
	if !row.state.settled() {
		return nil
	}
	v.settled++
	if row.state == stateDirty || row.state == stateFailed {
		v.dirty++
	}
	v.diagTotal += ev.Errors
	return v.bar.SetPercent(float64(v.settled) / float64(len(v.rows)))
}

func stateOf(ev driver.ProgressEvent) fileState {
	switch ev.Status {
	case driver.ProgressStarted:
		return stateChecking
	case driver.ProgressFailed:
		return stateFailed
	case driver.ProgressDone:
		switch {
		case ev.Errors > 0:
			return stateDirty
		case ev.Cached:
			return stateCached
		}
		return stateClean
	}
	return stateQueued
}

func (v *checkView) View() string {
	if len(v.rows) == 0 {
		return ""
	}
	lead := v.spin.View()
	if v.closed {
		lead = "done:"
	}
	var b strings.Builder
	b.WriteString(headingStyle.Render(fmt.Sprintf("%s %s  %d/%d files", lead, v.heading, v.settled, len(v.rows))))
	if v.dirty > 0 {
		fmt.Fprintf(&b, "  %d with diagnostics (%d total)", v.dirty, v.diagTotal)
	}
	b.WriteString("\n\n")

	pathCols := max(v.cols-stateColumn-4, 20)
	for _, r := range v.rows {
		cell := stateStyles[r.state].Render(fmt.Sprintf("%*s", stateColumn, r.label()))
		fmt.Fprintf(&b, "  %s %s\n", cell, clip(r.path, pathCols))
	}
	b.WriteByte('\n')
	if v.closed {
		b.WriteString(v.bar.ViewAs(1))
	} else {
		b.WriteString(v.bar.View())
	}
	b.WriteByte('\n')
	return b.String()
}

// clip cuts s to cols display cells, ending with "..." when there is room.
func clip(s string, cols int) string {
	switch {
	case cols <= 0 || runewidth.StringWidth(s) <= cols:
		return s
	case cols <= 3:
		return runewidth.Truncate(s, cols, "")
	}
	return runewidth.Truncate(s, cols, "...")
}
