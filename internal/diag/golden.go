package diag

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"cminus/internal/source"
)

// shortLine is one row of the short format.
type shortLine struct {
	sev, code, path string
	line, col       uint32
	msg             string
}

func (l shortLine) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", l.sev, l.code, l.path, l.line, l.col, l.msg)
}

// FormatShortDiagnostics renders one row per diagnostic,
// "sev CODE path:line:col message", ordered by position. Notes follow as
// rows of severity "note" when includeNotes is set. A diagnostic without a
// span gets its recorded line and column 0.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	var rows []shortLine
	for _, d := range diags {
		id := d.Code.ID()
		rows = append(rows, shortRow(fs, d.Severity.Label(), id, d.Primary, d.Line, d.Message))
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			rows = append(rows, shortRow(fs, "note", id, n.Span, n.Line, n.Msg))
		}
	}
	slices.SortStableFunc(rows, func(a, b shortLine) int {
		return cmp.Or(strings.Compare(a.path, b.path), cmp.Compare(a.line, b.line), cmp.Compare(a.col, b.col))
	})

	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.String()
	}
	return strings.Join(out, "\n")
}

func shortRow(fs *source.FileSet, sev, code string, sp source.Span, line uint32, msg string) shortLine {
	row := shortLine{sev: sev, code: code, path: "-", line: line, msg: oneLine(msg)}
	var f *source.File
	if fs != nil {
		f = fs.Get(sp.File)
	}
	if f == nil {
		return row
	}
	row.path = f.DisplayPath(source.PathRelative, fs.BaseDir())
	if sp.Empty() && line != 0 {
		return row
	}
	pos := f.Position(sp.Start)
	row.line, row.col = pos.Line, pos.Col
	return row
}

// oneLine folds any line breaks of msg into spaces.
func oneLine(msg string) string {
	return strings.TrimSpace(strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(msg))
}
