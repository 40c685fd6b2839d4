package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"cminus/internal/diag"
	"cminus/internal/source"
)

type palette struct {
	err, warn, info, note, path, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		path:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.path, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <sev> <CODE>: <Message>
// затем строку исходника с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		prettyOne(w, &d, fs, opts, pal)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	file, start, end := locate(fs, d.Primary, d.Line)
	path := "-"
	if file != nil {
		path = file.DisplayPath(opts.PathMode, fs.BaseDir())
	}
	msg := d.Message
	if d.Symbol != "" {
		msg += fmt.Sprintf(" (name %q)", d.Symbol)
	}
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		pal.path.Sprintf("%s:%d:%d", path, start.Line, start.Col),
		pal.severity(d.Severity).Sprint(d.Severity.Label()),
		d.Code.ID(),
		msg)

	if file != nil && start.Line > 0 {
		writeSnippet(w, file, start, end, int(opts.Context), pal)
	}

	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		fmt.Fprintf(w, "  %s: %s", pal.note.Sprint("note"), n.Msg)
		if n.Line > 0 {
			fmt.Fprintf(w, " at line %d", n.Line)
		}
		fmt.Fprintln(w)
	}
}

// locate resolves the span; a span-less diagnostic falls back to its line.
func locate(fs *source.FileSet, sp source.Span, line uint32) (*source.File, source.LineCol, source.LineCol) {
	if fs == nil {
		return nil, source.LineCol{Line: line}, source.LineCol{Line: line}
	}
	file := fs.Get(sp.File)
	if file == nil {
		return nil, source.LineCol{Line: line}, source.LineCol{Line: line}
	}
	if sp.Empty() && sp.Start == 0 && line > 0 {
		return file, source.LineCol{Line: line}, source.LineCol{Line: line}
	}
	start, end := fs.Resolve(sp)
	return file, start, end
}

func writeSnippet(w io.Writer, file *source.File, start, end source.LineCol, context int, pal palette) {
	first := max(int(start.Line)-context, 1)
	last := int(start.Line) + context
	width := len(fmt.Sprint(last))
	for ln := first; ln <= last; ln++ {
		text := file.Line(uint32(ln))
		if ln != int(start.Line) && strings.TrimSpace(text) == "" {
			continue
		}
		fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprintf("%*d |", width, ln), text)
		if ln != int(start.Line) || start.Col == 0 {
			continue
		}
		fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprintf("%*s |", width, ""), pal.caret.Sprint(underline(text, start, end)))
	}
}

// underline builds the ^~~~ marker aligned by display width; tabs are kept
// so the marker lines up with the source in any terminal.
func underline(text string, start, end source.LineCol) string {
	var b strings.Builder
	col := uint32(1)
	for _, r := range text {
		if col >= start.Col {
			break
		}
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
		}
		col += uint32(len(string(r)))
	}
	b.WriteByte('^')
	if end.Line == start.Line && end.Col > start.Col+1 {
		rest := text
		if int(start.Col-1) <= len(text) && int(end.Col-1) <= len(text) {
			rest = text[start.Col-1 : end.Col-1]
		}
		if n := runewidth.StringWidth(rest) - 1; n > 0 {
			b.WriteString(strings.Repeat("~", n))
		}
	}
	return b.String()
}
