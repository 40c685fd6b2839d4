package diagfmt

import (
	"encoding/json"
	"io"

	"cminus/internal/diag"
	"cminus/internal/source"
)

// Report is the document written by JSON. Count is the number of entries
// listed, Total what the bag holds, Dropped what its cap turned away.
type Report struct {
	Diagnostics []Entry `json:"diagnostics"`
	Count       int     `json:"count"`
	Total       int     `json:"total"`
	Dropped     int     `json:"dropped,omitempty"`
}

// Entry is one diagnostic. Line is the line the checker reported; it is
// set even when the location has no resolved position.
type Entry struct {
	Severity string      `json:"severity"`
	Code     string      `json:"code"`
	Message  string      `json:"message"`
	Line     uint32      `json:"line"`
	Symbol   string      `json:"symbol,omitempty"`
	Location Location    `json:"location"`
	Notes    []EntryNote `json:"notes,omitempty"`
}

type EntryNote struct {
	Message string `json:"message"`
	Line    uint32 `json:"line"`
}

// Location: byte offsets always, line/column pairs on request.
type Location struct {
	File  string          `json:"file"`
	Start uint32          `json:"start_byte"`
	End   uint32          `json:"end_byte"`
	From  *source.LineCol `json:"from,omitempty"`
	To    *source.LineCol `json:"to,omitempty"`
}

func locationOf(sp source.Span, fs *source.FileSet, opts JSONOpts) Location {
	loc := Location{File: "-", Start: sp.Start, End: sp.End}
	f := fs.Get(sp.File)
	if f == nil {
		return loc
	}
	loc.File = f.DisplayPath(opts.PathMode, fs.BaseDir())
	if opts.IncludePositions {
		from, to := f.Position(sp.Start), f.Position(sp.End)
		loc.From, loc.To = &from, &to
	}
	return loc
}

// BuildReport converts the bag without encoding it.
func BuildReport(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) Report {
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	rep := Report{
		Diagnostics: make([]Entry, 0, len(items)),
		Count:       len(items),
		Total:       bag.Len(),
		Dropped:     bag.Dropped(),
	}
	for _, d := range items {
		e := Entry{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Line:     d.Line,
			Symbol:   d.Symbol,
			Location: locationOf(d.Primary, fs, opts),
		}
		if opts.IncludeNotes {
			for _, n := range d.Notes {
				e.Notes = append(e.Notes, EntryNote{Message: n.Msg, Line: n.Line})
			}
		}
		rep.Diagnostics = append(rep.Diagnostics, e)
	}
	return rep
}

// JSON writes the indented report to w.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildReport(bag, fs, opts))
}
