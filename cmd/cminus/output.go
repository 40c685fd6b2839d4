package main

import (
	"fmt"
	"io"
	"slices"

	"cminus/internal/diag"
	"cminus/internal/diagfmt"
	"cminus/internal/project"
	"cminus/internal/source"
)

type outputOpts struct {
	format    string
	color     bool
	withNotes bool
	pathMode  diagfmt.PathMode
}

func checkFormat(format string) error {
	if !slices.Contains(project.Formats, format) {
		return fmt.Errorf("unknown format %q (expected: listing|pretty|short|json)", format)
	}
	return nil
}

// writeDiagnostics renders one bag. Listing and JSON keep emission order,
// pretty and short output is sorted by position.
func writeDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts outputOpts) error {
	switch opts.format {
	case "listing":
		return diagfmt.Listing(w, bag)
	case "pretty":
		bag.Sort()
		diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
			Color:     opts.color,
			Context:   1,
			PathMode:  opts.pathMode,
			ShowNotes: opts.withNotes,
		})
		return nil
	case "short":
		bag.Sort()
		out := diag.FormatShortDiagnostics(bag.Items(), fs, opts.withNotes)
		if out == "" {
			return nil
		}
		_, err := io.WriteString(w, out+"\n")
		return err
	case "json":
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         opts.pathMode,
			IncludeNotes:     true,
		})
	default:
		return checkFormat(opts.format)
	}
}

// writeDropped tells how many diagnostics the cap swallowed.
func writeDropped(w io.Writer, bag *diag.Bag, path string) {
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(w, "%s: %d more diagnostics not shown (raise --max-diagnostics)\n", path, n)
	}
}
