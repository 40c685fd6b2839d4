package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"cminus/internal/diag"
)

// Listing writes one line per diagnostic in the classic compiler format:
//
//	Error: <message> at line <N> (name : "<symbol>")
//
// The name part is omitted when a diagnostic has no symbol. Redeclarations
// also list every earlier declaration line, ascending.
func Listing(w io.Writer, bag *diag.Bag) error {
	for _, d := range bag.Items() {
		if _, err := io.WriteString(w, ListingLine(&d)+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// ListingLine renders a single diagnostic without a trailing newline.
func ListingLine(d *diag.Diagnostic) string {
	var b strings.Builder
	b.WriteString(listingSeverity(d.Severity))
	b.WriteString(": ")
	b.WriteString(d.Message)
	fmt.Fprintf(&b, " at line %d", d.Line)
	if d.Symbol != "" {
		fmt.Fprintf(&b, " (name : %q)", d.Symbol)
	}
	if d.Code == diag.SemaRedeclaration && len(d.Notes) > 0 {
		lines := make([]string, 0, len(d.Notes))
		for _, n := range d.Notes {
			lines = append(lines, strconv.FormatUint(uint64(n.Line), 10))
		}
		b.WriteString(", previously declared at line ")
		b.WriteString(strings.Join(lines, ", "))
	}
	return b.String()
}

func listingSeverity(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return "Error"
	case diag.SevWarning:
		return "Warning"
	default:
		return "Info"
	}
}
