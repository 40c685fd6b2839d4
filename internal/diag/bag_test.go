package diag

import (
	"strings"
	"testing"

	"cminus/internal/source"
)

func TestBagCapCountsDropped(t *testing.T) {
	bag := NewBag(2)
	for i := 0; i < 4; i++ {
		bag.Add(NewError(SemaUndeclared, source.Span{}, "undeclared variable").WithLine(uint32(i + 1)))
	}
	if bag.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", bag.Len())
	}
	if bag.Dropped() != 2 {
		t.Fatalf("expected 2 dropped, got %d", bag.Dropped())
	}
	if !bag.HasErrors() {
		t.Fatalf("expected errors")
	}
}

func TestBagKeepsEmissionOrder(t *testing.T) {
	bag := NewBag(0)
	r := BagReporter{Bag: bag}
	ReportError(r, SemaTypeMismatch, source.Span{}, "invalid condition").AtLine(9).Emit()
	ReportError(r, SemaUndeclared, source.Span{}, "undeclared variable").AtLine(3).WithSymbol("x").Emit()

	items := bag.Items()
	if len(items) != 2 || items[0].Line != 9 || items[1].Symbol != "x" {
		t.Fatalf("unexpected order: %+v", items)
	}
	bag.Sort()
	if bag.Items()[0].Line != 3 {
		t.Fatalf("sort by line failed: %+v", bag.Items())
	}
	if bag.CountCode(SemaUndeclared) != 1 {
		t.Fatalf("CountCode mismatch")
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(0)
	b := ReportError(BagReporter{Bag: bag}, SemaRedeclaration, source.Span{}, "redeclared variable").
		AtLine(7).
		WithNote(source.Span{}, 3, "previous declaration")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("expected single emission, got %d", bag.Len())
	}
	if len(bag.Items()[0].Notes) != 1 || bag.Items()[0].Notes[0].Line != 3 {
		t.Fatalf("note not recorded: %+v", bag.Items()[0])
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	d := NewError(SemaUndeclared, source.Span{}, "undeclared variable").WithLine(4)
	r.Report(d)
	r.Report(d)
	r.Report(d.WithLine(5))
	if bag.Len() != 2 {
		t.Fatalf("expected 2 unique diagnostics, got %d", bag.Len())
	}
}

func TestCodeIDs(t *testing.T) {
	cases := map[Code]string{
		SemaRedeclaration:     "SEM3001",
		SemaUndeclared:        "SEM3002",
		SemaTypeMismatch:      "SEM3003",
		SemaSignatureMismatch: "SEM3004",
		SemaMissingReturn:     "SEM3005",
		LexUnknownChar:        "LEX1001",
		SynExpectSemicolon:    "SYN2012",
		IOLoadFileError:       "IO4001",
		ProjInvalidManifest:   "PRJ5001",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Fatalf("%d: want %s, got %s", code, want, got)
		}
	}
}

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSetWithBase("/work")
	id := fs.AddVirtual("main.cm", []byte("int x;\nint x;\n"))
	diags := []Diagnostic{
		NewError(SemaRedeclaration, source.Span{File: id, Start: 11, End: 12}, "redeclared variable").WithLine(2),
		NewError(SemaMissingReturn, source.Span{File: id}, "missing return statement").WithLine(1),
	}
	out := FormatShortDiagnostics(diags, fs, false)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", out)
	}
	if lines[0] != "error SEM3005 main.cm:1:0 missing return statement" {
		t.Fatalf("unexpected first line: %q", lines[0])
	}
	if lines[1] != "error SEM3001 main.cm:2:5 redeclared variable" {
		t.Fatalf("unexpected second line: %q", lines[1])
	}
}
