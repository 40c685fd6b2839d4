package diagfmt

import (
	"encoding/json"
	"strings"
	"testing"

	"cminus/internal/source"
)

func srcPos(line, col uint32) source.LineCol { return source.LineCol{Line: line, Col: col} }

func TestJSONOutput(t *testing.T) {
	fs, _, _, bag := analyzeSource(t, `int a;
int a;
void main(void) { b = 1; }
`)
	var buf strings.Builder
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true, PathMode: PathModeBasename}); err != nil {
		t.Fatal(err)
	}
	var out Report
	if err := json.Unmarshal([]byte(buf.String()), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.Count != 3 || out.Total != 3 || len(out.Diagnostics) != 3 {
		t.Fatalf("expected 3 diagnostics, got %d", out.Count)
	}
	first := out.Diagnostics[0]
	if first.Code != "SEM3001" || first.Line != 2 || first.Symbol != "a" || len(first.Notes) != 1 || first.Notes[0].Line != 1 {
		t.Fatalf("unexpected redeclaration entry: %+v", first)
	}
	if loc := first.Location; loc.File != "main.cm" || loc.From == nil || *loc.From != srcPos(2, 5) {
		t.Fatalf("unexpected location: %+v", first.Location)
	}

	out = BuildReport(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 || out.Total != 3 || out.Diagnostics[0].Notes != nil || out.Diagnostics[0].Location.From != nil {
		t.Fatalf("max and notes options ignored: %+v", out)
	}
}
