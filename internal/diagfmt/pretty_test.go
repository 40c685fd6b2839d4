package diagfmt

import (
	"strings"
	"testing"
)

func TestPrettyPlain(t *testing.T) {
	fs, _, _, bag := analyzeSource(t, `void main(void)
{
  int x;
  x = yy;
}
`)
	var b strings.Builder
	Pretty(&b, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true})
	out := b.String()

	wantHead := `main.cm:4:7: error SEM3002: undeclared variable (name "yy")`
	if !strings.HasPrefix(out, wantHead+"\n") {
		t.Fatalf("unexpected header:\n%s", out)
	}
	if !strings.Contains(out, "4 |   x = yy;\n") {
		t.Fatalf("missing source line:\n%s", out)
	}
	if !strings.Contains(out, "  |       ^~\n") {
		t.Fatalf("caret must underline yy:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("color disabled but escape codes found:\n%s", out)
	}
}

func TestPrettyNotes(t *testing.T) {
	fs, _, _, bag := analyzeSource(t, `int a;
int a;
`)
	var b strings.Builder
	Pretty(&b, bag, fs, PrettyOpts{ShowNotes: true})
	if !strings.Contains(b.String(), "note: previous declaration at line 1") {
		t.Fatalf("missing note:\n%s", b.String())
	}
}

func TestUnderlineWideRunes(t *testing.T) {
	got := underline("界 = ab;", srcPos(1, 7), srcPos(1, 9))
	if got != "     ^~" {
		t.Fatalf("got %q", got)
	}
}
