package diagfmt

import (
	"encoding/json"
	"strings"
	"testing"

	"cminus/internal/lexer"
	"cminus/internal/source"
	"cminus/internal/token"
)

func scanSource(src string) (*source.FileSet, []token.Token) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.cm", []byte(src))
	return fs, lexer.New(fs.Get(id), lexer.Options{}).All()
}

const tokenSource = "int x; /* c */\n12ab"

func TestTokensListing(t *testing.T) {
	fs, toks := scanSource(tokenSource)
	var b strings.Builder
	if err := FormatTokensListing(&b, toks, fs); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 rows, got %q", b.String())
	}
	for i, want := range map[int]string{0: "\t1: reserved word: int", 1: "\t1: ID, name= x", 3: "\t2: ERROR: 12ab"} {
		if lines[i] != want {
			t.Fatalf("row %d = %q, want %q", i, lines[i], want)
		}
	}
}

func TestTokensPrettyShowsTrivia(t *testing.T) {
	fs, toks := scanSource(tokenSource)
	var b strings.Builder
	if err := FormatTokensPretty(&b, toks, fs); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), `2:1-2:5  Invalid "12ab"  after Space+BlockComment+Newline`) {
		t.Fatalf("unexpected pretty output:\n%s", b.String())
	}
}

func TestTokensJSON(t *testing.T) {
	fs, toks := scanSource(tokenSource)
	var b strings.Builder
	if err := FormatTokensJSON(&b, toks, fs); err != nil {
		t.Fatal(err)
	}
	var recs []TokenRecord
	if err := json.Unmarshal([]byte(b.String()), &recs); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(recs) != 5 || recs[4].Kind != "EOF" {
		t.Fatalf("unexpected records %+v", recs)
	}
	bad := recs[3]
	if bad.Text != "12ab" || bad.From != (source.LineCol{Line: 2, Col: 1}) || len(bad.Leading) != 3 {
		t.Fatalf("unexpected invalid token record %+v", bad)
	}
}
