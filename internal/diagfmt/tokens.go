package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"cminus/internal/source"
	"cminus/internal/token"
)

// TokenRecord is one token of the JSON token dump.
type TokenRecord struct {
	Kind    string         `json:"kind"`
	Text    string         `json:"text,omitempty"`
	From    source.LineCol `json:"from"`
	To      source.LineCol `json:"to"`
	Leading []string       `json:"leading,omitempty"`
}

// forEachToken resolves every token up to and including the first EOF.
func forEachToken(tokens []token.Token, fs *source.FileSet, fn func(i int, tok token.Token, from, to source.LineCol) error) error {
	for i, tok := range tokens {
		from, to := fs.Resolve(tok.Span)
		if err := fn(i, tok, from, to); err != nil {
			return err
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

func leadingKinds(tok token.Token) []string {
	var out []string
	for _, tr := range tok.Leading {
		out = append(out, tr.Kind.String())
	}
	return out
}

// FormatTokensListing writes the scanner trace of the C-Minus reference
// compiler: "\t<line>: <token>".
func FormatTokensListing(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	return forEachToken(tokens, fs, func(_ int, tok token.Token, from, _ source.LineCol) error {
		_, err := fmt.Fprintf(w, "\t%d: %s\n", from.Line, listingToken(tok))
		return err
	})
}

func listingToken(tok token.Token) string {
	switch {
	case tok.IsKeyword():
		return "reserved word: " + tok.Text
	case tok.Kind == token.Number:
		return "NUM, val= " + tok.Text
	case tok.Kind == token.Ident:
		return "ID, name= " + tok.Text
	case tok.Kind == token.Invalid:
		return "ERROR: " + tok.Text
	}
	return tok.Kind.String()
}

// FormatTokensPretty writes one numbered token per line with its range and
// the trivia in front of it.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	return forEachToken(tokens, fs, func(i int, tok token.Token, from, to source.LineCol) error {
		var b strings.Builder
		fmt.Fprintf(&b, "%4d  %d:%d-%d:%d  %s", i+1, from.Line, from.Col, to.Line, to.Col, tok.Kind)
		if tok.Text != "" {
			fmt.Fprintf(&b, " %q", tok.Text)
		}
		if lead := leadingKinds(tok); len(lead) > 0 {
			b.WriteString("  after " + strings.Join(lead, "+"))
		}
		b.WriteByte('\n')
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// FormatTokensJSON writes the tokens as an indented JSON array.
func FormatTokensJSON(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	records := make([]TokenRecord, 0, len(tokens))
	_ = forEachToken(tokens, fs, func(_ int, tok token.Token, from, to source.LineCol) error { //nolint:errcheck
		records = append(records, TokenRecord{
			Kind:    tok.Kind.String(),
			Text:    tok.Text,
			From:    from,
			To:      to,
			Leading: leadingKinds(tok),
		})
		return nil
	})
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
