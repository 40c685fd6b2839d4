package lexer

import (
	"cminus/internal/diag"
	"cminus/internal/source"
	"cminus/internal/token"
)

// maxTokenLength caps a single lexeme; longer input is reported and skipped.
const maxTokenLength = 1024

// Lexer turns one C-Minus file into tokens. Trivia in front of a token is
// attached to it as Leading; EOF carries none.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	ahead  []token.Token // не больше одного
	hold   []token.Trivia
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{file: file, cursor: NewCursor(file), opts: opts}
}

func (lx *Lexer) File() *source.File { return lx.file }

// Next returns the next significant token; EOF repeats forever.
func (lx *Lexer) Next() token.Token {
	if n := len(lx.ahead); n > 0 {
		tok := lx.ahead[n-1]
		lx.ahead = lx.ahead[:n-1]
		return tok
	}

	lx.collectLeadingTrivia()
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.cursor.SpanFrom(lx.cursor.Mark())}
	}

	tok := lx.scan(lx.cursor.Peek())
	if tok.Span.Len() > maxTokenLength {
		at := tok.Span
		at.End = at.Start
		lx.errLex(diag.LexTokenTooLong, at, "token too long")
		tok.Kind = token.Invalid
	}
	tok.Leading, lx.hold = lx.hold, nil
	return tok
}

func (lx *Lexer) scan(first byte) token.Token {
	switch {
	case isLetter(first):
		return lx.scanIdentOrKeyword()
	case isDec(first):
		return lx.scanNumber()
	}
	return lx.scanOperatorOrPunct()
}

// Peek returns what Next will return.
func (lx *Lexer) Peek() token.Token {
	tok := lx.Next()
	lx.ahead = append(lx.ahead, tok)
	return tok
}

// All drains the lexer, EOF included.
func (lx *Lexer) All() []token.Token {
	var out []token.Token
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}
