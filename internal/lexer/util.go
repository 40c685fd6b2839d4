package lexer

import (
	"cminus/internal/source"
	"cminus/internal/token"
)

// C-Minus letters are ASCII only; '_' is not one.
func isLetter(b byte) bool {
	return (b|0x20) >= 'a' && (b|0x20) <= 'z'
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

// try2 consumes a and b when they come next.
func (lx *Lexer) try2(a, b byte) bool {
	if b0, b1, ok := lx.cursor.Peek2(); !ok || b0 != a || b1 != b {
		return false
	}
	lx.cursor.Bump()
	lx.cursor.Bump()
	return true
}

func (lx *Lexer) text(sp source.Span) string { return string(lx.file.Content[sp.Start:sp.End]) }

// lexeme builds the token of kind spanning start up to the cursor.
func (lx *Lexer) lexeme(start Mark, kind token.Kind) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}
