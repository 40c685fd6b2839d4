package lexer

import (
	"cminus/internal/diag"
	"cminus/internal/token"
)

// scanNumber reads decimal digits. Letters glued to them ("12ab") make the
// whole run one bad literal.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	glued := false
	for b := lx.cursor.Peek(); isDec(b) || isLetter(b); b = lx.cursor.Peek() {
		glued = glued || isLetter(b)
		lx.cursor.Bump()
	}
	if !glued {
		return lx.lexeme(start, token.Number)
	}
	tok := lx.lexeme(start, token.Invalid)
	lx.errLex(diag.LexBadNumber, tok.Span, "bad number literal")
	return tok
}
