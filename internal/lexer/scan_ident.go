package lexer

import "cminus/internal/token"

// scanIdentOrKeyword reads letter{letter|digit}. Keywords are lowercase only.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	for b := lx.cursor.Peek(); isLetter(b) || isDec(b); b = lx.cursor.Peek() {
		lx.cursor.Bump()
	}
	tok := lx.lexeme(start, token.Ident)
	if k, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = k
	}
	return tok
}
