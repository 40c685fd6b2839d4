package lexer

import (
	"cminus/internal/diag"
	"cminus/internal/token"
)

// collectLeadingTrivia fills hold with the trivia before the next token.
// Runs of blanks and runs of newlines each become one piece; a block comment
// is one piece even when EOF cuts it off.
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		switch b := lx.cursor.Peek(); {
		case isSpace(b):
			lx.skipWhile(isSpace)
			lx.keep(start, token.TriviaSpace)
		case b == '\n':
			lx.skipWhile(func(c byte) bool { return c == '\n' })
			lx.keep(start, token.TriviaNewline)
		case lx.try2('/', '*'):
			lx.finishBlockComment(start)
		default:
			return
		}
	}
}

func (lx *Lexer) skipWhile(pred func(byte) bool) {
	for !lx.cursor.EOF() && pred(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) keep(start Mark, kind token.TriviaKind) {
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{Kind: kind, Span: sp, Text: lx.text(sp)})
}

// finishBlockComment runs after "/*". Comments do not nest.
func (lx *Lexer) finishBlockComment(start Mark) {
	for !lx.try2('*', '/') {
		if lx.cursor.EOF() {
			opener := lx.cursor.SpanFrom(start)
			opener.End = opener.Start + 2
			lx.errLex(diag.LexUnterminatedBlockComment, opener, "unterminated block comment")
			break
		}
		lx.cursor.Bump()
	}
	lx.keep(start, token.TriviaBlockComment)
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\f', '\v':
		return true
	}
	return false
}
