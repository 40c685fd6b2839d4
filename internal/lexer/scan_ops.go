package lexer

import (
	"cminus/internal/diag"
	"cminus/internal/token"
)

// comparisons of two bytes are tried before their one-byte prefixes
var pairOps = [...]struct {
	first, second byte
	kind          token.Kind
}{
	{'=', '=', token.EqEq},
	{'!', '=', token.BangEq},
	{'<', '=', token.LtEq},
	{'>', '=', token.GtEq},
}

var singleOps = [256]token.Kind{
	'+': token.Plus, '-': token.Minus, '*': token.Star, '/': token.Slash,
	'=': token.Assign, '<': token.Lt, '>': token.Gt,
	';': token.Semicolon, ',': token.Comma,
	'(': token.LParen, ')': token.RParen,
	'{': token.LBrace, '}': token.RBrace,
	'[': token.LBracket, ']': token.RBracket,
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	for _, op := range pairOps {
		if lx.try2(op.first, op.second) {
			return lx.lexeme(start, op.kind)
		}
	}
	ch := lx.cursor.Bump()
	if k := singleOps[ch]; k != token.Invalid {
		return lx.lexeme(start, k)
	}

	// лишний байт, в том числе одиночный '!'; UTF-8 символ берём целиком
	for ch >= 0x80 && !lx.cursor.EOF() && lx.cursor.Peek()&0xC0 == 0x80 {
		lx.cursor.Bump()
	}
	tok := lx.lexeme(start, token.Invalid)
	lx.errLex(diag.LexUnknownChar, tok.Span, "unknown character")
	return tok
}
