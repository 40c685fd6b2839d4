package token

import (
	"cminus/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a number literal.
func (t Token) IsLiteral() bool { return t.Kind == Number }

// IsPunctOrOp reports whether the token is a punctuation or operator.
func (t Token) IsPunctOrOp() bool {
	return t.Kind >= Plus && t.Kind <= RBracket
}

// IsKeyword reports whether the token is a reserved word.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwIf && t.Kind <= KwVoid
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsTypeSpec reports whether the token starts a type specifier.
func (t Token) IsTypeSpec() bool { return t.Kind == KwInt || t.Kind == KwVoid }
