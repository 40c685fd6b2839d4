package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// Number represents a decimal integer literal.
	Number

	KwIf     // if
	KwElse   // else
	KwWhile  // while
	KwReturn // return
	KwInt    // int
	KwVoid   // void

	Plus      // +
	Minus     // -
	Star      // *
	Slash     // /
	Assign    // =
	EqEq      // ==
	BangEq    // !=
	Lt        // <
	LtEq      // <=
	Gt        // >
	GtEq      // >=
	Semicolon // ;
	Comma     // ,
	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
)

var kindNames = [...]string{
	Invalid:   "Invalid",
	EOF:       "EOF",
	Ident:     "Ident",
	Number:    "Number",
	KwIf:      "if",
	KwElse:    "else",
	KwWhile:   "while",
	KwReturn:  "return",
	KwInt:     "int",
	KwVoid:    "void",
	Plus:      "+",
	Minus:     "-",
	Star:      "*",
	Slash:     "/",
	Assign:    "=",
	EqEq:      "==",
	BangEq:    "!=",
	Lt:        "<",
	LtEq:      "<=",
	Gt:        ">",
	GtEq:      ">=",
	Semicolon: ";",
	Comma:     ",",
	LParen:    "(",
	RParen:    ")",
	LBrace:    "{",
	RBrace:    "}",
	LBracket:  "[",
	RBracket:  "]",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}
