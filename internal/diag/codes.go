package diag

import "fmt"

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexTokenTooLong             Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004

	// Парсерные
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynUnclosedParen      Code = 2006
	SynUnclosedBrace      Code = 2007
	SynUnclosedBracket    Code = 2008
	SynExpectSemicolon    Code = 2012
	SynUnexpectedTopLevel Code = 2101
	SynExpectIdentifier   Code = 2102
	SynExpectType         Code = 2202
	SynExpectExpression   Code = 2203
	SynExpectArraySize    Code = 2204

	// Семантические
	SemaInfo              Code = 3000
	SemaRedeclaration     Code = 3001
	SemaUndeclared        Code = 3002
	SemaTypeMismatch      Code = 3003
	SemaSignatureMismatch Code = 3004
	SemaMissingReturn     Code = 3005

	// I/O
	IOLoadFileError Code = 4001

	// Проектные
	ProjInvalidManifest Code = 5001
)

var titles = map[Code]string{
	UnknownCode: "unknown error",

	LexInfo:                     "lexer note",
	LexUnknownChar:              "character outside the C-Minus alphabet",
	LexTokenTooLong:             "token too long",
	LexUnterminatedBlockComment: "comment not closed before end of file",
	LexBadNumber:                "malformed number",

	SynInfo:               "parser note",
	SynUnexpectedToken:    "unexpected token",
	SynUnclosedParen:      "missing ')'",
	SynUnclosedBrace:      "missing '}'",
	SynUnclosedBracket:    "missing ']'",
	SynExpectSemicolon:    "missing ';'",
	SynUnexpectedTopLevel: "not a declaration",
	SynExpectIdentifier:   "identifier expected",
	SynExpectType:         "int or void expected",
	SynExpectExpression:   "expression expected",
	SynExpectArraySize:    "array size expected",

	SemaInfo:              "checker note",
	SemaRedeclaration:     "name declared twice in one scope",
	SemaUndeclared:        "name not declared",
	SemaTypeMismatch:      "operand types do not fit",
	SemaSignatureMismatch: "arguments do not fit the signature",
	SemaMissingReturn:     "value-returning function may end without return",

	IOLoadFileError:     "source not readable",
	ProjInvalidManifest: "bad cminus.toml",
}

// prefix of each thousand; 0 and the rest render as E0000
var idPrefixes = [...]string{1: "LEX", 2: "SYN", 3: "SEM", 4: "IO", 5: "PRJ"}

// ID is the stable identifier printed in output, e.g. SEM3002.
func (c Code) ID() string {
	if k := int(c) / 1000; k > 0 && k < len(idPrefixes) {
		return fmt.Sprintf("%s%04d", idPrefixes[k], int(c))
	}
	return "E0000"
}

// Title is a short description for listings of codes.
func (c Code) Title() string {
	if t, ok := titles[c]; ok {
		return t
	}
	return titles[UnknownCode]
}

func (c Code) String() string { return c.ID() + " " + c.Title() }
