package parser

import (
	"cminus/internal/token"
)

// Таблица приоритетов для бинарных операторов
// Чем больше число, тем выше приоритет
const (
	precNone           = 0
	precComparison     = 1 // < <= > >= == !=
	precAdditive       = 2 // + -
	precMultiplicative = 3 // * /
)

func binaryPrec(kind token.Kind) int {
	switch kind {
	case token.Lt, token.LtEq, token.Gt, token.GtEq, token.EqEq, token.BangEq:
		return precComparison
	case token.Plus, token.Minus:
		return precAdditive
	case token.Star, token.Slash:
		return precMultiplicative
	default:
		return precNone
	}
}
