package parser

import (
	"cminus/internal/ast"
	"cminus/internal/diag"
	"cminus/internal/token"
)

// expression → var = expression | simple-expression
func (p *Parser) parseExpression() (ast.NodeID, bool) {
	left, ok := p.parseSimple()
	if !ok {
		return ast.NoNodeID, false
	}
	if !p.at(token.Assign) {
		return left, true
	}
	opTok := p.advance()
	if n := p.b.Tree.Node(left); n.Kind != ast.KindVar {
		p.report(diag.SynUnexpectedToken, opTok.Span, "left side of assignment must be a variable")
	}
	right, ok := p.parseExpression()
	if !ok {
		return ast.NoNodeID, false
	}
	return p.b.Assign(p.pos(opTok), left, right), true
}

// simple-expression → additive relop additive | additive
// Сравнения не ассоциативны: "a < b < c" - синтаксическая ошибка.
func (p *Parser) parseSimple() (ast.NodeID, bool) {
	left, ok := p.parseBinary(precAdditive)
	if !ok {
		return ast.NoNodeID, false
	}
	if prec := binaryPrec(p.peek().Kind); prec != precComparison {
		return left, true
	}
	opTok := p.advance()
	right, ok := p.parseBinary(precAdditive)
	if !ok {
		return ast.NoNodeID, false
	}
	if binaryPrec(p.peek().Kind) == precComparison {
		p.err(diag.SynUnexpectedToken, "comparison operators cannot be chained")
	}
	return p.b.Binary(p.pos(opTok), opTok.Kind, left, right), true
}

// parseBinary - левоассоциативный разбор additive/term уровней.
func (p *Parser) parseBinary(minPrec int) (ast.NodeID, bool) {
	var left ast.NodeID
	var ok bool
	if minPrec >= precMultiplicative {
		left, ok = p.parseFactor()
	} else {
		left, ok = p.parseBinary(minPrec + 1)
	}
	if !ok {
		return ast.NoNodeID, false
	}
	for binaryPrec(p.peek().Kind) == minPrec {
		opTok := p.advance()
		var right ast.NodeID
		if minPrec >= precMultiplicative {
			right, ok = p.parseFactor()
		} else {
			right, ok = p.parseBinary(minPrec + 1)
		}
		if !ok {
			return ast.NoNodeID, false
		}
		left = p.b.Binary(p.pos(opTok), opTok.Kind, left, right)
	}
	return left, true
}

// factor → ( expression ) | var | call | NUM
func (p *Parser) parseFactor() (ast.NodeID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.LParen:
		p.advance()
		inner, ok := p.parseExpression()
		if !ok {
			return ast.NoNodeID, false
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); !ok {
			return ast.NoNodeID, false
		}
		return inner, true
	case token.Number:
		p.advance()
		return p.b.Const(p.pos(tok), p.numberValue(tok)), true
	case token.Ident:
		p.advance()
		switch {
		case p.at(token.LParen):
			return p.parseCallArgs(tok)
		case p.at(token.LBracket):
			p.advance()
			index, ok := p.parseExpression()
			if !ok {
				return ast.NoNodeID, false
			}
			if _, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'"); !ok {
				return ast.NoNodeID, false
			}
			return p.b.Var(p.pos(tok), tok.Text, index), true
		default:
			return p.b.Var(p.pos(tok), tok.Text, ast.NoNodeID), true
		}
	default:
		p.err(diag.SynExpectExpression, "expected expression, got \""+tok.Text+"\"")
		return ast.NoNodeID, false
	}
}

// call → ID ( args )
func (p *Parser) parseCallArgs(nameTok token.Token) (ast.NodeID, bool) {
	p.advance() // '('
	var args []ast.NodeID
	if !p.at(token.RParen) {
		for {
			arg, ok := p.parseExpression()
			if !ok {
				return ast.NoNodeID, false
			}
			args = append(args, arg)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after arguments"); !ok {
		return ast.NoNodeID, false
	}
	return p.b.Call(p.pos(nameTok), nameTok.Text, args...), true
}
