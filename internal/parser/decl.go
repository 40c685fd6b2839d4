package parser

import (
	"strconv"

	"cminus/internal/ast"
	"cminus/internal/diag"
	"cminus/internal/token"
	"cminus/internal/types"
)

func typeKindOf(tok token.Token) types.Kind {
	if tok.Kind == token.KwVoid {
		return types.KindVoid
	}
	return types.KindInt
}

// declaration → var-declaration | fun-declaration
func (p *Parser) parseDeclaration() (ast.NodeID, bool) {
	typeTok := p.advance()
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected identifier, got \""+p.peek().Text+"\"")
	if !ok {
		return ast.NoNodeID, false
	}
	if p.at(token.LParen) {
		return p.parseFunDecl(nameTok, typeKindOf(typeTok))
	}
	return p.parseVarDeclRest(nameTok, typeKindOf(typeTok))
}

// var-declaration → type ID ; | type ID [ NUM ] ;
func (p *Parser) parseVarDeclRest(nameTok token.Token, kind types.Kind) (ast.NodeID, bool) {
	size := ast.NoNodeID
	if p.at(token.LBracket) {
		p.advance()
		numTok, ok := p.expect(token.Number, diag.SynExpectArraySize, "expected array size")
		if !ok {
			return ast.NoNodeID, false
		}
		size = p.b.Const(p.pos(numTok), p.numberValue(numTok))
		if _, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'"); !ok {
			return ast.NoNodeID, false
		}
	}
	id := p.b.VarDecl(p.pos(nameTok), nameTok.Text, kind, size)
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after declaration"); !ok {
		return id, false
	}
	return id, true
}

// fun-declaration → type ID ( params ) compound-stmt
func (p *Parser) parseFunDecl(nameTok token.Token, ret types.Kind) (ast.NodeID, bool) {
	p.advance() // '('
	params := p.parseParams()
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after parameters"); !ok {
		return ast.NoNodeID, false
	}
	if !p.at(token.LBrace) {
		p.err(diag.SynUnexpectedToken, "expected '{' to start function body")
		return ast.NoNodeID, false
	}
	body := p.parseCompound()
	return p.b.FunDecl(p.pos(nameTok), nameTok.Text, ret, params, body), true
}

// params → param-list | void
// param → type ID | type ID [ ]
func (p *Parser) parseParams() ast.NodeID {
	if p.at(token.RParen) {
		p.err(diag.SynExpectType, "expected parameter list or 'void'")
		return p.b.VoidParam(p.pos(p.peek()))
	}
	var params []ast.NodeID
	first := true
	for {
		if !p.peek().IsTypeSpec() {
			p.err(diag.SynExpectType, "expected type specifier, got \""+p.peek().Text+"\"")
			break
		}
		typeTok := p.advance()
		// "(void)" - без имени
		if first && typeTok.Kind == token.KwVoid && p.at(token.RParen) {
			return p.b.VoidParam(p.pos(typeTok))
		}
		first = false
		nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected parameter name")
		if !ok {
			break
		}
		array := false
		if p.at(token.LBracket) {
			p.advance()
			if _, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'"); !ok {
				break
			}
			array = true
		}
		params = append(params, p.b.Param(p.pos(nameTok), nameTok.Text, typeKindOf(typeTok), array))
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	return p.b.Chain(params...)
}

// numberValue парсит десятичный литерал; переполнение репортится и даёт 0.
func (p *Parser) numberValue(tok token.Token) int64 {
	v, err := strconv.ParseInt(tok.Text, 10, 64)
	if err != nil {
		p.report(diag.LexBadNumber, tok.Span, "number literal out of range")
		return 0
	}
	return v
}
