package parser

import (
	"cminus/internal/ast"
	"cminus/internal/diag"
	"cminus/internal/token"
)

// compound-stmt → { local-declarations statement-list }
func (p *Parser) parseCompound() ast.NodeID {
	lb := p.advance() // '{'
	var decls, stmts []ast.NodeID

	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if p.peek().IsTypeSpec() {
			if len(stmts) > 0 {
				p.err(diag.SynUnexpectedToken, "declarations must precede statements")
			}
			if id, ok := p.parseLocalVarDecl(); ok {
				decls = append(decls, id)
			} else {
				if id.IsValid() {
					decls = append(decls, id)
				}
				p.resyncStmt()
			}
			continue
		}
		if id := p.parseStatement(); id.IsValid() {
			stmts = append(stmts, id)
		}
	}
	p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}'")
	return p.b.Compound(p.pos(lb), p.b.Chain(decls...), p.b.Chain(stmts...))
}

func (p *Parser) parseLocalVarDecl() (ast.NodeID, bool) {
	typeTok := p.advance()
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected identifier, got \""+p.peek().Text+"\"")
	if !ok {
		return ast.NoNodeID, false
	}
	if p.at(token.LParen) {
		p.err(diag.SynUnexpectedToken, "function declarations are not allowed inside blocks")
		return ast.NoNodeID, false
	}
	return p.parseVarDeclRest(nameTok, typeKindOf(typeTok))
}

// parseStatement разбирает один оператор. При ошибке сам восстанавливается
// и возвращает NoNodeID; пустой оператор ";" тоже даёт NoNodeID.
func (p *Parser) parseStatement() ast.NodeID {
	switch p.peek().Kind {
	case token.LBrace:
		return p.parseCompound()
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwReturn:
		return p.parseReturn()
	case token.Semicolon:
		p.advance()
		return ast.NoNodeID
	}

	expr, ok := p.parseExpression()
	if !ok {
		p.resyncStmt()
		return ast.NoNodeID
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after expression"); !ok {
		p.resyncStmt()
	}
	return expr
}

// selection-stmt → if ( expression ) statement [ else statement ]
func (p *Parser) parseIf() ast.NodeID {
	kw := p.advance()
	cond, ok := p.parseCondition()
	if !ok {
		p.resyncStmt()
		return ast.NoNodeID
	}
	then := p.parseStatement()
	els := ast.NoNodeID
	if p.at(token.KwElse) {
		p.advance()
		els = p.parseStatement()
	}
	return p.b.If(p.pos(kw), cond, then, els)
}

// iteration-stmt → while ( expression ) statement
func (p *Parser) parseWhile() ast.NodeID {
	kw := p.advance()
	cond, ok := p.parseCondition()
	if !ok {
		p.resyncStmt()
		return ast.NoNodeID
	}
	body := p.parseStatement()
	return p.b.While(p.pos(kw), cond, body)
}

func (p *Parser) parseCondition() (ast.NodeID, bool) {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('"); !ok {
		return ast.NoNodeID, false
	}
	cond, ok := p.parseExpression()
	if !ok {
		return ast.NoNodeID, false
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); !ok {
		return ast.NoNodeID, false
	}
	return cond, true
}

// return-stmt → return ; | return expression ;
func (p *Parser) parseReturn() ast.NodeID {
	kw := p.advance()
	if p.at(token.Semicolon) {
		p.advance()
		return p.b.Return(p.pos(kw), ast.NoNodeID)
	}
	value, ok := p.parseExpression()
	if !ok {
		p.resyncStmt()
		return p.b.Return(p.pos(kw), ast.NoNodeID)
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after return"); !ok {
		p.resyncStmt()
	}
	return p.b.Return(p.pos(kw), value)
}
