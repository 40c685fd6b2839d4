package parser

import (
	"cminus/internal/ast"
	"cminus/internal/diag"
	"cminus/internal/lexer"
	"cminus/internal/source"
	"cminus/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	Tree   *ast.Tree
	Errors uint
}

// Parser - состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer // поток токенов (Peek/Next)
	b        *ast.Builder // построитель аренных узлов
	file     *source.File
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
}

// ParseFile - входная точка для разбора одного файла.
// Требует уже созданный lexer (на основе source.File).
func ParseFile(lx *lexer.Lexer, opts Options) Result {
	file := lx.File()
	p := Parser{
		lx:   lx,
		b:    ast.NewBuilder(file.ID, ast.Hints{Nodes: uint(len(file.Content)/4 + 16)}),
		file: file,
		opts: opts,
		lastSpan: source.Span{
			File: file.ID,
		},
	}

	p.parseProgram()
	return Result{
		Tree:   p.b.Tree,
		Errors: p.opts.CurrentErrors,
	}
}

// peek пропускает Invalid-токены: лексер их уже зарепортил.
func (p *Parser) peek() token.Token {
	for {
		tok := p.lx.Peek()
		if tok.Kind != token.Invalid {
			return tok
		}
		p.lx.Next()
	}
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) pos(tok token.Token) ast.Pos {
	return ast.Pos{Span: tok.Span, Line: p.file.LineOf(tok.Span.Start)}
}

// parseProgram - основной цикл верхнего уровня: program → declaration-list.
func (p *Parser) parseProgram() {
	var decls []ast.NodeID
	for !p.at(token.EOF) && !p.opts.Enough() {
		if !p.peek().IsTypeSpec() {
			p.err(diag.SynUnexpectedTopLevel, "expected declaration, got \""+p.peek().Text+"\"")
			p.resyncTop()
			continue
		}
		id, ok := p.parseDeclaration()
		if id.IsValid() {
			decls = append(decls, id)
		}
		if !ok {
			p.resyncTop()
		}
	}
	p.b.SetRoot(decls...)
}

// resyncTop - восстановление после ошибки на верхнем уровне:
// съедаем хотя бы один токен и крутим до ';' / закрытия блока / следующего
// type-specifier на нулевой глубине.
func (p *Parser) resyncTop() {
	depth := 0
	consumed := false
	for !p.at(token.EOF) {
		k := p.peek().Kind
		if depth == 0 && consumed && (k == token.KwInt || k == token.KwVoid) {
			return
		}
		p.advance()
		consumed = true
		switch k {
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
			if depth <= 0 {
				return
			}
		case token.Semicolon:
			if depth == 0 {
				return
			}
		}
	}
}

// resyncStmt - восстановление внутри блока: до ';' (съедаем), до '}' (не
// съедаем) или до начала следующего оператора.
func (p *Parser) resyncStmt() {
	consumed := false
	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.Semicolon:
			p.advance()
			return
		case token.RBrace:
			return
		case token.KwIf, token.KwWhile, token.KwReturn, token.LBrace:
			if consumed {
				return
			}
		}
		p.advance()
		consumed = true
	}
}
