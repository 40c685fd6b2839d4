package parser

import (
	"cminus/internal/diag"
	"cminus/internal/source"
	"cminus/internal/token"
)

// advance - съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	p.peek()
	tok := p.lx.Next()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

// getDiagnosticSpan - возвращает лучший span для диагностики.
// На EOF указываем на позицию сразу после последнего токена.
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{
			File:  p.lastSpan.File,
			Start: p.lastSpan.End,
			End:   p.lastSpan.End,
		}
	}
	return peek.Span
}

// expect - ожидаем конкретный токен. Если нет - репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	diagSpan := p.getDiagnosticSpan()
	p.report(code, diagSpan, msg)
	return token.Token{Kind: token.Invalid, Span: diagSpan, Text: p.peek().Text}, false
}

// репортует ошибку и передает текущий спан
func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, p.getDiagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sp source.Span, msg string) bool {
	p.opts.CurrentErrors++
	if p.opts.Reporter == nil || (p.opts.MaxErrors > 0 && p.opts.CurrentErrors > p.opts.MaxErrors) {
		return false
	}
	line := p.file.LineOf(sp.Start)
	diag.ReportError(p.opts.Reporter, code, sp, msg).
		AtLine(line).
		WithSymbol(p.tokenText(sp)).
		Emit()
	return true
}

func (p *Parser) tokenText(sp source.Span) string {
	if sp.Empty() || int(sp.End) > len(p.file.Content) {
		return ""
	}
	return string(p.file.Content[sp.Start:sp.End])
}
