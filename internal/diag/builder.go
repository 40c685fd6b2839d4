package diag

import "cminus/internal/source"

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, line uint32, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Line: line, Msg: msg})
	return d
}

func (d Diagnostic) WithLine(line uint32) Diagnostic {
	d.Line = line
	return d
}

func (d Diagnostic) WithSymbol(name string) Diagnostic {
	d.Symbol = name
	return d
}
