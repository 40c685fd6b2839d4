package diag

import "cminus/internal/source"

// Reporter получает диагностики от фаз.
// BagReporter складывает их в Bag, DedupReporter отбрасывает повторы.
type Reporter interface {
	Report(d Diagnostic)
}

// ReportBuilder собирает одну диагностику по кусочкам и отдаёт её Reporter'у.
// Отправка происходит только в Emit и только один раз.
type ReportBuilder struct {
	to   Reporter
	d    Diagnostic
	sent bool
}

// ReportError starts an error diagnostic bound to r.
func ReportError(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{to: r, d: New(SevError, code, primary, msg)}
}

func (b *ReportBuilder) AtLine(line uint32) *ReportBuilder {
	b.d.Line = line
	return b
}

func (b *ReportBuilder) WithSymbol(name string) *ReportBuilder {
	b.d.Symbol = name
	return b
}

func (b *ReportBuilder) WithNote(sp source.Span, line uint32, msg string) *ReportBuilder {
	b.d = b.d.WithNote(sp, line, msg)
	return b
}

func (b *ReportBuilder) Emit() {
	if b.sent || b.to == nil {
		return
	}
	b.sent = true
	b.to.Report(b.d)
}

// BagReporter пишет в *Bag; nil Bag молча глотает всё.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d)
	}
}
