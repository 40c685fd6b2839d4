package diag

import "cminus/internal/source"

type dedupKey struct {
	code Code
	sev  Severity
	span source.Span
	line uint32
	msg  string
}

// DedupReporter forwards each distinct diagnostic once. Diagnostics are the
// same when code, severity, span, line and message all agree.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]bool
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: map[dedupKey]bool{}}
}

func (r *DedupReporter) Report(d Diagnostic) {
	k := dedupKey{code: d.Code, sev: d.Severity, span: d.Primary, line: d.Line, msg: d.Message}
	if r.seen[k] {
		return
	}
	r.seen[k] = true
	if r.next != nil {
		r.next.Report(d)
	}
}
