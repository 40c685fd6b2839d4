package diag

import (
	"cminus/internal/source"
)

type Note struct {
	Span source.Span
	Line uint32
	Msg  string
}

// Diagnostic is a single finding. Line is the 1-based source line of the
// node that triggered it; Symbol names the identifier involved, if any.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Line     uint32
	Symbol   string
	Notes    []Note
}
