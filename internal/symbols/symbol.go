package symbols

import (
	"cminus/internal/types"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolVariable
	SymbolFunction
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolVariable:
		return "Variable"
	case SymbolFunction:
		return "Function"
	default:
		return "Invalid"
	}
}

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint8

const (
	// SymbolFlagBuiltin marks input/output.
	SymbolFlagBuiltin SymbolFlags = 1 << iota
	// SymbolFlagImplicit marks bindings invented after an undeclared use.
	SymbolFlagImplicit
)

// Param is a positional parameter descriptor of a function symbol.
type Param struct {
	Position int
	Type     types.Type
}

// Symbol describes a named entity available in a scope.
//
// Lines holds every recorded line, first one is the declaration site.
// DeclLines is the subset that came from declarations and drives
// redeclaration checks; use sites never land there.
type Symbol struct {
	Name      string
	Kind      SymbolKind
	Type      types.Type
	Scope     ScopeID
	Flags     SymbolFlags
	Lines     []uint32
	DeclLines []uint32
	Params    []Param
}

// DeclLine returns the first declaration line.
func (s *Symbol) DeclLine() uint32 {
	if len(s.DeclLines) == 0 {
		return 0
	}
	return s.DeclLines[0]
}

// HasVoidParam reports the "(void)" marker.
func (s *Symbol) HasVoidParam() bool {
	return len(s.Params) == 1 && s.Params[0].Type.Kind == types.KindVoid
}
