package symbols

import (
	"cminus/internal/ast"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid ScopeKind = iota
	ScopeGlobal            // root, created once, never popped
	// ScopePredecl holds a function's own binding. It stays open after the
	// function ends, so every later declaration nests under it and sees the
	// function, while earlier declarations do not.
	ScopePredecl
	ScopeFunction // parameters and body of one function
	ScopeBlock    // compound statement that is not a function body
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopePredecl:
		return "predecl"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	default:
		return "invalid"
	}
}

// GlobalScopeName is the name of the root scope.
const GlobalScopeName = "global"

type symbolKey struct {
	name string
	kind SymbolKind
}

// Scope models a lexical scope. Parent forms the lookup chain; Next is the
// source-ordered list of all scopes that Pass 2 walks and PopScope splices.
// Anonymous scopes carry the name of their parent.
type Scope struct {
	Kind      ScopeKind
	Name      string
	Level     uint32 // global = 1
	Parent    ScopeID
	Next      ScopeID
	Owner     ast.NodeID
	NameIndex map[symbolKey]SymbolID
	Symbols   []SymbolID // declaration order
	Children  []ScopeID
	// Horizon is the first symbol id allocated after the scope opened. Seen
	// from here, parent symbols at or past it do not exist yet.
	Horizon SymbolID
}

func (s *Scope) lookup(name string, kind SymbolKind) (SymbolID, bool) {
	id, ok := s.NameIndex[symbolKey{name: name, kind: kind}]
	return id, ok
}
