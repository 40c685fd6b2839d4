package symbols

import (
	"errors"
	"fmt"
	"slices"

	"fortio.org/safecast"

	"cminus/internal/ast"
	"cminus/internal/types"
)

// ErrScopeDesync is the panic payload when the checking walk asks for a scope
// the building walk did not record at that point.
var ErrScopeDesync = errors.New("scope walk out of sync with symbol table")

// Hints provide optional capacity suggestions for the symbol table arenas.
type Hints struct{ Scopes, Symbols uint }

// ScopeEvent records that Owner opened Scope, in traversal order.
type ScopeEvent struct {
	Node  ast.NodeID
	Scope ScopeID
}

// sealState is the table as the building pass left it; ResetCursor rewinds to it.
type sealState struct {
	sealed       bool
	symbols      int
	lines        []int
	scopeSymbols []int
	next         []ScopeID
}

// Table aggregates scope and symbol arenas plus the traversal cursor.
// A table belongs to a single analysis and is not safe for concurrent use.
type Table struct {
	Scopes  *Scopes
	Symbols *Symbols

	global  ScopeID
	current ScopeID
	tail    ScopeID // last scope on the Next list
	events  []ScopeEvent
	replay  int
	seal    sealState
}

// NewTable builds a fresh table with optional capacity hints and the global scope.
func NewTable(h Hints) *Table {
	scopeCap, err := safecast.Conv[uint32](h.Scopes)
	if err != nil {
		panic(fmt.Errorf("scope capacity overflow: %w", err))
	}
	symCap, err := safecast.Conv[uint32](h.Symbols)
	if err != nil {
		panic(fmt.Errorf("symbol capacity overflow: %w", err))
	}
	t := &Table{
		Scopes:  NewScopes(scopeCap),
		Symbols: NewSymbols(symCap),
	}
	t.global = t.Scopes.New(ScopeGlobal, GlobalScopeName, NoScopeID, ast.NoNodeID)
	t.current = t.global
	t.tail = t.global
	return t
}

func (t *Table) Global() ScopeID { return t.global }

// Current returns the cursor position.
func (t *Table) Current() ScopeID { return t.current }

func (t *Table) CurrentScope() *Scope { return t.Scopes.Get(t.current) }

// Events returns the scope-open log recorded while building. Read-only.
func (t *Table) Events() []ScopeEvent { return t.events }

// Lookup searches the current scope, then its parent chain. Climbing into a
// parent hides what the parent declared after the child opened: a global
// that follows a function is not visible inside it. Implicit bindings are
// always visible.
func (t *Table) Lookup(name string, kind SymbolKind) (SymbolID, bool) {
	horizon := NoSymbolID
	for id := t.current; id.IsValid(); {
		scope := t.Scopes.Get(id)
		if sym, ok := scope.lookup(name, kind); ok && t.declaredBefore(sym, horizon) {
			return sym, true
		}
		horizon = scope.Horizon
		id = scope.Parent
	}
	return NoSymbolID, false
}

func (t *Table) declaredBefore(sym, horizon SymbolID) bool {
	return !horizon.IsValid() || sym < horizon || t.Symbols.Get(sym).Flags&SymbolFlagImplicit != 0
}

// LookupLocal searches the current scope only.
func (t *Table) LookupLocal(name string, kind SymbolKind) (SymbolID, bool) {
	return t.CurrentScope().lookup(name, kind)
}

// Declare binds name in the current scope. If (name, kind) is already bound
// there, line is appended to that symbol and no new binding is created.
func (t *Table) Declare(name string, kind SymbolKind, typ types.Type, line uint32) SymbolID {
	if id, ok := t.LookupLocal(name, kind); ok {
		sym := t.Symbols.Get(id)
		sym.Lines = append(sym.Lines, line)
		sym.DeclLines = append(sym.DeclLines, line)
		return id
	}
	return t.insert(&Symbol{
		Name:      name,
		Kind:      kind,
		Type:      typ,
		Scope:     t.current,
		Lines:     []uint32{line},
		DeclLines: []uint32{line},
	})
}

// DeclareBuiltin is Declare plus the builtin flag.
func (t *Table) DeclareBuiltin(name string, kind SymbolKind, typ types.Type) SymbolID {
	id := t.Declare(name, kind, typ, 0)
	t.Symbols.Get(id).Flags |= SymbolFlagBuiltin
	return id
}

// DeclareImplicit binds an Undetermined symbol after an unresolved use so the
// same name is not reported again.
func (t *Table) DeclareImplicit(name string, kind SymbolKind, line uint32) SymbolID {
	id := t.Declare(name, kind, types.Undetermined, line)
	t.Symbols.Get(id).Flags |= SymbolFlagImplicit
	return id
}

func (t *Table) insert(sym *Symbol) SymbolID {
	id := t.Symbols.New(sym)
	scope := t.CurrentScope()
	scope.NameIndex[symbolKey{name: sym.Name, kind: sym.Kind}] = id
	scope.Symbols = append(scope.Symbols, id)
	return id
}

// AddReference records a use of id at line.
func (t *Table) AddReference(id SymbolID, line uint32) {
	if sym := t.Symbols.Get(id); sym != nil {
		sym.Lines = append(sym.Lines, line)
	}
}

// DeclareParam appends the parameter at position to function fn. Every
// FunDecl gets a fresh symbol, so positions arrive once each, in order.
func (t *Table) DeclareParam(fn SymbolID, position int, typ types.Type) {
	sym := t.Symbols.Get(fn)
	if sym == nil || sym.Kind != SymbolFunction {
		panic(fmt.Sprintf("symbols: DeclareParam on non-function symbol %d", fn))
	}
	if position != len(sym.Params) {
		panic(fmt.Sprintf("symbols: parameter %d of %q declared out of order", position, sym.Name))
	}
	sym.Params = append(sym.Params, Param{Position: position, Type: typ})
}

// CheckParam reports whether fnName's parameter at position has type argType.
// Unknown functions and positions out of range never match.
func (t *Table) CheckParam(fnName string, position int, argType types.Type) bool {
	id, ok := t.Lookup(fnName, SymbolFunction)
	if !ok {
		return false
	}
	sym := t.Symbols.Get(id)
	if position < 0 || position >= len(sym.Params) {
		return false
	}
	return sym.Params[position].Type == argType
}

// CheckVoidParam reports whether fnName was declared with "(void)".
func (t *Table) CheckVoidParam(fnName string) bool {
	id, ok := t.Lookup(fnName, SymbolFunction)
	if !ok {
		return false
	}
	return t.Symbols.Get(id).HasVoidParam()
}

// CheckPredeclared returns the declaration lines of (name, kind) in the
// current scope that are strictly before line, ascending. Predeclaration
// scopes are transparent here: at top level the search continues through
// every enclosing predecl scope up to global, since all of them together form
// the file's top-level namespace.
func (t *Table) CheckPredeclared(name string, kind SymbolKind, line uint32) []uint32 {
	var out []uint32
	for id := t.current; id.IsValid(); {
		scope := t.Scopes.Get(id)
		if sym, ok := scope.lookup(name, kind); ok {
			for _, l := range t.Symbols.Get(sym).DeclLines {
				if l < line {
					out = append(out, l)
				}
			}
		}
		if scope.Kind != ScopePredecl {
			break
		}
		id = scope.Parent
	}
	slices.Sort(out)
	return out
}

// FunctionReturnType resolves the return type of the function enclosing the
// cursor. Anonymous scopes inherit their parent's name, so the lookup is keyed
// by the current scope's name.
func (t *Table) FunctionReturnType() (types.Type, bool) {
	id, ok := t.Lookup(t.CurrentScope().Name, SymbolFunction)
	if !ok {
		return types.Type{}, false
	}
	return t.Symbols.Get(id).Type, true
}
