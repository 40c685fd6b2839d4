package symbols

import (
	"fmt"

	"cminus/internal/ast"
)

// PushScope creates a child of the current scope, appends it to the tail of
// the Next list, records the open event for owner and moves the cursor into it.
// An empty name makes the scope anonymous; it then inherits the parent's name.
// Scopes can only be created while building.
func (t *Table) PushScope(kind ScopeKind, name string, owner ast.NodeID) ScopeID {
	if t.seal.sealed {
		panic("symbols: PushScope after the table was sealed")
	}
	if name == "" {
		name = t.CurrentScope().Name
	}
	id := t.Scopes.New(kind, name, t.current, owner)
	t.Scopes.Get(id).Horizon = toSymbolID(t.Symbols.Len() + 1)
	t.Scopes.Get(t.tail).Next = id
	t.tail = id
	t.current = id
	t.events = append(t.events, ScopeEvent{Node: owner, Scope: id})
	return id
}

// ExitScope moves the cursor to the parent without touching the Next list.
// The global scope is never left.
func (t *Table) ExitScope() {
	if parent := t.CurrentScope().Parent; parent.IsValid() {
		t.current = parent
	}
}

// PopScope moves the cursor to the parent and splices the popped scope out of
// the parent's Next link so the list walk does not reach it again.
// The global scope is never popped.
func (t *Table) PopScope() {
	cur := t.CurrentScope()
	if !cur.Parent.IsValid() {
		return
	}
	next := cur.Next
	id := cur.Parent
	t.Scopes.Get(id).Next = next
	t.current = id
}

// EnterScope advances the cursor into the next recorded scope, which must
// have been opened by node as a child of the current scope. Any mismatch is a
// programming error and panics with ErrScopeDesync.
func (t *Table) EnterScope(node ast.NodeID) ScopeID {
	if t.replay >= len(t.events) {
		panic(fmt.Errorf("%w: no scope left for node %d", ErrScopeDesync, node))
	}
	ev := t.events[t.replay]
	if ev.Node != node {
		panic(fmt.Errorf("%w: node %d entered, scope %d was opened by node %d", ErrScopeDesync, node, ev.Scope, ev.Node))
	}
	if parent := t.Scopes.Get(ev.Scope).Parent; parent != t.current {
		panic(fmt.Errorf("%w: scope %d belongs under %d, cursor is at %d", ErrScopeDesync, ev.Scope, parent, t.current))
	}
	t.replay++
	t.current = ev.Scope
	return ev.Scope
}

// Seal freezes the scope tree. It is called once the building pass is done;
// afterwards only the checking walk runs and ResetCursor rewinds to this state.
func (t *Table) Seal() {
	s := sealState{
		sealed:       true,
		symbols:      t.Symbols.Len(),
		lines:        make([]int, t.Symbols.Len()),
		scopeSymbols: make([]int, t.Scopes.Len()),
		next:         make([]ScopeID, t.Scopes.Len()),
	}
	for i, sym := range t.Symbols.Data() {
		s.lines[i] = len(sym.Lines)
	}
	for i, scope := range t.Scopes.Data() {
		s.scopeSymbols[i] = len(scope.Symbols)
		s.next[i] = scope.Next
	}
	t.seal = s
	t.current = t.global
}

// Sealed reports whether building is finished.
func (t *Table) Sealed() bool { return t.seal.sealed }

// ResetCursor moves the cursor back to the global scope and rewinds the event
// log. On a sealed table it also drops everything a previous checking walk
// added (references, implicit symbols, Next splices), so the walk can be
// repeated with identical results.
func (t *Table) ResetCursor() {
	t.current = t.global
	t.replay = 0
	if !t.seal.sealed {
		return
	}
	s := &t.seal
	scopes := t.Scopes.Data()
	for i := range scopes {
		scope := &scopes[i]
		scope.Next = s.next[i]
		for _, id := range scope.Symbols[s.scopeSymbols[i]:] {
			sym := t.Symbols.Get(id)
			delete(scope.NameIndex, symbolKey{name: sym.Name, kind: sym.Kind})
		}
		scope.Symbols = scope.Symbols[:s.scopeSymbols[i]]
	}
	t.Symbols.truncate(s.symbols)
	syms := t.Symbols.Data()
	for i := range syms {
		sym := &syms[i]
		sym.Lines = sym.Lines[:s.lines[i]]
	}
}
