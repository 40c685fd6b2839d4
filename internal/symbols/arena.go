package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"cminus/internal/ast"
)

// slab is an append-only store addressed by 1-based ids; slot 0 stays empty
// so the zero id means "none".
type slab[T any] struct {
	items []T
}

func newSlab[T any](hint, fallback uint32) slab[T] {
	if hint == 0 {
		hint = fallback
	}
	return slab[T]{items: make([]T, 1, hint+1)}
}

func (s *slab[T]) add(v T) uint32 {
	n, err := safecast.Conv[uint32](len(s.items))
	if err != nil {
		panic(fmt.Errorf("symbols: arena overflow: %w", err))
	}
	s.items = append(s.items, v)
	return n
}

func (s *slab[T]) at(i uint32) *T {
	if i == 0 || int(i) >= len(s.items) {
		return nil
	}
	return &s.items[i]
}

func (s *slab[T]) count() int { return len(s.items) - 1 }

func (s *slab[T]) live() []T {
	if len(s.items) < 2 {
		return nil
	}
	return s.items[1:]
}

// Scopes owns every scope of one table.
type Scopes struct{ slab[Scope] }

func NewScopes(hint uint32) *Scopes { return &Scopes{newSlab[Scope](hint, 32)} }

// New adds a scope under parent and links it into the parent's children.
func (s *Scopes) New(kind ScopeKind, name string, parent ScopeID, owner ast.NodeID) ScopeID {
	level := uint32(1)
	if p := s.Get(parent); p != nil {
		level = p.Level + 1
	}
	id := ScopeID(s.add(Scope{
		Kind:      kind,
		Name:      name,
		Level:     level,
		Parent:    parent,
		Owner:     owner,
		NameIndex: map[symbolKey]SymbolID{},
	}))
	if p := s.Get(parent); p != nil {
		p.Children = append(p.Children, id)
	}
	return id
}

// Get is nil for NoScopeID and unknown ids.
func (s *Scopes) Get(id ScopeID) *Scope { return s.at(uint32(id)) }

func (s *Scopes) Len() int { return s.count() }

// Data lists the scopes in creation order; the slice aliases the arena.
func (s *Scopes) Data() []Scope { return s.live() }

// Symbols owns every symbol of one table.
type Symbols struct{ slab[Symbol] }

func NewSymbols(hint uint32) *Symbols { return &Symbols{newSlab[Symbol](hint, 64)} }

func (s *Symbols) New(sym *Symbol) SymbolID {
	if sym == nil {
		panic("symbols: nil symbol")
	}
	return SymbolID(s.add(*sym))
}

// Get is nil for NoSymbolID and unknown ids.
func (s *Symbols) Get(id SymbolID) *Symbol { return s.at(uint32(id)) }

func (s *Symbols) Len() int { return s.count() }

// Data lists the symbols in declaration order; the slice aliases the arena.
func (s *Symbols) Data() []Symbol { return s.live() }

// truncate drops every symbol after the first n.
func (s *Symbols) truncate(n int) { s.items = s.items[:n+1] }

func toScopeID(idx int) ScopeID {
	v, err := safecast.Conv[uint32](idx)
	if err != nil {
		panic(fmt.Errorf("symbols: scope id %d: %w", idx, err))
	}
	return ScopeID(v)
}

func toSymbolID(idx int) SymbolID {
	v, err := safecast.Conv[uint32](idx)
	if err != nil {
		panic(fmt.Errorf("symbols: symbol id %d: %w", idx, err))
	}
	return SymbolID(v)
}
