package symbols

import (
	"errors"
	"fmt"
)

// Validate checks structural invariants of the table: parent/child backlinks,
// nesting levels, name indexes and an acyclic Next list. It returns every
// violation joined together, or nil.
func (t *Table) Validate() error {
	var errs []error
	for i := range t.Scopes.Data() {
		id := toScopeID(i + 1)
		scope := t.Scopes.Get(id)
		if id == t.global {
			if scope.Parent.IsValid() || scope.Level != 1 || scope.Name != GlobalScopeName {
				errs = append(errs, fmt.Errorf("scope %d: malformed global scope", id))
			}
		} else {
			parent := t.Scopes.Get(scope.Parent)
			switch {
			case parent == nil:
				errs = append(errs, fmt.Errorf("scope %d: missing parent %d", id, scope.Parent))
			case scope.Level != parent.Level+1:
				errs = append(errs, fmt.Errorf("scope %d: level %d under parent level %d", id, scope.Level, parent.Level))
			}
			if parent != nil && !containsScope(parent.Children, id) {
				errs = append(errs, fmt.Errorf("scope %d: not listed among children of %d", id, scope.Parent))
			}
		}
		for _, child := range scope.Children {
			if c := t.Scopes.Get(child); c == nil || c.Parent != id {
				errs = append(errs, fmt.Errorf("scope %d: child %d points elsewhere", id, child))
			}
		}
		if len(scope.NameIndex) != len(scope.Symbols) {
			errs = append(errs, fmt.Errorf("scope %d: %d indexed names for %d symbols", id, len(scope.NameIndex), len(scope.Symbols)))
		}
		for _, symID := range scope.Symbols {
			sym := t.Symbols.Get(symID)
			if sym == nil {
				errs = append(errs, fmt.Errorf("scope %d: dangling symbol %d", id, symID))
				continue
			}
			if sym.Scope != id {
				errs = append(errs, fmt.Errorf("symbol %q: owned by scope %d, listed in %d", sym.Name, sym.Scope, id))
			}
			if got, ok := scope.lookup(sym.Name, sym.Kind); !ok || got != symID {
				errs = append(errs, fmt.Errorf("symbol %q: not indexed in scope %d", sym.Name, id))
			}
		}
	}

	seen := make(map[ScopeID]struct{}, t.Scopes.Len())
	for id := t.global; id.IsValid(); id = t.Scopes.Get(id).Next {
		if _, dup := seen[id]; dup {
			errs = append(errs, fmt.Errorf("scope %d: cycle in scope list", id))
			break
		}
		if t.Scopes.Get(id) == nil {
			errs = append(errs, fmt.Errorf("scope list reaches unknown scope %d", id))
			break
		}
		seen[id] = struct{}{}
	}
	return errors.Join(errs...)
}

func containsScope(ids []ScopeID, id ScopeID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
