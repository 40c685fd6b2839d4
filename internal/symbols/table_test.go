package symbols

import (
	"errors"
	"slices"
	"testing"

	"github.com/go-test/deep"

	"cminus/internal/ast"
	"cminus/internal/types"
)

func TestGlobalScope(t *testing.T) {
	tbl := NewTable(Hints{})
	g := tbl.Scopes.Get(tbl.Global())
	if g.Name != GlobalScopeName || g.Level != 1 || g.Kind != ScopeGlobal {
		t.Fatalf("unexpected global scope: %+v", g)
	}
	if tbl.Current() != tbl.Global() {
		t.Fatalf("cursor must start at global")
	}
	tbl.PopScope()
	tbl.ExitScope()
	if tbl.Current() != tbl.Global() {
		t.Fatalf("global scope must never be left")
	}
}

func TestDeclareAndLookup(t *testing.T) {
	tbl := NewTable(Hints{})
	x := tbl.Declare("x", SymbolVariable, types.Int, 1)
	f := tbl.Declare("x", SymbolFunction, types.Void, 2)
	if x == f {
		t.Fatalf("variable and function namespaces must be separate")
	}

	tbl.PushScope(ScopeBlock, "", 10)
	if _, ok := tbl.LookupLocal("x", SymbolVariable); ok {
		t.Fatalf("x is not local to the block")
	}
	got, ok := tbl.Lookup("x", SymbolVariable)
	if !ok || got != x {
		t.Fatalf("expected outer x, got %d ok=%v", got, ok)
	}
	inner := tbl.Declare("x", SymbolVariable, types.IntArray, 3)
	if got, _ := tbl.Lookup("x", SymbolVariable); got != inner {
		t.Fatalf("inner x must shadow outer x")
	}
	tbl.ExitScope()
	if got, _ := tbl.Lookup("x", SymbolVariable); got != x {
		t.Fatalf("outer x must be visible again")
	}
	if err := tbl.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestRedeclarationAppendsLines(t *testing.T) {
	tbl := NewTable(Hints{})
	first := tbl.Declare("a", SymbolVariable, types.Int, 3)
	second := tbl.Declare("a", SymbolVariable, types.Int, 7)
	if first != second {
		t.Fatalf("redeclaration must reuse the binding")
	}
	sym := tbl.Symbols.Get(first)
	if diff := deep.Equal(sym.DeclLines, []uint32{3, 7}); diff != nil {
		t.Fatal(diff)
	}
	if got := tbl.CheckPredeclared("a", SymbolVariable, 3); len(got) != 0 {
		t.Fatalf("line 3 has no earlier declaration, got %v", got)
	}
	if diff := deep.Equal(tbl.CheckPredeclared("a", SymbolVariable, 7), []uint32{3}); diff != nil {
		t.Fatal(diff)
	}
	if got := tbl.CheckPredeclared("a", SymbolFunction, 7); got != nil {
		t.Fatalf("function namespace is empty, got %v", got)
	}
}

func TestReferencesDoNotCountAsDeclarations(t *testing.T) {
	tbl := NewTable(Hints{})
	id := tbl.Declare("n", SymbolVariable, types.Int, 1)
	tbl.AddReference(id, 4)
	tbl.AddReference(id, 5)
	sym := tbl.Symbols.Get(id)
	if diff := deep.Equal(sym.Lines, []uint32{1, 4, 5}); diff != nil {
		t.Fatal(diff)
	}
	if got := tbl.CheckPredeclared("n", SymbolVariable, 9); !slices.Equal(got, []uint32{1}) {
		t.Fatalf("expected only the declaration line, got %v", got)
	}
}

func TestAnonymousScopeInheritsName(t *testing.T) {
	tbl := NewTable(Hints{})
	tbl.PushScope(ScopePredecl, "", 1)
	fn := tbl.Declare("f", SymbolFunction, types.Int, 1)
	tbl.PushScope(ScopeFunction, "f", 1)
	block := tbl.PushScope(ScopeBlock, "", 2)
	if name := tbl.Scopes.Get(block).Name; name != "f" {
		t.Fatalf("expected block named after f, got %q", name)
	}
	if lvl := tbl.Scopes.Get(block).Level; lvl != 4 {
		t.Fatalf("expected level 4, got %d", lvl)
	}
	typ, ok := tbl.FunctionReturnType()
	if !ok || typ != types.Int {
		t.Fatalf("expected int return type, got %v ok=%v", typ, ok)
	}
	if tbl.Symbols.Get(fn).Scope == tbl.Global() {
		t.Fatalf("function binding lives in its predecl scope")
	}
}

func TestParams(t *testing.T) {
	tbl := NewTable(Hints{})
	f := tbl.Declare("f", SymbolFunction, types.Int, 1)
	tbl.DeclareParam(f, 0, types.Int)
	tbl.DeclareParam(f, 1, types.IntArray)
	g := tbl.Declare("g", SymbolFunction, types.Void, 2)
	tbl.DeclareParam(g, 0, types.Void)

	if !tbl.CheckParam("f", 0, types.Int) || !tbl.CheckParam("f", 1, types.IntArray) {
		t.Fatalf("declared params must match")
	}
	if tbl.CheckParam("f", 1, types.Int) || tbl.CheckParam("f", 2, types.Int) {
		t.Fatalf("mismatched or out-of-range params must not match")
	}
	if tbl.CheckParam("missing", 0, types.Int) {
		t.Fatalf("unknown function must not match")
	}
	if tbl.CheckVoidParam("f") || !tbl.CheckVoidParam("g") {
		t.Fatalf("void marker detection is wrong")
	}
}

func TestDeclareParamRejectsVariables(t *testing.T) {
	tbl := NewTable(Hints{})
	v := tbl.Declare("v", SymbolVariable, types.Int, 1)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	tbl.DeclareParam(v, 0, types.Int)
}

func TestDeclareParamTwicePanics(t *testing.T) {
	tbl := NewTable(Hints{})
	f := tbl.Declare("f", SymbolFunction, types.Int, 1)
	tbl.DeclareParam(f, 0, types.Int)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on repeated position")
		}
		if p := tbl.Symbols.Get(f).Params; len(p) != 1 || p[0].Type != types.Int {
			t.Fatalf("first parameter must stay intact, got %+v", p)
		}
	}()
	tbl.DeclareParam(f, 0, types.IntArray)
}

func TestLookupHidesLaterParentDeclarations(t *testing.T) {
	tbl := NewTable(Hints{})
	early := tbl.Declare("x", SymbolVariable, types.Int, 1)

	tbl.PushScope(ScopePredecl, "", 2)
	tbl.Declare("f", SymbolFunction, types.Void, 2)
	body := tbl.PushScope(ScopeFunction, "f", 2)
	tbl.ExitScope()
	// top-level declarations after f land in its predecl scope
	tbl.Declare("x", SymbolVariable, types.IntArray, 3)
	tbl.Declare("y", SymbolVariable, types.Int, 3)
	tbl.Seal()

	tbl.EnterScope(2)
	if got := tbl.EnterScope(2); got != body {
		t.Fatalf("expected body scope %d, got %d", body, got)
	}
	if got, ok := tbl.Lookup("x", SymbolVariable); !ok || got != early {
		t.Fatalf("body must see the global x declared before f, got %d ok=%v", got, ok)
	}
	if _, ok := tbl.Lookup("y", SymbolVariable); ok {
		t.Fatalf("y follows f and must not be visible in its body")
	}
	if _, ok := tbl.Lookup("f", SymbolFunction); !ok {
		t.Fatalf("f must see itself")
	}
}

func TestPopScopeSplicesList(t *testing.T) {
	tbl := NewTable(Hints{})
	a := tbl.PushScope(ScopeBlock, "", 1)
	b := tbl.PushScope(ScopeBlock, "", 2)
	tbl.ExitScope()
	c := tbl.PushScope(ScopeBlock, "", 3)
	tbl.ExitScope()
	tbl.ExitScope()

	if diff := deep.Equal(listOrder(tbl), []ScopeID{tbl.Global(), a, b, c}); diff != nil {
		t.Fatal(diff)
	}

	tbl.Seal()
	tbl.ResetCursor()
	tbl.EnterScope(1)
	tbl.EnterScope(2)
	tbl.PopScope()
	if tbl.Current() != a {
		t.Fatalf("pop must return to parent")
	}
	if diff := deep.Equal(listOrder(tbl), []ScopeID{tbl.Global(), a, c}); diff != nil {
		t.Fatal(diff)
	}
	tbl.ResetCursor()
	if diff := deep.Equal(listOrder(tbl), []ScopeID{tbl.Global(), a, b, c}); diff != nil {
		t.Fatalf("reset must restore the list: %v", diff)
	}
}

func TestEnterScopeDesyncPanics(t *testing.T) {
	tbl := NewTable(Hints{})
	tbl.PushScope(ScopeBlock, "", 7)
	tbl.ExitScope()
	tbl.Seal()
	tbl.ResetCursor()
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrScopeDesync) {
			t.Fatalf("expected desync panic, got %v", r)
		}
	}()
	tbl.EnterScope(8)
}

func TestResetCursorRewindsCheckingWalk(t *testing.T) {
	tbl := NewTable(Hints{})
	x := tbl.Declare("x", SymbolVariable, types.Int, 1)
	tbl.PushScope(ScopeBlock, "", 3)
	tbl.ExitScope()
	tbl.Seal()
	before := snapshot(tbl)

	for range 2 {
		tbl.ResetCursor()
		tbl.AddReference(x, 5)
		tbl.EnterScope(3)
		tbl.DeclareImplicit("y", SymbolVariable, 6)
		tbl.PopScope()
	}
	tbl.ResetCursor()
	if diff := deep.Equal(snapshot(tbl), before); diff != nil {
		t.Fatalf("reset must rewind checking walk: %v", diff)
	}
	if err := tbl.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestPushScopeAfterSealPanics(t *testing.T) {
	tbl := NewTable(Hints{})
	tbl.Seal()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	tbl.PushScope(ScopeBlock, "", ast.NodeID(1))
}

func TestValidateCatchesBrokenIndex(t *testing.T) {
	tbl := NewTable(Hints{})
	tbl.Declare("x", SymbolVariable, types.Int, 1)
	delete(tbl.CurrentScope().NameIndex, symbolKey{name: "x", kind: SymbolVariable})
	if err := tbl.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func listOrder(tbl *Table) []ScopeID {
	var out []ScopeID
	for id := tbl.Global(); id.IsValid(); id = tbl.Scopes.Get(id).Next {
		out = append(out, id)
	}
	return out
}

type tableSnapshot struct {
	Scopes  []Scope
	Symbols []Symbol
}

func snapshot(tbl *Table) tableSnapshot {
	var s tableSnapshot
	for _, sc := range tbl.Scopes.Data() {
		sc.Symbols = slices.Clone(sc.Symbols)
		sc.Children = slices.Clone(sc.Children)
		idx := make(map[symbolKey]SymbolID, len(sc.NameIndex))
		for k, v := range sc.NameIndex {
			idx[k] = v
		}
		sc.NameIndex = idx
		s.Scopes = append(s.Scopes, sc)
	}
	for _, sym := range tbl.Symbols.Data() {
		sym.Lines = slices.Clone(sym.Lines)
		sym.DeclLines = slices.Clone(sym.DeclLines)
		sym.Params = slices.Clone(sym.Params)
		s.Symbols = append(s.Symbols, sym)
	}
	return s
}

func TestCheckPredeclaredSeesThroughPredeclScopes(t *testing.T) {
	tbl := NewTable(Hints{})
	tbl.Declare("x", SymbolVariable, types.Int, 1)
	tbl.PushScope(ScopePredecl, "", 2)
	tbl.Declare("f", SymbolFunction, types.Void, 2)
	tbl.Declare("x", SymbolVariable, types.Int, 5)
	if diff := deep.Equal(tbl.CheckPredeclared("x", SymbolVariable, 5), []uint32{1}); diff != nil {
		t.Fatal(diff)
	}

	tbl.PushScope(ScopeFunction, "f", 2)
	tbl.Declare("x", SymbolVariable, types.Int, 3)
	if got := tbl.CheckPredeclared("x", SymbolVariable, 3); len(got) != 0 {
		t.Fatalf("function scope must not see top-level x, got %v", got)
	}
}
