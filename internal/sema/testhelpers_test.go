package sema

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"testing"

	"cminus/internal/ast"
	"cminus/internal/diag"
	"cminus/internal/lexer"
	"cminus/internal/parser"
	"cminus/internal/source"
	"cminus/internal/symbols"
	"cminus/internal/testkit"
)

type analysis struct {
	tree  *ast.Tree
	table *symbols.Table
	bag   *diag.Bag
}

func parseProgram(t *testing.T, src string) *ast.Tree {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.cm", []byte(src))
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: rep})
	res := parser.ParseFile(lx, parser.Options{Reporter: rep})
	if bag.Len() != 0 {
		t.Fatalf("unexpected syntax errors: %s", diagnosticsSummary(bag))
	}
	if err := testkit.CheckTreeInvariants(res.Tree, fs.Get(id)); err != nil {
		t.Fatalf("tree invariants broken: %v", err)
	}
	return res.Tree
}

func analyze(t *testing.T, src string) analysis {
	t.Helper()
	tree := parseProgram(t, src)
	table := BuildSymbolTable(tree)
	bag := diag.NewBag(0)
	TypeCheck(tree, table, Options{Reporter: diag.BagReporter{Bag: bag}})
	if err := table.Validate(); err != nil {
		t.Fatalf("table invariants broken: %v", err)
	}
	return analysis{tree: tree, table: table, bag: bag}
}

func diagnosticsSummary(bag *diag.Bag) string {
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] line %d: %s", d.Code.ID(), d.Line, d.Message)
	}
	return strings.Join(lines, "; ")
}

func expectNoDiagnostics(t *testing.T, a analysis) {
	t.Helper()
	if a.bag.Len() != 0 {
		t.Fatalf("expected no diagnostics, got %s", diagnosticsSummary(a.bag))
	}
}

// expectOnly fails unless the bag holds exactly one diagnostic, with code at line.
func expectOnly(t *testing.T, a analysis, code diag.Code, line uint32) diag.Diagnostic {
	t.Helper()
	items := a.bag.Items()
	if len(items) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %s", diagnosticsSummary(a.bag))
	}
	d := items[0]
	if d.Code != code || d.Line != line {
		t.Fatalf("expected %s at line %d, got %s", code.ID(), line, diagnosticsSummary(a.bag))
	}
	return d
}

// symbolsNamed returns the symbols named name, in declaration order.
func symbolsNamed(table *symbols.Table, name string, kind symbols.SymbolKind) []symbols.Symbol {
	var out []symbols.Symbol
	for _, sym := range table.Symbols.Data() {
		if sym.Name == name && sym.Kind == kind {
			out = append(out, sym)
		}
	}
	return out
}

type tableSnapshot struct {
	Scopes  []symbols.Scope
	Symbols []symbols.Symbol
}

func snapshotTable(table *symbols.Table) tableSnapshot {
	var s tableSnapshot
	for _, sc := range table.Scopes.Data() {
		sc.NameIndex = maps.Clone(sc.NameIndex)
		sc.Symbols = slices.Clone(sc.Symbols)
		sc.Children = slices.Clone(sc.Children)
		s.Scopes = append(s.Scopes, sc)
	}
	for _, sym := range table.Symbols.Data() {
		sym.Lines = slices.Clone(sym.Lines)
		sym.DeclLines = slices.Clone(sym.DeclLines)
		sym.Params = slices.Clone(sym.Params)
		s.Symbols = append(s.Symbols, sym)
	}
	return s
}
