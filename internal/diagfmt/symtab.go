package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"cminus/internal/symbols"
)

// Column widths follow the classic listing layout.
const (
	colName  = 14
	colKind  = 12
	colType  = 14
	colScope = 14
	colLevel = 13
)

func cell(s string, width int) string {
	return runewidth.FillRight(s, width) + " "
}

// SymbolTable lists every symbol with kind, type, owning scope and all
// recorded lines. Scopes are visited in creation order, symbols in
// declaration order.
func SymbolTable(w io.Writer, table *symbols.Table) {
	fmt.Fprintln(w, " Symbol Name   Symbol Kind   Symbol Type    Scope Name   Line Numbers")
	fmt.Fprintln(w, "-------------  -----------  -------------  ------------  ------------")
	eachSymbol(table, func(scope *symbols.Scope, sym *symbols.Symbol) {
		var b strings.Builder
		b.WriteString(cell(sym.Name, colName))
		b.WriteString(cell(sym.Kind.String(), colKind))
		b.WriteString(cell(sym.Type.String(), colType))
		b.WriteString(cell(scope.Name, colScope))
		for _, line := range sym.Lines {
			fmt.Fprintf(&b, "%4d ", line)
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	})
}

// Scopes lists the variables of every scope with its nesting level.
func Scopes(w io.Writer, table *symbols.Table) {
	fmt.Fprintln(w, " Scope Name   Nested Level   Symbol Name   Symbol Type")
	fmt.Fprintln(w, "------------  ------------  -------------  -----------")
	eachSymbol(table, func(scope *symbols.Scope, sym *symbols.Symbol) {
		if sym.Kind != symbols.SymbolVariable {
			return
		}
		line := cell(scope.Name, colLevel) + cell(fmt.Sprint(scope.Level), colLevel) + cell(sym.Name, colName) + sym.Type.String()
		fmt.Fprintln(w, line)
	})
}

// Functions lists every function with return and parameter types.
func Functions(w io.Writer, table *symbols.Table) {
	fmt.Fprintln(w, "Function Name   Return Type   Parameter Types")
	fmt.Fprintln(w, "-------------  -------------  --------------")
	eachSymbol(table, func(_ *symbols.Scope, sym *symbols.Symbol) {
		if sym.Kind != symbols.SymbolFunction {
			return
		}
		params := make([]string, 0, len(sym.Params))
		for _, p := range sym.Params {
			params = append(params, p.Type.String())
		}
		line := cell(sym.Name, colName) + cell(sym.Type.String(), colType) + strings.Join(params, " ")
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	})
}

func eachSymbol(table *symbols.Table, fn func(scope *symbols.Scope, sym *symbols.Symbol)) {
	if table == nil {
		return
	}
	scopes := table.Scopes.Data()
	for i := range scopes {
		scope := &scopes[i]
		for _, id := range scope.Symbols {
			if sym := table.Symbols.Get(id); sym != nil {
				fn(scope, sym)
			}
		}
	}
}
