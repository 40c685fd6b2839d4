package sema

import (
	"cminus/internal/ast"
	"cminus/internal/diag"
	"cminus/internal/symbols"
	"cminus/internal/types"
)

// checkCall resolves the callee and matches arguments against its recorded
// parameters. The call types to the callee's return type, or to undetermined
// when anything about it is wrong.
func (tc *typeChecker) checkCall(n *ast.Node) {
	id, ok := tc.table.Lookup(n.Name, symbols.SymbolFunction)
	if !ok {
		tc.report(diag.SemaUndeclared, n, n.Name, "undeclared function").Emit()
		tc.table.DeclareImplicit(n.Name, symbols.SymbolFunction, n.Line)
		tc.report(diag.SemaSignatureMismatch, n, n.Name, "invalid function call").Emit()
		n.Type = types.Undetermined
		return
	}
	tc.table.AddReference(id, n.Line)
	sym := tc.table.Symbols.Get(id)
	if sym.Type.IsUndetermined() {
		// callee poisoned by an earlier error, arguments are not checked
		tc.report(diag.SemaSignatureMismatch, n, n.Name, "invalid function call").Emit()
		n.Type = types.Undetermined
		return
	}
	if !tc.argumentsMatch(n.Name, sym, tc.tree.Siblings(n.Child(0))) {
		tc.report(diag.SemaSignatureMismatch, n, n.Name, "invalid function call").Emit()
		n.Type = types.Undetermined
		return
	}
	n.Type = sym.Type
}

func (tc *typeChecker) argumentsMatch(name string, sym *symbols.Symbol, args []ast.NodeID) bool {
	if len(args) == 0 {
		return tc.table.CheckVoidParam(name)
	}
	if sym.HasVoidParam() || len(args) != len(sym.Params) {
		return false
	}
	for i, arg := range args {
		if !tc.table.CheckParam(name, i, tc.typeOf(arg)) {
			return false
		}
	}
	return true
}
