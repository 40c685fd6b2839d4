package sema

import (
	"cminus/internal/ast"
	"cminus/internal/diag"
	"cminus/internal/source"
	"cminus/internal/symbols"
	"cminus/internal/types"
)

// checkVar resolves a variable use. An unresolved name is reported once and
// then bound implicitly as undetermined in the current scope; its index, if
// any, is still checked.
func (tc *typeChecker) checkVar(n *ast.Node) {
	index := tc.tree.Node(n.Child(0))
	id, ok := tc.table.Lookup(n.Name, symbols.SymbolVariable)
	if !ok {
		tc.report(diag.SemaUndeclared, n, n.Name, "undeclared variable").Emit()
		tc.table.DeclareImplicit(n.Name, symbols.SymbolVariable, n.Line)
		n.Type = types.Undetermined
		tc.checkIndex(n, index)
		return
	}
	tc.table.AddReference(id, n.Line)
	sym := tc.table.Symbols.Get(id)

	if index == nil {
		n.Type = sym.Type
		return
	}
	n.Type = types.Int
	if !sym.Type.IsIntArray() {
		tc.report(diag.SemaTypeMismatch, n, n.Name, "invalid array indexing").Emit()
		n.Type = types.Undetermined
	}
	if !tc.checkIndex(n, index) {
		n.Type = types.Undetermined
	}
}

// checkIndex reports a subscript that is not a plain int.
func (tc *typeChecker) checkIndex(n, index *ast.Node) bool {
	if index == nil || index.Type.IsScalarInt() {
		return true
	}
	tc.report(diag.SemaTypeMismatch, index, n.Name, "invalid array index").Emit()
	return false
}

// checkBinary types arithmetic and comparison; both operands must be plain int.
func (tc *typeChecker) checkBinary(n *ast.Node) {
	left := tc.typeOf(n.Child(0))
	right := tc.typeOf(n.Child(1))
	if !left.IsScalarInt() || !right.IsScalarInt() {
		tc.report(diag.SemaTypeMismatch, n, "", "invalid operation").Emit()
		n.Type = types.Undetermined
		return
	}
	n.Type = types.Int
}

// checkAssign requires identical type and array-ness on both sides.
// Undetermined never matches, even itself.
func (tc *typeChecker) checkAssign(n *ast.Node) {
	target := tc.tree.Node(n.Child(0))
	left := tc.typeOf(n.Child(0))
	right := tc.typeOf(n.Child(1))
	if left != right || left.IsUndetermined() || left.Kind == types.KindVoid {
		name := ""
		if target != nil {
			name = target.Name
		}
		tc.report(diag.SemaTypeMismatch, n, name, "invalid assignment").Emit()
		n.Type = types.Undetermined
		return
	}
	n.Type = left
}

// checkCondition: guards of if/while must be plain int.
func (tc *typeChecker) checkCondition(n *ast.Node) {
	if cond := tc.typeOf(n.Child(0)); !cond.IsScalarInt() {
		tc.report(diag.SemaTypeMismatch, n, "", "invalid condition").Emit()
	}
}

func (tc *typeChecker) typeOf(id ast.NodeID) types.Type {
	if n := tc.tree.Node(id); n != nil {
		return n.Type
	}
	return types.Undetermined
}

func emptySpan(n *ast.Node) source.Span {
	return source.Span{File: n.Span.File, Start: n.Span.Start, End: n.Span.Start}
}
