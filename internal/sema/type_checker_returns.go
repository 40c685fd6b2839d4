package sema

import (
	"cminus/internal/ast"
	"cminus/internal/diag"
	"cminus/internal/types"
)

// checkReturn matches the returned value against the enclosing function's
// declared type. Any return, valid or not, satisfies the missing-return check.
func (tc *typeChecker) checkReturn(n *ast.Node) {
	fn := tc.fns.top()
	name := ""
	if fn != nil {
		fn.pendingReturn = false
		name = fn.name
	}
	want, ok := tc.table.FunctionReturnType()
	if !ok {
		tc.report(diag.SemaTypeMismatch, n, name, "invalid return").Emit()
		return
	}
	value := tc.tree.Node(n.Child(0))
	if value == nil {
		if want.Kind != types.KindVoid {
			tc.report(diag.SemaTypeMismatch, n, name, "invalid return").Emit()
		}
		return
	}
	if value.Type != want || want.Kind == types.KindVoid {
		tc.report(diag.SemaTypeMismatch, n, name, "invalid return").Emit()
	}
}

// checkMissingReturn runs when a function body is done.
func (tc *typeChecker) checkMissingReturn() {
	fn := tc.fns.top()
	if fn == nil || !fn.pendingReturn {
		return
	}
	decl := tc.tree.Node(fn.decl)
	tc.report(diag.SemaMissingReturn, decl, fn.name, "missing return statement").Emit()
}
