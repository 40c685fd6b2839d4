package sema

import (
	"cminus/internal/ast"
	"cminus/internal/diag"
	"cminus/internal/symbols"
	"cminus/internal/types"
)

func (tc *typeChecker) enter(id ast.NodeID, n *ast.Node) {
	switch n.Kind {
	case ast.KindFunDecl:
		// cursor is still outside the function: earlier top-level functions
		// with the same name are visible from here
		tc.checkRedeclared(n, symbols.SymbolFunction)
		if body := n.Child(1); body.IsValid() {
			tc.bodies[body] = id
		}
		tc.table.EnterScope(id) // predecl
		tc.table.EnterScope(id) // parameters and body
		tc.fns.push(fnContext{
			decl:          id,
			name:          n.Name,
			line:          n.Line,
			pendingReturn: n.Type.Kind == types.KindInt && !n.Synthetic && n.Child(1).IsValid(),
		})
		tc.scopeEvent("enter_scope", n)
	case ast.KindCompound:
		if _, body := tc.bodies[id]; !body {
			tc.table.EnterScope(id)
			tc.scopeEvent("enter_scope", n)
		}
	}
}

func (tc *typeChecker) leave(id ast.NodeID, n *ast.Node) {
	switch n.Kind {
	case ast.KindConst:
		n.Type = types.Int
	case ast.KindVar:
		tc.checkVar(n)
	case ast.KindCall:
		tc.checkCall(n)
	case ast.KindBinaryOp:
		tc.checkBinary(n)
	case ast.KindAssign:
		tc.checkAssign(n)
	case ast.KindIf, ast.KindIfElse, ast.KindWhile:
		tc.checkCondition(n)
	case ast.KindReturn:
		tc.checkReturn(n)
	case ast.KindVarDecl:
		tc.checkVarDecl(n)
	case ast.KindParam:
		tc.checkParamDecl(n)
	case ast.KindCompound:
		if _, body := tc.bodies[id]; body {
			tc.checkMissingReturn()
			return
		}
		tc.scopeEvent("pop_scope", n)
		tc.table.PopScope()
	case ast.KindFunDecl:
		tc.scopeEvent("exit_scope", n)
		tc.table.ExitScope()
		tc.fns.pop()
	}
}

func (tc *typeChecker) checkVarDecl(n *ast.Node) {
	tc.checkRedeclared(n, symbols.SymbolVariable)
	if n.Type.Kind == types.KindVoid {
		tc.report(diag.SemaTypeMismatch, n, n.Name, "invalid variable type").Emit()
	}
	if size := tc.tree.Node(n.Child(0)); size != nil {
		if size.Type != types.Int || size.Val <= 0 {
			tc.report(diag.SemaTypeMismatch, size, n.Name, "invalid array size").Emit()
		}
	}
}

func (tc *typeChecker) checkParamDecl(n *ast.Node) {
	tc.checkRedeclared(n, symbols.SymbolVariable)
	if n.Type.Kind == types.KindVoid {
		tc.report(diag.SemaTypeMismatch, n, n.Name, "invalid variable type").Emit()
	}
}

// checkRedeclared reports every earlier declaration of the same name in the
// current scope, ascending by line.
func (tc *typeChecker) checkRedeclared(n *ast.Node, kind symbols.SymbolKind) {
	prior := tc.table.CheckPredeclared(n.Name, kind, n.Line)
	if len(prior) == 0 || n.Synthetic {
		return
	}
	msg := "redeclared variable"
	if kind == symbols.SymbolFunction {
		msg = "redeclared function"
	}
	b := tc.report(diag.SemaRedeclaration, n, n.Name, msg)
	for _, line := range prior {
		note := "previous declaration"
		if line == 0 {
			note = "built-in declaration"
		}
		b = b.WithNote(emptySpan(n), line, note)
	}
	b.Emit()
}
