package sema

import (
	"cminus/internal/ast"
	"cminus/internal/symbols"
	"cminus/internal/types"
)

// BuildSymbolTable prepends the built-in functions to tree, creates every
// scope and declaration in document order and seals the resulting table.
//
// A function declaration opens two scopes: a predeclaration scope holding
// the function's own binding and a scope named after the function for its
// parameters and body. Only the second one is closed at the end of the
// function, so each later top-level declaration sees the functions declared
// before it and none of those declared after.
func BuildSymbolTable(tree *ast.Tree) *symbols.Table {
	if tree == nil {
		return nil
	}
	prependBuiltins(tree)
	nodes := uint(tree.Nodes.Len())
	table := symbols.NewTable(symbols.Hints{Scopes: nodes / 4, Symbols: nodes / 2})

	ins := declInserter{
		table:  table,
		bodies: make(map[ast.NodeID]struct{}),
	}
	tree.Walk(tree.Root, ast.Visitor{Pre: ins.enter, Post: ins.leave})
	table.Seal()
	return table
}

type declInserter struct {
	table  *symbols.Table
	bodies map[ast.NodeID]struct{}
	fn     symbols.SymbolID // function whose parameters are being declared
	param  int
}

func (d *declInserter) enter(id ast.NodeID, n *ast.Node) {
	switch n.Kind {
	case ast.KindFunDecl:
		if body := n.Child(1); body.IsValid() {
			d.bodies[body] = struct{}{}
		}
		d.table.PushScope(symbols.ScopePredecl, "", id)
		if n.Synthetic {
			d.fn = d.table.DeclareBuiltin(n.Name, symbols.SymbolFunction, n.Type)
		} else {
			d.fn = d.table.Declare(n.Name, symbols.SymbolFunction, n.Type, n.Line)
		}
		d.table.PushScope(symbols.ScopeFunction, n.Name, id)
		d.param = 0

	case ast.KindVoidParam:
		d.table.DeclareParam(d.fn, d.param, types.Void)
		d.param++

	case ast.KindParam:
		// void-typed named parameter никогда не матчится с аргументом
		desc := n.Type
		if desc.Kind == types.KindVoid {
			desc = types.Undetermined
		}
		d.table.DeclareParam(d.fn, d.param, desc)
		d.param++
		d.table.Declare(n.Name, symbols.SymbolVariable, n.Type, n.Line)

	case ast.KindVarDecl:
		d.table.Declare(n.Name, symbols.SymbolVariable, n.Type, n.Line)

	case ast.KindCompound:
		if _, body := d.bodies[id]; !body {
			d.table.PushScope(symbols.ScopeBlock, "", id)
		}
	}
}

func (d *declInserter) leave(id ast.NodeID, n *ast.Node) {
	switch n.Kind {
	case ast.KindFunDecl:
		// predecl scope stays open
		d.table.ExitScope()
	case ast.KindCompound:
		if _, body := d.bodies[id]; !body {
			d.table.ExitScope()
		}
	}
}
