package sema

import (
	"cminus/internal/ast"
	"cminus/internal/types"
)

// prependBuiltins puts "int input(void)" and "void output(int value)" in
// front of the top-level chain so they resolve like user declarations.
// A tree whose root is already synthetic is left alone, which keeps node IDs
// stable when the tree is analyzed again.
func prependBuiltins(tree *ast.Tree) {
	if root := tree.Node(tree.Root); root != nil && root.Synthetic {
		return
	}
	b := tree.Builder()
	at := ast.AtLine(0)

	inputParams := b.VoidParam(at)
	input := b.FunDecl(at, "input", types.KindInt, inputParams, ast.NoNodeID)
	outputParams := b.Param(at, "value", types.KindInt, false)
	output := b.FunDecl(at, "output", types.KindVoid, outputParams, ast.NoNodeID)
	for _, id := range []ast.NodeID{inputParams, input, outputParams, output} {
		tree.Node(id).Synthetic = true
	}
	b.SetRoot(input, output, tree.Root)
}
