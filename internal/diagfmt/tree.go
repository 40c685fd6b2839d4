package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"cminus/internal/ast"
)

// Tree prints the syntax tree with two-space indentation per level.
// Built-in declarations added by the analyzer are skipped.
func Tree(w io.Writer, tree *ast.Tree) {
	if tree == nil {
		return
	}
	printChain(w, tree, tree.Root, 1)
}

func printChain(w io.Writer, tree *ast.Tree, id ast.NodeID, depth int) {
	for ; id.IsValid(); id = tree.Node(id).Sibling {
		n := tree.Node(id)
		if n == nil {
			return
		}
		if n.Synthetic {
			continue
		}
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), describe(n))
		for _, child := range n.Children {
			printChain(w, tree, child, depth+1)
		}
	}
}

func describe(n *ast.Node) string {
	switch n.Kind {
	case ast.KindVarDecl:
		return fmt.Sprintf("Variable Declaration: name = %s, type = %s", n.Name, n.Type)
	case ast.KindFunDecl:
		return fmt.Sprintf("Function Declaration: name = %s, return type = %s", n.Name, n.Type)
	case ast.KindCompound:
		return "Compound Statement:"
	case ast.KindIf:
		return "If Statement:"
	case ast.KindIfElse:
		return "If-Else Statement:"
	case ast.KindWhile:
		return "While Statement:"
	case ast.KindReturn:
		if !n.Child(0).IsValid() {
			return "Non-value Return Statement"
		}
		return "Return Statement:"
	case ast.KindAssign:
		return "Assign:"
	case ast.KindBinaryOp:
		return "Op: " + n.Op.String()
	case ast.KindCall:
		return "Call: function name = " + n.Name
	case ast.KindConst:
		return fmt.Sprintf("Const: %d", n.Val)
	case ast.KindVar:
		return "Variable: name = " + n.Name
	case ast.KindVoidParam:
		return "Void Parameter"
	case ast.KindParam:
		return fmt.Sprintf("Parameter: name = %s, type = %s", n.Name, n.Type)
	default:
		return "Unknown node " + n.Kind.String()
	}
}
