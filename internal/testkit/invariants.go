package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"cminus/internal/ast"
	"cminus/internal/source"
)

// CheckTreeInvariants runs a minimal set of structural checks on a parsed tree:
// 1) every reachable id is inside the arena and is reached exactly once
// 2) every non-synthetic span is non-empty, points at sf and fits its content
// 3) node lines agree with the line of the span start
func CheckTreeInvariants(tree *ast.Tree, sf *source.File) error {
	if tree == nil || sf == nil {
		return fmt.Errorf("nil tree or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if tree.File != sf.ID {
		return fmt.Errorf("tree points to different file id: got=%d want=%d", tree.File, sf.ID)
	}

	seen := make(map[ast.NodeID]struct{}, tree.Nodes.Len())
	var walk func(id ast.NodeID) error
	walk = func(id ast.NodeID) error {
		for id.IsValid() {
			if _, dup := seen[id]; dup {
				return fmt.Errorf("node %d reached twice", id)
			}
			seen[id] = struct{}{}
			n := tree.Node(id)
			if n == nil {
				return fmt.Errorf("dangling node id=%d (arena len %d)", id, tree.Nodes.Len())
			}
			if err := checkNode(id, n, sf, lenContent); err != nil {
				return err
			}
			for _, child := range n.Children {
				if err := walk(child); err != nil {
					return err
				}
			}
			id = n.Sibling
		}
		return nil
	}
	return walk(tree.Root)
}

func checkNode(id ast.NodeID, n *ast.Node, sf *source.File, lenContent uint32) error {
	if n.Synthetic {
		return nil
	}
	sp := n.Span
	if sp.End <= sp.Start {
		return fmt.Errorf("node %d (%v): empty span %v", id, n.Kind, sp)
	}
	if sp.File != sf.ID {
		return fmt.Errorf("node %d (%v): span file mismatch: got=%d want=%d", id, n.Kind, sp.File, sf.ID)
	}
	if sp.End > lenContent {
		return fmt.Errorf("node %d (%v): span end beyond content: %d > %d", id, n.Kind, sp.End, lenContent)
	}
	if want := sf.LineOf(sp.Start); n.Line != want {
		return fmt.Errorf("node %d (%v): line %d, span starts on line %d", id, n.Kind, n.Line, want)
	}
	return nil
}
