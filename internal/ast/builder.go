package ast

import (
	"cminus/internal/source"
	"cminus/internal/token"
	"cminus/internal/types"
)

type Hints struct{ Nodes uint }

// Tree owns the nodes of one compilation unit. Root is the first top-level
// declaration; the rest hang off its Sibling chain.
type Tree struct {
	File  source.FileID
	Nodes *Arena[Node]
	Root  NodeID
}

// Builder allocates nodes into a Tree.
type Builder struct {
	Tree *Tree
}

func NewBuilder(file source.FileID, hints Hints) *Builder {
	if hints.Nodes == 0 {
		hints.Nodes = 1 << 8
	}
	return &Builder{
		Tree: &Tree{
			File:  file,
			Nodes: NewArena[Node](hints.Nodes),
		},
	}
}

// Builder returns a builder that appends to t.
func (t *Tree) Builder() *Builder { return &Builder{Tree: t} }

// Node returns the node for id or nil.
func (t *Tree) Node(id NodeID) *Node {
	if t == nil {
		return nil
	}
	return t.Nodes.Get(uint32(id))
}

// Siblings collects the chain that starts at id.
func (t *Tree) Siblings(id NodeID) []NodeID {
	var out []NodeID
	for id.IsValid() {
		out = append(out, id)
		id = t.Node(id).Sibling
	}
	return out
}

// TopLevel returns the declarations chained from Root.
func (t *Tree) TopLevel() []NodeID { return t.Siblings(t.Root) }

func (b *Builder) alloc(n Node) NodeID {
	return NodeID(b.Tree.Nodes.Allocate(n))
}

// Chain links ids through Sibling (skipping invalid ones) and returns the head.
func (b *Builder) Chain(ids ...NodeID) NodeID {
	head, prev := NoNodeID, NoNodeID
	for _, id := range ids {
		if !id.IsValid() {
			continue
		}
		if prev.IsValid() {
			b.Tree.Node(prev).Sibling = id
		} else {
			head = id
		}
		prev = id
	}
	return head
}

// SetRoot sets the program's declaration list.
func (b *Builder) SetRoot(decls ...NodeID) NodeID {
	b.Tree.Root = b.Chain(decls...)
	return b.Tree.Root
}

func (b *Builder) VarDecl(at Pos, name string, typ types.Kind, size NodeID) NodeID {
	return b.alloc(Node{
		Kind:     KindVarDecl,
		Span:     at.Span,
		Line:     at.Line,
		Name:     name,
		Type:     types.Type{Kind: typ, Array: size.IsValid()},
		Children: [MaxChildren]NodeID{size},
	})
}

func (b *Builder) FunDecl(at Pos, name string, ret types.Kind, params, body NodeID) NodeID {
	return b.alloc(Node{
		Kind:     KindFunDecl,
		Span:     at.Span,
		Line:     at.Line,
		Name:     name,
		Type:     types.Type{Kind: ret},
		Children: [MaxChildren]NodeID{params, body},
	})
}

func (b *Builder) VoidParam(at Pos) NodeID {
	return b.alloc(Node{Kind: KindVoidParam, Span: at.Span, Line: at.Line, Type: types.Void})
}

func (b *Builder) Param(at Pos, name string, typ types.Kind, array bool) NodeID {
	return b.alloc(Node{
		Kind: KindParam,
		Span: at.Span,
		Line: at.Line,
		Name: name,
		Type: types.Type{Kind: typ, Array: array},
	})
}

func (b *Builder) Compound(at Pos, decls, stmts NodeID) NodeID {
	return b.alloc(Node{
		Kind:     KindCompound,
		Span:     at.Span,
		Line:     at.Line,
		Children: [MaxChildren]NodeID{decls, stmts},
	})
}

// If builds If or IfElse depending on whether els is present.
func (b *Builder) If(at Pos, cond, then, els NodeID) NodeID {
	kind := KindIf
	if els.IsValid() {
		kind = KindIfElse
	}
	return b.alloc(Node{
		Kind:     kind,
		Span:     at.Span,
		Line:     at.Line,
		Children: [MaxChildren]NodeID{cond, then, els},
	})
}

func (b *Builder) While(at Pos, cond, body NodeID) NodeID {
	return b.alloc(Node{
		Kind:     KindWhile,
		Span:     at.Span,
		Line:     at.Line,
		Children: [MaxChildren]NodeID{cond, body},
	})
}

func (b *Builder) Return(at Pos, value NodeID) NodeID {
	return b.alloc(Node{
		Kind:     KindReturn,
		Span:     at.Span,
		Line:     at.Line,
		Children: [MaxChildren]NodeID{value},
	})
}

func (b *Builder) Assign(at Pos, target, value NodeID) NodeID {
	return b.alloc(Node{
		Kind:     KindAssign,
		Span:     at.Span,
		Line:     at.Line,
		Children: [MaxChildren]NodeID{target, value},
	})
}

func (b *Builder) Binary(at Pos, op token.Kind, left, right NodeID) NodeID {
	return b.alloc(Node{
		Kind:     KindBinaryOp,
		Span:     at.Span,
		Line:     at.Line,
		Op:       op,
		Children: [MaxChildren]NodeID{left, right},
	})
}

func (b *Builder) Const(at Pos, val int64) NodeID {
	return b.alloc(Node{Kind: KindConst, Span: at.Span, Line: at.Line, Val: val})
}

func (b *Builder) Var(at Pos, name string, index NodeID) NodeID {
	return b.alloc(Node{
		Kind:     KindVar,
		Span:     at.Span,
		Line:     at.Line,
		Name:     name,
		Children: [MaxChildren]NodeID{index},
	})
}

func (b *Builder) Call(at Pos, name string, args ...NodeID) NodeID {
	return b.alloc(Node{
		Kind:     KindCall,
		Span:     at.Span,
		Line:     at.Line,
		Name:     name,
		Children: [MaxChildren]NodeID{b.Chain(args...)},
	})
}
