package ast

import (
	"cminus/internal/source"
	"cminus/internal/token"
	"cminus/internal/types"
)

// MaxChildren - фиксированная арность узла.
const MaxChildren = 3

type Kind uint8

const (
	KindInvalid Kind = iota
	// VarDecl: Name, Type (declared); Children[0] = array size expression.
	KindVarDecl
	// FunDecl: Name, Type (return); Children[0] = params, Children[1] = body.
	KindFunDecl
	// Compound: Children[0] = local declarations, Children[1] = statements.
	KindCompound
	// If: Children[0] = condition, Children[1] = then.
	KindIf
	// IfElse: as If plus Children[2] = else.
	KindIfElse
	// While: Children[0] = condition, Children[1] = body.
	KindWhile
	// Return: Children[0] = optional value.
	KindReturn
	// Assign: Children[0] = target variable, Children[1] = value.
	KindAssign
	// BinaryOp: Op; Children[0] = left, Children[1] = right.
	KindBinaryOp
	// Const: Val.
	KindConst
	// Var: Name; Children[0] = optional index expression.
	KindVar
	// VoidParam marks a "(void)" parameter list.
	KindVoidParam
	// Param: Name, Type (declared).
	KindParam
	// Call: Name; Children[0] = argument chain.
	KindCall
)

var kindNames = [...]string{
	KindInvalid:   "Invalid",
	KindVarDecl:   "VarDecl",
	KindFunDecl:   "FunDecl",
	KindCompound:  "Compound",
	KindIf:        "If",
	KindIfElse:    "IfElse",
	KindWhile:     "While",
	KindReturn:    "Return",
	KindAssign:    "Assign",
	KindBinaryOp:  "BinaryOp",
	KindConst:     "Const",
	KindVar:       "Var",
	KindVoidParam: "VoidParam",
	KindParam:     "Param",
	KindCall:      "Call",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Node is a single syntax tree node. Statement sequences, parameter lists and
// call arguments are chained through Sibling.
//
// Type holds the declared type for VarDecl/Param/FunDecl and the resolved type
// for expressions; the analyzer fills the latter in place.
type Node struct {
	Kind      Kind
	Span      source.Span
	Line      uint32
	Name      string
	Op        token.Kind
	Val       int64
	Type      types.Type
	Children  [MaxChildren]NodeID
	Sibling   NodeID
	Synthetic bool // built-in declarations prepended by the analyzer
}

// Child returns the i-th child or NoNodeID.
func (n *Node) Child(i int) NodeID {
	if n == nil || i < 0 || i >= MaxChildren {
		return NoNodeID
	}
	return n.Children[i]
}

// Pos is where a node comes from: its span and 1-based line.
type Pos struct {
	Span source.Span
	Line uint32
}

// AtLine is a Pos without a span, used for hand-built and synthetic trees.
func AtLine(line uint32) Pos { return Pos{Line: line} }
