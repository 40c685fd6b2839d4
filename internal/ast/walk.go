package ast

// Visitor receives nodes of a depth-first walk. Pre runs before the children,
// Post after them; either may be nil.
type Visitor struct {
	Pre  func(id NodeID, n *Node)
	Post func(id NodeID, n *Node)
}

// Walk visits id, its children in order, then its sibling chain.
func (t *Tree) Walk(id NodeID, v Visitor) {
	for id.IsValid() {
		n := t.Node(id)
		if n == nil {
			return
		}
		if v.Pre != nil {
			v.Pre(id, n)
		}
		for _, child := range n.Children {
			t.Walk(child, v)
		}
		n = t.Node(id)
		if v.Post != nil {
			v.Post(id, n)
		}
		id = n.Sibling
	}
}
