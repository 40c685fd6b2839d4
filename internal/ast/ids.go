package ast

// NodeID indexes Tree.Nodes; zero means "no node".
type NodeID uint32

const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }
