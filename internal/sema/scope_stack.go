package sema

import "cminus/internal/ast"

// fnContext tracks the function whose body is being checked.
type fnContext struct {
	decl ast.NodeID
	name string
	line uint32
	// pendingReturn is armed for int functions and cleared by any return.
	pendingReturn bool
}

type fnStack []fnContext

func (s *fnStack) push(ctx fnContext) { *s = append(*s, ctx) }

func (s *fnStack) pop() {
	if len(*s) > 0 {
		*s = (*s)[:len(*s)-1]
	}
}

// top returns the innermost function or nil at top level.
func (s fnStack) top() *fnContext {
	if len(s) == 0 {
		return nil
	}
	return &s[len(s)-1]
}
