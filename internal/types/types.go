package types

import "fmt"

// Kind enumerates the base types of C-Minus plus the poison type.
type Kind uint8

const (
	// KindNone marks an annotation slot that has not been filled yet.
	KindNone Kind = iota
	KindInt
	KindVoid
	// KindUndetermined is assigned after any type error so that later
	// comparisons against it fail visibly instead of passing silently.
	KindUndetermined
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInt:
		return "int"
	case KindVoid:
		return "void"
	case KindUndetermined:
		return "undetermined"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a base kind with an array flag: int, int[], void, undetermined.
type Type struct {
	Kind  Kind
	Array bool
}

var (
	Int          = Type{Kind: KindInt}
	IntArray     = Type{Kind: KindInt, Array: true}
	Void         = Type{Kind: KindVoid}
	Undetermined = Type{Kind: KindUndetermined}
)

// String renders the type the way listings print it.
func (t Type) String() string {
	if t.Array {
		return t.Kind.String() + "[]"
	}
	return t.Kind.String()
}

// IsScalarInt reports plain int, the only type accepted by operators,
// conditions and array indices.
func (t Type) IsScalarInt() bool {
	return t.Kind == KindInt && !t.Array
}

func (t Type) IsIntArray() bool {
	return t.Kind == KindInt && t.Array
}

func (t Type) IsUndetermined() bool { return t.Kind == KindUndetermined }

// Element drops the array flag.
func (t Type) Element() Type {
	t.Array = false
	return t
}
