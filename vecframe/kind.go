// Package vecframe implements the columnar chunk representation described
// in spec section 3 and 4.1: fixed-width ValueBuffers with a nullability
// bitmap, the four physical column layouts (Flat, Constant, Dictionary,
// Sequence), the unified read-only view that collapses them for
// operators, and the Chunk that batches columns sharing a row count.
package vecframe

import "fmt"

// Kind tags the logical value type stored in a column. The core only
// needs to distinguish the handful of types its scalar ops and sort keys
// actually encode (see SPEC_FULL.md "Numeric domain"); there is no
// open-ended type registry.
type Kind uint8

const (
	KindBool Kind = iota
	KindInt64
	KindFloat64
	KindString
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt64:
		return "int64"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	case KindList:
		return "list"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// FixedWidth reports the width in bytes of one physical cell for kinds
// whose on-disk radix key is a direct transform of their native width.
// String and List cells are handle-sized (see StringCell/ListCell) and
// are not "fixed width" in the sort-key sense; callers needing their
// radix-key contribution use a configurable prefix length instead.
func (k Kind) FixedWidth() int {
	switch k {
	case KindBool:
		return 1
	case KindInt64, KindFloat64:
		return 8
	default:
		return 0
	}
}
