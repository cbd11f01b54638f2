package vecframe

import "github.com/vectorlattice/vecql/coreerr"

// Layout tags which of the four physical representations a Column uses
// (spec.md §3 "Column value layout").
type Layout uint8

const (
	Flat Layout = iota
	Constant
	Dictionary
	Sequence
)

func (l Layout) String() string {
	switch l {
	case Flat:
		return "flat"
	case Constant:
		return "constant"
	case Dictionary:
		return "dictionary"
	case Sequence:
		return "sequence"
	default:
		return "unknown layout"
	}
}

// Column is one logical column within a Chunk, in exactly one of the four
// layouts. Only the fields relevant to the active Layout are populated.
type Column struct {
	Kind   Kind
	Layout Layout
	N      int // logical row count; independent per column within a Chunk

	// Flat / Constant
	Buffer *ValueBuffer

	// Dictionary: Backing is owned upstream and outlives this column;
	// Selection has length N and every entry is < Backing's cell count.
	Backing   *Column
	Selection SelectionIndex

	// Sequence: values are SeqStart, SeqStart+SeqStep, ... — never null.
	SeqStart int64
	SeqStep  int64
}

// NewFlatColumn wraps buf as a Flat column of n rows.
func NewFlatColumn(buf *ValueBuffer, n int) *Column {
	return &Column{Kind: buf.Kind, Layout: Flat, N: n, Buffer: buf}
}

// NewConstantColumn builds a Constant column repeating a single cell n
// times. buf must hold exactly one physical cell.
func NewConstantColumn(buf *ValueBuffer, n int) (*Column, error) {
	if buf.Len() != 1 {
		return nil, coreerr.New(coreerr.InvalidInput, "constant column buffer must hold exactly one cell, got %d", buf.Len())
	}
	return &Column{Kind: buf.Kind, Layout: Constant, N: n, Buffer: buf}, nil
}

// NewDictionaryColumn builds a Dictionary column over backing, selected
// by sel. It enforces the invariant `max(selection) < backing_length`.
func NewDictionaryColumn(backing *Column, sel SelectionIndex) (*Column, error) {
	if backing.Layout != Flat {
		return nil, coreerr.New(coreerr.InvalidInput, "dictionary backing column must be Flat, got %s", backing.Layout)
	}
	if int(sel.Max()) >= backing.Buffer.Len() {
		return nil, coreerr.New(coreerr.InvalidInput, "dictionary selection index %d out of range for backing length %d", sel.Max(), backing.Buffer.Len())
	}
	return &Column{Kind: backing.Kind, Layout: Dictionary, N: sel.Len(), Backing: backing, Selection: sel}, nil
}

// NewSequenceColumn builds a Sequence column of n rows: start, start+step,
// ..., start+(n-1)*step.
func NewSequenceColumn(start, step int64, n int) *Column {
	return &Column{Kind: KindInt64, Layout: Sequence, N: n, SeqStart: start, SeqStep: step}
}

// CheckInvariants validates the spec.md §8 per-column invariants that can
// be checked cheaply: validity/row-count agreement, dictionary selection
// bounds, and list cell bounds against the child column.
func (c *Column) CheckInvariants() error {
	switch c.Layout {
	case Flat:
		if c.Buffer.Len() != c.N {
			return coreerr.New(coreerr.Internal, "flat column buffer has %d cells, want %d", c.Buffer.Len(), c.N)
		}
		if c.Buffer.Validity.Len() != c.N {
			return coreerr.New(coreerr.Internal, "flat column validity covers %d rows, want %d", c.Buffer.Validity.Len(), c.N)
		}
		if got := c.Buffer.Validity.PopCount() + c.Buffer.Validity.NullCount(); got != c.N {
			return coreerr.New(coreerr.Internal, "popcount+nullcount = %d, want %d", got, c.N)
		}
		if c.Kind == KindList {
			return c.checkListBounds()
		}
	case Constant:
		if c.Buffer.Len() != 1 {
			return coreerr.New(coreerr.Internal, "constant column buffer holds %d cells, want 1", c.Buffer.Len())
		}
	case Dictionary:
		if c.Selection.Len() != c.N {
			return coreerr.New(coreerr.Internal, "dictionary selection length %d != N %d", c.Selection.Len(), c.N)
		}
		if int(c.Selection.Max()) >= c.Backing.Buffer.Len() {
			return coreerr.New(coreerr.Internal, "dictionary selection max %d >= backing length %d", c.Selection.Max(), c.Backing.Buffer.Len())
		}
	case Sequence:
		// materialized on demand; no stored state to check beyond N >= 0
		if c.N < 0 {
			return coreerr.New(coreerr.Internal, "sequence column has negative row count %d", c.N)
		}
	}
	return nil
}

func (c *Column) checkListBounds() error {
	child := c.Buffer.Child
	if child == nil {
		return coreerr.New(coreerr.Internal, "list column missing child column")
	}
	childLen := childCellCount(child)
	for _, cell := range c.Buffer.Lists {
		if cell.Offset < 0 || int64(cell.Offset)+int64(cell.Length) > int64(childLen) {
			return coreerr.New(coreerr.Internal, "list cell [%d,%d) out of child bounds [0,%d)", cell.Offset, cell.Offset+cell.Length, childLen)
		}
	}
	return nil
}

func childCellCount(c *Column) int {
	switch c.Layout {
	case Flat, Constant:
		return c.Buffer.Len()
	case Dictionary:
		return c.Backing.Buffer.Len()
	case Sequence:
		return c.N
	default:
		return 0
	}
}
