package vecframe

// ValueBuffer is the fixed-width storage for one column's physical cells
// plus its validity mask (spec.md §4 "ValueBuffer"). Exactly one of the
// typed slices below is populated, selected by Kind; this is the "tagged
// variant, not open-ended inheritance" design called out in spec.md §9.
//
// For a Flat column the slices have length N (one cell per row). For a
// Constant column they have length 1 (the single repeated cell).
type ValueBuffer struct {
	Kind     Kind
	Validity Validity

	Bools    []bool
	Int64s   []int64
	Float64s []float64
	Strings  []StringCell
	Lists    []ListCell

	// Arena backs Strings cells that overflow their inline capacity.
	// Present only for Kind == KindString.
	Arena *Arena

	// Child holds the concatenated elements referenced by Lists cells.
	// Present only for Kind == KindList; outlives the parent the way a
	// dictionary's backing column does (spec.md §3 "Lifecycle").
	Child *Column
}

// Len returns the number of physical cells stored (N for Flat, 1 for
// Constant).
func (b *ValueBuffer) Len() int {
	switch b.Kind {
	case KindBool:
		return len(b.Bools)
	case KindInt64:
		return len(b.Int64s)
	case KindFloat64:
		return len(b.Float64s)
	case KindString:
		return len(b.Strings)
	case KindList:
		return len(b.Lists)
	default:
		return 0
	}
}

// NewFlatBuffer allocates a ValueBuffer with n physical cells of kind k,
// all initially valid.
func NewFlatBuffer(k Kind, n int) *ValueBuffer {
	b := &ValueBuffer{Kind: k, Validity: NewValidity(n)}
	switch k {
	case KindBool:
		b.Bools = make([]bool, n)
	case KindInt64:
		b.Int64s = make([]int64, n)
	case KindFloat64:
		b.Float64s = make([]float64, n)
	case KindString:
		b.Strings = make([]StringCell, n)
		b.Arena = NewArena(n * shortStringLen)
	case KindList:
		b.Lists = make([]ListCell, n)
	}
	return b
}
