package vecframe

import "github.com/vectorlattice/vecql/coreerr"

// UnifiedView is the layout-agnostic (data, validity, selection) triple
// every physical layout collapses to (spec.md §4.1). Selection[i] gives
// the physical row in Base for logical row i; Flat uses the identity
// selection, Constant the all-zero selection, Dictionary its stored
// selection, and Sequence a materialized scratch buffer with an identity
// selection.
type UnifiedView struct {
	Kind      Kind
	N         int
	Base      *ValueBuffer
	Selection SelectionIndex
}

func (v UnifiedView) physicalRow(i int) int { return int(v.Selection.At(i)) }

// IsValid reports whether logical row i is non-null.
func (v UnifiedView) IsValid(i int) bool {
	return v.Base.Validity.IsValid(v.physicalRow(i))
}

func (v UnifiedView) Bool(i int) bool       { return v.Base.Bools[v.physicalRow(i)] }
func (v UnifiedView) Int64(i int) int64     { return v.Base.Int64s[v.physicalRow(i)] }
func (v UnifiedView) Float64(i int) float64 { return v.Base.Float64s[v.physicalRow(i)] }

// String returns row i's bytes, reading through the arena if needed.
func (v UnifiedView) String(i int) []byte {
	cell := v.Base.Strings[v.physicalRow(i)]
	return cell.Bytes(v.Base.Arena)
}

// List returns row i's (offset, length) cell plus the child column
// holding its elements.
func (v UnifiedView) List(i int) (ListCell, *Column) {
	return v.Base.Lists[v.physicalRow(i)], v.Base.Child
}

// MaterializeUnified builds the unified view for column, asserting its
// row count matches n (spec.md §4.1 contract `materialize_unified(column,
// N) -> UnifiedView`).
func MaterializeUnified(column *Column, n int) (UnifiedView, error) {
	if column.N != n {
		return UnifiedView{}, coreerr.New(coreerr.Internal, "column has %d rows, requested view of %d", column.N, n)
	}
	switch column.Layout {
	case Flat:
		return UnifiedView{Kind: column.Kind, N: n, Base: column.Buffer, Selection: Identity(n)}, nil
	case Constant:
		return UnifiedView{Kind: column.Kind, N: n, Base: column.Buffer, Selection: Constant(n, 0)}, nil
	case Dictionary:
		return UnifiedView{Kind: column.Kind, N: n, Base: column.Backing.Buffer, Selection: column.Selection}, nil
	case Sequence:
		scratch := NewFlatBuffer(KindInt64, n)
		for i := 0; i < n; i++ {
			scratch.Int64s[i] = column.SeqStart + int64(i)*column.SeqStep
		}
		return UnifiedView{Kind: KindInt64, N: n, Base: scratch, Selection: Identity(n)}, nil
	default:
		return UnifiedView{}, coreerr.New(coreerr.Internal, "unknown layout %d", column.Layout)
	}
}

// Flatten forces column into the Flat layout, the only layout conversion
// operators may request per the §4.1 contract. Layout conversion is
// infallible given a well-formed column (spec.md §4.1 "Failure"); a
// malformed column is a programming error, not recovered from: a
// mismatched N is reported via coreerr.Internal, and an out-of-range
// selection entry panics on access.
func Flatten(column *Column, n int) (*Column, error) {
	if column.Layout == Flat {
		return column, nil
	}
	view, err := MaterializeUnified(column, n)
	if err != nil {
		return nil, err
	}
	out := NewFlatBuffer(column.Kind, n)
	for i := 0; i < n; i++ {
		valid := view.IsValid(i)
		out.Validity.SetValid(i, valid)
		if !valid {
			continue
		}
		switch column.Kind {
		case KindBool:
			out.Bools[i] = view.Bool(i)
		case KindInt64:
			out.Int64s[i] = view.Int64(i)
		case KindFloat64:
			out.Float64s[i] = view.Float64(i)
		case KindString:
			out.Strings[i] = NewStringCell(view.String(i), out.Arena)
		case KindList:
			cell, child := view.List(i)
			if out.Child == nil {
				out.Child = child
			} else if out.Child != child {
				return nil, coreerr.New(coreerr.Conversion, "flatten: dictionary list column references more than one child column")
			}
			out.Lists[i] = cell
		}
	}
	return NewFlatColumn(out, n), nil
}
