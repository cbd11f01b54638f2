package sortcore

import (
	"github.com/vectorlattice/vecql/internal/radixsort"
	"github.com/vectorlattice/vecql/vecframe"
)

// ColumnSpec describes how one ORDER BY column contributes to a row's
// radix-comparable key (spec.md §4.3 "Row layout"). PrefixLen is only
// meaningful when Kind is KindString.
type ColumnSpec struct {
	Name       string
	Kind       vecframe.Kind
	Desc       bool
	NullsFirst bool
	PrefixLen  int
}

func (s ColumnSpec) valueWidth() int {
	switch s.Kind {
	case vecframe.KindBool:
		return radixsort.BoolWidth
	case vecframe.KindInt64:
		return radixsort.Int64Width
	case vecframe.KindFloat64:
		return radixsort.Float64Width
	case vecframe.KindString:
		return s.PrefixLen
	default:
		return 0
	}
}

func (s ColumnSpec) width() int { return radixsort.NullByteWidth + s.valueWidth() }

// KeyLayout is the fixed-width packing of a row's sort-key columns,
// computed once per SortCore instance.
type KeyLayout struct {
	Specs []ColumnSpec
	Width int
}

// NewKeyLayout computes column offsets and the total row-key width for
// specs, in the order given.
func NewKeyLayout(specs []ColumnSpec) KeyLayout {
	w := 0
	for _, s := range specs {
		w += s.width()
	}
	return KeyLayout{Specs: specs, Width: w}
}

// Encode writes row's key into dst (len(dst) == kl.Width), reading each
// key column through its unified view. views must be parallel to kl.Specs.
// A null key column zero-fills its value bytes after the null-order byte
// so that two nulls in the same column always compare equal.
func (kl KeyLayout) Encode(dst []byte, views []vecframe.UnifiedView, row int) {
	off := 0
	for i, s := range kl.Specs {
		v := views[i]
		isNull := !v.IsValid(row)
		radixsort.EncodeNullByte(dst[off:off+radixsort.NullByteWidth], isNull, s.NullsFirst)
		off += radixsort.NullByteWidth
		vw := s.valueWidth()
		if isNull {
			for j := 0; j < vw; j++ {
				dst[off+j] = 0
			}
			off += vw
			continue
		}
		switch s.Kind {
		case vecframe.KindBool:
			radixsort.EncodeBool(dst[off:off+vw], v.Bool(row), s.Desc)
		case vecframe.KindInt64:
			radixsort.EncodeInt64(dst[off:off+vw], v.Int64(row), s.Desc)
		case vecframe.KindFloat64:
			radixsort.EncodeFloat64(dst[off:off+vw], v.Float64(row), s.Desc)
		case vecframe.KindString:
			radixsort.EncodeStringPrefix(dst[off:off+vw], v.String(row), vw, s.Desc)
		}
		off += vw
	}
}

// MaterializeViews builds the unified views for a batch of columns bound
// to this layout's specs, in spec order.
func MaterializeViews(cols []*vecframe.Column, n int) ([]vecframe.UnifiedView, error) {
	views := make([]vecframe.UnifiedView, len(cols))
	for i, c := range cols {
		v, err := vecframe.MaterializeUnified(c, n)
		if err != nil {
			return nil, err
		}
		views[i] = v
	}
	return views, nil
}
