package aggfn

import (
	"bytes"

	"github.com/vectorlattice/vecql/vecframe"
)

func init() {
	Default.Register(&Descriptor{Name: "count", New: func() State { return &countState{} }})
	Default.Register(&Descriptor{Name: "sum", New: func() State { return &sumState{} }})
	Default.Register(&Descriptor{Name: "min", New: func() State { return newMinMaxState(true) }})
	Default.Register(&Descriptor{Name: "max", New: func() State { return newMinMaxState(false) }})
	Default.Register(&Descriptor{Name: "first", New: func() State { return &valueState{} }})
	Default.Register(&Descriptor{Name: "last", New: func() State { return &valueState{} }})
	Default.Register(&Descriptor{Name: "any_value", New: func() State { return &valueState{} }})
}

// valueState is the inner aggregate aggstate.CompareAggregator drives for
// first/last/any_value: it has no accumulation logic of its own, it just
// holds the single value it was given. Row selection (which candidate's
// value this ends up holding) is entirely CompareAggregator's job, driven
// by sort order and, for any_value, its skipNull flag — by the time
// valueState.Update is called there is exactly one retained candidate row,
// so every kind needs no more than "remember this cell."
type valueState struct {
	seen bool
	null bool
	kind vecframe.Kind
	i64  int64
	f64  float64
	b    bool
	str  []byte
}

func (s *valueState) Update(view vecframe.UnifiedView, row int) {
	s.kind = view.Kind
	s.seen = true
	s.null = !view.IsValid(row)
	if s.null {
		return
	}
	switch s.kind {
	case vecframe.KindString:
		s.str = append([]byte(nil), view.String(row)...)
	case vecframe.KindFloat64:
		s.f64 = view.Float64(row)
	case vecframe.KindBool:
		s.b = view.Bool(row)
	default:
		s.i64 = view.Int64(row)
	}
}

// Combine is never called by CompareAggregator, which merges at the key
// level via its own Combine and only ever re-finalizes one retained
// valueState; it is provided so valueState satisfies State for any other
// caller that treats first/last/any_value as an ordinary aggregate.
func (s *valueState) Combine(o State) {
	other := o.(*valueState)
	if other.seen {
		*s = *other
	}
}

func (s *valueState) Finalize() (any, bool) {
	if !s.seen || s.null {
		return nil, true
	}
	switch s.kind {
	case vecframe.KindString:
		return s.str, false
	case vecframe.KindFloat64:
		return s.f64, false
	case vecframe.KindBool:
		return s.b, false
	default:
		return s.i64, false
	}
}

// countState counts non-null input rows (spec.md §6 count(x), with count(*)
// obtained by feeding an all-valid column).
type countState struct {
	n int64
}

func (s *countState) Update(view vecframe.UnifiedView, row int) {
	if view.IsValid(row) {
		s.n++
	}
}

func (s *countState) Combine(other State) { s.n += other.(*countState).n }

func (s *countState) Finalize() (any, bool) { return s.n, false }

// sumState accumulates a running float64 sum; null input rows are skipped,
// and an all-null group finalizes to SQL null rather than zero.
type sumState struct {
	sum  float64
	seen bool
}

func (s *sumState) Update(view vecframe.UnifiedView, row int) {
	if !view.IsValid(row) {
		return
	}
	s.sum += cellFloat64(view, row)
	s.seen = true
}

func (s *sumState) Combine(o State) {
	other := o.(*sumState)
	if !other.seen {
		return
	}
	s.sum += other.sum
	s.seen = true
}

func (s *sumState) Finalize() (any, bool) {
	if !s.seen {
		return nil, true
	}
	return s.sum, false
}

// minMaxState tracks the running minimum (or maximum) non-null value seen,
// comparing int64/float64 numerically and strings lexicographically.
type minMaxState struct {
	isMin bool
	seen  bool
	kind  vecframe.Kind
	i64   int64
	f64   float64
	str   []byte
}

func newMinMaxState(isMin bool) *minMaxState { return &minMaxState{isMin: isMin} }

func (s *minMaxState) Update(view vecframe.UnifiedView, row int) {
	if !view.IsValid(row) {
		return
	}
	s.kind = view.Kind
	switch s.kind {
	case vecframe.KindString:
		v := view.String(row)
		if !s.seen || (s.isMin && bytes.Compare(v, s.str) < 0) || (!s.isMin && bytes.Compare(v, s.str) > 0) {
			s.str = append([]byte(nil), v...)
		}
	case vecframe.KindFloat64:
		v := view.Float64(row)
		if !s.seen || (s.isMin && v < s.f64) || (!s.isMin && v > s.f64) {
			s.f64 = v
		}
	default:
		v := view.Int64(row)
		if !s.seen || (s.isMin && v < s.i64) || (!s.isMin && v > s.i64) {
			s.i64 = v
		}
	}
	s.seen = true
}

func (s *minMaxState) Combine(o State) {
	other := o.(*minMaxState)
	if !other.seen {
		return
	}
	if !s.seen {
		*s = *other
		return
	}
	s.kind = other.kind
	switch s.kind {
	case vecframe.KindString:
		if (s.isMin && bytes.Compare(other.str, s.str) < 0) || (!s.isMin && bytes.Compare(other.str, s.str) > 0) {
			s.str = other.str
		}
	case vecframe.KindFloat64:
		if (s.isMin && other.f64 < s.f64) || (!s.isMin && other.f64 > s.f64) {
			s.f64 = other.f64
		}
	default:
		if (s.isMin && other.i64 < s.i64) || (!s.isMin && other.i64 > s.i64) {
			s.i64 = other.i64
		}
	}
}

func (s *minMaxState) Finalize() (any, bool) {
	if !s.seen {
		return nil, true
	}
	switch s.kind {
	case vecframe.KindString:
		return s.str, false
	case vecframe.KindFloat64:
		return s.f64, false
	default:
		return s.i64, false
	}
}

func cellFloat64(view vecframe.UnifiedView, row int) float64 {
	if view.Kind == vecframe.KindFloat64 {
		return view.Float64(row)
	}
	return float64(view.Int64(row))
}
