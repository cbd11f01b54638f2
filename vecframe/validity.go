package vecframe

import "math/bits"

// Validity is an N-bit nullability mask: bit i set means row i is valid
// (non-null). It is the mechanism by which "exactly one of valid/null
// holds" (spec.md §3 invariants) is derived in O(1).
type Validity struct {
	words []uint64
	n     int
}

// NewValidity returns a Validity for n rows, all initially valid. This
// matches the common case where most columns have no nulls and avoids a
// caller having to set every bit explicitly.
func NewValidity(n int) Validity {
	v := Validity{words: make([]uint64, wordsFor(n)), n: n}
	for i := range v.words {
		v.words[i] = ^uint64(0)
	}
	v.maskTail()
	return v
}

// NewValidityAllNull returns a Validity for n rows, all initially null.
func NewValidityAllNull(n int) Validity {
	return Validity{words: make([]uint64, wordsFor(n)), n: n}
}

func wordsFor(n int) int { return (n + 63) / 64 }

// maskTail clears any bits past n in the final word so PopCount is exact
// even though the backing slice is word-granular.
func (v *Validity) maskTail() {
	if v.n%64 == 0 || len(v.words) == 0 {
		return
	}
	last := len(v.words) - 1
	valid := uint(v.n % 64)
	v.words[last] &= (uint64(1) << valid) - 1
}

// Len returns the number of rows this mask covers.
func (v Validity) Len() int { return v.n }

// IsValid reports whether row i is non-null.
func (v Validity) IsValid(i int) bool {
	return v.words[i/64]&(uint64(1)<<(uint(i)%64)) != 0
}

// SetValid sets the validity bit for row i.
func (v Validity) SetValid(i int, valid bool) {
	w, b := i/64, uint(i)%64
	if valid {
		v.words[w] |= uint64(1) << b
	} else {
		v.words[w] &^= uint64(1) << b
	}
}

// PopCount returns the number of valid (non-null) rows.
func (v Validity) PopCount() int {
	n := 0
	for _, w := range v.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// NullCount returns the number of null rows; PopCount()+NullCount()==Len()
// always holds (spec.md §8 invariant).
func (v Validity) NullCount() int { return v.n - v.PopCount() }

// Clone returns an independent copy of v.
func (v Validity) Clone() Validity {
	w := make([]uint64, len(v.words))
	copy(w, v.words)
	return Validity{words: w, n: v.n}
}

// Slice returns the validity mask restricted to rows [lo, hi), as a fresh
// Validity of length hi-lo.
func (v Validity) Slice(lo, hi int) Validity {
	out := NewValidityAllNull(hi - lo)
	for i := lo; i < hi; i++ {
		out.SetValid(i-lo, v.IsValid(i))
	}
	return out
}
