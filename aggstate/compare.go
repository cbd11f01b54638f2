package aggstate

import (
	"bytes"

	"github.com/vectorlattice/vecql/aggfn"
	"github.com/vectorlattice/vecql/sortcore"
	"github.com/vectorlattice/vecql/vecframe"
)

// CompareAggregator is the fast path for order-dependent single-row
// aggregates (first, last, any_value/arbitrary) described in spec.md
// §4.5: rather than buffering and sorting every row, each update computes
// the candidate row's radix key and keeps only the best-seen row, so
// there is no buffer to spill and no merge pass at all.
//
// It requires the sort key layout to be entirely fixed-width, which
// sortcore.KeyLayout already guarantees for every ColumnSpec kind this
// engine supports (bool/int64/float64/string-prefix all have a static
// byte width) — so unlike the original design there is no runtime
// fallback to OrderedAggregator to implement; the fixed-width requirement
// always holds.
type CompareAggregator struct {
	inner    aggfn.State
	layout   sortcore.KeyLayout
	innerFn  *aggfn.Descriptor
	skipNull bool // any_value/arbitrary: ignore null candidates

	haveKey bool
	key     []byte
}

// NewCompareAggregator builds a CompareAggregator selecting the row whose
// sort key compares least under layout. skipNull implements any_value's
// "skip null candidates" rule (spec.md §4.5).
func NewCompareAggregator(fn *aggfn.Descriptor, layout sortcore.KeyLayout, skipNull bool) *CompareAggregator {
	return &CompareAggregator{inner: fn.New(), layout: layout, innerFn: fn, skipNull: skipNull, key: make([]byte, layout.Width)}
}

// Update considers one candidate row: if its sort key compares less than
// the retained key, the retained key and inner aggregate state are
// overwritten with this row (spec.md §4.5 "first vs last": implemented
// uniformly as last with the sort order inverted at bind time, so a
// smaller key always wins here).
func (c *CompareAggregator) Update(keyViews []vecframe.UnifiedView, argView vecframe.UnifiedView, row int) {
	if c.skipNull && !argView.IsValid(row) {
		return
	}
	candidate := make([]byte, c.layout.Width)
	c.layout.Encode(candidate, keyViews, row)
	if c.haveKey && bytes.Compare(candidate, c.key) >= 0 {
		return
	}
	c.key = candidate
	c.haveKey = true
	c.inner = c.innerFn.New()
	c.inner.Update(argView, row)
}

// Combine takes the smaller key of the two states (spec.md §4.5
// "Combine takes the smaller key of the two states").
func (c *CompareAggregator) Combine(other *CompareAggregator) {
	if !other.haveKey {
		return
	}
	if !c.haveKey || bytes.Compare(other.key, c.key) < 0 {
		c.key = other.key
		c.haveKey = true
		c.inner = other.inner
	}
}

// Finalize dispatches to the inner aggregate's finalize on the retained
// state (spec.md §4.5 "Finalize").
func (c *CompareAggregator) Finalize() (any, bool) {
	return c.inner.Finalize()
}
