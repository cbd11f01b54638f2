// Package aggstate implements the per-group buffering and fast-path
// aggregation strategies described in spec.md §4.4/§4.5: OrderedAggregator
// buffers each group's rows, sorted by the aggregate's ORDER BY columns,
// until finalize; CompareAggregator skips buffering entirely for the
// single-row aggregates (first/last/any_value/arbitrary) that only need a
// running best-key comparison.
package aggstate

import (
	"github.com/vectorlattice/vecql/sortcore"
	"github.com/vectorlattice/vecql/vecframe"
)

// Tier reports which of the three backing storages (spec.md §4.4) a
// group's buffer has grown into. It is bookkeeping only: the actual
// storage is always a sortcore.LocalState, which already behaves like the
// tiered design (cheap in-place growth while small, spillable runs once
// large) without needing three distinct implementations.
type Tier int

const (
	TierLinkedList Tier = iota
	TierChunk
	TierCollection
)

func (t Tier) String() string {
	switch t {
	case TierLinkedList:
		return "linked-list"
	case TierChunk:
		return "chunk"
	case TierCollection:
		return "collection"
	default:
		return "unknown tier"
	}
}

// Capacity thresholds from spec.md §4.4's tier table; crossing one
// reports the group as promoted, though the underlying LocalState does
// not change representation at these boundaries.
const (
	linkedListCapacity = 16
	chunkCapacity      = 2048
)

// GroupState is one group's buffered, not-yet-sorted rows: the sort-key
// columns (the aggregate's ORDER BY list) paired with its argument
// columns, accumulated via a sortcore.LocalState. Promotion is irreversible
// (spec.md §4.4): highTier only ever increases.
type GroupState struct {
	local    *sortcore.LocalState
	highTier Tier
}

// NewGroupState returns an empty group buffer keyed by layout (the
// ORDER BY columns) with argument rows of payloadWidth bytes, flushing a
// sorted block every blockRows accumulated rows.
func NewGroupState(layout sortcore.KeyLayout, payloadWidth, blockRows int) *GroupState {
	return &GroupState{local: sortcore.NewLocalState(layout, payloadWidth, blockRows)}
}

// Tier reports the group's current (irreversibly highest-reached) tier,
// derived from its accumulated row count.
func (g *GroupState) Tier() Tier {
	n := g.local.RowCount()
	switch {
	case n > chunkCapacity:
		g.highTier = TierCollection
	case n > linkedListCapacity && g.highTier < TierChunk:
		g.highTier = TierChunk
	}
	return g.highTier
}

// RowCount returns the number of rows buffered for this group so far.
func (g *GroupState) RowCount() int { return g.local.RowCount() }

// Add ingests n rows (the group's ORDER BY columns plus enc, its argument
// encoder bound to the same rows) into the buffer.
func (g *GroupState) Add(orderCols []*vecframe.Column, n int, enc sortcore.Encoder) error {
	return g.local.AddBatch(orderCols, n, enc)
}

// Flush hands off every run this group has accumulated, resetting the
// group to empty. Used by OrderedAggregator.Finalize to drain a group
// into its own independent sort.
func (g *GroupState) Flush() []*sortcore.Run { return g.local.Flush() }

// Absorb merges other's buffered rows into g (spec.md §4.4 "Absorb"),
// promoting g to the higher of the two groups' tiers. other is left
// empty.
func (g *GroupState) Absorb(other *GroupState) {
	if other.highTier > g.highTier {
		g.highTier = other.highTier
	}
	g.local.AdoptRuns(other.Flush())
}
