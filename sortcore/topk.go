package sortcore

import (
	"bytes"

	"github.com/vectorlattice/vecql/heap"
	"github.com/vectorlattice/vecql/internal/radixsort"
)

// TopK is the bounded fast path for `ORDER BY ... LIMIT k`: rather than
// sorting every row through a full BUILD/MERGE/SCAN pass, it keeps only
// the k least rows seen so far in a bounded max-heap (ordered so the
// current worst-of-the-retained-k sits at the root, ready to be evicted
// by anything smaller). Adapted from the engine's own k-top sort, with
// the Ion-record comparator replaced by a plain radix-key bytes.Compare
// and the container/heap usage replaced by the generic slice-heap helpers
// SortCore's merge step already uses.
type TopK struct {
	limit int
	rows  []radixsort.Row
}

// NewTopK returns an empty TopK retaining at most limit rows.
func NewTopK(limit int) *TopK { return &TopK{limit: limit} }

func topKLess(a, b radixsort.Row) bool { return bytes.Compare(a.Key, b.Key) > 0 }

// Add offers row to the collection. It is kept if fewer than limit rows
// have been retained yet, or if it compares less than the worst
// currently-retained row (which is then evicted). Returns whether row was
// retained.
func (k *TopK) Add(row radixsort.Row) bool {
	if len(k.rows) < k.limit {
		heap.PushSlice(&k.rows, row, topKLess)
		return true
	}
	if k.limit == 0 {
		return false
	}
	if bytes.Compare(row.Key, k.rows[0].Key) < 0 {
		k.rows[0] = row
		heap.FixSlice(k.rows, 0, topKLess)
		return true
	}
	return false
}

// Merge absorbs another TopK's retained rows, used to combine per-thread
// partial top-k results the way Absorb combines OrderedAggregator group
// states.
func (k *TopK) Merge(o *TopK) {
	for _, row := range o.rows {
		k.Add(row)
	}
}

// Len returns the number of rows currently retained.
func (k *TopK) Len() int { return len(k.rows) }

// Capture returns the retained rows sorted ascending by key, draining the
// TopK back to empty.
func (k *TopK) Capture() []radixsort.Row {
	out := make([]radixsort.Row, len(k.rows))
	for i := len(k.rows) - 1; i >= 0; i-- {
		out[i] = heap.PopSlice(&k.rows, topKLess)
	}
	return out
}
