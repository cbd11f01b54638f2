package sortcore

import (
	"bytes"

	"github.com/vectorlattice/vecql/heap"
	"github.com/vectorlattice/vecql/internal/radixsort"
)

// cursor tracks one input run's current row during a k-way merge pass.
type cursor struct {
	it  *RunIterator
	row radixsort.Row
}

func lessCursor(a, b *cursor) bool {
	return bytes.Compare(a.row.Key, b.row.Key) < 0
}

// mergeRuns performs one k-way merge pass over runs, appending rows in
// sorted order to sink. This is MERGE's "read k runs and write one" step
// (spec.md §4.3); the caller chooses how many runs to pass based on the
// configured fan-in.
func mergeRuns(runs []*Run, sink func(radixsort.Row) error) error {
	cursors := make([]*cursor, 0, len(runs))
	defer func() {
		for _, c := range cursors {
			c.it.Close()
		}
	}()

	for _, r := range runs {
		it := r.Iterator()
		row, ok, err := it.Next()
		if err != nil {
			return err
		}
		if !ok {
			it.Close()
			continue
		}
		cursors = append(cursors, &cursor{it: it, row: row})
	}
	heap.OrderSlice(cursors, lessCursor)

	for len(cursors) > 0 {
		top := cursors[0]
		if err := sink(top.row); err != nil {
			return err
		}
		next, ok, err := top.it.Next()
		if err != nil {
			return err
		}
		if !ok {
			top.it.Close()
			heap.PopSlice(&cursors, lessCursor)
			continue
		}
		top.row = next
		heap.FixSlice(cursors, 0, lessCursor)
	}
	return nil
}
