package radixsort

import (
	"bytes"

	"golang.org/x/exp/slices"
)

// Row is one BUILD-phase row: a fixed-width radix key and a fixed-width
// payload, each in its own byte slice.
type Row struct {
	Key     []byte
	Payload []byte
}

// SortBlock sorts rows in place by Key using byte-lexicographic order,
// the in-cache sort step of BUILD (spec.md §4.3). It is a comparison sort
// (pattern-defeating quicksort behind slices.SortFunc, with insertion sort
// for short ranges); there is no separate radix pass.
func SortBlock(rows []Row) {
	slices.SortFunc(rows, func(a, b Row) bool {
		return bytes.Compare(a.Key, b.Key) < 0
	})
}

// IsSorted reports whether rows is non-decreasing by Key, used by tests
// checking SortCore's "adjacent output rows compare non-decreasing"
// invariant (spec.md §8).
func IsSorted(rows []Row) bool {
	for i := 1; i < len(rows); i++ {
		if bytes.Compare(rows[i-1].Key, rows[i].Key) > 0 {
			return false
		}
	}
	return true
}
