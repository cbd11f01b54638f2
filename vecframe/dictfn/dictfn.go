// Package dictfn collects the dictionary-layout-aware helpers that route
// arbitrary row subsets to consumers without copying cell storage: given a
// SelectionIndex, project a set of columns into Dictionary-layout views over
// just the selected rows. vecframe's own SelectionIndex/Column primitives
// already carry the mechanics (spec.md §3/§4.1); this package is the
// reusable call site so joins and filters share one implementation instead
// of each hand-rolling the Flatten-then-NewDictionaryColumn sequence, the
// way the teacher's vm/selector.go centralizes its own projection step
// rather than leaving every operator to re-derive it.
package dictfn

import "github.com/vectorlattice/vecql/vecframe"

// Project builds one Dictionary-layout column per entry in cols, each
// selecting sel's rows out of the corresponding input column. n is the
// logical row count of the input columns (needed to flatten Constant or
// Sequence layouts before a selection can be applied to them).
//
// For Flat inputs the returned columns alias cols' underlying cell
// storage and only the per-column selection is new; inputs in any other
// layout are first flattened into new storage.
func Project(cols []*vecframe.Column, n int, sel vecframe.SelectionIndex) ([]*vecframe.Column, error) {
	out := make([]*vecframe.Column, len(cols))
	for i, c := range cols {
		flat, err := vecframe.Flatten(c, n)
		if err != nil {
			return nil, err
		}
		dict, err := vecframe.NewDictionaryColumn(flat, sel)
		if err != nil {
			return nil, err
		}
		out[i] = dict
	}
	return out, nil
}

// Restrict is Project for a single column, the common case of narrowing one
// argument column down to the rows a filter or join probe selected.
func Restrict(c *vecframe.Column, n int, sel vecframe.SelectionIndex) (*vecframe.Column, error) {
	flat, err := vecframe.Flatten(c, n)
	if err != nil {
		return nil, err
	}
	return vecframe.NewDictionaryColumn(flat, sel)
}

// Partition splits rows [0, n) into groups according to key, returning each
// group's rows as a SelectionIndex in first-encounter order of key. This is
// the scatter step a hash join or a GROUP BY probe needs before calling
// Project per group.
func Partition(n int, key func(row int) string) (order []string, groups map[string]vecframe.SelectionIndex) {
	byKey := make(map[string][]int32)
	order = make([]string, 0)
	for row := 0; row < n; row++ {
		k := key(row)
		if _, ok := byKey[k]; !ok {
			order = append(order, k)
		}
		byKey[k] = append(byKey[k], int32(row))
	}
	groups = make(map[string]vecframe.SelectionIndex, len(byKey))
	for k, rows := range byKey {
		groups[k] = vecframe.NewSelection(rows)
	}
	return order, groups
}
