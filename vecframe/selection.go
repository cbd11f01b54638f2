package vecframe

// SelectionIndex is the reusable integer index list described in spec.md
// §3/§4.1: it realizes filters without copying, expresses dictionary
// decoding (selection[i] -> backing row), and drives gather steps in the
// sort and (future) hash join paths. A SelectionIndex is monotonically
// owned: once built it is treated as immutable and may be shared by
// multiple columns (e.g. a dictionary's selection reused across a filter
// chain).
type SelectionIndex struct {
	rows []int32
}

// NewSelection wraps an existing []int32 as a SelectionIndex without
// copying; the caller transfers ownership.
func NewSelection(rows []int32) SelectionIndex {
	return SelectionIndex{rows: rows}
}

// Identity returns the selection [0, 1, ..., n-1], used by the Flat
// layout's unified view.
func Identity(n int) SelectionIndex {
	rows := make([]int32, n)
	for i := range rows {
		rows[i] = int32(i)
	}
	return SelectionIndex{rows: rows}
}

// Constant returns a selection of length n whose every entry is row,
// used by the Constant layout's unified view (row is always 0).
func Constant(n int, row int32) SelectionIndex {
	rows := make([]int32, n)
	for i := range rows {
		rows[i] = row
	}
	return SelectionIndex{rows: rows}
}

// Len returns the number of logical rows this selection covers.
func (s SelectionIndex) Len() int { return len(s.rows) }

// At returns the physical row for logical row i.
func (s SelectionIndex) At(i int) int32 { return s.rows[i] }

// Raw exposes the backing slice for callers (e.g. SortCore's gather step)
// that need direct access without bounds-checked calls per element.
func (s SelectionIndex) Raw() []int32 { return s.rows }

// Max returns the largest physical row referenced, or -1 if empty. Used
// to check the Dictionary invariant `max(selection) < backing_length`.
func (s SelectionIndex) Max() int32 {
	max := int32(-1)
	for _, r := range s.rows {
		if r > max {
			max = r
		}
	}
	return max
}

// Gather builds a new SelectionIndex by composing this selection with an
// inner one: result[i] = s.At(inner.At(i)). This is how a dictionary
// column is further filtered or sliced without touching the backing
// column.
func (s SelectionIndex) Gather(inner SelectionIndex) SelectionIndex {
	out := make([]int32, inner.Len())
	for i, r := range inner.rows {
		out[i] = s.rows[r]
	}
	return SelectionIndex{rows: out}
}
