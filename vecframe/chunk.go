package vecframe

import "github.com/vectorlattice/vecql/coreerr"

// Chunk is a horizontally aligned set of columns sharing a row count: the
// unit of execution (spec.md §3). Column layouts within a Chunk are
// independent of one another.
type Chunk struct {
	N       int
	Names   []string
	Columns []*Column

	// Arena is the chunk-scoped arena new string columns created while
	// processing this chunk should allocate from, so their bytes share
	// this chunk's lifetime.
	Arena *Arena
}

// NewChunk returns an empty Chunk sized for n rows.
func NewChunk(n int) *Chunk {
	return &Chunk{N: n, Arena: NewArena(0)}
}

// AddColumn appends a named column, verifying its row count matches the
// chunk's cardinality (spec.md §3 "a chunk is never partially filled at
// row count boundaries; N is the single cardinality").
func (c *Chunk) AddColumn(name string, col *Column) error {
	if col.N != c.N {
		return coreerr.New(coreerr.Internal, "column %q has %d rows, chunk cardinality is %d", name, col.N, c.N)
	}
	c.Names = append(c.Names, name)
	c.Columns = append(c.Columns, col)
	return nil
}

// Column returns the column named name, or nil if absent.
func (c *Chunk) Column(name string) *Column {
	for i, n := range c.Names {
		if n == name {
			return c.Columns[i]
		}
	}
	return nil
}

// Reset clears the chunk for reuse between batches without releasing its
// backing arrays (spec.md §3 "Lifecycle": "cleared (not freed) between
// batches").
func (c *Chunk) Reset() {
	c.N = 0
	c.Names = c.Names[:0]
	c.Columns = c.Columns[:0]
	c.Arena.Reset()
}

// CheckInvariants validates every column's per-column invariants.
func (c *Chunk) CheckInvariants() error {
	for i, col := range c.Columns {
		if err := col.CheckInvariants(); err != nil {
			return coreerr.Wrap(coreerr.Internal, err, "column %q", c.Names[i])
		}
	}
	return nil
}
