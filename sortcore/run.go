package sortcore

import (
	"github.com/vectorlattice/vecql/coreerr"
	"github.com/vectorlattice/vecql/internal/radixsort"
	"github.com/vectorlattice/vecql/pagestore"
)

// Run is a contiguous sequence of sorted rows produced by BUILD and
// consumed by MERGE (spec.md glossary "Run"). It is either entirely
// resident (small runs, the common case) or backed by a sequence of
// buffer-manager pages (spilled, once BUILD or MERGE decides the working
// set exceeds the configured budget).
type Run struct {
	keyWidth     int
	payloadWidth int

	rows []radixsort.Row // resident rows; nil once spilled

	mgr       *pagestore.Manager // nil if never spilled
	pages     []pagestore.PageID
	rowCount  int
}

func rowWidth(keyWidth, payloadWidth int) int { return keyWidth + payloadWidth }

// NewRun wraps an already-sorted slice of rows as a resident Run.
func NewRun(keyWidth, payloadWidth int, rows []radixsort.Row) *Run {
	return &Run{keyWidth: keyWidth, payloadWidth: payloadWidth, rows: rows, rowCount: len(rows)}
}

// Len returns the number of rows in the run.
func (r *Run) Len() int { return r.rowCount }

// Resident reports whether the run's rows are held in process memory
// rather than spilled to the buffer manager.
func (r *Run) Resident() bool { return r.rows != nil }

// EstimatedBytes estimates the run's in-memory footprint, used by the
// global coordinator's spill-policy decision.
func (r *Run) EstimatedBytes() int64 {
	return int64(r.rowCount) * int64(rowWidth(r.keyWidth, r.payloadWidth))
}

// SpillTo writes a resident run out to mgr as a sequence of fixed-size
// pages, freeing its in-memory row slice. A no-op if already spilled.
func (r *Run) SpillTo(mgr *pagestore.Manager) error {
	if !r.Resident() {
		return nil
	}
	width := rowWidth(r.keyWidth, r.payloadWidth)
	rowsPerPage := pagestore.PageSize / width
	if rowsPerPage < 1 {
		return coreerr.New(coreerr.Resource, "sortcore: row width %d exceeds page size %d", width, pagestore.PageSize)
	}

	r.mgr = mgr
	for start := 0; start < len(r.rows); start += rowsPerPage {
		end := start + rowsPerPage
		if end > len(r.rows) {
			end = len(r.rows)
		}
		id := mgr.AllocatePage()
		buf, err := mgr.Pin(id)
		if err != nil {
			return err
		}
		off := 0
		for _, row := range r.rows[start:end] {
			copy(buf[off:], row.Key)
			copy(buf[off+r.keyWidth:], row.Payload)
			off += width
		}
		mgr.Unpin(id, true)
		r.pages = append(r.pages, id)
	}
	r.rows = nil
	return nil
}

// Release frees a spilled run's backing pages; a no-op for resident runs.
func (r *Run) Release() {
	if r.mgr == nil {
		return
	}
	for _, id := range r.pages {
		r.mgr.DestroyPage(id)
	}
	r.pages = nil
}

// Iterator returns a fresh cursor over the run's rows in stored order
// (ascending key order, since runs are only ever built pre-sorted).
func (r *Run) Iterator() *RunIterator {
	return &RunIterator{run: r}
}

// RunIterator walks a Run's rows in order, transparently pinning/unpinning
// pages for a spilled run one at a time.
type RunIterator struct {
	run *Run
	pos int

	pageBuf []byte
	pageIdx int // index into run.pages of pageBuf, -1 if none pinned
}

// Next returns the row at the iterator's current position and advances it,
// or ok=false once the run is exhausted.
func (it *RunIterator) Next() (radixsort.Row, bool, error) {
	if it.pos >= it.run.rowCount {
		return radixsort.Row{}, false, nil
	}
	if it.run.Resident() {
		row := it.run.rows[it.pos]
		it.pos++
		return row, true, nil
	}

	width := rowWidth(it.run.keyWidth, it.run.payloadWidth)
	rowsPerPage := pagestore.PageSize / width
	pageIdx := it.pos / rowsPerPage
	if it.pageBuf == nil || pageIdx != it.pageIdx {
		if it.pageBuf != nil {
			it.run.mgr.Unpin(it.run.pages[it.pageIdx], false)
		}
		buf, err := it.run.mgr.Pin(it.run.pages[pageIdx])
		if err != nil {
			return radixsort.Row{}, false, err
		}
		it.pageBuf = buf
		it.pageIdx = pageIdx
	}
	off := (it.pos % rowsPerPage) * width
	key := make([]byte, it.run.keyWidth)
	payload := make([]byte, it.run.payloadWidth)
	copy(key, it.pageBuf[off:off+it.run.keyWidth])
	copy(payload, it.pageBuf[off+it.run.keyWidth:off+width])
	it.pos++
	return radixsort.Row{Key: key, Payload: payload}, true, nil
}

// Close releases the iterator's currently pinned page, if any. Safe to
// call multiple times.
func (it *RunIterator) Close() {
	if it.pageBuf != nil && !it.run.Resident() {
		it.run.mgr.Unpin(it.run.pages[it.pageIdx], false)
		it.pageBuf = nil
	}
}
