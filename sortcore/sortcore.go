// Package sortcore implements the external-memory sort pipeline both
// OrderedAggregator and index builds drive (spec.md §4.3): rows are
// scattered into fixed-size blocks and locally sorted (BUILD), the
// resulting runs are merged k at a time until one remains (MERGE), and
// the final run is pulled in chunk-sized batches by the consumer (SCAN).
package sortcore

import (
	"sync"

	"github.com/vectorlattice/vecql/coreerr"
	"github.com/vectorlattice/vecql/corelog"
	"github.com/vectorlattice/vecql/engineconf"
	"github.com/vectorlattice/vecql/internal/radixsort"
	"github.com/vectorlattice/vecql/pagestore"
	"github.com/vectorlattice/vecql/vecframe"
)

type phase int

const (
	phaseBuild phase = iota
	phaseMerge
	phaseScan
)

var log = corelog.New("sortcore")

// SortCore is the global sort coordinator. BUILD is fed by one or more
// LocalState instances via AddLocalState; once every local state has been
// added, PrepareMergePhase closes BUILD and MergeRound is called
// repeatedly while RunCount() > 1; Scan then drains the single remaining
// run.
type SortCore struct {
	mu sync.Mutex

	layout       KeyLayout
	payloadWidth int
	mgr          *pagestore.Manager
	cfg          engineconf.Config

	phase phase
	runs  []*Run

	scanIter *RunIterator
}

// New builds a SortCore over the given key layout and payload width,
// using mgr as the spill backing store.
func New(layout KeyLayout, payloadWidth int, mgr *pagestore.Manager, cfg engineconf.Config) *SortCore {
	return &SortCore{layout: layout, payloadWidth: payloadWidth, mgr: mgr, cfg: cfg.Normalize()}
}

// AddLocalState merges a completed local BUILD state's runs into the
// global state (spec.md §4.3 "Concurrency": "a thread-safe AddLocalState
// step"). Must be called before PrepareMergePhase.
func (s *SortCore) AddLocalState(local *LocalState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != phaseBuild {
		return coreerr.New(coreerr.Internal, "sortcore: AddLocalState called after BUILD phase closed")
	}
	s.runs = append(s.runs, local.Flush()...)
	return nil
}

// RunCount reports the number of runs awaiting merge (or the single
// remaining run once MERGE has finished).
func (s *SortCore) RunCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.runs)
}

// PrepareMergePhase closes BUILD and transitions to MERGE, applying the
// spill policy: a run whose estimated footprint exceeds a per-run budget
// (the memory budget divided across the configured fan-in) is spilled to
// the buffer manager before merging begins (spec.md §4.3 "Spill policy").
func (s *SortCore) PrepareMergePhase() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != phaseBuild {
		return coreerr.New(coreerr.Internal, "sortcore: PrepareMergePhase called twice")
	}
	s.phase = phaseMerge

	perRunBudget := s.cfg.MemoryBudgetBytes / int64(s.cfg.MergeFanIn)
	for _, r := range s.runs {
		if r.Resident() && r.EstimatedBytes() > perRunBudget {
			if err := r.SpillTo(s.mgr); err != nil {
				return err
			}
			log.Debugf("spilled run of %d rows ahead of merge", r.Len())
		}
	}
	if len(s.runs) <= 1 {
		s.phase = phaseScan
	}
	return nil
}

// MergeRound merges up to cfg.MergeFanIn runs into one, per spec.md
// §4.3's "each pass reads k runs and writes one". The caller should call
// this repeatedly while RunCount() > 1. Once exactly one run remains, the
// SortCore transitions to SCAN automatically.
func (s *SortCore) MergeRound() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != phaseMerge {
		return coreerr.New(coreerr.Internal, "sortcore: MergeRound called outside MERGE phase")
	}
	if len(s.runs) <= 1 {
		s.phase = phaseScan
		return nil
	}

	k := s.cfg.MergeFanIn
	if k > len(s.runs) {
		k = len(s.runs)
	}
	batch := s.runs[:k]
	rest := s.runs[k:]

	var merged []radixsort.Row
	if err := mergeRuns(batch, func(row radixsort.Row) error {
		merged = append(merged, row)
		return nil
	}); err != nil {
		return err
	}
	for _, r := range batch {
		r.Release()
	}

	out := NewRun(s.layout.Width, s.payloadWidth, merged)
	perRunBudget := s.cfg.MemoryBudgetBytes / int64(s.cfg.MergeFanIn)
	if out.EstimatedBytes() > perRunBudget {
		if err := out.SpillTo(s.mgr); err != nil {
			return err
		}
	}

	s.runs = append([]*Run{out}, rest...)
	log.Debugf("merge round: %d runs -> %d", len(batch), 1)
	if len(s.runs) == 1 {
		s.phase = phaseScan
	}
	return nil
}

// Scan pulls up to batch rows from the single remaining sorted run,
// decoding each row's payload via sink. It returns the number of rows
// produced and whether more remain.
func (s *SortCore) Scan(sink Decoder, batch int) (n int, more bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != phaseScan {
		return 0, false, coreerr.New(coreerr.Internal, "sortcore: Scan called outside SCAN phase")
	}
	if len(s.runs) > 1 {
		return 0, false, coreerr.New(coreerr.Internal, "sortcore: Scan called with %d runs remaining, want 1", len(s.runs))
	}
	if s.scanIter == nil {
		if len(s.runs) == 0 {
			return 0, false, nil
		}
		s.scanIter = s.runs[0].Iterator()
	}
	for n < batch {
		row, ok, ierr := s.scanIter.Next()
		if ierr != nil {
			return n, false, ierr
		}
		if !ok {
			break
		}
		sink.Append(row.Payload)
		n++
	}
	more = n == batch
	if !more {
		s.scanIter.Close()
		if len(s.runs) == 1 {
			s.runs[0].Release()
		}
	}
	return n, more, nil
}

// LocalState is one pipeline thread's BUILD-phase accumulator: it batches
// rows into fixed-size blocks, sorts each filled block in place, and
// hands the resulting runs to the global SortCore via AddLocalState.
type LocalState struct {
	layout       KeyLayout
	payloadWidth int
	blockRows    int

	pending []radixsort.Row
	runs    []*Run
}

// NewLocalState returns a LocalState that flushes a sorted run every
// blockRows accumulated rows.
func NewLocalState(layout KeyLayout, payloadWidth, blockRows int) *LocalState {
	return &LocalState{layout: layout, payloadWidth: payloadWidth, blockRows: blockRows}
}

// AddBatch encodes and ingests n rows from cols (the sort-key columns)
// paired with enc (the payload encoder bound to the same rows).
func (l *LocalState) AddBatch(cols []*vecframe.Column, n int, enc Encoder) error {
	views, err := MaterializeViews(cols, n)
	if err != nil {
		return err
	}
	for row := 0; row < n; row++ {
		key := make([]byte, l.layout.Width)
		l.layout.Encode(key, views, row)
		payload := make([]byte, l.payloadWidth)
		enc.Encode(payload, row)
		l.pending = append(l.pending, radixsort.Row{Key: key, Payload: payload})
		if len(l.pending) >= l.blockRows {
			l.flushBlock()
		}
	}
	return nil
}

func (l *LocalState) flushBlock() {
	radixsort.SortBlock(l.pending)
	l.runs = append(l.runs, NewRun(l.layout.Width, l.payloadWidth, l.pending))
	l.pending = nil
}

// Flush sorts and emits any partially-filled block as a final run, then
// returns every run this local state produced. Called internally by
// AddLocalState.
func (l *LocalState) Flush() []*Run {
	if len(l.pending) > 0 {
		l.flushBlock()
	}
	runs := l.runs
	l.runs = nil
	return runs
}

// AdoptRuns appends already-built runs as if they had been produced by
// this local state's own BUILD, used by OrderedAggregator's Absorb to
// merge one group's buffered rows into another without re-sorting them.
func (l *LocalState) AdoptRuns(runs []*Run) {
	l.runs = append(l.runs, runs...)
}

// RowCount returns the total number of rows accumulated so far, pending
// plus already-flushed runs.
func (l *LocalState) RowCount() int {
	n := len(l.pending)
	for _, r := range l.runs {
		n += r.Len()
	}
	return n
}
