package aggstate

import (
	"github.com/vectorlattice/vecql/aggfn"
	"github.com/vectorlattice/vecql/engineconf"
	"github.com/vectorlattice/vecql/pagestore"
	"github.com/vectorlattice/vecql/sortcore"
	"github.com/vectorlattice/vecql/vecframe"
	"github.com/vectorlattice/vecql/vecframe/dictfn"
)

// Result is one group's finalized aggregate output.
type Result struct {
	Value  any
	IsNull bool
}

const defaultBlockRows = 1024

// OrderedAggregator implements `agg(x ORDER BY y [, z ...])` (spec.md
// §4.4): every input row is buffered into its group's GroupState, sorted
// by the ORDER BY columns; Finalize drains each group through its own
// SortCore BUILD->MERGE->SCAN pipeline and folds the sorted argument
// values into a fresh inner aggregate state.
//
// The literal design packs every group's rows into one global SortCore,
// prefixed by a synthetic group-index key column, so a single sort pass
// produces groups contiguously. This implementation instead gives each
// group its own SortCore instance: groups are finalized in first-encounter
// order rather than ordered by a key prefix, and SCAN output for each group is already exactly that group's
// rows since no other group's rows ever entered its SortCore. It avoids
// hand-rolling the group-index key column at the cost of one SortCore per
// live group rather than one for the whole batch.
type OrderedAggregator struct {
	fn        *aggfn.Descriptor
	orderSpec sortcore.KeyLayout
	argKinds  []vecframe.Kind
	payloadW  int
	blockRows int

	mgr *pagestore.Manager
	cfg engineconf.Config

	order  []string
	groups map[string]*GroupState
}

// New builds an OrderedAggregator for fn, ordering each group's rows by
// orderSpec and buffering argument columns of the kinds in argKinds (in
// call order) via a fixed-width ColumnPayload.
func New(fn *aggfn.Descriptor, orderSpec sortcore.KeyLayout, argKinds []vecframe.Kind, mgr *pagestore.Manager, cfg engineconf.Config) (*OrderedAggregator, error) {
	payloadW := 0
	for _, k := range argKinds {
		payloadW += k.FixedWidth() + 1
	}
	return &OrderedAggregator{
		fn:        fn,
		orderSpec: orderSpec,
		argKinds:  argKinds,
		payloadW:  payloadW,
		blockRows: defaultBlockRows,
		mgr:       mgr,
		cfg:       cfg.Normalize(),
		groups:    make(map[string]*GroupState),
	}, nil
}

func (a *OrderedAggregator) groupFor(key string) *GroupState {
	g, ok := a.groups[key]
	if !ok {
		g = NewGroupState(a.orderSpec, a.payloadW, a.blockRows)
		a.groups[key] = g
		a.order = append(a.order, key)
	}
	return g
}

// SimpleUpdate feeds every row of one chunk into a single group (spec.md
// §4.4 "Simple update": one target state, whole chunk).
func (a *OrderedAggregator) SimpleUpdate(key string, orderCols, argCols []*vecframe.Column, n int) error {
	enc, err := sortcore.NewColumnEncoder(argCols, n)
	if err != nil {
		return err
	}
	return a.groupFor(key).Add(orderCols, n, enc)
}

// ScatterUpdate feeds selected rows of one chunk into their respective
// groups (spec.md §4.4 "Scatter update"): rowsByGroup maps a group key to
// the physical rows of orderCols/argCols belonging to that group.
func (a *OrderedAggregator) ScatterUpdate(rowsByGroup map[string][]int32, orderCols, argCols []*vecframe.Column, n int) error {
	for key, rows := range rowsByGroup {
		sel := vecframe.NewSelection(rows)
		subOrder, err := dictfn.Project(orderCols, n, sel)
		if err != nil {
			return err
		}
		subArgs, err := dictfn.Project(argCols, n, sel)
		if err != nil {
			return err
		}
		enc, err := sortcore.NewColumnEncoder(subArgs, len(rows))
		if err != nil {
			return err
		}
		if err := a.groupFor(key).Add(subOrder, len(rows), enc); err != nil {
			return err
		}
	}
	return nil
}

// Absorb merges other's group states into a, combining any group present
// in both (spec.md §5 "combine, which is serialized externally by the
// hash aggregator").
func (a *OrderedAggregator) Absorb(other *OrderedAggregator) {
	for _, key := range other.order {
		g := other.groups[key]
		if existing, ok := a.groups[key]; ok {
			existing.Absorb(g)
			continue
		}
		a.groups[key] = g
		a.order = append(a.order, key)
	}
}

// Finalize drains every group in first-encounter order, sorting each
// group's buffered rows by the ORDER BY columns and folding them into a
// fresh inner aggregate state (spec.md §4.4 step 3). A group with no rows
// still produces an initialize -> finalize call (step 4), so e.g. COUNT
// returns 0 rather than being omitted.
func (a *OrderedAggregator) Finalize() (map[string]Result, error) {
	out := make(map[string]Result, len(a.order))
	for _, key := range a.order {
		g := a.groups[key]
		res, err := a.finalizeGroup(g)
		if err != nil {
			return nil, err
		}
		out[key] = res
	}
	return out, nil
}

func (a *OrderedAggregator) finalizeGroup(g *GroupState) (Result, error) {
	state := a.fn.New()
	if g.RowCount() == 0 {
		v, isNull := state.Finalize()
		return Result{Value: v, IsNull: isNull}, nil
	}

	sc := sortcore.New(a.orderSpec, a.payloadW, a.mgr, a.cfg)
	for _, run := range g.Flush() {
		adopter := sortcore.NewLocalState(a.orderSpec, a.payloadW, a.blockRows)
		adopter.AdoptRuns([]*sortcore.Run{run})
		if err := sc.AddLocalState(adopter); err != nil {
			return Result{}, err
		}
	}
	if err := sc.PrepareMergePhase(); err != nil {
		return Result{}, err
	}
	for sc.RunCount() > 1 {
		if err := sc.MergeRound(); err != nil {
			return Result{}, err
		}
	}

	dec, err := sortcore.NewColumnDecoder(a.argKinds)
	if err != nil {
		return Result{}, err
	}
	for {
		_, more, err := sc.Scan(dec, a.blockRows)
		if err != nil {
			return Result{}, err
		}
		if !more {
			break
		}
	}

	// Single-argument aggregates only (DESIGN.md, aggfn section): feed the
	// sorted argument column's rows, in order, into the inner state.
	view, err := sortcore.MaterializeViews(dec.Columns(), dec.Rows())
	if err != nil {
		return Result{}, err
	}
	for row := 0; row < dec.Rows(); row++ {
		state.Update(view[0], row)
	}

	v, isNull := state.Finalize()
	return Result{Value: v, IsNull: isNull}, nil
}
