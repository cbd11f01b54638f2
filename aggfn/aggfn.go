// Package aggfn is the built-in aggregate function registry that
// OrderedAggregator and CompareAggregator drive (spec.md §6 "aggregate
// functions expose {state_size, initialize, update, simple_update,
// combine, finalize, destroy}"). Go's garbage collector retires the
// explicit state_size/destroy half of that contract; a State is just a
// value the registry's Func constructs fresh per group.
package aggfn

import "github.com/vectorlattice/vecql/vecframe"

// State is one aggregate's accumulated, per-group state.
type State interface {
	// Update folds row i of view into the receiver.
	Update(view vecframe.UnifiedView, row int)
	// Combine folds other's accumulated state into the receiver
	// (spec.md §6 "combine").
	Combine(other State)
	// Finalize returns the aggregate's output for this state and whether
	// it is null (e.g. sum/min/max over zero non-null input rows).
	Finalize() (value any, isNull bool)
}

// Func constructs a fresh State for one aggregate invocation (spec.md §6
// "initialize").
type Func func() State

// Descriptor names a registered aggregate and how to construct its state.
type Descriptor struct {
	Name string
	New  Func
}

// Registry maps aggregate names to descriptors.
type Registry struct {
	byName map[string]*Descriptor
}

func NewRegistry() *Registry { return &Registry{byName: make(map[string]*Descriptor)} }

func (r *Registry) Register(d *Descriptor) { r.byName[d.Name] = d }

func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Default is the registry the built-in aggregates in this package
// register themselves into.
var Default = NewRegistry()
