// Package scalarfn implements the scalar-operation contract of spec.md
// §4.2/§6: a per-chunk function that reads one or more input columns
// (in any of the four physical layouts, via vecframe.MaterializeUnified)
// and produces a new output column without materializing intermediate
// layouts it doesn't need to. Slicing is the worked case study in the
// spec; the other registered ops (length, concat, comparisons) follow
// the same shape so the registry dispatch machinery is exercised by more
// than one function.
package scalarfn

import "github.com/vectorlattice/vecql/vecframe"

// Func is the scalar-op contract: given the owning chunk (for arena
// allocation) and its argument columns, produce an output column of n
// rows. Implementations must not mutate their input columns.
type Func func(chunk *vecframe.Chunk, args []*vecframe.Column, n int) (*vecframe.Column, error)

// Descriptor names and describes one registered scalar function.
type Descriptor struct {
	Name string
	// MinArgs/MaxArgs bound the accepted argument count; MaxArgs == -1
	// means variadic.
	MinArgs, MaxArgs int
	Fn               Func
}

// Registry maps a function name to its Descriptor, standing in for the
// "expression contract" binder hook spec.md §6 describes but leaves to
// the (out of scope) SQL binder to wire up.
type Registry struct {
	entries map[string]*Descriptor
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*Descriptor)}
}

// Register adds d to the registry, overwriting any existing entry with
// the same name.
func (r *Registry) Register(d *Descriptor) {
	r.entries[d.Name] = d
}

// Lookup returns the Descriptor for name, if registered.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	d, ok := r.entries[name]
	return d, ok
}

// Default is the registry populated by this package's init(), analogous
// to the engine's builtin expression table built once at process start.
var Default = NewRegistry()
