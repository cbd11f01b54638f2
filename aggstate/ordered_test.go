package aggstate

import (
	"testing"

	"github.com/vectorlattice/vecql/aggfn"
	"github.com/vectorlattice/vecql/engineconf"
	"github.com/vectorlattice/vecql/pagestore"
	"github.com/vectorlattice/vecql/sortcore"
	"github.com/vectorlattice/vecql/vecframe"
)

func orderLayout() sortcore.KeyLayout {
	return sortcore.NewKeyLayout([]sortcore.ColumnSpec{{Name: "y", Kind: vecframe.KindInt64, NullsFirst: true}})
}

func col(vals []int64) *vecframe.Column {
	buf := vecframe.NewFlatBuffer(vecframe.KindInt64, len(vals))
	copy(buf.Int64s, vals)
	for i := range vals {
		buf.Validity.SetValid(i, true)
	}
	return vecframe.NewFlatColumn(buf, len(vals))
}

func newTestAggregator(t *testing.T, name string) (*OrderedAggregator, func()) {
	t.Helper()
	cfg := engineconf.Default()
	mgr, err := pagestore.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	fn, ok := aggfn.Default.Lookup(name)
	if !ok {
		t.Fatalf("no aggregate registered for %q", name)
	}
	a, err := New(fn, orderLayout(), []vecframe.Kind{vecframe.KindInt64}, mgr, cfg)
	if err != nil {
		t.Fatal(err)
	}
	return a, func() { mgr.Close() }
}

func TestOrderedAggregatorSimpleUpdateSumsPerGroup(t *testing.T) {
	a, cleanup := newTestAggregator(t, "sum")
	defer cleanup()

	order := col([]int64{3, 1, 2})
	args := col([]int64{30, 10, 20})
	if err := a.SimpleUpdate("g1", []*vecframe.Column{order}, []*vecframe.Column{args}, 3); err != nil {
		t.Fatal(err)
	}
	order2 := col([]int64{9})
	args2 := col([]int64{99})
	if err := a.SimpleUpdate("g2", []*vecframe.Column{order2}, []*vecframe.Column{args2}, 1); err != nil {
		t.Fatal(err)
	}

	results, err := a.Finalize()
	if err != nil {
		t.Fatal(err)
	}
	if results["g1"].IsNull || results["g1"].Value.(float64) != 60 {
		t.Fatalf("g1 = %+v, want sum 60", results["g1"])
	}
	if results["g2"].IsNull || results["g2"].Value.(float64) != 99 {
		t.Fatalf("g2 = %+v, want sum 99", results["g2"])
	}
}

func TestOrderedAggregatorEmptyGroupCountsZero(t *testing.T) {
	a, cleanup := newTestAggregator(t, "count")
	defer cleanup()
	a.groupFor("empty")

	results, err := a.Finalize()
	if err != nil {
		t.Fatal(err)
	}
	if results["empty"].IsNull || results["empty"].Value.(int64) != 0 {
		t.Fatalf("empty group count = %+v, want 0, false", results["empty"])
	}
}

func TestOrderedAggregatorScatterUpdateRoutesRows(t *testing.T) {
	a, cleanup := newTestAggregator(t, "sum")
	defer cleanup()

	order := col([]int64{1, 2, 3, 4})
	args := col([]int64{10, 20, 30, 40})
	rowsByGroup := map[string][]int32{
		"even": {1, 3},
		"odd":  {0, 2},
	}
	if err := a.ScatterUpdate(rowsByGroup, []*vecframe.Column{order}, []*vecframe.Column{args}, 4); err != nil {
		t.Fatal(err)
	}

	results, err := a.Finalize()
	if err != nil {
		t.Fatal(err)
	}
	if results["even"].Value.(float64) != 60 {
		t.Fatalf("even sum = %v, want 60", results["even"].Value)
	}
	if results["odd"].Value.(float64) != 40 {
		t.Fatalf("odd sum = %v, want 40", results["odd"].Value)
	}
}

func TestOrderedAggregatorAbsorbMergesGroups(t *testing.T) {
	a, cleanupA := newTestAggregator(t, "sum")
	defer cleanupA()
	b, cleanupB := newTestAggregator(t, "sum")
	defer cleanupB()

	order := col([]int64{1})
	args := col([]int64{5})
	if err := a.SimpleUpdate("g", []*vecframe.Column{order}, []*vecframe.Column{args}, 1); err != nil {
		t.Fatal(err)
	}
	args2 := col([]int64{7})
	if err := b.SimpleUpdate("g", []*vecframe.Column{order}, []*vecframe.Column{args2}, 1); err != nil {
		t.Fatal(err)
	}

	a.Absorb(b)
	results, err := a.Finalize()
	if err != nil {
		t.Fatal(err)
	}
	if results["g"].Value.(float64) != 12 {
		t.Fatalf("absorbed sum = %v, want 12", results["g"].Value)
	}
}
