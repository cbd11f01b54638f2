package aggstate

import (
	"testing"

	"github.com/vectorlattice/vecql/aggfn"
	"github.com/vectorlattice/vecql/sortcore"
	"github.com/vectorlattice/vecql/vecframe"
)

func keyView(vals []int64, desc bool) (sortcore.KeyLayout, []vecframe.UnifiedView) {
	layout := sortcore.NewKeyLayout([]sortcore.ColumnSpec{{Name: "k", Kind: vecframe.KindInt64, Desc: desc, NullsFirst: true}})
	buf := vecframe.NewFlatBuffer(vecframe.KindInt64, len(vals))
	copy(buf.Int64s, vals)
	col := vecframe.NewFlatColumn(buf, len(vals))
	view, err := vecframe.MaterializeUnified(col, len(vals))
	if err != nil {
		panic(err)
	}
	return layout, []vecframe.UnifiedView{view}
}

func argView(vals []int64) vecframe.UnifiedView {
	buf := vecframe.NewFlatBuffer(vecframe.KindInt64, len(vals))
	copy(buf.Int64s, vals)
	for i := range vals {
		buf.Validity.SetValid(i, true)
	}
	col := vecframe.NewFlatColumn(buf, len(vals))
	view, err := vecframe.MaterializeUnified(col, len(vals))
	if err != nil {
		panic(err)
	}
	return view
}

func TestCompareAggregatorPicksMinKeyAsFirst(t *testing.T) {
	keys := []int64{5, 2, 9, 1, 7}
	layout, kviews := keyView(keys, false)
	args := argView([]int64{50, 20, 90, 10, 70})
	fn, _ := aggfn.Default.Lookup("any_value") // inner aggregate just holds the retained row's value
	ca := NewCompareAggregator(fn, layout, false)
	for i := range keys {
		ca.Update(kviews, args, i)
	}
	v, isNull := ca.Finalize()
	if isNull || v.(int64) != 10 {
		t.Fatalf("finalize = %v, %v, want retained-row value 10 (key=1 is smallest)", v, isNull)
	}
}

func TestCompareAggregatorLastInvertsOrder(t *testing.T) {
	keys := []int64{5, 2, 9, 1, 7}
	// "last" = smallest key under descending order = largest original key.
	layout, kviews := keyView(keys, true)
	args := argView([]int64{50, 20, 90, 10, 70})
	fn, _ := aggfn.Default.Lookup("any_value")
	ca := NewCompareAggregator(fn, layout, false)
	for i := range keys {
		ca.Update(kviews, args, i)
	}
	v, isNull := ca.Finalize()
	if isNull || v.(int64) != 90 {
		t.Fatalf("finalize = %v, %v, want retained-row value 90 (key=9 is largest, wins under desc)", v, isNull)
	}
}

func TestCompareAggregatorSkipsNullForAnyValue(t *testing.T) {
	keys := []int64{5, 2, 9}
	layout, kviews := keyView(keys, false)
	buf := vecframe.NewFlatBuffer(vecframe.KindInt64, 3)
	buf.Int64s[0] = 50
	buf.Validity.SetValid(1, false)
	buf.Int64s[2] = 90
	buf.Validity.SetValid(0, true)
	buf.Validity.SetValid(2, true)
	col := vecframe.NewFlatColumn(buf, 3)
	args, err := vecframe.MaterializeUnified(col, 3)
	if err != nil {
		t.Fatal(err)
	}

	fn, _ := aggfn.Default.Lookup("any_value")
	ca := NewCompareAggregator(fn, layout, true)
	for i := range keys {
		ca.Update(kviews, args, i)
	}
	v, isNull := ca.Finalize()
	if isNull || v.(int64) != 50 {
		t.Fatalf("finalize = %v, %v, want 50 (row with key=2 skipped as null)", v, isNull)
	}
}

func TestCompareAggregatorCombineKeepsSmallerKey(t *testing.T) {
	layoutA, kviewsA := keyView([]int64{5}, false)
	argsA := argView([]int64{50})
	layoutB, kviewsB := keyView([]int64{2}, false)
	argsB := argView([]int64{20})

	fn, _ := aggfn.Default.Lookup("any_value")
	a := NewCompareAggregator(fn, layoutA, false)
	a.Update(kviewsA, argsA, 0)
	b := NewCompareAggregator(fn, layoutB, false)
	b.Update(kviewsB, argsB, 0)

	a.Combine(b)
	v, isNull := a.Finalize()
	if isNull || v.(int64) != 20 {
		t.Fatalf("combine result = %v, %v, want 20 (smaller key=2 wins)", v, isNull)
	}
}
