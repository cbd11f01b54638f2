package dictfn

import (
	"testing"

	"github.com/vectorlattice/vecql/vecframe"
)

func intColumn(vals []int64) *vecframe.Column {
	buf := vecframe.NewFlatBuffer(vecframe.KindInt64, len(vals))
	copy(buf.Int64s, vals)
	return vecframe.NewFlatColumn(buf, len(vals))
}

func TestProjectSelectsRequestedRows(t *testing.T) {
	col := intColumn([]int64{10, 20, 30, 40, 50})
	sel := vecframe.NewSelection([]int32{4, 1, 1})

	out, err := Project([]*vecframe.Column{col}, 5, sel)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d columns, want 1", len(out))
	}
	view, err := vecframe.MaterializeUnified(out[0], sel.Len())
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{50, 20, 20}
	for i, w := range want {
		if got := view.Int64(i); got != w {
			t.Errorf("row %d = %d, want %d", i, got, w)
		}
	}
}

func TestRestrictMatchesProjectSingleColumn(t *testing.T) {
	col := intColumn([]int64{1, 2, 3})
	sel := vecframe.NewSelection([]int32{2, 0})

	got, err := Restrict(col, 3, sel)
	if err != nil {
		t.Fatal(err)
	}
	view, err := vecframe.MaterializeUnified(got, sel.Len())
	if err != nil {
		t.Fatal(err)
	}
	if view.Int64(0) != 3 || view.Int64(1) != 1 {
		t.Fatalf("unexpected restricted values: %d, %d", view.Int64(0), view.Int64(1))
	}
}

func TestPartitionGroupsRowsByKeyInFirstEncounterOrder(t *testing.T) {
	keys := []string{"b", "a", "b", "c", "a"}
	order, groups := Partition(len(keys), func(row int) string { return keys[row] })

	if len(order) != 3 || order[0] != "b" || order[1] != "a" || order[2] != "c" {
		t.Fatalf("unexpected order: %v", order)
	}
	if sel := groups["b"]; sel.Len() != 2 || sel.At(0) != 0 || sel.At(1) != 2 {
		t.Fatalf("unexpected group b selection: %v", sel.Raw())
	}
	if sel := groups["a"]; sel.Len() != 2 || sel.At(0) != 1 || sel.At(1) != 4 {
		t.Fatalf("unexpected group a selection: %v", sel.Raw())
	}
	if sel := groups["c"]; sel.Len() != 1 || sel.At(0) != 3 {
		t.Fatalf("unexpected group c selection: %v", sel.Raw())
	}
}
