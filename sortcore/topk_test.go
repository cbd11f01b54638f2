package sortcore

import (
	"testing"

	"github.com/vectorlattice/vecql/internal/radixsort"
)

func keyRow(k byte) radixsort.Row { return radixsort.Row{Key: []byte{k}} }

func TestTopKRetainsSmallestK(t *testing.T) {
	tk := NewTopK(3)
	for _, v := range []byte{9, 1, 8, 2, 7, 3, 6, 4, 5} {
		tk.Add(keyRow(v))
	}
	got := tk.Capture()
	want := []byte{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %d rows, want %d", len(got), len(want))
	}
	for i, row := range got {
		if row.Key[0] != want[i] {
			t.Errorf("row %d key = %d, want %d", i, row.Key[0], want[i])
		}
	}
}

func TestTopKFewerThanLimit(t *testing.T) {
	tk := NewTopK(10)
	tk.Add(keyRow(5))
	tk.Add(keyRow(1))
	got := tk.Capture()
	if len(got) != 2 || got[0].Key[0] != 1 || got[1].Key[0] != 5 {
		t.Fatalf("got %v, want [1, 5]", got)
	}
}

func TestTopKZeroLimitRetainsNothing(t *testing.T) {
	tk := NewTopK(0)
	if tk.Add(keyRow(1)) {
		t.Fatal("Add should report false when limit is 0")
	}
	if got := tk.Capture(); len(got) != 0 {
		t.Fatalf("got %v, want empty", got)
	}
}

func TestTopKMergeCombinesTwoPartialResults(t *testing.T) {
	a := NewTopK(2)
	a.Add(keyRow(5))
	a.Add(keyRow(1))
	b := NewTopK(2)
	b.Add(keyRow(3))
	b.Add(keyRow(0))

	a.Merge(b)
	got := a.Capture()
	if len(got) != 2 || got[0].Key[0] != 0 || got[1].Key[0] != 1 {
		t.Fatalf("merged top-2 = %v, want [0, 1]", got)
	}
}
