package vecframe

import "testing"

func TestSelectionIdentity(t *testing.T) {
	s := Identity(5)
	if s.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", s.Len())
	}
	for i := 0; i < 5; i++ {
		if got := s.At(i); got != int32(i) {
			t.Errorf("At(%d) = %d, want %d", i, got, i)
		}
	}
}

func TestSelectionConstant(t *testing.T) {
	s := Constant(4, 7)
	for i := 0; i < 4; i++ {
		if got := s.At(i); got != 7 {
			t.Errorf("At(%d) = %d, want 7", i, got)
		}
	}
}

func TestSelectionMax(t *testing.T) {
	s := NewSelection([]int32{2, 8, 1, 5})
	if got := s.Max(); got != 8 {
		t.Errorf("Max() = %d, want 8", got)
	}
	if got := NewSelection(nil).Max(); got != -1 {
		t.Errorf("Max() of empty selection = %d, want -1", got)
	}
}

func TestSelectionGather(t *testing.T) {
	backing := NewSelection([]int32{10, 20, 30, 40})
	inner := NewSelection([]int32{2, 0, 3})
	got := backing.Gather(inner)
	want := []int32{30, 10, 40}
	if got.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", got.Len(), len(want))
	}
	for i, w := range want {
		if got.At(i) != w {
			t.Errorf("At(%d) = %d, want %d", i, got.At(i), w)
		}
	}
}
