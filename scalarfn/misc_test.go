package scalarfn

import (
	"testing"

	"github.com/vectorlattice/vecql/vecframe"
)

func stringColumnN(vals []string) *vecframe.Column {
	buf := vecframe.NewFlatBuffer(vecframe.KindString, len(vals))
	for i, s := range vals {
		buf.Strings[i] = vecframe.NewStringCell([]byte(s), buf.Arena)
	}
	return vecframe.NewFlatColumn(buf, len(vals))
}

func int64ColumnN(vals []int64) *vecframe.Column {
	buf := vecframe.NewFlatBuffer(vecframe.KindInt64, len(vals))
	copy(buf.Int64s, vals)
	return vecframe.NewFlatColumn(buf, len(vals))
}

func TestLengthString(t *testing.T) {
	col := stringColumnN([]string{"hello", "héllo", ""})
	out, err := Length(nil, []*vecframe.Column{col}, 3)
	if err != nil {
		t.Fatal(err)
	}
	view, err := vecframe.MaterializeUnified(out, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{5, 5, 0}
	for i, w := range want {
		if got := view.Int64(i); got != w {
			t.Errorf("row %d length = %d, want %d", i, got, w)
		}
	}
}

func TestLengthList(t *testing.T) {
	col := intListColumn([]int64{1, 2, 3})
	out, err := Length(nil, []*vecframe.Column{col}, 1)
	if err != nil {
		t.Fatal(err)
	}
	view, err := vecframe.MaterializeUnified(out, 1)
	if err != nil {
		t.Fatal(err)
	}
	if view.Int64(0) != 3 {
		t.Fatalf("list length = %d, want 3", view.Int64(0))
	}
}

func TestConcatJoinsRowwise(t *testing.T) {
	a := stringColumnN([]string{"foo", "bar"})
	b := stringColumnN([]string{"-baz", "-qux"})
	out, err := Concat(nil, []*vecframe.Column{a, b}, 2)
	if err != nil {
		t.Fatal(err)
	}
	view, err := vecframe.MaterializeUnified(out, 2)
	if err != nil {
		t.Fatal(err)
	}
	if string(view.String(0)) != "foo-baz" || string(view.String(1)) != "bar-qux" {
		t.Fatalf("unexpected concat result: %q, %q", view.String(0), view.String(1))
	}
}

func TestConcatNullPropagates(t *testing.T) {
	a := stringColumnN([]string{"foo"})
	b := stringColumnN([]string{"bar"})
	b.Buffer.Validity.SetValid(0, false)
	out, err := Concat(nil, []*vecframe.Column{a, b}, 1)
	if err != nil {
		t.Fatal(err)
	}
	view, err := vecframe.MaterializeUnified(out, 1)
	if err != nil {
		t.Fatal(err)
	}
	if view.IsValid(0) {
		t.Fatal("expected null result when an argument is null")
	}
}

func TestComparisonOps(t *testing.T) {
	a := int64ColumnN([]int64{1, 5, 3})
	b := int64ColumnN([]int64{2, 5, 1})

	cases := []struct {
		name string
		want []bool
	}{
		{"lt", []bool{true, false, false}},
		{"lte", []bool{true, true, false}},
		{"gt", []bool{false, false, true}},
		{"gte", []bool{false, true, true}},
		{"eq", []bool{false, true, false}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d, ok := Default.Lookup(c.name)
			if !ok {
				t.Fatalf("%s not registered", c.name)
			}
			out, err := d.Fn(nil, []*vecframe.Column{a, b}, 3)
			if err != nil {
				t.Fatal(err)
			}
			view, err := vecframe.MaterializeUnified(out, 3)
			if err != nil {
				t.Fatal(err)
			}
			for i, w := range c.want {
				if got := view.Bool(i); got != w {
					t.Errorf("row %d = %v, want %v", i, got, w)
				}
			}
		})
	}
}
