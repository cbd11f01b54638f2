package scalarfn

import (
	"bytes"

	"github.com/vectorlattice/vecql/coreerr"
	"github.com/vectorlattice/vecql/utf8"
	"github.com/vectorlattice/vecql/vecframe"
)

func init() {
	Default.Register(&Descriptor{Name: "length", MinArgs: 1, MaxArgs: 1, Fn: Length})
	Default.Register(&Descriptor{Name: "concat", MinArgs: 2, MaxArgs: -1, Fn: Concat})
	Default.Register(&Descriptor{Name: "lt", MinArgs: 2, MaxArgs: 2, Fn: compareOp(func(c int) bool { return c < 0 })})
	Default.Register(&Descriptor{Name: "lte", MinArgs: 2, MaxArgs: 2, Fn: compareOp(func(c int) bool { return c <= 0 })})
	Default.Register(&Descriptor{Name: "gt", MinArgs: 2, MaxArgs: 2, Fn: compareOp(func(c int) bool { return c > 0 })})
	Default.Register(&Descriptor{Name: "gte", MinArgs: 2, MaxArgs: 2, Fn: compareOp(func(c int) bool { return c >= 0 })})
	Default.Register(&Descriptor{Name: "eq", MinArgs: 2, MaxArgs: 2, Fn: compareOp(func(c int) bool { return c == 0 })})
}

// Length implements `length(value) -> int64`: the code-point count of a
// string, or the element count of a list. A null input row produces a
// null output row rather than an error, matching slice's null-propagation
// convention.
func Length(chunk *vecframe.Chunk, args []*vecframe.Column, n int) (*vecframe.Column, error) {
	value := args[0]
	vv, err := vecframe.MaterializeUnified(value, n)
	if err != nil {
		return nil, err
	}

	out := vecframe.NewFlatBuffer(vecframe.KindInt64, n)
	for i := 0; i < n; i++ {
		if !vv.IsValid(i) {
			out.Validity.SetValid(i, false)
			continue
		}
		switch value.Kind {
		case vecframe.KindString:
			out.Int64s[i] = int64(utf8.ValidStringLength(vv.String(i)))
		case vecframe.KindList:
			cell, _ := vv.List(i)
			out.Int64s[i] = int64(cell.Length)
		default:
			return nil, coreerr.New(coreerr.InvalidInput, "length: unsupported value kind %s", value.Kind)
		}
	}
	return vecframe.NewFlatColumn(out, n), nil
}

// Concat implements `concat(s1, s2, ...) -> string`, byte-concatenating
// each row's string arguments. Any null argument makes the whole row
// null, the same all-or-nothing rule slice's multi-argument forms use.
func Concat(chunk *vecframe.Chunk, args []*vecframe.Column, n int) (*vecframe.Column, error) {
	views := make([]vecframe.UnifiedView, len(args))
	for i, a := range args {
		if a.Kind != vecframe.KindString {
			return nil, coreerr.New(coreerr.InvalidInput, "concat: argument %d is %s, want string", i, a.Kind)
		}
		v, err := vecframe.MaterializeUnified(a, n)
		if err != nil {
			return nil, err
		}
		views[i] = v
	}

	out := vecframe.NewFlatBuffer(vecframe.KindString, n)
	var buf bytes.Buffer
	for row := 0; row < n; row++ {
		valid := true
		buf.Reset()
		for _, v := range views {
			if !v.IsValid(row) {
				valid = false
				break
			}
			buf.Write(v.String(row))
		}
		out.Validity.SetValid(row, valid)
		if valid {
			out.Strings[row] = vecframe.NewStringCell(buf.Bytes(), out.Arena)
		}
	}
	return vecframe.NewFlatColumn(out, n), nil
}

// compareOp builds a Func comparing two like-kind columns cell-by-cell,
// producing a bool column. accept turns a three-way bytes.Compare-style
// result (negative/zero/positive) into the op's boolean. Used for
// `lt`/`lte`/`gt`/`gte`/`eq`, the comparison family filters use against
// plain columns. CompareAggregator does not call these: it compares
// radix-encoded keys directly with bytes.Compare.
func compareOp(accept func(cmp int) bool) Func {
	return func(chunk *vecframe.Chunk, args []*vecframe.Column, n int) (*vecframe.Column, error) {
		left, right := args[0], args[1]
		if left.Kind != right.Kind {
			return nil, coreerr.New(coreerr.InvalidInput, "compare: mismatched kinds %s vs %s", left.Kind, right.Kind)
		}
		lv, err := vecframe.MaterializeUnified(left, n)
		if err != nil {
			return nil, err
		}
		rv, err := vecframe.MaterializeUnified(right, n)
		if err != nil {
			return nil, err
		}

		out := vecframe.NewFlatBuffer(vecframe.KindBool, n)
		for row := 0; row < n; row++ {
			if !lv.IsValid(row) || !rv.IsValid(row) {
				out.Validity.SetValid(row, false)
				continue
			}
			out.Bools[row] = accept(compareCell(left.Kind, lv, rv, row))
		}
		return vecframe.NewFlatColumn(out, n), nil
	}
}

func compareCell(kind vecframe.Kind, lv, rv vecframe.UnifiedView, row int) int {
	switch kind {
	case vecframe.KindInt64:
		a, b := lv.Int64(row), rv.Int64(row)
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	case vecframe.KindFloat64:
		a, b := lv.Float64(row), rv.Float64(row)
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	case vecframe.KindBool:
		a, b := lv.Bool(row), rv.Bool(row)
		switch {
		case a == b:
			return 0
		case !a:
			return -1
		default:
			return 1
		}
	case vecframe.KindString:
		return bytes.Compare(lv.String(row), rv.String(row))
	default:
		return 0
	}
}
