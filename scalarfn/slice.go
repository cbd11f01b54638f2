package scalarfn

import (
	"math"

	"github.com/vectorlattice/vecql/coreerr"
	"github.com/vectorlattice/vecql/utf8"
	"github.com/vectorlattice/vecql/vecframe"
)

// MaxIndex is the sentinel spec.md §4.2 assigns to `begin`/`end`: "from
// the start" / "to the end" respectively.
const MaxIndex = math.MaxInt64

func init() {
	Default.Register(&Descriptor{Name: "slice", MinArgs: 3, MaxArgs: 4, Fn: Slice})
}

// Slice implements `slice(value, begin, end [, step]) -> value` exactly
// as spec.md §4.2 documents it, including the quirks pinned by
// spec.md §9's open questions: index 0 behaves as 1, and clamping is
// always applied regardless of which inputs were "valid" going in.
func Slice(chunk *vecframe.Chunk, args []*vecframe.Column, n int) (*vecframe.Column, error) {
	value, begin, end := args[0], args[1], args[2]
	var step *vecframe.Column
	if len(args) == 4 {
		step = args[3]
	}

	switch value.Kind {
	case vecframe.KindList:
		return sliceList(chunk, value, begin, end, step, n)
	case vecframe.KindString:
		if step != nil {
			return nil, coreerr.New(coreerr.NotImplemented,
				"string slicing with a step is not implemented; rewrite as split/rejoin: "+
					"e.g. array_to_string(split(s, '')[begin:end:step], '')")
		}
		return sliceString(chunk, value, begin, end, n)
	default:
		return nil, coreerr.New(coreerr.InvalidInput, "slice: unsupported value kind %s", value.Kind)
	}
}

// allConstant reports whether every column in cols is in Constant layout,
// enabling the "compute once, emit Constant" fast path of spec.md §4.2.
func allConstant(cols ...*vecframe.Column) bool {
	for _, c := range cols {
		if c != nil && c.Layout != vecframe.Constant {
			return false
		}
	}
	return true
}

// clampIndex applies the spec.md §4.2 clamp rule to a single index
// against a value of the given length. ok is false when the row must be
// null (index fell below -length).
func clampIndex(length, idx int64) (clamped int64, ok bool) {
	if idx < 0 {
		if -idx > length {
			return 0, false
		}
		return length + idx, true
	}
	if idx > length {
		return length, true
	}
	return idx, true
}

// clampSlice decodes and clamps (begin, end) against a value of the given
// length, per spec.md §4.2's decode/clamp procedure.
func clampSlice(length, begin, end int64) (b, e int64, ok bool) {
	if begin == MaxIndex {
		begin = 0
	}
	if end == MaxIndex {
		end = length
	}
	if begin > 0 {
		begin--
	}
	b, ok = clampIndex(length, begin)
	if !ok {
		return 0, 0, false
	}
	e, ok = clampIndex(length, end)
	if !ok {
		return 0, 0, false
	}
	if e < b {
		e = b
	}
	return b, e, true
}

func sliceList(chunk *vecframe.Chunk, value, begin, end, step *vecframe.Column, n int) (*vecframe.Column, error) {
	if allConstant(value, begin, end, step) {
		return sliceOneRow(value, begin, end, step, n)
	}
	return sliceFlatList(chunk, value, begin, end, step, n)
}

// sliceOneRow computes the slice once (every input is Constant, so every
// logical row is identical) and wraps the single resulting cell as a
// Constant column of n rows — the "constant fast path" of spec.md §4.2.
func sliceOneRow(value, begin, end, step *vecframe.Column, n int) (*vecframe.Column, error) {
	const i = 0
	vv, err := vecframe.MaterializeUnified(value, value.N)
	if err != nil {
		return nil, err
	}
	bv, err := vecframe.MaterializeUnified(begin, begin.N)
	if err != nil {
		return nil, err
	}
	ev, err := vecframe.MaterializeUnified(end, end.N)
	if err != nil {
		return nil, err
	}

	out := vecframe.NewFlatBuffer(vecframe.KindList, 1)
	var ok bool
	var cell vecframe.ListCell
	if step == nil {
		ok, cell, err = computeListCellShared(vv, bv, ev, i)
		out.Child = vv.Base.Child
	} else {
		sv, serr := vecframe.MaterializeUnified(step, step.N)
		if serr != nil {
			return nil, serr
		}
		var childSel []int32
		ok, cell, err = computeListCellGather(vv, bv, ev, sv, i, &childSel)
		out.Child = buildGatheredChild(vv.Base.Child, childSel)
	}
	if err != nil {
		return nil, err
	}
	out.Validity.SetValid(0, ok)
	if ok {
		out.Lists[0] = cell
	}
	return vecframe.NewConstantColumn(out, n)
}

// sliceFlatList computes row-by-row results for a batch. When step is
// absent, every row keeps step==1 and the output shares the input's
// child column verbatim (spec.md §4.2 "Result shape", the step==1 case).
// When step is present, the whole batch's output references one
// gathered child column: mixing "shared child, rewritten offsets" rows
// with "freshly gathered" rows under a single Child pointer is not
// representable, so any step argument at all routes every row, including
// the step==1 ones, through the gather path with a stride of 1.
func sliceFlatList(chunk *vecframe.Chunk, value, begin, end, step *vecframe.Column, n int) (*vecframe.Column, error) {
	vv, err := vecframe.MaterializeUnified(value, n)
	if err != nil {
		return nil, err
	}
	bv, err := vecframe.MaterializeUnified(begin, n)
	if err != nil {
		return nil, err
	}
	ev, err := vecframe.MaterializeUnified(end, n)
	if err != nil {
		return nil, err
	}

	out := vecframe.NewFlatBuffer(vecframe.KindList, n)

	if step == nil {
		for i := 0; i < n; i++ {
			ok, cell, err := computeListCellShared(vv, bv, ev, i)
			if err != nil {
				return nil, err
			}
			out.Validity.SetValid(i, ok)
			if ok {
				out.Lists[i] = cell
			}
		}
		out.Child = vv.Base.Child
		return vecframe.NewFlatColumn(out, n), nil
	}

	sv, err := vecframe.MaterializeUnified(step, n)
	if err != nil {
		return nil, err
	}
	var childSel []int32
	for i := 0; i < n; i++ {
		ok, cell, err := computeListCellGather(vv, bv, ev, sv, i, &childSel)
		if err != nil {
			return nil, err
		}
		out.Validity.SetValid(i, ok)
		if ok {
			out.Lists[i] = cell
		}
	}
	out.Child = buildGatheredChild(vv.Base.Child, childSel)
	return vecframe.NewFlatColumn(out, n), nil
}

// computeListCellShared resolves the step==1 fast path: the result cell
// indexes directly into the input's existing child column.
func computeListCellShared(vv, bv, ev vecframe.UnifiedView, i int) (bool, vecframe.ListCell, error) {
	if !vv.IsValid(i) || !bv.IsValid(i) || !ev.IsValid(i) {
		return false, vecframe.ListCell{}, nil
	}
	cell, _ := vv.List(i)
	b, e, ok := clampSlice(int64(cell.Length), bv.Int64(i), ev.Int64(i))
	if !ok {
		return false, vecframe.ListCell{}, nil
	}
	return true, vecframe.ListCell{Offset: cell.Offset + int32(b), Length: int32(e - b)}, nil
}

// computeListCellGather resolves one row when any row in the batch has an
// explicit step argument, appending the selected child indices into
// *childSel so every row's cell offsets are relative to the same
// gathered child column.
func computeListCellGather(vv, bv, ev, sv vecframe.UnifiedView, i int, childSel *[]int32) (bool, vecframe.ListCell, error) {
	if !vv.IsValid(i) || !bv.IsValid(i) || !ev.IsValid(i) || !sv.IsValid(i) {
		return false, vecframe.ListCell{}, nil
	}
	cell, _ := vv.List(i)
	step := sv.Int64(i)
	if step == 0 {
		return false, vecframe.ListCell{}, coreerr.New(coreerr.InvalidInput, "slice step cannot be zero")
	}
	if step < 0 {
		return false, vecframe.ListCell{}, nil
	}
	b, e, ok := clampSlice(int64(cell.Length), bv.Int64(i), ev.Int64(i))
	if !ok {
		return false, vecframe.ListCell{}, nil
	}
	start := len(*childSel)
	for idx := cell.Offset + int32(b); int64(idx) < cell.Offset+e; idx += int32(step) {
		*childSel = append(*childSel, idx)
	}
	return true, vecframe.ListCell{Offset: int32(start), Length: int32(len(*childSel) - start)}, nil
}

// buildGatheredChild builds a dictionary column over base selecting
// childSel, the "newly built selection index ... into the child column"
// spec.md §4.2 describes for step>1 results.
func buildGatheredChild(base *vecframe.Column, childSel []int32) *vecframe.Column {
	if base == nil || len(childSel) == 0 {
		return base
	}
	sel := vecframe.NewSelection(childSel)
	dict, err := vecframe.NewDictionaryColumn(mustFlatten(base), sel)
	if err != nil {
		// base was already checked against childSel's own bounds by
		// construction; a failure here is an internal bug, not user
		// error.
		panic(err)
	}
	return dict
}

func mustFlatten(c *vecframe.Column) *vecframe.Column {
	flat, err := vecframe.Flatten(c, c.N)
	if err != nil {
		panic(err)
	}
	return flat
}

func sliceString(chunk *vecframe.Chunk, value, begin, end *vecframe.Column, n int) (*vecframe.Column, error) {
	asConstant := allConstant(value, begin, end)
	rows := n
	if asConstant {
		rows = 1
	}

	vv, err := vecframe.MaterializeUnified(value, value.N)
	if err != nil {
		return nil, err
	}
	bv, err := vecframe.MaterializeUnified(begin, begin.N)
	if err != nil {
		return nil, err
	}
	ev, err := vecframe.MaterializeUnified(end, end.N)
	if err != nil {
		return nil, err
	}
	if !asConstant {
		vv, err = vecframe.MaterializeUnified(value, n)
		if err != nil {
			return nil, err
		}
		bv, err = vecframe.MaterializeUnified(begin, n)
		if err != nil {
			return nil, err
		}
		ev, err = vecframe.MaterializeUnified(end, n)
		if err != nil {
			return nil, err
		}
	}

	out := vecframe.NewFlatBuffer(vecframe.KindString, rows)
	for i := 0; i < rows; i++ {
		ok, s, err := computeStringSlice(vv, bv, ev, i)
		if err != nil {
			return nil, err
		}
		out.Validity.SetValid(i, ok)
		if ok {
			out.Strings[i] = vecframe.NewStringCell(s, out.Arena)
		}
	}

	if asConstant {
		return vecframe.NewConstantColumn(out, n)
	}
	return vecframe.NewFlatColumn(out, n), nil
}

// computeStringSlice slices row i's string value on code points, not
// bytes (spec.md §4.2 "String: ... a UTF-8 substring operation on code
// points").
func computeStringSlice(vv, bv, ev vecframe.UnifiedView, i int) (bool, []byte, error) {
	if !vv.IsValid(i) || !bv.IsValid(i) || !ev.IsValid(i) {
		return false, nil, nil
	}
	raw := vv.String(i)
	length := int64(utf8.ValidStringLength(raw))
	begin := bv.Int64(i)
	end := ev.Int64(i)

	b, e, ok := clampSlice(length, begin, end)
	if !ok {
		return false, nil, nil
	}
	return true, utf8.SliceCodepoints(raw, int(b), int(e)), nil
}
