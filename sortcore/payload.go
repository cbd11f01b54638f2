package sortcore

import (
	"encoding/binary"
	"math"

	"github.com/vectorlattice/vecql/coreerr"
	"github.com/vectorlattice/vecql/vecframe"
)

// Payload is the fixed-width row payload SortCore carries alongside a
// row's key: the aggregated arguments for OrderedAggregator, or a row-ID
// pointer for index builds (spec.md §4.3 "row layout"). Two
// implementations exist, chosen by the consumer: ColumnPayload decodes
// back into vecframe.Chunk columns, RowIDPayload decodes into a flat
// []uint64.
type Payload interface {
	Width() int
}

// Encoder is the BUILD-side half of a Payload.
type Encoder interface {
	Payload
	Encode(dst []byte, row int)
}

// Decoder is the SCAN-side half of a Payload: Append consumes one row's
// payload bytes in sorted order.
type Decoder interface {
	Payload
	Append(src []byte)
}

// ColumnPayload packs/unpacks a fixed set of fixed-width columns
// (bool/int64/float64) as the payload of an OrderedAggregator's argument
// tuple. String and list columns are not supported: NewColumnEncoder and
// NewColumnDecoder reject them with an InvalidInput error.
type ColumnPayload struct {
	kinds []vecframe.Kind
	width int

	views []vecframe.UnifiedView // encode side

	out  []*vecframe.ValueBuffer // decode side
	rows int
}

// NewColumnEncoder binds cols (each materialized over n rows) as the
// source a ColumnPayload's Encode reads from.
func NewColumnEncoder(cols []*vecframe.Column, n int) (*ColumnPayload, error) {
	p := &ColumnPayload{}
	for _, c := range cols {
		if err := checkFixedWidth(c.Kind); err != nil {
			return nil, err
		}
		view, err := vecframe.MaterializeUnified(c, n)
		if err != nil {
			return nil, err
		}
		p.kinds = append(p.kinds, c.Kind)
		p.views = append(p.views, view)
		p.width += c.Kind.FixedWidth() + 1 // +1 validity byte per column
	}
	return p, nil
}

// NewColumnDecoder builds an empty ColumnPayload that accumulates decoded
// rows for the given column kinds, to be read back via Columns once SCAN
// completes.
func NewColumnDecoder(kinds []vecframe.Kind) (*ColumnPayload, error) {
	p := &ColumnPayload{kinds: kinds}
	for _, k := range kinds {
		if err := checkFixedWidth(k); err != nil {
			return nil, err
		}
		p.width += k.FixedWidth() + 1
	}
	return p, nil
}

func checkFixedWidth(k vecframe.Kind) error {
	switch k {
	case vecframe.KindBool, vecframe.KindInt64, vecframe.KindFloat64:
		return nil
	default:
		return coreerr.New(coreerr.InvalidInput, "sortcore: payload column kind %s is not fixed-width", k)
	}
}

func (p *ColumnPayload) Width() int { return p.width }

// Encode writes row's argument tuple into dst (len(dst) == p.Width()): one
// validity byte followed by the cell bytes, per column in order.
func (p *ColumnPayload) Encode(dst []byte, row int) {
	off := 0
	for i, k := range p.kinds {
		v := p.views[i]
		valid := v.IsValid(row)
		if valid {
			dst[off] = 1
		} else {
			dst[off] = 0
		}
		off++
		w := k.FixedWidth()
		if !valid {
			for j := 0; j < w; j++ {
				dst[off+j] = 0
			}
			off += w
			continue
		}
		switch k {
		case vecframe.KindBool:
			if v.Bool(row) {
				dst[off] = 1
			} else {
				dst[off] = 0
			}
		case vecframe.KindInt64:
			binary.BigEndian.PutUint64(dst[off:], uint64(v.Int64(row)))
		case vecframe.KindFloat64:
			binary.BigEndian.PutUint64(dst[off:], math.Float64bits(v.Float64(row)))
		}
		off += w
	}
}

// Append decodes one row's payload bytes into the output buffers, growing
// them by one row.
func (p *ColumnPayload) Append(src []byte) {
	if p.out == nil {
		p.out = make([]*vecframe.ValueBuffer, len(p.kinds))
		for i, k := range p.kinds {
			p.out[i] = vecframe.NewFlatBuffer(k, 0)
		}
	}
	off := 0
	for i, k := range p.kinds {
		valid := src[off] != 0
		off++
		w := k.FixedWidth()
		buf := p.out[i]
		buf.Validity = growValidity(buf.Validity, p.rows+1)
		buf.Validity.SetValid(p.rows, valid)
		switch k {
		case vecframe.KindBool:
			buf.Bools = append(buf.Bools, valid && src[off] != 0)
		case vecframe.KindInt64:
			buf.Int64s = append(buf.Int64s, int64(binary.BigEndian.Uint64(src[off:])))
		case vecframe.KindFloat64:
			buf.Float64s = append(buf.Float64s, math.Float64frombits(binary.BigEndian.Uint64(src[off:])))
		}
		off += w
	}
	p.rows++
}

// growValidity returns a Validity covering n rows, preserving v's existing
// bits; used because ValueBuffer's validity mask is fixed-size at
// construction but ColumnPayload.Append grows its output row by row.
func growValidity(v vecframe.Validity, n int) vecframe.Validity {
	if v.Len() >= n {
		return v
	}
	grown := vecframe.NewValidity(n)
	for i := 0; i < v.Len(); i++ {
		grown.SetValid(i, v.IsValid(i))
	}
	return grown
}

// Rows returns the number of rows decoded so far via Append.
func (p *ColumnPayload) Rows() int { return p.rows }

// Columns returns the decoded columns built by Append, each a Flat column
// of p.rows rows, in the order the decoder's kinds were given.
func (p *ColumnPayload) Columns() []*vecframe.Column {
	cols := make([]*vecframe.Column, len(p.kinds))
	for i, buf := range p.out {
		cols[i] = vecframe.NewFlatColumn(buf, p.rows)
	}
	return cols
}

// RowIDPayload packs/unpacks a bare uint64 row identifier, the index-build
// payload mode of SPEC_FULL.md.
type RowIDPayload struct {
	ids  []uint64 // encode side
	rows []uint64 // decode side
}

// NewRowIDEncoder binds ids as the source a RowIDPayload's Encode reads
// from; ids[row] is the identifier carried for that row.
func NewRowIDEncoder(ids []uint64) *RowIDPayload { return &RowIDPayload{ids: ids} }

// NewRowIDDecoder builds an empty RowIDPayload that accumulates decoded
// row IDs for SCAN.
func NewRowIDDecoder() *RowIDPayload { return &RowIDPayload{} }

func (*RowIDPayload) Width() int { return 8 }

func (p *RowIDPayload) Encode(dst []byte, row int) {
	binary.BigEndian.PutUint64(dst, p.ids[row])
}

func (p *RowIDPayload) Append(src []byte) {
	p.rows = append(p.rows, binary.BigEndian.Uint64(src))
}

// RowIDs returns the decoded row IDs built by Append, in scan order.
func (p *RowIDPayload) RowIDs() []uint64 { return p.rows }
