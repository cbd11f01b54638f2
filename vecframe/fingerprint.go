package vecframe

import (
	"encoding/binary"
	"math"

	"github.com/dchest/siphash"
)

// fingerprintKey0/1 are fixed siphash keys; fingerprinting is only used
// for in-process equality checks (round-trip tests, not a wire format),
// so a fixed key is sufficient and keeps results reproducible across
// runs.
const (
	fingerprintKey0 = 0x5be0cd19137e2179
	fingerprintKey1 = 0x1f83d9ab9b05688c
)

// RowFingerprint hashes the logical value of column row i (through its
// unified view) into a single uint64, folding in null-ness so a null and
// a zero value never collide. It is used by sort/aggregate property tests
// to check that a multiset of rows survived a transformation unchanged
// (spec.md §8 "SortCore: output rows are a permutation of input rows").
func RowFingerprint(v UnifiedView, i int) uint64 {
	var buf [9]byte
	if !v.IsValid(i) {
		buf[0] = 0
		return siphash.Hash(fingerprintKey0, fingerprintKey1, buf[:1])
	}
	buf[0] = 1
	switch v.Kind {
	case KindBool:
		if v.Bool(i) {
			buf[1] = 1
		}
		return siphash.Hash(fingerprintKey0, fingerprintKey1, buf[:2])
	case KindInt64:
		binary.BigEndian.PutUint64(buf[1:], uint64(v.Int64(i)))
		return siphash.Hash(fingerprintKey0, fingerprintKey1, buf[:])
	case KindFloat64:
		binary.BigEndian.PutUint64(buf[1:], math.Float64bits(v.Float64(i)))
		return siphash.Hash(fingerprintKey0, fingerprintKey1, buf[:])
	case KindString:
		return siphash.Hash(fingerprintKey0, fingerprintKey1, append(buf[:1], v.String(i)...))
	default:
		return siphash.Hash(fingerprintKey0, fingerprintKey1, buf[:1])
	}
}

// ChunkFingerprint returns the XOR of every row's RowFingerprint across
// the named columns, order-independent by construction (XOR is
// commutative) so it can compare two chunks that are permutations of one
// another row-for-row, as SortCore's output must be of its input.
func ChunkFingerprint(c *Chunk, columns []string) (uint64, error) {
	views := make([]UnifiedView, len(columns))
	for i, name := range columns {
		col := c.Column(name)
		view, err := MaterializeUnified(col, c.N)
		if err != nil {
			return 0, err
		}
		views[i] = view
	}
	var acc uint64
	for row := 0; row < c.N; row++ {
		var rowHash uint64
		for _, v := range views {
			rowHash = rowHash*1099511628211 ^ RowFingerprint(v, row)
		}
		acc ^= rowHash
	}
	return acc, nil
}
