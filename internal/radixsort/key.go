// Package radixsort provides the fixed-width, lexicographically-comparable
// byte encodings SortCore's row layout is built from (spec.md §4.3 "Row
// layout"), plus the in-cache sort hybrid BUILD uses to order a filled
// block. Every encoder here writes bytes whose bytes.Compare order equals
// the value's semantic order, so a whole row key can be compared with a
// single bytes.Compare regardless of how many columns it packs.
package radixsort

import "math"

// NullByteWidth is the width of the leading null-order byte every key
// column contributes (spec.md §4.3).
const NullByteWidth = 1

// EncodeNullByte writes the null-order byte for one key column: null
// encodes as 0x00 and non-null as 0x01 under NULLS_FIRST, inverted under
// NULLS_LAST, so "first" always sorts lowest.
func EncodeNullByte(dst []byte, isNull, nullsFirst bool) {
	b := byte(0x01)
	if isNull {
		b = 0x00
	}
	if !nullsFirst {
		b = ^b
	}
	dst[0] = b
}

// Int64Width is the byte width of an encoded int64 value.
const Int64Width = 8

// EncodeInt64 writes v's big-endian two's-complement representation with
// the sign bit flipped, so negative values sort before positive ones under
// plain byte comparison. desc bit-inverts the whole key for descending
// order.
func EncodeInt64(dst []byte, v int64, desc bool) {
	u := uint64(v) ^ (uint64(1) << 63)
	if desc {
		u = ^u
	}
	putUint64BE(dst, u)
}

// Float64Width is the byte width of an encoded float64 value.
const Float64Width = 8

// EncodeFloat64 writes v's IEEE-754 bits transformed into the standard
// "totally ordered" key: for non-negative values, flip the sign bit; for
// negative values, flip every bit. This orders -Inf < ... < -0 < +0 < ...
// < +Inf, with NaN's bit pattern sorting consistently (NaN via math.NaN()
// has its sign bit clear, so it sorts after +Inf, matching spec.md §9
// design notes on Go's native NaN comparison being unusable directly).
func EncodeFloat64(dst []byte, v float64, desc bool) {
	bits := math.Float64bits(v)
	if bits&(uint64(1)<<63) != 0 {
		bits = ^bits
	} else {
		bits |= uint64(1) << 63
	}
	if desc {
		bits = ^bits
	}
	putUint64BE(dst, bits)
}

// BoolWidth is the byte width of an encoded bool value.
const BoolWidth = 1

// EncodeBool writes v as 0x00 (false) or 0x01 (true), so false sorts
// before true, matching the PartiQL-derived ordering the engine's own
// sorting package documents (false < true < numeric < ...). desc
// bit-inverts for descending order.
func EncodeBool(dst []byte, v bool, desc bool) {
	b := byte(0x00)
	if v {
		b = 0x01
	}
	if desc {
		b = ^b
	}
	dst[0] = b
}

// EncodeStringPrefix writes up to prefixLen bytes of s into dst (dst must
// be exactly prefixLen bytes), zero-padded if s is shorter, bit-inverted
// under desc. Ties within the prefix are broken later by comparing full
// payload bytes (spec.md §4.3 "Variable-length columns store a prefix ...
// and a pointer to the full payload for tie-breaking").
func EncodeStringPrefix(dst []byte, s []byte, prefixLen int, desc bool) {
	n := copy(dst, s)
	for i := n; i < prefixLen; i++ {
		dst[i] = 0
	}
	if desc {
		for i := range dst {
			dst[i] = ^dst[i]
		}
	}
}

func putUint64BE(dst []byte, u uint64) {
	dst[0] = byte(u >> 56)
	dst[1] = byte(u >> 48)
	dst[2] = byte(u >> 40)
	dst[3] = byte(u >> 32)
	dst[4] = byte(u >> 24)
	dst[5] = byte(u >> 16)
	dst[6] = byte(u >> 8)
	dst[7] = byte(u)
}
