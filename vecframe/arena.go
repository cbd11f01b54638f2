package vecframe

// Arena is the per-chunk payload area that long string (and blob) cells
// point into. Lifetime is chunk lifetime (spec.md §3 "Lifecycle"):
// arena-allocated bytes only outlive their owning chunk when a caller
// explicitly copies them into a downstream chunk's arena via CopyFrom.
type Arena struct {
	buf []byte
}

// NewArena returns an Arena pre-sized to capHint bytes.
func NewArena(capHint int) *Arena {
	return &Arena{buf: make([]byte, 0, capHint)}
}

// Append copies b into the arena and returns its offset.
func (a *Arena) Append(b []byte) int32 {
	off := int32(len(a.buf))
	a.buf = append(a.buf, b...)
	return off
}

// Bytes returns the arena-owned slice [off, off+length). The returned
// slice aliases the arena's backing array and must not be retained past
// the arena's lifetime without copying.
func (a *Arena) Bytes(off, length int32) []byte {
	return a.buf[off : off+length]
}

// Reset clears the arena for reuse without releasing its backing array,
// mirroring the chunk "cleared (not freed) between batches" lifecycle.
func (a *Arena) Reset() {
	a.buf = a.buf[:0]
}

// CopyFrom appends src's bytes for [off,off+length) into a and returns the
// new offset, realizing the "explicitly copied into a downstream chunk's
// arena" escape hatch from the lifecycle rules.
func (a *Arena) CopyFrom(src *Arena, off, length int32) int32 {
	return a.Append(src.Bytes(off, length))
}
