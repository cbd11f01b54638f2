package vecframe

// ListCell is the fixed-width (offset, length) pair a list column stores
// in its primary buffer (spec.md §3 "List cell"). The concatenated
// elements live in the column's single child Column; offset+length must
// lie within the child's valid range.
type ListCell struct {
	Offset int32
	Length int32
}

// shortStringLen is the inline capacity of a StringCell, the boundary
// between "short string, stored in the cell itself" and "long string,
// stored in the chunk arena" (spec.md §3 "String cell"). A StringCell is
// 20 bytes in total: 4-byte Len, 12-byte inline payload, 4-byte ArenaOff.
const shortStringLen = 12

// StringCell is a length-prefixed string handle. Size is tracked exactly
// in Len; there is no null terminator. When Len <= shortStringLen the
// bytes live inline in Short; otherwise ArenaOff locates them in the
// chunk's Arena.
type StringCell struct {
	Len      int32
	Short    [shortStringLen]byte
	ArenaOff int32
}

// IsInline reports whether this cell's bytes are stored inline rather
// than in the arena.
func (c StringCell) IsInline() bool { return c.Len <= shortStringLen }

// NewStringCell builds a StringCell for b, copying into the inline array
// if short or appending to arena otherwise.
func NewStringCell(b []byte, arena *Arena) StringCell {
	c := StringCell{Len: int32(len(b))}
	if c.IsInline() {
		copy(c.Short[:], b)
		return c
	}
	c.ArenaOff = arena.Append(b)
	return c
}

// Bytes returns the cell's bytes, reading from arena only when the cell
// is not inline.
func (c StringCell) Bytes(arena *Arena) []byte {
	if c.IsInline() {
		return c.Short[:c.Len]
	}
	return arena.Bytes(c.ArenaOff, c.Len)
}
