package vecframe

import "testing"

func TestChunkFingerprintIsPermutationInvariant(t *testing.T) {
	build := func(vals []int64) *Chunk {
		c := NewChunk(len(vals))
		buf := NewFlatBuffer(KindInt64, len(vals))
		copy(buf.Int64s, vals)
		if err := c.AddColumn("x", NewFlatColumn(buf, len(vals))); err != nil {
			t.Fatal(err)
		}
		return c
	}

	a := build([]int64{1, 2, 3, 4})
	b := build([]int64{4, 3, 2, 1})

	fa, err := ChunkFingerprint(a, []string{"x"})
	if err != nil {
		t.Fatal(err)
	}
	fb, err := ChunkFingerprint(b, []string{"x"})
	if err != nil {
		t.Fatal(err)
	}
	if fa != fb {
		t.Errorf("fingerprints of permuted chunks differ: %x vs %x", fa, fb)
	}
}

func TestChunkFingerprintDistinguishesNullFromZero(t *testing.T) {
	c1 := NewChunk(1)
	buf1 := NewFlatBuffer(KindInt64, 1)
	if err := c1.AddColumn("x", NewFlatColumn(buf1, 1)); err != nil {
		t.Fatal(err)
	}

	c2 := NewChunk(1)
	buf2 := NewFlatBuffer(KindInt64, 1)
	buf2.Validity.SetValid(0, false)
	if err := c2.AddColumn("x", NewFlatColumn(buf2, 1)); err != nil {
		t.Fatal(err)
	}

	f1, err := ChunkFingerprint(c1, []string{"x"})
	if err != nil {
		t.Fatal(err)
	}
	f2, err := ChunkFingerprint(c2, []string{"x"})
	if err != nil {
		t.Fatal(err)
	}
	if f1 == f2 {
		t.Error("a zero value and a null must not fingerprint the same")
	}
}
