package vecframe

import "testing"

func TestChunkAddColumnRejectsCardinalityMismatch(t *testing.T) {
	c := NewChunk(3)
	buf := NewFlatBuffer(KindInt64, 2)
	col := NewFlatColumn(buf, 2)
	if err := c.AddColumn("x", col); err == nil {
		t.Fatal("expected an error for mismatched row count")
	}
}

func TestChunkAddColumnAndLookup(t *testing.T) {
	c := NewChunk(2)
	buf := NewFlatBuffer(KindInt64, 2)
	buf.Int64s[0], buf.Int64s[1] = 1, 2
	col := NewFlatColumn(buf, 2)
	if err := c.AddColumn("x", col); err != nil {
		t.Fatal(err)
	}
	if c.Column("x") != col {
		t.Fatal("Column(\"x\") did not return the column that was added")
	}
	if c.Column("missing") != nil {
		t.Fatal("Column(\"missing\") should return nil")
	}
}

func TestChunkResetClearsColumnsNotCapacity(t *testing.T) {
	c := NewChunk(2)
	buf := NewFlatBuffer(KindInt64, 2)
	col := NewFlatColumn(buf, 2)
	if err := c.AddColumn("x", col); err != nil {
		t.Fatal(err)
	}
	c.Reset()
	if c.N != 0 {
		t.Errorf("N = %d, want 0", c.N)
	}
	if len(c.Columns) != 0 {
		t.Errorf("Columns has %d entries, want 0", len(c.Columns))
	}
	if cap(c.Columns) == 0 {
		t.Error("Reset released the Columns backing array")
	}
}

func TestChunkCheckInvariantsCatchesBadListBounds(t *testing.T) {
	c := NewChunk(1)
	child := NewFlatColumn(NewFlatBuffer(KindInt64, 2), 2)
	listBuf := NewFlatBuffer(KindList, 1)
	listBuf.Lists[0] = ListCell{Offset: 0, Length: 5}
	listBuf.Child = child
	col := NewFlatColumn(listBuf, 1)
	if err := c.AddColumn("xs", col); err != nil {
		t.Fatal(err)
	}
	if err := c.CheckInvariants(); err == nil {
		t.Fatal("expected CheckInvariants to reject an out-of-bounds list cell")
	}
}

func TestChunkCheckInvariantsAcceptsWellFormedColumns(t *testing.T) {
	c := NewChunk(1)
	child := NewFlatColumn(NewFlatBuffer(KindInt64, 3), 3)
	listBuf := NewFlatBuffer(KindList, 1)
	listBuf.Lists[0] = ListCell{Offset: 0, Length: 3}
	listBuf.Child = child
	col := NewFlatColumn(listBuf, 1)
	if err := c.AddColumn("xs", col); err != nil {
		t.Fatal(err)
	}
	if err := c.CheckInvariants(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
