package utf8

import (
	"fmt"
	"testing"
	"unicode/utf8"
)

func TestValidStringLength(t *testing.T) {
	testcases := [][]byte{
		[]byte(""),
		[]byte("A"),
		[]byte("01"),
		[]byte("012"),
		[]byte("0123"),
		[]byte("01234"),
		[]byte("012345"),
		[]byte("0123456"),
		[]byte("01234567"),
		[]byte("012345678"),
		[]byte("0123456789"),
		[]byte("all ascii"),
		[]byte("wąż"),
		[]byte("żółw"),
		[]byte("héllo"),
	}

	for i := range testcases {
		str := testcases[i]
		t.Run(fmt.Sprintf("case-%d", i), func(t *testing.T) {
			want := utf8.RuneCount(str)
			got := ValidStringLength(str)
			if want != got {
				t.Errorf("wrong result for %q: want %d got %d", str, want, got)
			}
		})
	}
}

func BenchmarkValidStringLength(b *testing.B) {
	str := []byte("quite long string with the Polish word 'żółw' - a turtle")
	for i := 0; i < b.N; i++ {
		ValidStringLength(str)
	}
}
