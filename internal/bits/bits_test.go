package bits

import "testing"

func TestU64LERoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 0xFFFFFFFFFFFFFFFF, 0x0102030405060708}
	for _, want := range cases {
		buf := make([]byte, 8)
		PutU64LE(buf, want)
		got := U64LE(buf)
		if got != want {
			t.Errorf("U64LE(PutU64LE(%x)) = %x, want %x", want, got, want)
		}
	}
}

func TestU16LERoundTrip(t *testing.T) {
	buf := make([]byte, 2)
	PutU16LE(buf, 0xBEEF)
	if got := U16LE(buf); got != 0xBEEF {
		t.Errorf("U16LE = %x, want beef", got)
	}
}

func TestRotr64(t *testing.T) {
	if got := Rotr64(1, 1); got != 0x8000000000000000 {
		t.Errorf("Rotr64(1,1) = %x, want 8000000000000000", got)
	}
	if got := Rotr64(0x8000000000000000, 63); got != 1 {
		t.Errorf("Rotr64(1<<63, 63) = %x, want 1", got)
	}
}
