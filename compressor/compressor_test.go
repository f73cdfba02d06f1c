package compressor

import (
	"bytes"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte(""),
		[]byte("a"),
		[]byte("hello hello hello hello hello, compress me"),
		bytes.Repeat([]byte{0x42}, 4096),
	}
	for _, data := range cases {
		compressed, err := Compress(data)
		if err != nil {
			t.Fatalf("Compress(%d bytes): %v", len(data), err)
		}
		got, err := Decompress(compressed)
		if err != nil {
			t.Fatalf("Decompress: %v", err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("round trip mismatch: got %d bytes, want %d bytes", len(got), len(data))
		}
	}
}

func TestCompressReducesRepetitiveInput(t *testing.T) {
	data := bytes.Repeat([]byte("puzzle cipher "), 1000)
	compressed, err := Compress(data)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if len(compressed) >= len(data) {
		t.Errorf("compressed size %d not smaller than input size %d", len(compressed), len(data))
	}
}
