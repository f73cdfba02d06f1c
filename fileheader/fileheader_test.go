package fileheader

import (
	"bytes"
	"testing"
)

func sampleHeader() *Header {
	return &Header{
		Magic:           MagicNumber,
		Version:         Version,
		CipherMode:      CipherModeBlock,
		BlockSize:       16,
		NonceSize:       8,
		HashSizeBits:    256,
		OutputExtension: 0,
		IV:              0xDEADBEEFCAFEBABE,
		SearchMode:      SearchScatter,
		OriginalSize:    12345,
		HashName:        "rainstorm",
		Salt:            []byte{0xAA, 0xBB, 0xCC},
	}
}

func TestRoundTrip(t *testing.T) {
	hdr := sampleHeader()

	var buf bytes.Buffer
	if err := hdr.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if got.Magic != hdr.Magic ||
		got.Version != hdr.Version ||
		got.CipherMode != hdr.CipherMode ||
		got.BlockSize != hdr.BlockSize ||
		got.NonceSize != hdr.NonceSize ||
		got.HashSizeBits != hdr.HashSizeBits ||
		got.OutputExtension != hdr.OutputExtension ||
		got.IV != hdr.IV ||
		got.SearchMode != hdr.SearchMode ||
		got.OriginalSize != hdr.OriginalSize ||
		got.HashName != hdr.HashName ||
		!bytes.Equal(got.Salt, hdr.Salt) ||
		got.HMAC != hdr.HMAC {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, hdr)
	}
}

func TestRoundTripEmptySaltAndName(t *testing.T) {
	hdr := &Header{
		Magic:        MagicNumber,
		Version:      Version,
		CipherMode:   CipherModeBlock,
		SearchMode:   SearchPrefix,
		OriginalSize: 0,
	}
	b, err := hdr.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(b)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.HashName != "" || len(got.Salt) != 0 {
		t.Errorf("expected empty hash name and salt, got %+v", got)
	}
}

func TestReadRejectsBadMagic(t *testing.T) {
	hdr := sampleHeader()
	b, err := hdr.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	b[0] ^= 0xFF // corrupt the magic number
	if _, err := Unmarshal(b); err != ErrBadMagic {
		t.Errorf("Unmarshal with bad magic = %v, want ErrBadMagic", err)
	}
}

func TestReadRejectsTruncated(t *testing.T) {
	hdr := sampleHeader()
	b, err := hdr.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if _, err := Unmarshal(b[:10]); err != ErrTruncated {
		t.Errorf("Unmarshal truncated header = %v, want ErrTruncated", err)
	}
}

func TestWriteRejectsOversizedFields(t *testing.T) {
	hdr := sampleHeader()
	hdr.HashName = string(make([]byte, 256))
	var buf bytes.Buffer
	if err := hdr.Write(&buf); err == nil {
		t.Error("Write with 256-byte hash_name succeeded, want error")
	}
}
