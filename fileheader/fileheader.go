// Package fileheader serializes and deserializes the fixed-layout
// binary header that precedes every encrypted file's block records.
// The layout is fixed wire format, not a Go struct laid out by the
// compiler, so it is packed and unpacked field by field with
// encoding/binary rather than reinterpreted via unsafe — the idiomatic
// Go translation of the reference implementation's #pragma pack
// PackedHeader.
package fileheader

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// MagicNumber identifies the file format ("RCRY" little-endian).
const MagicNumber uint32 = 0x59524352

// Version is the only header version this package writes.
const Version uint8 = 0x02

// Cipher modes.
const (
	CipherModeStream uint8 = 0x10
	CipherModeBlock  uint8 = 0x11
)

// Search modes, as they appear in the block search_mode field.
const (
	SearchPrefix      uint8 = 0x00
	SearchSequence    uint8 = 0x01
	SearchSeries      uint8 = 0x02
	SearchScatter     uint8 = 0x03
	SearchMapScatter  uint8 = 0x04
	SearchParascatter uint8 = 0x05
	SearchStream      uint8 = 0xFF
)

const fixedSize = 4 + 1 + 1 + 2 + 2 + 2 + 2 + 1 + 8 + 1 + 1 + 8 + 32 // 65 bytes
const hmacSize = 32

var (
	// ErrBadMagic is returned by Read when the magic number doesn't match.
	ErrBadMagic = errors.New("fileheader: bad magic number")
	// ErrFieldTooLong is returned by Write when hash_name or salt exceeds 255 bytes.
	ErrFieldTooLong = errors.New("fileheader: field exceeds 255 bytes")
	// ErrTruncated is returned by Read when the stream ends before a complete header is read.
	ErrTruncated = errors.New("fileheader: truncated header")
)

// Header is the fully decoded file header. Field order here matches
// the wire order for documentation purposes only — Write/Read control
// the actual byte layout.
type Header struct {
	Magic            uint32
	Version          uint8
	CipherMode       uint8
	BlockSize        uint16
	NonceSize        uint16
	HashSizeBits     uint16
	OutputExtension  uint16
	IV               uint64
	SearchMode       uint8
	OriginalSize     uint64
	HMAC             [hmacSize]byte
	HashName         string
	Salt             []byte
}

// Write serializes hdr to out: the fixed portion, then hash_name bytes,
// then salt bytes.
func (hdr *Header) Write(out io.Writer) error {
	if len(hdr.HashName) > 255 {
		return fmt.Errorf("%w: hash_name", ErrFieldTooLong)
	}
	if len(hdr.Salt) > 255 {
		return fmt.Errorf("%w: salt", ErrFieldTooLong)
	}

	buf := make([]byte, fixedSize)
	off := 0
	binary.LittleEndian.PutUint32(buf[off:], hdr.Magic)
	off += 4
	buf[off] = hdr.Version
	off++
	buf[off] = hdr.CipherMode
	off++
	binary.LittleEndian.PutUint16(buf[off:], hdr.BlockSize)
	off += 2
	binary.LittleEndian.PutUint16(buf[off:], hdr.NonceSize)
	off += 2
	binary.LittleEndian.PutUint16(buf[off:], hdr.HashSizeBits)
	off += 2
	binary.LittleEndian.PutUint16(buf[off:], hdr.OutputExtension)
	off += 2
	buf[off] = uint8(len(hdr.HashName))
	off++
	binary.LittleEndian.PutUint64(buf[off:], hdr.IV)
	off += 8
	buf[off] = uint8(len(hdr.Salt))
	off++
	buf[off] = hdr.SearchMode
	off++
	binary.LittleEndian.PutUint64(buf[off:], hdr.OriginalSize)
	off += 8
	copy(buf[off:], hdr.HMAC[:])
	off += hmacSize

	if off != fixedSize {
		panic("fileheader: fixedSize layout mismatch")
	}

	if _, err := out.Write(buf); err != nil {
		return fmt.Errorf("fileheader: write fixed header: %w", err)
	}
	if len(hdr.HashName) > 0 {
		if _, err := out.Write([]byte(hdr.HashName)); err != nil {
			return fmt.Errorf("fileheader: write hash_name: %w", err)
		}
	}
	if len(hdr.Salt) > 0 {
		if _, err := out.Write(hdr.Salt); err != nil {
			return fmt.Errorf("fileheader: write salt: %w", err)
		}
	}
	return nil
}

// Read deserializes a Header from in, validating the magic number.
func Read(in io.Reader) (*Header, error) {
	buf := make([]byte, fixedSize)
	if _, err := io.ReadFull(in, buf); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, ErrTruncated
		}
		return nil, fmt.Errorf("fileheader: read fixed header: %w", err)
	}

	hdr := &Header{}
	off := 0
	hdr.Magic = binary.LittleEndian.Uint32(buf[off:])
	off += 4
	if hdr.Magic != MagicNumber {
		return nil, ErrBadMagic
	}
	hdr.Version = buf[off]
	off++
	hdr.CipherMode = buf[off]
	off++
	hdr.BlockSize = binary.LittleEndian.Uint16(buf[off:])
	off += 2
	hdr.NonceSize = binary.LittleEndian.Uint16(buf[off:])
	off += 2
	hdr.HashSizeBits = binary.LittleEndian.Uint16(buf[off:])
	off += 2
	hdr.OutputExtension = binary.LittleEndian.Uint16(buf[off:])
	off += 2
	hashNameLen := buf[off]
	off++
	hdr.IV = binary.LittleEndian.Uint64(buf[off:])
	off += 8
	saltLen := buf[off]
	off++
	hdr.SearchMode = buf[off]
	off++
	hdr.OriginalSize = binary.LittleEndian.Uint64(buf[off:])
	off += 8
	copy(hdr.HMAC[:], buf[off:off+hmacSize])
	off += hmacSize

	if hashNameLen > 0 {
		name := make([]byte, hashNameLen)
		if _, err := io.ReadFull(in, name); err != nil {
			return nil, fmt.Errorf("%w: hash_name: %v", ErrTruncated, err)
		}
		hdr.HashName = string(name)
	}
	if saltLen > 0 {
		hdr.Salt = make([]byte, saltLen)
		if _, err := io.ReadFull(in, hdr.Salt); err != nil {
			return nil, fmt.Errorf("%w: salt: %v", ErrTruncated, err)
		}
	}

	return hdr, nil
}

// Marshal serializes hdr into a contiguous byte buffer.
func (hdr *Header) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := hdr.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal is the inverse of Marshal.
func Unmarshal(b []byte) (*Header, error) {
	return Read(bytes.NewReader(b))
}
