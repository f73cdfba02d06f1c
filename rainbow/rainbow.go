// Package rainbow implements the Rainbow keyed mixing hash: a streaming,
// seeded function over 4 64-bit words producing 64, 128, or 256-bit
// digests. It follows the shape of gtank/blake2's blake2b.Digest (a
// buffered streaming state with Write/Sum/Reset) generalized to a
// variable-output mixing construction rather than BLAKE2's compression
// function.
package rainbow

import (
	"errors"

	"github.com/DOSAYGO-Research/rain-sub000/internal/bits"
)

// Mixing constants shared with rainstorm. These MUST match the
// reference construction bit-for-bit; they are not tunable.
const (
	P uint64 = 0xFFFFFFFFFFFFFFC5
	Q uint64 = 0xB6B4F6C5A3489001
	R uint64 = 0x15D9F3C8BA7A56A5
	S uint64 = 0x1487D7C15CC52B61
	T uint64 = 0x15FDB8E4AB1B9E9D
	U uint64 = 0x12DEEC0D54B73CB7
	V uint64 = 0x278ABA4FA66EFF35
	W uint64 = 0x20D080321A6BA9AF
)

// ValidSizes enumerates the output sizes, in bits, Rainbow can produce.
var ValidSizes = [3]int{64, 128, 256}

// IsValidSize reports whether bits is a supported Rainbow output size.
func IsValidSize(outBits int) bool {
	for _, v := range ValidSizes {
		if v == outBits {
			return true
		}
	}
	return false
}

var ErrBadOutputSize = errors.New("rainbow: unsupported output size")

func mixA(s *[4]uint64) {
	a, b, c, d := s[0], s[1], s[2], s[3]

	a *= P
	a = bits.Rotr64(a, 23)
	a *= Q

	b ^= a
	b *= R
	b = bits.Rotr64(b, 29)
	b *= S

	c *= T
	c = bits.Rotr64(c, 31)
	c *= U

	d ^= c
	d *= V
	d = bits.Rotr64(d, 37)
	d *= W

	s[0], s[1], s[2], s[3] = a, b, c, d
}

func mixB(s *[4]uint64, iv uint64) {
	a, b := s[1], s[2]

	a *= V
	a = bits.Rotr64(a, 23)
	a *= W

	b ^= a + iv
	b *= R
	b = bits.Rotr64(b, 23)
	b *= S

	s[1], s[2] = b, a
}

// tailFold folds the final chunk_len (0..15) trailing bytes of chunk
// into h using the fall-through switch from the reference
// implementation. The fall-through is load-bearing: case 7 also runs
// cases 6..1. Do not rewrite this as a plain loop without verifying
// bit-equivalence against the reference vectors.
func tailFold(h *[4]uint64, chunk []byte, n int) {
	switch {
	case n >= 15:
		h[0] += uint64(chunk[14]) << 56
		fallthrough
	case n >= 14:
		h[1] += uint64(chunk[13]) << 48
		fallthrough
	case n >= 13:
		h[2] += uint64(chunk[12]) << 40
		fallthrough
	case n >= 12:
		h[3] += uint64(chunk[11]) << 32
		fallthrough
	case n >= 11:
		h[0] += uint64(chunk[10]) << 24
		fallthrough
	case n >= 10:
		h[1] += uint64(chunk[9]) << 16
		fallthrough
	case n >= 9:
		h[2] += uint64(chunk[8]) << 8
		fallthrough
	case n >= 8:
		h[3] += uint64(chunk[7])
		fallthrough
	case n >= 7:
		h[0] += uint64(chunk[6]) << 48
		fallthrough
	case n >= 6:
		h[1] += uint64(chunk[5]) << 40
		fallthrough
	case n >= 5:
		h[2] += uint64(chunk[4]) << 32
		fallthrough
	case n >= 4:
		h[3] += uint64(chunk[3]) << 24
		fallthrough
	case n >= 3:
		h[0] += uint64(chunk[2]) << 16
		fallthrough
	case n >= 2:
		h[1] += uint64(chunk[1]) << 8
		fallthrough
	case n >= 1:
		h[2] += uint64(chunk[0])
	}
}

// Sum computes the single-call Rainbow hash of data under seed, producing
// outBits/8 bytes. This is the canonical form used to generate the test
// vectors in the specification: it always runs the tail-folding path
// once after the main 16-byte loop, even when len(data) is an exact
// multiple of 16. Digest.Sum does the same, so both agree on the same
// bytes (see Digest's doc comment for how this differs from the
// reference's streaming update).
func Sum(seed uint64, outBits int, data []byte) ([]byte, error) {
	if !IsValidSize(outBits) {
		return nil, ErrBadOutputSize
	}

	olen := uint64(len(data))
	h := [4]uint64{seed + olen + 1, seed + olen + 3, seed + olen + 5, seed + olen + 7}

	inner := false
	for len(data) >= 16 {
		g := bits.U64LE(data[0:8])
		h[0] -= g
		h[1] += g
		g = bits.U64LE(data[8:16])
		h[2] += g
		h[3] -= g

		if inner {
			mixB(&h, seed)
		} else {
			mixA(&h)
		}
		inner = !inner

		data = data[16:]
	}

	mixB(&h, seed)
	tailFold(&h, data, len(data))
	mixA(&h)
	mixB(&h, seed)
	mixA(&h)

	out := make([]byte, outBits/8)
	emit(&h, seed, out)
	return out, nil
}

// emit runs the finalization ladder, writing outBits/8 bytes (as
// determined by len(out)) starting from the already-mixed state h.
func emit(h *[4]uint64, seed uint64, out []byte) {
	g := uint64(0) - h[2] - h[3]
	bits.PutU64LE(out[0:8], g)

	if len(out) >= 16 {
		mixA(h)
		g = uint64(0) - h[3] - h[2]
		bits.PutU64LE(out[8:16], g)
	}
	if len(out) >= 32 {
		mixA(h)
		mixB(h, seed)
		mixA(h)
		g = uint64(0) - h[3] - h[2]
		bits.PutU64LE(out[16:24], g)

		mixA(h)
		g = uint64(0) - h[3] - h[2]
		bits.PutU64LE(out[24:32], g)
	}
}

// Digest is the streaming Rainbow hash state. Its zero value is not
// usable; construct with New. Once Sum has been called the state is
// finalized: subsequent Sum calls return the same bytes and Write
// becomes a no-op, matching the HashState invariant in the
// specification.
//
// The reference C++ implementation runs its tail-folding path inside
// every call to update() whose chunk_len ends below 16, which means a
// multi-call streaming session can trigger the tail path repeatedly
// mid-stream if callers pass oddly-sized chunks — a documented hazard
// in the original (see the specification's open questions). This Go
// Digest instead buffers any partial 16-byte chunk across Write calls
// and only runs the tail path once, inside Sum, regardless of how the
// input was chunked. That makes Digest.Write/Sum agree with Sum(...)
// on the same bytes for any chunking, which is the invariant the
// specification's testable properties actually require; it does not
// reproduce the reference implementation's own internal mid-stream
// hazard, which only matters to a caller finalizing early mid-session
// (not supported here — Sum always consumes the whole buffered tail).
type Digest struct {
	h         [4]uint64
	seed      uint64
	size      int
	inner     bool
	buf       [16]byte
	buflen    int
	finalized bool
	sum       []byte
}

// New constructs a Rainbow streaming digest. totalLen must equal the
// exact number of bytes that will be written before Sum is called: the
// initial state depends on it, per the specification's absorption
// formula h[i] = seed + input_len + c_i.
func New(seed uint64, totalLen int, outBits int) (*Digest, error) {
	if !IsValidSize(outBits) {
		return nil, ErrBadOutputSize
	}
	olen := uint64(totalLen)
	d := &Digest{
		seed: seed,
		size: outBits / 8,
		h:    [4]uint64{seed + olen + 1, seed + olen + 3, seed + olen + 5, seed + olen + 7},
	}
	return d, nil
}

// Write absorbs more input. It is a no-op after Sum has been called.
func (d *Digest) Write(p []byte) (int, error) {
	n := len(p)
	if d.finalized {
		return n, nil
	}

	for len(p) > 0 {
		if d.buflen == 16 {
			d.absorbFull()
		}
		c := copy(d.buf[d.buflen:], p)
		d.buflen += c
		p = p[c:]
	}
	return n, nil
}

func (d *Digest) absorbFull() {
	g := bits.U64LE(d.buf[0:8])
	d.h[0] -= g
	d.h[1] += g
	g = bits.U64LE(d.buf[8:16])
	d.h[2] += g
	d.h[3] -= g

	if d.inner {
		mixB(&d.h, d.seed)
	} else {
		mixA(&d.h)
	}
	d.inner = !d.inner
	d.buflen = 0
}

// Sum finalizes the digest (if not already finalized) and appends the
// result to b, returning the extended slice. It does not mutate state
// visible to further Sum calls: the same bytes are always returned.
func (d *Digest) Sum(b []byte) []byte {
	if !d.finalized {
		h := d.h
		if d.buflen == 16 {
			// A full pending chunk is absorbed before the tail step, matching
			// the reference's "process 16 bytes at a time, then always run
			// the tail path on whatever remains" loop structure.
			g := bits.U64LE(d.buf[0:8])
			h[0] -= g
			h[1] += g
			g = bits.U64LE(d.buf[8:16])
			h[2] += g
			h[3] -= g
			if d.inner {
				mixB(&h, d.seed)
			} else {
				mixA(&h)
			}
			d.buflen = 0
		}

		mixB(&h, d.seed)
		tailFold(&h, d.buf[:d.buflen], d.buflen)
		mixA(&h)
		mixB(&h, d.seed)
		mixA(&h)

		out := make([]byte, d.size)
		emit(&h, d.seed, out)
		d.sum = out
		d.finalized = true
	}
	return append(b, d.sum...)
}

// Reset is not supported: Rainbow's initial state is derived from the
// total input length, which is only known at construction time.
func (d *Digest) Reset() {
	panic("rainbow: Digest cannot be reset, construct a new one with New")
}

// Size returns the digest output size in bytes.
func (d *Digest) Size() int { return d.size }

// BlockSize returns the hash's absorption chunk size in bytes.
func (d *Digest) BlockSize() int { return 16 }
