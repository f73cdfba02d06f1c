// Package rainstorm implements the Rainstorm keyed mixing hash: a
// streaming, seeded function over 16 64-bit words producing 64, 128,
// 256, or 512-bit digests. Its Digest type follows the same
// buffered-streaming shape as gtank/blake2's blake2b.Digest and this
// module's own rainbow.Digest, generalized to Rainstorm's 64-byte
// absorption block and weakfunc round function.
package rainstorm

import (
	"errors"

	"github.com/DOSAYGO-Research/rain-sub000/internal/bits"
)

const (
	p uint64 = 0xFFFFFFFFFFFFFFC5
	q uint64 = 0xB6B4F6C5A3489001
	r uint64 = 0x15D9F3C8BA7A56A5
	s uint64 = 0x1487D7C15CC52B61
	t uint64 = 0x15FDB8E4AB1B9E9D
	u uint64 = 0x12DEEC0D54B73CB7
	v uint64 = 0x278ABA4FA66EFF35
	w uint64 = 0x20D080321A6BA9AF
)

// K holds the eight mixing primes, reused from rainbow's constant set.
var K = [8]uint64{p, q, r, s, t, u, v, w}

// Z holds the eight per-lane rotation amounts.
var Z = [8]uint64{17, 19, 23, 29, 31, 37, 41, 53}

const (
	ctrLeft  uint64 = 0xefcdab8967452301
	ctrRight uint64 = 0x1032547698badcfe

	rounds      = 4
	finalRounds = 2
	blockSize   = 64
)

// ValidSizes enumerates the output sizes, in bits, Rainstorm can produce.
var ValidSizes = [4]int{64, 128, 256, 512}

// IsValidSize reports whether bits is a supported Rainstorm output size.
func IsValidSize(outBits int) bool {
	for _, sz := range ValidSizes {
		if sz == outBits {
			return true
		}
	}
	return false
}

var ErrBadOutputSize = errors.New("rainstorm: unsupported output size")

// weakfunc is the Rainstorm round function. left selects which half of
// the 16-word state ingests data[0:8] this round; the index arithmetic
// for the right-hand path is given exactly in the specification and must
// not be simplified.
func weakfunc(h *[16]uint64, data *[8]uint64, left bool) {
	// Index arithmetic here follows the reference implementation
	// precisely, including the left path's unmasked j (it runs 1..8,
	// reaching into the high half at i==7 without wrapping back to 0).
	if left {
		ctr := ctrLeft
		for i, j, k := 0, 1, 8; i < 8; i, j, k = i+1, j+1, k+1 {
			h[i] ^= data[i]
			h[i] -= K[i]
			h[i] = bits.Rotr64(h[i], uint(Z[i]))
			h[k] ^= h[i]
			ctr += h[i]
			h[j] -= ctr
		}
		return
	}

	ctr := ctrRight
	for i, j, k := 8, 0, 1; i < 16; i, j, k = i+1, j+1, k+1 {
		h[i] ^= data[j]
		h[i] -= K[j]
		h[i] = bits.Rotr64(h[i], uint(Z[j]))
		h[j] ^= h[i]
		ctr += h[i]
		h[(k&7)+8] -= ctr
	}
}

func initState(seed uint64, olen uint64) [16]uint64 {
	c := [16]uint64{1, 2, 2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43}
	var h [16]uint64
	for i := range h {
		h[i] = seed + olen + c[i]
	}
	return h
}

func loadBlock(chunk []byte) [8]uint64 {
	var temp [8]uint64
	for i := 0; i < 8; i++ {
		temp[i] = bits.U64LE(chunk[i*8 : i*8+8])
	}
	return temp
}

// padTail builds the padded final 64-byte block per the specification:
// every byte set to (0x80+r)&0xFF, then the first r bytes overwritten
// with the actual tail bytes.
func padTail(tail []byte) [8]uint64 {
	r := len(tail)
	fill := byte((0x80 + r) & 0xFF)
	var buf [64]byte
	for i := range buf {
		buf[i] = fill
	}
	copy(buf[:], tail)
	return loadBlock(buf[:])
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Sum computes the single-call Rainstorm hash of data under seed,
// producing outBits/8 bytes.
func Sum(seed uint64, outBits int, data []byte) ([]byte, error) {
	if !IsValidSize(outBits) {
		return nil, ErrBadOutputSize
	}

	olen := uint64(len(data))
	h := initState(seed, olen)

	for len(data) >= blockSize {
		temp := loadBlock(data)
		for i := 0; i < rounds; i++ {
			weakfunc(&h, &temp, i&1 == 0)
		}
		data = data[blockSize:]
	}

	temp := padTail(data)
	for i := 0; i < rounds; i++ {
		weakfunc(&h, &temp, i&1 == 0)
	}
	for i := 0; i < 8; i++ {
		h[i] -= h[i+8]
	}
	if outBits > 64 {
		n := maxInt(outBits/64, finalRounds)
		for i := 0; i < n; i++ {
			weakfunc(&h, &temp, true)
		}
	}

	words := minInt(8, outBits/64)
	out := make([]byte, outBits/8)
	for i := 0; i < words; i++ {
		bits.PutU64LE(out[i*8:i*8+8], h[i])
	}
	return out, nil
}

// Digest is the streaming Rainstorm hash state. Construct with New,
// which (like rainbow.Digest) requires the total input length up front
// because the initial state depends on it.
type Digest struct {
	h         [16]uint64
	seed      uint64
	size      int
	buf       [blockSize]byte
	buflen    int
	finalized bool
	sum       []byte
}

// New constructs a Rainstorm streaming digest for exactly totalLen bytes
// of future input.
func New(seed uint64, totalLen int, outBits int) (*Digest, error) {
	if !IsValidSize(outBits) {
		return nil, ErrBadOutputSize
	}
	return &Digest{
		seed: seed,
		size: outBits / 8,
		h:    initState(seed, uint64(totalLen)),
	}, nil
}

// Write absorbs more input. It is a no-op after Sum has been called.
func (d *Digest) Write(p []byte) (int, error) {
	n := len(p)
	if d.finalized {
		return n, nil
	}
	for len(p) > 0 {
		if d.buflen == blockSize {
			d.absorbFull()
		}
		c := copy(d.buf[d.buflen:], p)
		d.buflen += c
		p = p[c:]
	}
	return n, nil
}

func (d *Digest) absorbFull() {
	temp := loadBlock(d.buf[:])
	for i := 0; i < rounds; i++ {
		weakfunc(&d.h, &temp, i&1 == 0)
	}
	d.buflen = 0
}

// Sum finalizes the digest (if not already finalized) and appends the
// result to b.
func (d *Digest) Sum(b []byte) []byte {
	if !d.finalized {
		h := d.h
		pending := d.buf[:d.buflen]
		if d.buflen == blockSize {
			temp := loadBlock(pending)
			for i := 0; i < rounds; i++ {
				weakfunc(&h, &temp, i&1 == 0)
			}
			pending = nil
		}

		temp := padTail(pending)
		for i := 0; i < rounds; i++ {
			weakfunc(&h, &temp, i&1 == 0)
		}
		for i := 0; i < 8; i++ {
			h[i] -= h[i+8]
		}
		outBits := d.size * 8
		if outBits > 64 {
			n := maxInt(outBits/64, finalRounds)
			for i := 0; i < n; i++ {
				weakfunc(&h, &temp, true)
			}
		}

		words := minInt(8, outBits/64)
		out := make([]byte, d.size)
		for i := 0; i < words; i++ {
			bits.PutU64LE(out[i*8:i*8+8], h[i])
		}
		d.sum = out
		d.finalized = true
	}
	return append(b, d.sum...)
}

// Reset is not supported: Rainstorm's initial state is derived from the
// total input length, which is only known at construction time.
func (d *Digest) Reset() {
	panic("rainstorm: Digest cannot be reset, construct a new one with New")
}

// Size returns the digest output size in bytes.
func (d *Digest) Size() int { return d.size }

// BlockSize returns the hash's absorption chunk size in bytes.
func (d *Digest) BlockSize() int { return blockSize }
