package puzzle

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/DOSAYGO-Research/rain-sub000/internal/bits"
)

// ErrBounds reports a stored index pointing outside the final hash
// during decryption (spec §7 BoundsError).
var ErrBounds = errors.New("puzzle: index out of bounds")

// usesSingleIndex reports whether mode's block record stores one
// 16-bit start index (prefix, sequence) rather than block_size many.
func usesSingleIndex(mode SearchMode) bool {
	return mode == SearchPrefix || mode == SearchSequence
}

// writeBlockRecord appends nonce followed by the mode-appropriate
// index payload to out.
func writeBlockRecord(out *bytes.Buffer, nonce []byte, mode SearchMode, startIndex uint16, indices []uint16) error {
	out.Write(nonce)
	if usesSingleIndex(mode) {
		var b [2]byte
		bits.PutU16LE(b[:], startIndex)
		out.Write(b[:])
		return nil
	}
	for _, idx := range indices {
		var b [2]byte
		bits.PutU16LE(b[:], idx)
		out.Write(b[:])
	}
	return nil
}

// readBlockRecord reads one block record (nonce plus indices) from r.
// recordLen is the number of indices stored for this particular block
// — the actual plaintext byte count of the block, which is only equal
// to the configured block_size for every block but the last.
func readBlockRecord(r io.Reader, nonceSize, recordLen int, mode SearchMode) (nonce []byte, startIndex uint16, indices []uint16, err error) {
	nonce = make([]byte, nonceSize)
	if _, err = io.ReadFull(r, nonce); err != nil {
		return nil, 0, nil, fmt.Errorf("puzzle: read nonce: %w", err)
	}
	if usesSingleIndex(mode) {
		var b [2]byte
		if _, err = io.ReadFull(r, b[:]); err != nil {
			return nil, 0, nil, fmt.Errorf("puzzle: read start index: %w", err)
		}
		startIndex = bits.U16LE(b[:])
		return nonce, startIndex, nil, nil
	}
	indices = make([]uint16, recordLen)
	raw := make([]byte, 2*recordLen)
	if _, err = io.ReadFull(r, raw); err != nil {
		return nil, 0, nil, fmt.Errorf("puzzle: read indices: %w", err)
	}
	for i := range indices {
		indices[i] = bits.U16LE(raw[2*i:])
	}
	return nonce, 0, indices, nil
}
