// Package compressor wraps the deflate codec the puzzle cipher runs
// plaintext through before block search. Grounded on the rest of the
// retrieval pack's preference for klauspost/compress over the stdlib
// compress/flate package for this exact concern (e.g. fenilsonani/vcs's
// internal/pack/hyperpack.go and globalmac/qwick's qwick.go both reach
// for a klauspost/compress codec rather than the standard library).
package compressor

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// Compress deflates data at best-compression effort.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("compressor: new writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("compressor: write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("compressor: close: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress inflates data produced by Compress.
func Decompress(data []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("compressor: read: %w", err)
	}
	return out, nil
}
