package puzzle

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/DOSAYGO-Research/rain-sub000/compressor"
	"github.com/DOSAYGO-Research/rain-sub000/fileheader"
	"github.com/DOSAYGO-Research/rain-sub000/hashspec"
	"github.com/DOSAYGO-Research/rain-sub000/internal/bits"
	"github.com/DOSAYGO-Research/rain-sub000/kdf"
	"github.com/DOSAYGO-Research/rain-sub000/scatter"
)

// ErrUnsupportedHash is returned by Decrypt when the header names a
// hash not recognized by hashspec.ParseAlgorithm.
var ErrUnsupportedHash = errors.New("puzzle: unsupported hash in header")

// ErrWrongCipherMode is returned by Decrypt when the header's
// cipher_mode is not the block puzzle cipher.
var ErrWrongCipherMode = errors.New("puzzle: header is not block cipher mode")

// ErrIntegrity is returned by Decrypt when the reconstructed plaintext
// length does not match the header's original_size (spec §7
// IntegrityError).
var ErrIntegrity = errors.New("puzzle: reconstructed size mismatch")

// Encrypt compresses plaintext, derives the per-block subkey stream,
// and for each block searches for a nonce under opts.SearchMode,
// producing the header-prefixed ciphertext described in spec §3/§4.G.
func Encrypt(ctx context.Context, plaintext []byte, key string, opts Options) ([]byte, error) {
	compressed, err := compressor.Compress(plaintext)
	if err != nil {
		return nil, fmt.Errorf("puzzle: compress: %w", err)
	}

	hdr := &fileheader.Header{
		Magic:           fileheader.MagicNumber,
		Version:         fileheader.Version,
		CipherMode:      fileheader.CipherModeBlock,
		BlockSize:       uint16(opts.BlockSize),
		NonceSize:       uint16(opts.NonceSize),
		HashSizeBits:    uint16(opts.Spec.Bits),
		OutputExtension: uint16(opts.OutputExtension),
		IV:              opts.Seed,
		SearchMode:      uint8(opts.SearchMode),
		OriginalSize:    uint64(len(compressed)),
		HashName:        opts.Spec.Algorithm.String(),
		Salt:            opts.Salt,
	}

	var out bytes.Buffer
	if err := hdr.Write(&out); err != nil {
		return nil, fmt.Errorf("puzzle: write header: %w", err)
	}

	subkeys, err := deriveSubkeys(opts.Seed, opts.Salt, []byte(key), opts.Spec, len(compressed), opts.BlockSize)
	if err != nil {
		return nil, err
	}

	subkeySize := opts.Spec.SubkeySize()
	gen := newNonceGen(opts.DeterministicNonce, opts.NonceSize)
	totalBlocks := numBlocks(len(compressed), opts.BlockSize)

	for i := 0; i < totalBlocks; i++ {
		start := i * opts.BlockSize
		end := start + opts.BlockSize
		if end > len(compressed) {
			end = len(compressed)
		}
		thisBlock := compressed[start:end]
		subkey := subkeys[i*subkeySize : (i+1)*subkeySize]

		var (
			nonce      []byte
			startIndex uint16
			indices    []uint16
		)
		if opts.SearchMode == SearchParascatter {
			nonce, indices, err = scatter.Parascatter(ctx, thisBlock, subkey, scatter.Params{
				Spec:            opts.Spec,
				Seed:            opts.Seed,
				OutputExtension: opts.OutputExtension,
				NonceSize:       opts.NonceSize,
				Deterministic:   opts.DeterministicNonce,
				Workers:         opts.Workers,
			})
		} else {
			nonce, startIndex, indices, err = searchBlock(i, thisBlock, subkey, opts, gen)
		}
		if err != nil {
			return nil, fmt.Errorf("puzzle: block %d: %w", i, err)
		}

		if err := writeBlockRecord(&out, nonce, opts.SearchMode, startIndex, indices); err != nil {
			return nil, fmt.Errorf("puzzle: block %d: %w", i, err)
		}
		logBlockProcessed(i, totalBlocks, 0, opts.Verbose)
	}

	return out.Bytes(), nil
}

// searchBlock runs the sequential per-block search loop (spec §4.G
// step 6, every mode except parascatter) until finalHash satisfies the
// mode predicate. The loop never fails; it retries with a fresh nonce
// forever, matching spec §7's "puzzle encryption is total".
func searchBlock(blockIdx int, thisBlock, subkey []byte, opts Options, gen *nonceGen) (nonce []byte, startIndex uint16, indices []uint16, err error) {
	var tries uint64
	for {
		tries++
		nonce, err = gen.Next()
		if err != nil {
			return nil, 0, nil, err
		}

		finalHash, err := computeFinalHash(opts.Spec, opts.Seed, subkey, nonce, opts.OutputExtension)
		if err != nil {
			return nil, 0, nil, err
		}

		switch opts.SearchMode {
		case SearchPrefix:
			if searchPrefix(finalHash, thisBlock) {
				return nonce, 0, nil, nil
			}
		case SearchSequence:
			if idx, ok := searchSequence(finalHash, thisBlock); ok {
				return nonce, uint16(idx), nil, nil
			}
		case SearchSeries:
			if idx, ok := searchSeries(finalHash, thisBlock); ok {
				return nonce, 0, idx, nil
			}
		case SearchScatter:
			if idx, ok := searchScatter(finalHash, thisBlock); ok {
				return nonce, 0, idx, nil
			}
		case SearchMapScatter:
			if idx, ok := searchMapScatter(finalHash, thisBlock); ok {
				return nonce, 0, idx, nil
			}
		default:
			return nil, 0, nil, fmt.Errorf("%w: %v", ErrParameter, opts.SearchMode)
		}

		if tries%progressInterval == 0 {
			logProgress(blockIdx, tries, opts.SearchMode)
		}
	}
}

// computeFinalHash reproduces spec §4.G step (c): hash(subkey‖nonce),
// optionally extended with extendOutputKDF(trial, ...) where trial
// (not a derived PRK) is deliberately the KDF's first argument.
func computeFinalHash(spec hashspec.Spec, seed uint64, subkey, nonce []byte, outputExtension uint32) ([]byte, error) {
	trial := make([]byte, 0, len(subkey)+len(nonce))
	trial = append(trial, subkey...)
	trial = append(trial, nonce...)

	hashOut, err := hashspec.Invoke(spec, seed, trial)
	if err != nil {
		return nil, err
	}
	if outputExtension == 0 {
		return hashOut, nil
	}
	extra, err := kdf.ExtendOutputKDF(trial, int(outputExtension), spec)
	if err != nil {
		return nil, err
	}
	return append(hashOut, extra...), nil
}

// deriveSubkeys computes derivePRK then stretches it to cover every
// block's subkey (spec §4.G step 4 / §3 "Subkey stream").
func deriveSubkeys(seed uint64, salt, ikm []byte, spec hashspec.Spec, compressedLen, blockSize int) ([]byte, error) {
	var seedBytes [8]byte
	bits.PutU64LE(seedBytes[:], seed)

	prk, err := kdf.DerivePRK(seedBytes[:], salt, ikm, spec)
	if err != nil {
		return nil, fmt.Errorf("puzzle: derivePRK: %w", err)
	}

	total := numBlocks(compressedLen, blockSize)
	subkeys, err := kdf.ExtendOutputKDF(prk, total*spec.SubkeySize(), spec)
	if err != nil {
		return nil, fmt.Errorf("puzzle: extendOutputKDF: %w", err)
	}
	return subkeys, nil
}

func numBlocks(totalLen, blockSize int) int {
	if totalLen == 0 {
		return 0
	}
	return (totalLen + blockSize - 1) / blockSize
}

// Decrypt parses a header-prefixed ciphertext produced by Encrypt,
// re-derives the subkey stream, and reconstructs plaintext block by
// block from each record's (nonce, indices) per spec §4.H.
func Decrypt(ciphertext []byte, key string) ([]byte, error) {
	r := bytes.NewReader(ciphertext)
	hdr, err := fileheader.Read(r)
	if err != nil {
		return nil, fmt.Errorf("puzzle: read header: %w", err)
	}
	if hdr.CipherMode != fileheader.CipherModeBlock {
		return nil, ErrWrongCipherMode
	}

	algo, err := hashspec.ParseAlgorithm(hdr.HashName)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedHash, hdr.HashName)
	}
	spec := hashspec.Spec{Algorithm: algo, Bits: int(hdr.HashSizeBits)}
	if !spec.Valid() {
		return nil, fmt.Errorf("%w: %v/%d", hashspec.ErrInvalidSpec, algo, hdr.HashSizeBits)
	}
	mode := SearchMode(hdr.SearchMode)

	blockSize := int(hdr.BlockSize)
	subkeys, err := deriveSubkeys(hdr.IV, hdr.Salt, []byte(key), spec, int(hdr.OriginalSize), blockSize)
	if err != nil {
		return nil, err
	}
	subkeySize := spec.SubkeySize()
	totalBlocks := numBlocks(int(hdr.OriginalSize), blockSize)

	compressed := make([]byte, 0, hdr.OriginalSize)
	for i := 0; i < totalBlocks; i++ {
		thisBlockSize := blockSize
		if remaining := int(hdr.OriginalSize) - i*blockSize; remaining < blockSize {
			thisBlockSize = remaining
		}

		nonce, startIndex, indices, err := readBlockRecord(r, int(hdr.NonceSize), thisBlockSize, mode)
		if err != nil {
			return nil, fmt.Errorf("puzzle: block %d: %w", i, err)
		}

		subkey := subkeys[i*subkeySize : (i+1)*subkeySize]
		finalHash, err := computeFinalHash(spec, hdr.IV, subkey, nonce, uint32(hdr.OutputExtension))
		if err != nil {
			return nil, fmt.Errorf("puzzle: block %d: %w", i, err)
		}

		block, err := reconstructBlock(finalHash, mode, startIndex, indices, thisBlockSize)
		if err != nil {
			return nil, fmt.Errorf("puzzle: block %d: %w", i, err)
		}
		compressed = append(compressed, block...)
	}

	if uint64(len(compressed)) != hdr.OriginalSize {
		return nil, fmt.Errorf("%w: got %d bytes, header says %d", ErrIntegrity, len(compressed), hdr.OriginalSize)
	}

	plaintext, err := compressor.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("puzzle: decompress: %w", err)
	}
	return plaintext, nil
}

// reconstructBlock inverts the mode predicate: it reads thisBlockSize
// plaintext bytes back out of finalHash at the recorded positions.
func reconstructBlock(finalHash []byte, mode SearchMode, startIndex uint16, indices []uint16, thisBlockSize int) ([]byte, error) {
	switch mode {
	case SearchPrefix:
		if thisBlockSize > len(finalHash) {
			return nil, fmt.Errorf("%w: prefix length %d exceeds hash length %d", ErrBounds, thisBlockSize, len(finalHash))
		}
		return append([]byte(nil), finalHash[:thisBlockSize]...), nil
	case SearchSequence:
		end := int(startIndex) + thisBlockSize
		if end > len(finalHash) {
			return nil, fmt.Errorf("%w: start %d + size %d exceeds hash length %d", ErrBounds, startIndex, thisBlockSize, len(finalHash))
		}
		return append([]byte(nil), finalHash[startIndex:end]...), nil
	case SearchSeries, SearchScatter, SearchMapScatter, SearchParascatter:
		block := make([]byte, thisBlockSize)
		for j := 0; j < thisBlockSize; j++ {
			idx := indices[j]
			if int(idx) >= len(finalHash) {
				return nil, fmt.Errorf("%w: index %d exceeds hash length %d", ErrBounds, idx, len(finalHash))
			}
			block[j] = finalHash[idx]
		}
		return block, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrParameter, mode)
	}
}
