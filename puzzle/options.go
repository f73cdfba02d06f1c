// Package puzzle implements the puzzle block cipher: rather than
// transforming plaintext mathematically, it searches for a nonce such
// that the keyed hash of (subkey ‖ nonce) contains the plaintext bytes
// in one of several geometric arrangements, then stores only the
// nonce and the indices where the bytes were found.
package puzzle

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/DOSAYGO-Research/rain-sub000/hashspec"
)

// SearchMode names the geometric arrangement used to locate plaintext
// bytes within a hash output. Numeric values match the file format's
// search_mode byte exactly (see fileheader.Search*).
type SearchMode uint8

const (
	SearchPrefix SearchMode = iota
	SearchSequence
	SearchSeries
	SearchScatter
	SearchMapScatter
	SearchParascatter
)

// String implements fmt.Stringer.
func (m SearchMode) String() string {
	switch m {
	case SearchPrefix:
		return "prefix"
	case SearchSequence:
		return "sequence"
	case SearchSeries:
		return "series"
	case SearchScatter:
		return "scatter"
	case SearchMapScatter:
		return "mapscatter"
	case SearchParascatter:
		return "parascatter"
	default:
		return "unknown"
	}
}

// ErrUnknownSearchMode is returned by ParseSearchMode for an unrecognized name.
var ErrUnknownSearchMode = errors.New("puzzle: unknown search mode")

// ParseSearchMode converts a mode name (as used by cmd/rainsum's flags)
// to a SearchMode.
func ParseSearchMode(name string) (SearchMode, error) {
	switch name {
	case "prefix":
		return SearchPrefix, nil
	case "sequence":
		return SearchSequence, nil
	case "series":
		return SearchSeries, nil
	case "scatter":
		return SearchScatter, nil
	case "mapscatter":
		return SearchMapScatter, nil
	case "parascatter":
		return SearchParascatter, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSearchMode, name)
	}
}

// maxFinalHashLen is the invariant cap on hash_size_bits/8 + output_extension.
const maxFinalHashLen = 65536

// progressInterval is how many tries elapse between progress log lines,
// per the framework-glue contract (spec §4.G step f).
const progressInterval = 1_000_000

// ErrParameter reports an invalid Options value.
var ErrParameter = errors.New("puzzle: invalid parameter")

// Options collects the tunable parameters of a puzzle cipher operation.
// Construct with NewOptions and the With* functional options; the zero
// value is not valid on its own because it carries no HashSpec.
type Options struct {
	Spec               hashspec.Spec
	BlockSize          int
	NonceSize          int
	SearchMode         SearchMode
	Seed               uint64
	Salt               []byte
	DeterministicNonce bool
	OutputExtension    uint32
	Workers            int
	Verbose            bool
}

// Option mutates an Options value being built by NewOptions.
type Option func(*Options)

// WithBlockSize sets the number of plaintext bytes searched per block.
func WithBlockSize(n int) Option { return func(o *Options) { o.BlockSize = n } }

// WithNonceSize sets the number of bytes stored per block nonce.
func WithNonceSize(n int) Option { return func(o *Options) { o.NonceSize = n } }

// WithSearchMode selects the geometric search mode.
func WithSearchMode(m SearchMode) Option { return func(o *Options) { o.SearchMode = m } }

// WithSeed sets the 64-bit seed used both as the hash IV and stored as
// the header's iv field.
func WithSeed(seed uint64) Option { return func(o *Options) { o.Seed = seed } }

// WithSalt sets the salt blob mixed into derivePRK.
func WithSalt(salt []byte) Option {
	return func(o *Options) {
		o.Salt = append([]byte(nil), salt...)
	}
}

// WithDeterministicNonce selects a counter-based nonce sequence instead
// of one drawn from crypto/rand.
func WithDeterministicNonce(b bool) Option { return func(o *Options) { o.DeterministicNonce = b } }

// WithOutputExtension requests extra KDF-extended bytes appended to
// each block's hash output before the search predicate runs.
func WithOutputExtension(n uint32) Option { return func(o *Options) { o.OutputExtension = n } }

// WithWorkers sets the goroutine count parascatter search launches.
// Ignored by every other search mode.
func WithWorkers(n int) Option { return func(o *Options) { o.Workers = n } }

// WithVerbose enables the per-block "processed" summary line (spec
// §4.K: "emitted only in verbose mode"). Progress ticks are unaffected
// — they are written regardless of this flag.
func WithVerbose(b bool) Option { return func(o *Options) { o.Verbose = b } }

// NewOptions builds a validated Options from spec and the given
// functional options, applying defaults for anything unset.
func NewOptions(spec hashspec.Spec, opts ...Option) (Options, error) {
	if !spec.Valid() {
		return Options{}, fmt.Errorf("%w: %v", hashspec.ErrInvalidSpec, spec)
	}

	o := Options{
		Spec:       spec,
		BlockSize:  16,
		NonceSize:  8,
		SearchMode: SearchScatter,
		Workers:    runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.BlockSize <= 0 || o.BlockSize > 255 {
		return Options{}, fmt.Errorf("%w: block_size %d out of range (1..255)", ErrParameter, o.BlockSize)
	}
	if o.NonceSize <= 0 || o.NonceSize > 255 {
		return Options{}, fmt.Errorf("%w: nonce_size %d out of range (1..255)", ErrParameter, o.NonceSize)
	}
	if o.Workers <= 0 {
		o.Workers = 1
	}

	if int(o.Spec.Bits)/8+int(o.OutputExtension) > maxFinalHashLen {
		capped := uint32(maxFinalHashLen - o.Spec.Bits/8)
		logWarnCappedExtension(o.OutputExtension, capped)
		o.OutputExtension = capped
	}

	return o, nil
}
