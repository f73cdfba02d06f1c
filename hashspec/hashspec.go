// Package hashspec selects a concrete Rainbow or Rainstorm instantiation
// from an (algorithm, output-bits) pair. The reference implementation
// specializes a C++ template on <bits, bswap>; Go has no equivalent
// compile-time specialization worth the complexity at this size, so
// this is a small runtime dispatch table instead, per the
// specification's own re-architecture guidance.
package hashspec

import (
	"errors"
	"fmt"

	"github.com/DOSAYGO-Research/rain-sub000/rainbow"
	"github.com/DOSAYGO-Research/rain-sub000/rainstorm"
)

// Algorithm identifies which mixing hash to use.
type Algorithm int

const (
	Rainbow Algorithm = iota
	Rainstorm
)

// String implements fmt.Stringer.
func (a Algorithm) String() string {
	switch a {
	case Rainbow:
		return "rainbow"
	case Rainstorm:
		return "rainstorm"
	default:
		return "unknown"
	}
}

var ErrUnknownAlgorithm = errors.New("hashspec: unknown algorithm")

// ParseAlgorithm converts a name (including the CLI aliases "bow" and
// "storm") to an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "rainbow", "bow":
		return Rainbow, nil
	case "rainstorm", "storm":
		return Rainstorm, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}

// Spec is the tuple (algorithm, output_bits) that selects a concrete
// hash instantiation.
type Spec struct {
	Algorithm Algorithm
	Bits      int
}

// Valid reports whether s names a supported instantiation.
func (s Spec) Valid() bool {
	switch s.Algorithm {
	case Rainbow:
		return rainbow.IsValidSize(s.Bits)
	case Rainstorm:
		return rainstorm.IsValidSize(s.Bits)
	default:
		return false
	}
}

var ErrInvalidSpec = errors.New("hashspec: invalid (algorithm, output_bits) pair")

// Invoke computes the hash of input under seed using the instantiation
// named by s, writing exactly s.Bits/8 bytes.
func Invoke(s Spec, seed uint64, input []byte) ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %v/%d", ErrInvalidSpec, s.Algorithm, s.Bits)
	}
	switch s.Algorithm {
	case Rainbow:
		return rainbow.Sum(seed, s.Bits, input)
	case Rainstorm:
		return rainstorm.Sum(seed, s.Bits, input)
	default:
		return nil, ErrInvalidSpec
	}
}

// SubkeySize returns the number of bytes a single hash invocation
// produces under s — s.Bits/8.
func (s Spec) SubkeySize() int {
	return s.Bits / 8
}
