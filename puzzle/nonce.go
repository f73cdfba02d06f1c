package puzzle

import "crypto/rand"

// nonceGen produces the sequence of candidate nonces a single block's
// search loop tries in order. Deterministic mode fills byte i of the
// nonce with (counter >> 8i) & 0xFF then increments, matching spec
// §4.G step 6a exactly; random mode draws each nonce independently
// from a CSPRNG.
type nonceGen struct {
	deterministic bool
	size          int
	counter       uint64
}

func newNonceGen(deterministic bool, size int) *nonceGen {
	return &nonceGen{deterministic: deterministic, size: size}
}

// Next returns the next candidate nonce.
func (g *nonceGen) Next() ([]byte, error) {
	nonce := make([]byte, g.size)
	if g.deterministic {
		c := g.counter
		for i := 0; i < g.size; i++ {
			nonce[i] = byte(c >> (8 * uint(i)))
		}
		g.counter++
		return nonce, nil
	}
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return nonce, nil
}
