// Package scatter implements the parallel variant of the puzzle
// cipher's scatter search mode: independent goroutines race to find a
// nonce whose hash contains every plaintext byte of a block, with
// first-writer-wins termination instead of one sequential search loop.
package scatter

import (
	"context"
	"crypto/rand"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/DOSAYGO-Research/rain-sub000/hashspec"
	"github.com/DOSAYGO-Research/rain-sub000/kdf"
)

// progressInterval mirrors puzzle's sequential progress cadence (spec
// §4.G step f / §4.I "configurable intervals").
const progressInterval = 1_000_000

// Params carries the search parameters a parascatter call needs. It is
// a plain struct rather than a shared puzzle.Options to avoid an
// import cycle (puzzle.Encrypt calls into this package for mode 0x05).
type Params struct {
	Spec            hashspec.Spec
	Seed            uint64
	OutputExtension uint32
	NonceSize       int
	Deterministic   bool
	Workers         int
}

// result is the single-publisher winner slot. Every worker owns its
// own local nonce/indices buffers; only the CAS winner ever writes
// here, and only before it calls cancel, so no further synchronization
// is required for the main goroutine to read it after errgroup.Wait.
type result struct {
	nonce   []byte
	indices []uint16
}

// Parascatter launches Workers goroutines, each running an independent
// infinite search over its own nonce sequence, until one finds a nonce
// whose hash output contains every byte of block under the scatter
// predicate (first unused occurrence, scanning from the start for each
// byte). The winning goroutine publishes via a CAS on found and cancels
// the others; Parascatter blocks until every worker has observed
// cancellation and returned.
func Parascatter(ctx context.Context, block, subkey []byte, p Params) (nonce []byte, indices []uint16, err error) {
	workers := p.Workers
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var found atomic.Bool
	var winner result

	g, ctx := errgroup.WithContext(ctx)
	for id := 0; id < workers; id++ {
		id := id
		g.Go(func() error {
			return runWorker(ctx, id, workers, block, subkey, p, &found, &winner, cancel)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if winner.nonce == nil {
		// Every worker returned without the found flag ever having been
		// set; this only happens if the caller's ctx was canceled first.
		return nil, nil, ctx.Err()
	}
	return winner.nonce, winner.indices, nil
}

func runWorker(ctx context.Context, id, workers int, block, subkey []byte, p Params, found *atomic.Bool, winner *result, cancel context.CancelFunc) error {
	logger := logrus.WithFields(logrus.Fields{"worker": id})
	var localTries uint64

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if found.Load() {
			return nil
		}

		localTries++
		nonce, err := nextNonce(id, workers, localTries, p)
		if err != nil {
			return err
		}

		trial := make([]byte, 0, len(subkey)+len(nonce))
		trial = append(trial, subkey...)
		trial = append(trial, nonce...)

		hashOut, err := hashspec.Invoke(p.Spec, p.Seed, trial)
		if err != nil {
			return err
		}
		finalHash := hashOut
		if p.OutputExtension > 0 {
			extra, err := kdf.ExtendOutputKDF(trial, int(p.OutputExtension), p.Spec)
			if err != nil {
				return err
			}
			finalHash = append(finalHash, extra...)
		}

		idxs, ok := scatterPredicate(finalHash, block)
		if !ok {
			if localTries%progressInterval == 0 {
				logger.WithField("tries", localTries).Debug("scatter: searching")
			}
			continue
		}

		if found.CompareAndSwap(false, true) {
			winner.nonce = nonce
			winner.indices = idxs
			cancel()
		}
		return nil
	}
}

// nextNonce generates worker id's next candidate nonce. The
// deterministic path reinterprets id + workers*(localTries+1) as the
// nonce's little-endian bytes, per spec §4.I.
func nextNonce(id, workers int, localTries uint64, p Params) ([]byte, error) {
	nonce := make([]byte, p.NonceSize)
	if p.Deterministic {
		counter := uint64(id) + uint64(workers)*(localTries+1)
		for i := 0; i < p.NonceSize; i++ {
			nonce[i] = byte(counter >> (8 * uint(i)))
		}
		return nonce, nil
	}
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return nonce, nil
}

// scatterPredicate is the parallel search's own copy of the scatter
// (mode 0x03) predicate: each plaintext byte independently scans
// finalHash from the start for the first unused occurrence. Kept
// package-local (rather than shared with puzzle) to avoid an import
// cycle, since puzzle already depends on scatter for mode 0x05.
func scatterPredicate(finalHash, block []byte) ([]uint16, bool) {
	used := make([]bool, len(finalHash))
	indices := make([]uint16, len(block))
	for j, want := range block {
		found := false
		for i := 0; i < len(finalHash); i++ {
			if !used[i] && finalHash[i] == want {
				used[i] = true
				indices[j] = uint16(i)
				found = true
				break
			}
		}
		if !found {
			return nil, false
		}
	}
	return indices, true
}
