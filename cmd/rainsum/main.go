// Command rainsum is a thin demonstration binary over the rain-sub000
// hash and puzzle-cipher packages: hash a file, or encrypt/decrypt it
// with the puzzle block cipher. It exists to wire the library's
// domain-stack dependencies (pflag, logrus) to a real command and to
// provide an end-to-end smoke path, not to define a new CLI surface.
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/DOSAYGO-Research/rain-sub000/hashspec"
	"github.com/DOSAYGO-Research/rain-sub000/puzzle"
)

func main() {
	logrus.SetFormatter(&puzzle.ProgressFormatter{})
	logrus.SetOutput(os.Stderr)
	if err := run(os.Args[1:]); err != nil {
		logrus.Fatal(err)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: rainsum <hash|encrypt|decrypt> [flags] <file>")
	}
	cmd, rest := args[0], args[1:]

	flags := pflag.NewFlagSet("rainsum-"+cmd, pflag.ContinueOnError)
	algo := flags.String("algo", "rainstorm", `hash algorithm: "rainbow" or "rainstorm" (aliases "bow"/"storm")`)
	bits := flags.Int("bits", 256, "output size in bits")
	seed := flags.Uint64("seed", 0, "64-bit seed / IV")
	saltHex := flags.String("salt", "", "salt, hex-encoded")
	key := flags.String("key", "", "encryption key (encrypt/decrypt only)")
	blockSize := flags.Int("block-size", 16, "plaintext bytes per puzzle block (encrypt only)")
	nonceSize := flags.Int("nonce-size", 8, "bytes per stored nonce (encrypt only)")
	searchMode := flags.String("mode", "scatter", "search mode: prefix|sequence|series|scatter|mapscatter|parascatter")
	deterministic := flags.Bool("deterministic-nonce", false, "use a counter-based nonce sequence instead of crypto/rand")
	outputExtension := flags.Uint32("output-extension", 0, "extra KDF-extended bytes per block")
	verbose := flags.Bool("verbose", false, "enable verbose progress logging")
	out := flags.String("out", "", "output file path (defaults to stdout for hash, required for encrypt/decrypt)")

	if err := flags.Parse(rest); err != nil {
		return err
	}
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if flags.NArg() != 1 {
		return fmt.Errorf("expected exactly one file argument, got %d", flags.NArg())
	}
	path := flags.Arg(0)

	algorithm, err := hashspec.ParseAlgorithm(*algo)
	if err != nil {
		return err
	}
	spec := hashspec.Spec{Algorithm: algorithm, Bits: *bits}

	salt, err := hex.DecodeString(*saltHex)
	if err != nil {
		return fmt.Errorf("invalid --salt hex: %w", err)
	}

	switch cmd {
	case "hash":
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		sum, err := hashspec.Invoke(spec, *seed, data)
		if err != nil {
			return err
		}
		return writeOutput(*out, []byte(hex.EncodeToString(sum)+"\n"))

	case "encrypt":
		mode, err := puzzle.ParseSearchMode(*searchMode)
		if err != nil {
			return err
		}
		opts, err := puzzle.NewOptions(spec,
			puzzle.WithBlockSize(*blockSize),
			puzzle.WithNonceSize(*nonceSize),
			puzzle.WithSearchMode(mode),
			puzzle.WithSeed(*seed),
			puzzle.WithSalt(salt),
			puzzle.WithDeterministicNonce(*deterministic),
			puzzle.WithOutputExtension(*outputExtension),
			puzzle.WithVerbose(*verbose),
		)
		if err != nil {
			return err
		}
		plaintext, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		ciphertext, err := puzzle.Encrypt(context.Background(), plaintext, *key, opts)
		if err != nil {
			return err
		}
		if *out == "" {
			return fmt.Errorf("--out is required for encrypt")
		}
		return writeOutput(*out, ciphertext)

	case "decrypt":
		ciphertext, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		plaintext, err := puzzle.Decrypt(ciphertext, *key)
		if err != nil {
			return err
		}
		if *out == "" {
			return fmt.Errorf("--out is required for decrypt")
		}
		return writeOutput(*out, plaintext)

	default:
		return fmt.Errorf("unknown subcommand %q: want hash, encrypt, or decrypt", cmd)
	}
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
