// Package sampling provides the pseudo-random byte sources used by the
// ring and ckks packages to sample uniform, ternary and Hamming-weight
// polynomials. The default source draws from the operating system's
// cryptographic randomness; a keyed source is available for deterministic,
// reproducible sampling in tests and simulations.
package sampling

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/zeebo/blake3"
)

// PRNG is a source of pseudo-random bytes that can be reset to the start
// of its stream. A keyed PRNG reproduces the identical stream across
// instantiations given the same key.
type PRNG interface {
	io.Reader
	// Reset rewinds the stream to its initial state.
	Reset()
}

// securePRNG wraps crypto/rand; Reset is a no-op since the OS source has
// no notion of a replayable stream.
type securePRNG struct{}

func (securePRNG) Read(p []byte) (int, error) { return io.ReadFull(rand.Reader, p) }
func (securePRNG) Reset()                     {}

// NewPRNG returns the default cryptographic-quality randomness source
// used for key and ciphertext generation (spec.md §5: "The default uses
// cryptographic-quality OS randomness").
func NewPRNG() PRNG {
	return securePRNG{}
}

// keyedPRNG is a deterministic byte stream derived from a 32-byte key via
// a keyed BLAKE3 hash used as an extendable-output function. Two
// keyedPRNGs constructed with the same key produce byte-identical
// streams, and Reset rewinds a single instance back to the start of its
// stream without re-deriving the key.
type keyedPRNG struct {
	key    [32]byte
	hasher *blake3.Hasher
	reader io.Reader
}

// NewKeyedPRNG returns a deterministic PRNG seeded from key. key must be
// exactly 32 bytes, the width BLAKE3 keyed hashing requires; shorter or
// longer keys are rejected rather than silently padded or truncated.
func NewKeyedPRNG(key []byte) (PRNG, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("sampling: keyed PRNG requires a 32-byte key, got %d bytes", len(key))
	}

	p := &keyedPRNG{}
	copy(p.key[:], key)

	hasher, err := blake3.NewKeyed(p.key[:])
	if err != nil {
		return nil, fmt.Errorf("sampling: %w", err)
	}
	p.hasher = hasher
	p.reader = hasher.Digest()

	return p, nil
}

func (p *keyedPRNG) Read(dst []byte) (int, error) {
	return p.reader.Read(dst)
}

// Reset rewinds the output stream to its first byte. The underlying
// key material is unchanged, so a fresh Read sequence reproduces the
// stream observed by the first caller of this PRNG instance.
func (p *keyedPRNG) Reset() {
	p.reader = p.hasher.Digest()
}
