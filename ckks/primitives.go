package ckks

import (
	"math/big"

	"github.com/tuneinsight/ckks-core/ring"
)

// Plaintext is an encoded, unencrypted message: a ring element carrying
// the scale it was encoded at, per spec.md §3.
type Plaintext struct {
	Poly    *ring.Polynomial
	Scale   *big.Float
	Modulus *big.Int
}

// Ciphertext is an encryption of a Plaintext under a SecretKey/PublicKey,
// per spec.md §3: a pair of ring elements plus the scale and modulus the
// pair is valid under. Every operation that returns a Ciphertext leaves
// both ring elements reduced into the balanced representative range via
// ring.Polynomial.ModSmall, per spec.md §9.
type Ciphertext struct {
	C0, C1  *ring.Polynomial
	Scale   *big.Float
	Modulus *big.Int
}

// N returns the ring degree of the ciphertext.
func (c *Ciphertext) N() int { return c.C0.N }

// SecretKey is a ternary ring element drawn from the secret distribution
// (spec.md §4.A/§4.H).
type SecretKey struct {
	Poly *ring.Polynomial
}

// PublicKey is an encryption of zero under the secret key, valid modulo
// the auxiliary big modulus P (spec.md §4.H).
type PublicKey struct {
	P0, P1  *ring.Polynomial
	Modulus *big.Int
}

// SwitchingKey is a single-pair key-switching hint: an encryption of
// P*sourceSecret under targetSecret, valid modulo P^2 (spec.md §4.H/§4.J):
// P0 + P1*s_target ≈ e + P*sourceSecret (mod P^2). Consuming it divides
// the key-switched product back down by P, per keySwitch.
type SwitchingKey struct {
	P0, P1  *ring.Polynomial
	Modulus *big.Int
}

// RotationKey is a SwitchingKey specialized to a particular rotation
// step, switching from the Galois-rotated secret back to the original
// secret (spec.md §4.K).
type RotationKey struct {
	Rotation int
	Key      *SwitchingKey
}

// ConjugationKey is a SwitchingKey switching from the conjugated secret
// back to the original secret (spec.md §4.K).
type ConjugationKey struct {
	Key *SwitchingKey
}
