package ckks

import (
	"math/big"

	"github.com/tuneinsight/ckks-core/ring"
	"github.com/tuneinsight/ckks-core/utils/sampling"
)

// KeyGenerator produces secret keys, public keys, and the switching keys
// relinearization/rotation/conjugation depend on, per spec.md §4.H.
type KeyGenerator struct {
	params  *Parameters
	prng    sampling.PRNG
	ternary *ring.TernarySampler
	hamming *ring.HammingWeightSampler
	uniform *ring.UniformSampler
}

// NewKeyGenerator returns a KeyGenerator drawing randomness from prng. A
// nil prng falls back to the default OS-backed cryptographic source.
func NewKeyGenerator(params *Parameters, prng sampling.PRNG) *KeyGenerator {
	if prng == nil {
		prng = sampling.NewPRNG()
	}
	return &KeyGenerator{
		params:  params,
		prng:    prng,
		ternary: ring.NewTernarySampler(prng),
		hamming: ring.NewHammingWeightSampler(prng),
		uniform: ring.NewUniformSampler(prng),
	}
}

// GenerateSecretKey samples a dense ternary secret key (spec.md §4.A/§4.H).
func (g *KeyGenerator) GenerateSecretKey() *SecretKey {
	return &SecretKey{Poly: ring.NewPolynomialFromInt64(g.ternary.Sample(g.params.N()))}
}

// GenerateSparseSecretKey samples a Hamming-weight-h secret key, the
// sparse distribution bootstrapping uses to keep the sine-evaluation
// error small (spec.md §4.A/§4.M).
func (g *KeyGenerator) GenerateSparseSecretKey() *SecretKey {
	N := g.params.N()
	return &SecretKey{Poly: ring.NewPolynomialFromInt64(g.hamming.Sample(N, g.params.HammingWeight()))}
}

// GeneratePublicKey encrypts zero under sk, valid modulo the auxiliary
// big modulus P (spec.md §4.H, DESIGN.md Open Question 1).
func (g *KeyGenerator) GeneratePublicKey(sk *SecretKey) (*PublicKey, error) {
	P := g.params.P()
	a := polyFromUniform(g.uniform, g.params.N(), P)
	e := ring.NewPolynomialFromInt64(g.ternary.Sample(g.params.N()))

	as, err := a.Multiply(sk.Poly, P, ring.WithCRT(g.params.CRT()))
	if err != nil {
		return nil, newError(KindShape, "GeneratePublicKey", "%v", err)
	}
	b, err := e.Subtract(as)
	if err != nil {
		return nil, newError(KindShape, "GeneratePublicKey", "%v", err)
	}

	return &PublicKey{P0: b.ModSmall(P), P1: a.ModSmall(P), Modulus: P}, nil
}

// GenerateSwitchingKey builds a single-pair key switching from sourceSecret
// to targetSecret, valid modulo P^2: P0 = e - a*targetSecret + P*sourceSecret,
// P1 = a, with a sampled uniformly mod P^2 and e drawn from the ternary
// error distribution (spec.md §4.H; ground truth
// key_generator.py:37-46 generate_switching_key — a single pair, not a
// base-decomposed gadget).
func (g *KeyGenerator) GenerateSwitchingKey(sourceSecret, targetSecret *ring.Polynomial) (*SwitchingKey, error) {
	P := g.params.P()
	modulus := new(big.Int).Mul(P, P)
	crt := g.params.CRT()

	a := polyFromUniform(g.uniform, g.params.N(), modulus)
	e := ring.NewPolynomialFromInt64(g.ternary.Sample(g.params.N()))

	as, err := a.Multiply(targetSecret, modulus, ring.WithCRT(crt))
	if err != nil {
		return nil, newError(KindShape, "GenerateSwitchingKey", "%v", err)
	}
	p0, err := e.Subtract(as)
	if err != nil {
		return nil, newError(KindShape, "GenerateSwitchingKey", "%v", err)
	}
	scaledSource := sourceSecret.ScalarMultiply(P)
	p0, err = p0.Add(scaledSource)
	if err != nil {
		return nil, newError(KindShape, "GenerateSwitchingKey", "%v", err)
	}

	return &SwitchingKey{P0: p0.ModSmall(modulus), P1: a.ModSmall(modulus), Modulus: modulus}, nil
}

// GenerateRelinearizationKey builds the switching key from s^2 back to s
// that Multiply's relinearization step consumes (spec.md §4.J). s^2 is
// computed modulo the plain auxiliary modulus P, not P^2 or Q*P — the
// squaring happens before the switching key's own modulus is introduced
// (key_generator.py:44-46 generate_relin_key).
func (g *KeyGenerator) GenerateRelinearizationKey(sk *SecretKey) (*SwitchingKey, error) {
	s2, err := sk.Poly.Multiply(sk.Poly, g.params.P(), ring.WithCRT(g.params.CRT()))
	if err != nil {
		return nil, newError(KindShape, "GenerateRelinearizationKey", "%v", err)
	}
	return g.GenerateSwitchingKey(s2, sk.Poly)
}

// GenerateRotationKey builds the switching key from the rotation-step-r
// Galois-conjugated secret back to s (spec.md §4.K).
func (g *KeyGenerator) GenerateRotationKey(sk *SecretKey, rotation int) (*RotationKey, error) {
	rotated := sk.Poly.Rotate(rotation)
	swk, err := g.GenerateSwitchingKey(rotated, sk.Poly)
	if err != nil {
		return nil, newError(KindShape, "GenerateRotationKey", "%v", err)
	}
	return &RotationKey{Rotation: rotation, Key: swk}, nil
}

// GenerateConjugationKey builds the switching key from the
// complex-conjugated secret back to s (spec.md §4.K).
func (g *KeyGenerator) GenerateConjugationKey(sk *SecretKey) (*ConjugationKey, error) {
	conj := sk.Poly.Conjugate()
	swk, err := g.GenerateSwitchingKey(conj, sk.Poly)
	if err != nil {
		return nil, newError(KindShape, "GenerateConjugationKey", "%v", err)
	}
	return &ConjugationKey{Key: swk}, nil
}

func polyFromUniform(s *ring.UniformSampler, N int, bound *big.Int) *ring.Polynomial {
	return ring.NewPolynomialFromBigInt(s.Sample(N, bound))
}
