package ckks

import (
	"github.com/tuneinsight/ckks-core/ring"
	"github.com/tuneinsight/ckks-core/utils/sampling"
)

// Encryptor turns Plaintexts into Ciphertexts, either under a PublicKey
// (asymmetric) or directly under a SecretKey (symmetric, cheaper), per
// spec.md §4.I.
type Encryptor struct {
	params  *Parameters
	prng    sampling.PRNG
	ternary *ring.TernarySampler
	uniform *ring.UniformSampler
}

// NewEncryptor returns an Encryptor drawing randomness from prng. A nil
// prng falls back to the default OS-backed cryptographic source.
func NewEncryptor(params *Parameters, prng sampling.PRNG) *Encryptor {
	if prng == nil {
		prng = sampling.NewPRNG()
	}
	return &Encryptor{
		params:  params,
		prng:    prng,
		ternary: ring.NewTernarySampler(prng),
		uniform: ring.NewUniformSampler(prng),
	}
}

// EncryptWithPublicKey encrypts pt under pk: (v*p0 + e0 + m, v*p1 + e1)
// for a freshly sampled small v and errors e0, e1, reduced into the
// balanced representative range modulo Q (spec.md §4.I).
func (enc *Encryptor) EncryptWithPublicKey(pt *Plaintext, pk *PublicKey) (*Ciphertext, error) {
	Q := enc.params.Q()
	N := enc.params.N()
	crt := enc.params.CRT()

	v := ring.NewPolynomialFromInt64(enc.ternary.Sample(N))
	e0 := ring.NewPolynomialFromInt64(enc.ternary.Sample(N))
	e1 := ring.NewPolynomialFromInt64(enc.ternary.Sample(N))

	vp0, err := v.Multiply(pk.P0, pk.Modulus, ring.WithCRT(crt))
	if err != nil {
		return nil, newError(KindShape, "EncryptWithPublicKey", "%v", err)
	}
	vp1, err := v.Multiply(pk.P1, pk.Modulus, ring.WithCRT(crt))
	if err != nil {
		return nil, newError(KindShape, "EncryptWithPublicKey", "%v", err)
	}

	c0, err := addAll(vp0, e0, pt.Poly)
	if err != nil {
		return nil, newError(KindShape, "EncryptWithPublicKey", "%v", err)
	}
	c1, err := vp1.Add(e1)
	if err != nil {
		return nil, newError(KindShape, "EncryptWithPublicKey", "%v", err)
	}

	return &Ciphertext{C0: c0.ModSmall(Q), C1: c1.ModSmall(Q), Scale: pt.Scale, Modulus: Q}, nil
}

// EncryptWithSecretKey symmetrically encrypts pt under sk: (-a*s + e + m, a)
// for a freshly sampled uniform mask a and error e (spec.md §4.I).
func (enc *Encryptor) EncryptWithSecretKey(pt *Plaintext, sk *SecretKey) (*Ciphertext, error) {
	Q := enc.params.Q()
	N := enc.params.N()
	crt := enc.params.CRT()

	a := ring.NewPolynomialFromBigInt(enc.uniform.Sample(N, Q))
	e := ring.NewPolynomialFromInt64(enc.ternary.Sample(N))

	as, err := a.Multiply(sk.Poly, Q, ring.WithCRT(crt))
	if err != nil {
		return nil, newError(KindShape, "EncryptWithSecretKey", "%v", err)
	}
	c0, err := addAll(e, pt.Poly)
	if err != nil {
		return nil, newError(KindShape, "EncryptWithSecretKey", "%v", err)
	}
	c0, err = c0.Subtract(as)
	if err != nil {
		return nil, newError(KindShape, "EncryptWithSecretKey", "%v", err)
	}

	return &Ciphertext{C0: c0.ModSmall(Q), C1: a.ModSmall(Q), Scale: pt.Scale, Modulus: Q}, nil
}

func addAll(polys ...*ring.Polynomial) (*ring.Polynomial, error) {
	acc := polys[0]
	var err error
	for _, p := range polys[1:] {
		acc, err = acc.Add(p)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}
