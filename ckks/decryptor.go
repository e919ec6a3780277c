package ckks

import "github.com/tuneinsight/ckks-core/ring"

// Decryptor recovers Plaintexts from Ciphertexts under a SecretKey,
// per spec.md §4.I.
type Decryptor struct {
	params *Parameters
}

// NewDecryptor returns a Decryptor for params.
func NewDecryptor(params *Parameters) *Decryptor {
	return &Decryptor{params: params}
}

// Decrypt computes m = c0 + c1*s mod Modulus, reduced into the balanced
// representative range.
func (d *Decryptor) Decrypt(ct *Ciphertext, sk *SecretKey) (*Plaintext, error) {
	crt := d.params.CRT()
	c1s, err := ct.C1.Multiply(sk.Poly, ct.Modulus, ring.WithCRT(crt))
	if err != nil {
		return nil, newError(KindShape, "Decrypt", "%v", err)
	}
	m, err := ct.C0.Add(c1s)
	if err != nil {
		return nil, newError(KindShape, "Decrypt", "%v", err)
	}
	return &Plaintext{Poly: m.ModSmall(ct.Modulus), Scale: ct.Scale, Modulus: ct.Modulus}, nil
}
