package ckks

import (
	"math"
	"math/big"

	"github.com/tuneinsight/ckks-core/ring"
)

// Encoder packs/unpacks complex slot vectors into Plaintext ring
// elements via the canonical-embedding FFT, per spec.md §4.G. A length-N
// real ring element is treated as numSlots=N/2 complex values by
// splitting each embedded coefficient into its real and imaginary half
// (coeffs[i] holds Re(y_i), coeffs[i+numSlots] holds Im(y_i)).
type Encoder struct {
	params *Parameters
}

// NewEncoder returns an Encoder for params.
func NewEncoder(params *Parameters) *Encoder {
	return &Encoder{params: params}
}

// Encode maps up to NumSlots() complex values to a Plaintext scaled by
// scale, zero-padding any unused slots.
func (e *Encoder) Encode(values []complex128, scale *big.Float) (*Plaintext, error) {
	numSlots := e.params.NumSlots()
	if len(values) > numSlots {
		return nil, newError(KindShape, "Encode", "%d values exceeds NumSlots()=%d", len(values), numSlots)
	}
	scaleF, _ := scale.Float64()

	padded := make([]complex128, numSlots)
	for i, v := range values {
		padded[i] = v * complex(scaleF, 0)
	}

	y, err := e.params.Embedding().EmbeddingInv(padded)
	if err != nil {
		return nil, newError(KindShape, "Encode", "embedding: %v", err)
	}

	coeffs := make([]*big.Int, e.params.N())
	for i := 0; i < numSlots; i++ {
		coeffs[i] = roundToBigInt(real(y[i]))
		coeffs[i+numSlots] = roundToBigInt(imag(y[i]))
	}

	return &Plaintext{
		Poly:    ring.NewPolynomialFromBigInt(coeffs),
		Scale:   new(big.Float).Copy(scale),
		Modulus: e.params.Q(),
	}, nil
}

// Decode recovers the NumSlots() complex values a Plaintext carries.
func (e *Encoder) Decode(pt *Plaintext) ([]complex128, error) {
	numSlots := e.params.NumSlots()
	if pt.Poly.N != e.params.N() {
		return nil, newError(KindShape, "Decode", "plaintext degree %d does not match parameters N=%d", pt.Poly.N, e.params.N())
	}

	y := make([]complex128, numSlots)
	for i := 0; i < numSlots; i++ {
		re, _ := new(big.Float).SetInt(pt.Poly.Coeffs[i]).Float64()
		im, _ := new(big.Float).SetInt(pt.Poly.Coeffs[i+numSlots]).Float64()
		y[i] = complex(re, im)
	}

	z, err := e.params.Embedding().Embedding(y)
	if err != nil {
		return nil, newError(KindShape, "Decode", "embedding: %v", err)
	}

	scaleF, _ := pt.Scale.Float64()
	out := make([]complex128, numSlots)
	for i, v := range z {
		out[i] = v / complex(scaleF, 0)
	}
	return out, nil
}

func roundToBigInt(x float64) *big.Int {
	r, _ := big.NewFloat(math.Round(x)).Int(nil)
	return r
}
