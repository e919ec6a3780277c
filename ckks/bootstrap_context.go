package ckks

import (
	"math/big"

	"github.com/ALTree/bigfloat"

	"github.com/tuneinsight/ckks-core/ring"
)

// bigPrecision is the big.Float working precision (in bits) used to
// compute the bootstrap encoding matrices' root-of-unity table, well
// beyond float64's 53 bits so the CoeffToSlot/SlotToCoeff matrices do not
// inherit rounding error from the root table itself (spec.md §4.N).
const bigPrecision = 192

// piBig is pi at bigPrecision bits, the same role the teacher's
// hand-rolled cosBig/sinBig CORDIC constant plays, here sourced from a
// literal instead of computed via CORDIC since bigfloat.Cos/Sin replace
// that computation.
var piBig, _ = new(big.Float).SetPrec(bigPrecision).SetString(
	"3.14159265358979323846264338327950288419716939937510582097494")

// BootstrapContext precomputes the two encoding matrices E0, E1 the
// bootstrap pipeline's CoeffToSlot and SlotToCoeff steps multiply
// ciphertexts by, per spec.md §4.M/§4.N. Row i of each matrix is built
// from the rotation-group primitive root ρ[i] = exp(iπ*5^i mod 2N / N):
// E0[i][k] = ρ[i]^k, E1[i][k] = ρ[i]^(numSlots+k), for k in
// [0, numSlots). This is the Vandermonde-style construction
// original_source/CKKS/bootstrapping/context.py:27-45 builds as
// encoding_mat0/encoding_mat1, not a bare canonical-embedding matrix:
// it is what recovers the encoder's real/imaginary-half packing
// convention (spec.md §4.G) across the bootstrap's two ciphertext
// channels.
type BootstrapContext struct {
	e0, e1                   [][]complex128
	transpose0, transpose1   [][]complex128
	conjTranspose0, conjTranspose1 [][]complex128
}

// NewBootstrapContext builds the encoding matrices for params.
func NewBootstrapContext(params *Parameters) (*BootstrapContext, error) {
	N := params.N()
	M := 2 * N
	numSlots := params.NumSlots()

	roots := make([]complex128, M)
	rootsInv := make([]complex128, M)
	two := new(big.Float).SetPrec(bigPrecision).SetInt64(2)
	mBig := new(big.Float).SetPrec(bigPrecision).SetInt64(int64(M))
	for i := 0; i < M; i++ {
		// angle = 2*pi*i/M, computed at bigPrecision bits.
		angle := new(big.Float).SetPrec(bigPrecision).SetInt64(int64(i))
		angle.Mul(angle, two)
		angle.Mul(angle, piBig)
		angle.Quo(angle, mBig)

		c := bigfloat.Cos(angle)
		s := bigfloat.Sin(angle)
		cf, _ := c.Float64()
		sf, _ := s.Float64()
		roots[i] = complex(cf, sf)
		rootsInv[i] = complex(cf, -sf)
	}

	embedding, err := ring.NewCanonicalEmbeddingContextWithRoots(N, roots, rootsInv)
	if err != nil {
		return nil, newError(KindBootstrap, "NewBootstrapContext", "building high-precision embedding: %v", err)
	}
	rotGroup := embedding.RotGroup()

	primitiveRoots := make([]complex128, numSlots)
	for i := 0; i < numSlots; i++ {
		primitiveRoots[i] = embedding.Root(rotGroup[i])
	}

	e0 := make([][]complex128, numSlots)
	e1 := make([][]complex128, numSlots)
	for i := 0; i < numSlots; i++ {
		e0[i] = make([]complex128, numSlots)
		e1[i] = make([]complex128, numSlots)
		rho := primitiveRoots[i]
		pow := complex(1, 0)
		for k := 0; k < numSlots; k++ {
			e0[i][k] = pow
			pow *= rho
		}
		for k := 0; k < numSlots; k++ {
			e1[i][k] = pow
			pow *= rho
		}
	}

	transpose0 := transposeMatrix(e0)
	transpose1 := transposeMatrix(e1)

	return &BootstrapContext{
		e0:             e0,
		e1:             e1,
		transpose0:     transpose0,
		transpose1:     transpose1,
		conjTranspose0: conjugateMatrix(transpose0),
		conjTranspose1: conjugateMatrix(transpose1),
	}, nil
}

// transposeMatrix returns the transpose of a square matrix.
func transposeMatrix(m [][]complex128) [][]complex128 {
	n := len(m)
	out := make([][]complex128, n)
	for i := range out {
		out[i] = make([]complex128, n)
		for j := 0; j < n; j++ {
			out[i][j] = m[j][i]
		}
	}
	return out
}

// conjugateMatrix returns m with every entry complex-conjugated.
func conjugateMatrix(m [][]complex128) [][]complex128 {
	out := make([][]complex128, len(m))
	for i, row := range m {
		out[i] = make([]complex128, len(row))
		for j, v := range row {
			out[i][j] = complex(real(v), -imag(v))
		}
	}
	return out
}

// E0 returns the first encoding matrix, used directly by SlotToCoeff.
func (b *BootstrapContext) E0() [][]complex128 { return b.e0 }

// E1 returns the second encoding matrix, used directly by SlotToCoeff.
func (b *BootstrapContext) E1() [][]complex128 { return b.e1 }

// Transpose0 returns E0's transpose, one of the two matrices CoeffToSlot
// multiplies the conjugated input ciphertext by.
func (b *BootstrapContext) Transpose0() [][]complex128 { return b.transpose0 }

// Transpose1 returns E1's transpose.
func (b *BootstrapContext) Transpose1() [][]complex128 { return b.transpose1 }

// ConjTranspose0 returns E0's conjugate transpose, the matrix CoeffToSlot
// multiplies the unconjugated input ciphertext by.
func (b *BootstrapContext) ConjTranspose0() [][]complex128 { return b.conjTranspose0 }

// ConjTranspose1 returns E1's conjugate transpose.
func (b *BootstrapContext) ConjTranspose1() [][]complex128 { return b.conjTranspose1 }
