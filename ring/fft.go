package ring

import (
	"math"
	"math/bits"
)

// CanonicalEmbeddingContext implements the canonical-embedding FFT used to
// pack/unpack complex slot vectors into ring coefficients, per spec.md
// §4.C. M = 2N is the cyclotomic index; the rotation group is generated
// by 5 mod M.
type CanonicalEmbeddingContext struct {
	M        int
	numSlots int
	roots    []complex128 // roots[i] = e^{2pi*i/M}
	rootsInv []complex128 // rootsInv[i] = e^{-2pi*i/M}
	rotGroup []int        // rotGroup[i] = 5^i mod M, length numSlots
}

// NewCanonicalEmbeddingContext builds the embedding context for a degree-N
// ring (N a power of two).
func NewCanonicalEmbeddingContext(N int) (*CanonicalEmbeddingContext, error) {
	if N <= 0 || N&(N-1) != 0 {
		return nil, newError(KindParameter, "NewCanonicalEmbeddingContext", "N=%d is not a power of two", N)
	}
	M := 2 * N
	numSlots := N / 2

	roots := make([]complex128, M)
	rootsInv := make([]complex128, M)
	for i := 0; i < M; i++ {
		angle := 2 * math.Pi * float64(i) / float64(M)
		s, c := math.Sincos(angle)
		roots[i] = complex(c, s)
		rootsInv[i] = complex(c, -s)
	}

	rotGroup := make([]int, numSlots)
	cur := 1
	for i := 0; i < numSlots; i++ {
		rotGroup[i] = cur
		cur = (cur * 5) % M
	}

	return &CanonicalEmbeddingContext{M: M, numSlots: numSlots, roots: roots, rootsInv: rootsInv, rotGroup: rotGroup}, nil
}

// NewCanonicalEmbeddingContextWithRoots builds an embedding context from
// a caller-supplied root table (length M=2N) instead of the default
// float64 math.Sincos table, letting callers substitute a higher-
// precision source for the root-of-unity evaluations (spec.md §4.N uses
// this for the bootstrap encoding matrices).
func NewCanonicalEmbeddingContextWithRoots(N int, roots, rootsInv []complex128) (*CanonicalEmbeddingContext, error) {
	if N <= 0 || N&(N-1) != 0 {
		return nil, newError(KindParameter, "NewCanonicalEmbeddingContextWithRoots", "N=%d is not a power of two", N)
	}
	M := 2 * N
	if len(roots) != M || len(rootsInv) != M {
		return nil, newError(KindShape, "NewCanonicalEmbeddingContextWithRoots", "root tables must have length M=%d", M)
	}
	numSlots := N / 2

	rotGroup := make([]int, numSlots)
	cur := 1
	for i := 0; i < numSlots; i++ {
		rotGroup[i] = cur
		cur = (cur * 5) % M
	}

	return &CanonicalEmbeddingContext{M: M, numSlots: numSlots, roots: roots, rootsInv: rootsInv, rotGroup: rotGroup}, nil
}

// NumSlots returns the maximum number of complex slots this context can
// pack, N/2.
func (c *CanonicalEmbeddingContext) NumSlots() int { return c.numSlots }

// RotGroup returns the rotation-group exponents rotGroup[i] = 5^i mod M
// (length numSlots) generating the M-th roots of unity this context's
// primitive roots are drawn from (spec.md §4.N).
func (c *CanonicalEmbeddingContext) RotGroup() []int {
	out := make([]int, len(c.rotGroup))
	copy(out, c.rotGroup)
	return out
}

// Root returns the M-th root of unity e^{2*pi*i*index/M} at the given
// table index (reduced mod M).
func (c *CanonicalEmbeddingContext) Root(index int) complex128 {
	return c.roots[((index%c.M)+c.M)%c.M]
}

func bitReverseVecComplex(a []complex128) []complex128 {
	n := len(a)
	logN := bits.Len(uint(n)) - 1
	out := make([]complex128, n)
	for i := range a {
		out[i] = a[bitReverse(i, logN)]
	}
	return out
}

// Embedding maps a power-of-two-length vector of complex numbers (length
// at most M/4 = numSlots) through the canonical embedding, producing the
// conjugate-symmetric evaluation used to build ring coefficients
// (spec.md §4.C).
func (c *CanonicalEmbeddingContext) Embedding(z []complex128) ([]complex128, error) {
	n := len(z)
	if n == 0 || n&(n-1) != 0 {
		return nil, newError(KindShape, "Embedding", "input length %d must be a power of two", n)
	}
	if n > c.numSlots {
		return nil, newError(KindShape, "Embedding", "input length %d exceeds numSlots=%d", n, c.numSlots)
	}

	result := bitReverseVecComplex(z)
	logN := bits.Len(uint(n)) - 1
	for logm := 1; logm <= logN; logm++ {
		idxMod := 1 << uint(logm+2)
		gap := c.M / idxMod
		half := 1 << uint(logm-1)
		step := 1 << uint(logm)
		for j := 0; j < n; j += step {
			for i := 0; i < half; i++ {
				ie, io := j+i, j+i+half
				rouIdx := (c.rotGroup[i] % idxMod) * gap
				w := c.roots[rouIdx] * result[io]
				result[ie], result[io] = result[ie]+w, result[ie]-w
			}
		}
	}
	return result, nil
}

// EmbeddingInv is the normalized adjoint of Embedding, recovering the
// original complex slot vector from ring evaluations (spec.md §4.C).
func (c *CanonicalEmbeddingContext) EmbeddingInv(y []complex128) ([]complex128, error) {
	n := len(y)
	if n == 0 || n&(n-1) != 0 {
		return nil, newError(KindShape, "EmbeddingInv", "input length %d must be a power of two", n)
	}
	if n > c.numSlots {
		return nil, newError(KindShape, "EmbeddingInv", "input length %d exceeds numSlots=%d", n, c.numSlots)
	}

	result := make([]complex128, n)
	copy(result, y)
	logN := bits.Len(uint(n)) - 1
	for logm := logN; logm >= 1; logm-- {
		idxMod := 1 << uint(logm+2)
		gap := c.M / idxMod
		half := 1 << uint(logm-1)
		step := 1 << uint(logm)
		for j := 0; j < n; j += step {
			for i := 0; i < half; i++ {
				ie, io := j+i, j+i+half
				rouIdx := (c.rotGroup[i] % idxMod) * gap
				bp := result[ie] + result[io]
				bm := (result[ie] - result[io]) * c.rootsInv[rouIdx]
				result[ie], result[io] = bp, bm
			}
		}
	}
	result = bitReverseVecComplex(result)
	nf := complex(float64(n), 0)
	for i := range result {
		result[i] /= nf
	}
	return result, nil
}
