package ring

import "math/bits"

// NTTContext holds the precomputed powers of a primitive 2N-th root of
// unity psi needed to run the negacyclic number-theoretic transform over
// a single NTT-friendly prime Q, per spec.md §4.B. Forward twists by
// psi^i before running the standard power-of-two NTT with omega = psi^2;
// Inverse is the dual operation.
type NTTContext struct {
	N      int
	Q      uint64
	rou    []uint64 // rou[i] = psi^i mod Q, i in [0, N)
	rouInv []uint64 // rouInv[i] = psi^-i mod Q, i in [0, N)
	nInv   uint64
}

// NewNTTContext builds the NTT context for degree N (a power of two) and
// prime modulus q congruent to 1 mod 2N.
func NewNTTContext(N int, q uint64) (*NTTContext, error) {
	if N <= 0 || N&(N-1) != 0 {
		return nil, newError(KindParameter, "NewNTTContext", "N=%d is not a power of two", N)
	}
	if !IsPrime(q) {
		return nil, newError(KindParameter, "NewNTTContext", "modulus %d is not prime", q)
	}
	twoN := uint64(2 * N)
	if (q-1)%twoN != 0 {
		return nil, newError(KindParameter, "NewNTTContext", "modulus %d is not congruent to 1 mod 2N=%d", q, twoN)
	}

	psi, err := RootOfUnity(twoN, q)
	if err != nil {
		return nil, newError(KindSampling, "NewNTTContext", "finding 2N-th root of unity: %v", err)
	}
	psiInv := ModInvUint64(psi, q)
	nInv := ModInvUint64(uint64(N), q)

	rou := make([]uint64, N)
	rouInv := make([]uint64, N)
	rou[0], rouInv[0] = 1, 1
	for i := 1; i < N; i++ {
		rou[i] = MulMod(rou[i-1], psi, q)
		rouInv[i] = MulMod(rouInv[i-1], psiInv, q)
	}

	return &NTTContext{N: N, Q: q, rou: rou, rouInv: rouInv, nInv: nInv}, nil
}

func bitReverse(x, bitLen int) int {
	r := 0
	for i := 0; i < bitLen; i++ {
		r = (r << 1) | (x & 1)
		x >>= 1
	}
	return r
}

func bitReverseVecUint64(a []uint64) []uint64 {
	n := len(a)
	logN := bits.Len(uint(n)) - 1
	out := make([]uint64, n)
	for i := range a {
		out[i] = a[bitReverse(i, logN)]
	}
	return out
}

// ntt runs the shared Cooley-Tukey butterfly network over coeffs, using
// rou as the table of root-of-unity powers (length N), per spec.md §4.B.
// Even-indexed entries of rou supply the powers of omega = psi^2 that the
// power-of-two NTT itself needs.
func (c *NTTContext) ntt(coeffs []uint64, rou []uint64) []uint64 {
	n := len(coeffs)
	logN := bits.Len(uint(n)) - 1
	result := bitReverseVecUint64(coeffs)
	for logm := 1; logm <= logN; logm++ {
		half := 1 << uint(logm-1)
		step := 1 << uint(logm)
		shift := uint(1 + logN - logm)
		for j := 0; j < n; j += step {
			for i := 0; i < half; i++ {
				ie, io := j+i, j+i+half
				rouIdx := i << shift
				w := MulMod(rou[rouIdx], result[io], c.Q)
				a := result[ie]
				result[ie] = AddMod(a, w, c.Q)
				result[io] = SubMod(a, w, c.Q)
			}
		}
	}
	return result
}

// Forward computes the negacyclic NTT of a length-N coefficient vector
// reduced mod Q.
func (c *NTTContext) Forward(a []uint64) []uint64 {
	twisted := make([]uint64, c.N)
	for i, v := range a {
		twisted[i] = MulMod(v, c.rou[i], c.Q)
	}
	return c.ntt(twisted, c.rou)
}

// Inverse computes the inverse negacyclic NTT, returning a length-N
// coefficient vector reduced mod Q.
func (c *NTTContext) Inverse(hat []uint64) []uint64 {
	scaled := c.ntt(hat, c.rouInv)
	out := make([]uint64, c.N)
	for i, v := range scaled {
		out[i] = MulMod(MulMod(v, c.rouInv[i], c.Q), c.nInv, c.Q)
	}
	return out
}
