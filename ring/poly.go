package ring

import (
	"math"
	"math/big"
	"math/bits"
)

// Polynomial is an element of Z[X]/(X^N+1) with arbitrary-precision
// signed integer coefficients, per spec.md §3. Coefficients are indexed
// from the constant term.
type Polynomial struct {
	N      int
	Coeffs []*big.Int
}

// NewPolynomial allocates a degree-N polynomial with all-zero
// coefficients.
func NewPolynomial(N int) *Polynomial {
	c := make([]*big.Int, N)
	for i := range c {
		c[i] = new(big.Int)
	}
	return &Polynomial{N: N, Coeffs: c}
}

// NewPolynomialFromInt64 builds a polynomial from int64 coefficients.
func NewPolynomialFromInt64(coeffs []int64) *Polynomial {
	c := make([]*big.Int, len(coeffs))
	for i, v := range coeffs {
		c[i] = big.NewInt(v)
	}
	return &Polynomial{N: len(coeffs), Coeffs: c}
}

// NewPolynomialFromBigInt builds a polynomial, copying coeffs.
func NewPolynomialFromBigInt(coeffs []*big.Int) *Polynomial {
	c := make([]*big.Int, len(coeffs))
	for i, v := range coeffs {
		c[i] = new(big.Int).Set(v)
	}
	return &Polynomial{N: len(coeffs), Coeffs: c}
}

// Clone returns a deep copy of p.
func (p *Polynomial) Clone() *Polynomial {
	return NewPolynomialFromBigInt(p.Coeffs)
}

// Equal reports whether p and q have identical coefficients.
func (p *Polynomial) Equal(q *Polynomial) bool {
	if p.N != q.N {
		return false
	}
	for i := range p.Coeffs {
		if p.Coeffs[i].Cmp(q.Coeffs[i]) != 0 {
			return false
		}
	}
	return true
}

// Add returns p+q coefficient-wise.
func (p *Polynomial) Add(q *Polynomial) (*Polynomial, error) {
	if p.N != q.N {
		return nil, newError(KindShape, "Add", "polynomial length mismatch: %d vs %d", p.N, q.N)
	}
	out := NewPolynomial(p.N)
	for i := range out.Coeffs {
		out.Coeffs[i].Add(p.Coeffs[i], q.Coeffs[i])
	}
	return out, nil
}

// Subtract returns p-q coefficient-wise.
func (p *Polynomial) Subtract(q *Polynomial) (*Polynomial, error) {
	if p.N != q.N {
		return nil, newError(KindShape, "Subtract", "polynomial length mismatch: %d vs %d", p.N, q.N)
	}
	out := NewPolynomial(p.N)
	for i := range out.Coeffs {
		out.Coeffs[i].Sub(p.Coeffs[i], q.Coeffs[i])
	}
	return out, nil
}

// Negate returns -p.
func (p *Polynomial) Negate() *Polynomial {
	out := NewPolynomial(p.N)
	for i, c := range p.Coeffs {
		out.Coeffs[i].Neg(c)
	}
	return out
}

// Mod reduces every coefficient into [0, Q).
func (p *Polynomial) Mod(Q *big.Int) *Polynomial {
	out := NewPolynomial(p.N)
	for i, c := range p.Coeffs {
		out.Coeffs[i].Mod(c, Q)
	}
	return out
}

// ModSmall reduces every coefficient into the balanced range
// (-Q/2, Q/2], the canonical form spec.md §3 requires after every
// ciphertext-modifying operation.
func (p *Polynomial) ModSmall(Q *big.Int) *Polynomial {
	half := new(big.Int).Rsh(Q, 1)
	out := NewPolynomial(p.N)
	for i, c := range p.Coeffs {
		v := new(big.Int).Mod(c, Q)
		if v.Cmp(half) > 0 {
			v.Sub(v, Q)
		}
		out.Coeffs[i] = v
	}
	return out
}

// ScalarMultiply returns p with every coefficient multiplied by scalar.
func (p *Polynomial) ScalarMultiply(scalar *big.Int) *Polynomial {
	out := NewPolynomial(p.N)
	for i, c := range p.Coeffs {
		out.Coeffs[i].Mul(c, scalar)
	}
	return out
}

// ScalarIntegerDivide returns p with every coefficient floor-divided by
// scalar (scalar must be positive), the exact division spec.md §9
// requires for base decomposition and rescaling.
func (p *Polynomial) ScalarIntegerDivide(scalar *big.Int) *Polynomial {
	out := NewPolynomial(p.N)
	for i, c := range p.Coeffs {
		out.Coeffs[i].Div(c, scalar)
	}
	return out
}

// Rotate applies the Galois automorphism X -> X^(5^r) to p, the
// rotate-by-5^r action spec.md §4.E uses to realize ciphertext slot
// rotations; r must be non-negative.
func (p *Polynomial) Rotate(r int) *Polynomial {
	N := p.N
	twoN := uint64(2 * N)
	k := ModExpUint64(5, uint64(r), twoN)
	out := NewPolynomial(N)
	for i := 0; i < N; i++ {
		idx := (uint64(i) * k) % twoN
		if idx < uint64(N) {
			out.Coeffs[idx].Set(p.Coeffs[i])
		} else {
			out.Coeffs[idx-uint64(N)].Neg(p.Coeffs[i])
		}
	}
	return out
}

// Conjugate applies the Galois automorphism X -> X^-1, used to realize
// the complex-conjugate slot operation (spec.md §4.E).
func (p *Polynomial) Conjugate() *Polynomial {
	N := p.N
	out := NewPolynomial(N)
	out.Coeffs[0].Set(p.Coeffs[0])
	for i := 1; i < N; i++ {
		out.Coeffs[i].Neg(p.Coeffs[N-i])
	}
	return out
}

// BaseDecompose splits p into L digit-polynomials in base B, each with
// coefficients in [0, B), such that p = sum_i digit_i * B^i (spec.md
// §4.E), using exact floor division at every step.
func (p *Polynomial) BaseDecompose(B *big.Int, L int) []*Polynomial {
	out := make([]*Polynomial, L)
	cur := p.Clone()
	for i := 0; i < L; i++ {
		digit := NewPolynomial(p.N)
		for j, c := range cur.Coeffs {
			digit.Coeffs[j].Mod(c, B)
		}
		out[i] = digit
		cur = cur.ScalarIntegerDivide(B)
	}
	return out
}

// MultiplyOption configures the multiplication strategy Multiply uses.
type MultiplyOption func(*mulOptions)

type mulOptions struct {
	crt *CRTContext
	ntt *NTTContext
}

// WithCRT selects RNS/CRT-accelerated multiplication over crt's family of
// NTT-friendly primes.
func WithCRT(crt *CRTContext) MultiplyOption { return func(o *mulOptions) { o.crt = crt } }

// WithNTT selects single-prime NTT-accelerated multiplication.
func WithNTT(ntt *NTTContext) MultiplyOption { return func(o *mulOptions) { o.ntt = ntt } }

// Multiply computes p*q in the ring Z[X]/(X^N+1), per spec.md §4.E.
// With WithCRT, it runs per-prime NTT convolution and CRT-reconstructs
// the result, balanced modulo the CRT product modulus; with WithNTT, it
// runs a single-prime NTT convolution with coefficients in [0, prime);
// with neither, it falls back to schoolbook multiplication honoring the
// negacyclic wrap X^N = -1 and reduces into [0, Q). Q is read only by the
// schoolbook path, where nil leaves coefficients unreduced; the NTT and
// CRT paths ignore it, so callers reduce modulo Q themselves.
func (p *Polynomial) Multiply(q *Polynomial, Q *big.Int, opts ...MultiplyOption) (*Polynomial, error) {
	if p.N != q.N {
		return nil, newError(KindShape, "Multiply", "polynomial length mismatch: %d vs %d", p.N, q.N)
	}
	o := &mulOptions{}
	for _, f := range opts {
		f(o)
	}

	switch {
	case o.crt != nil:
		return p.multiplyCRT(q, o.crt)
	case o.ntt != nil:
		return p.multiplyNTT(q, o.ntt)
	default:
		return p.multiplyNaive(q, Q), nil
	}
}

func (p *Polynomial) multiplyNaive(q *Polynomial, Q *big.Int) *Polynomial {
	N := p.N
	out := NewPolynomial(N)
	prod := new(big.Int)
	for d := 0; d < 2*N-1; d++ {
		idx := d % N
		negate := d >= N
		lo := 0
		if d-N+1 > 0 {
			lo = d - N + 1
		}
		coeff := new(big.Int)
		for i := lo; i <= d && i < N; i++ {
			j := d - i
			if j < 0 || j >= N {
				continue
			}
			prod.Mul(p.Coeffs[i], q.Coeffs[j])
			coeff.Add(coeff, prod)
		}
		if negate {
			coeff.Neg(coeff)
		}
		out.Coeffs[idx].Add(out.Coeffs[idx], coeff)
	}
	if Q != nil {
		for _, c := range out.Coeffs {
			c.Mod(c, Q)
		}
	}
	return out
}

func (p *Polynomial) multiplyNTT(q *Polynomial, ctx *NTTContext) (*Polynomial, error) {
	if p.N != ctx.N {
		return nil, newError(KindShape, "Multiply", "polynomial degree %d does not match NTT context degree %d", p.N, ctx.N)
	}
	Qb := new(big.Int).SetUint64(ctx.Q)
	a := make([]uint64, p.N)
	b := make([]uint64, p.N)
	tmp := new(big.Int)
	for i := 0; i < p.N; i++ {
		tmp.Mod(p.Coeffs[i], Qb)
		a[i] = tmp.Uint64()
		tmp.Mod(q.Coeffs[i], Qb)
		b[i] = tmp.Uint64()
	}
	fa := ctx.Forward(a)
	fb := ctx.Forward(b)
	prod := make([]uint64, p.N)
	for i := range prod {
		prod[i] = MulMod(fa[i], fb[i], ctx.Q)
	}
	res := ctx.Inverse(prod)
	out := NewPolynomial(p.N)
	for i, v := range res {
		out.Coeffs[i].SetUint64(v)
	}
	return out, nil
}

func (p *Polynomial) multiplyCRT(q *Polynomial, crt *CRTContext) (*Polynomial, error) {
	if p.N != crt.N {
		return nil, newError(KindShape, "Multiply", "polynomial degree %d does not match CRT context degree %d", p.N, crt.N)
	}
	L := len(crt.NTTs)
	resByPrime := make([][]uint64, L)
	for i, ctx := range crt.NTTs {
		prodPoly, err := p.multiplyNTT(q, ctx)
		if err != nil {
			return nil, err
		}
		resByPrime[i] = make([]uint64, p.N)
		for j := 0; j < p.N; j++ {
			resByPrime[i][j] = prodPoly.Coeffs[j].Uint64()
		}
	}
	out := NewPolynomial(p.N)
	residue := make([]uint64, L)
	for j := 0; j < p.N; j++ {
		for i := 0; i < L; i++ {
			residue[i] = resByPrime[i][j]
		}
		out.Coeffs[j] = crt.Reconstruct(residue)
	}
	return out.ModSmall(crt.Modulus), nil
}

// MultiplyFFT multiplies p and q via floating-point complex FFT
// convolution, zero-padding to 8N to avoid circular wraparound before
// folding the result negacyclically and rounding to the nearest integer.
// This path exists for debugging/validation (spec.md §4.E) and is not
// used by the ciphertext arithmetic in package ckks.
func (p *Polynomial) MultiplyFFT(q *Polynomial) (*Polynomial, error) {
	if p.N != q.N {
		return nil, newError(KindShape, "MultiplyFFT", "polynomial length mismatch: %d vs %d", p.N, q.N)
	}
	N := p.N
	size := 8 * N
	a := make([]complex128, size)
	b := make([]complex128, size)
	for i := 0; i < N; i++ {
		af, _ := new(big.Float).SetInt(p.Coeffs[i]).Float64()
		bf, _ := new(big.Float).SetInt(q.Coeffs[i]).Float64()
		a[i] = complex(af, 0)
		b[i] = complex(bf, 0)
	}
	fa := complexFFT(a, false)
	fb := complexFFT(b, false)
	prod := make([]complex128, size)
	for i := range prod {
		prod[i] = fa[i] * fb[i]
	}
	conv := complexFFT(prod, true)

	out := NewPolynomial(N)
	for d := 0; d < 2*N-1; d++ {
		idx := d % N
		sign := 1.0
		if d >= N {
			sign = -1.0
		}
		v := math.Round(real(conv[d]) * sign)
		out.Coeffs[idx].Add(out.Coeffs[idx], big.NewInt(int64(v)))
	}
	return out, nil
}

// complexFFT runs a generic radix-2 Cooley-Tukey FFT (or its inverse,
// normalized by 1/n) over a power-of-two-length complex slice.
func complexFFT(a []complex128, invert bool) []complex128 {
	n := len(a)
	logN := bits.Len(uint(n)) - 1
	res := make([]complex128, n)
	for i, v := range a {
		res[bitReverse(i, logN)] = v
	}
	for size := 2; size <= n; size <<= 1 {
		half := size / 2
		angle := 2 * math.Pi / float64(size)
		if !invert {
			angle = -angle
		}
		wn := complex(math.Cos(angle), math.Sin(angle))
		for i := 0; i < n; i += size {
			w := complex(1.0, 0.0)
			for j := 0; j < half; j++ {
				u := res[i+j]
				v := res[i+j+half] * w
				res[i+j] = u + v
				res[i+j+half] = u - v
				w *= wn
			}
		}
	}
	if invert {
		nf := complex(float64(n), 0)
		for i := range res {
			res[i] /= nf
		}
	}
	return res
}
