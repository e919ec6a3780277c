package ring

import "math/big"

// CRTContext holds a family of NTT-friendly primes used to accelerate
// polynomial multiplication via the residue number system, per
// spec.md §4.D.
type CRTContext struct {
	N       int
	Primes  []uint64
	NTTs    []*NTTContext
	Modulus *big.Int // product of all primes

	mi    []*big.Int // M/p_i
	miInv []uint64   // (M/p_i)^-1 mod p_i
}

// NewCRTContext selects numPrimes distinct NTT-friendly primes of
// approximately primeBits bits each (all congruent to 1 mod 2N), and
// builds the per-prime NTT contexts and CRT reconstruction coefficients.
func NewCRTContext(N, numPrimes, primeBits int) (*CRTContext, error) {
	if numPrimes <= 0 {
		return nil, newError(KindParameter, "NewCRTContext", "numPrimes=%d must be positive", numPrimes)
	}
	if primeBits <= 0 || primeBits >= 62 {
		return nil, newError(KindParameter, "NewCRTContext", "primeBits=%d out of supported range", primeBits)
	}

	twoN := uint64(2 * N)
	primes := make([]uint64, 0, numPrimes)
	ntts := make([]*NTTContext, 0, numPrimes)

	next := firstCongruentAbove(uint64(1)<<uint(primeBits), twoN)
	for len(primes) < numPrimes {
		if IsPrime(next) {
			ctx, err := NewNTTContext(N, next)
			if err != nil {
				return nil, err
			}
			primes = append(primes, next)
			ntts = append(ntts, ctx)
		}
		next += twoN
	}

	modulus := big.NewInt(1)
	for _, p := range primes {
		modulus.Mul(modulus, new(big.Int).SetUint64(p))
	}

	mi := make([]*big.Int, numPrimes)
	miInv := make([]uint64, numPrimes)
	for i, p := range primes {
		pb := new(big.Int).SetUint64(p)
		mi[i] = new(big.Int).Div(modulus, pb)
		miModP := new(big.Int).Mod(mi[i], pb).Uint64()
		miInv[i] = ModInvUint64(miModP, p)
	}

	return &CRTContext{N: N, Primes: primes, NTTs: ntts, Modulus: modulus, mi: mi, miInv: miInv}, nil
}

// Decompose returns the per-prime residues of x, i.e. x mod p_i for every
// prime in the context.
func (c *CRTContext) Decompose(x *big.Int) []uint64 {
	res := make([]uint64, len(c.Primes))
	tmp := new(big.Int)
	for i, p := range c.Primes {
		tmp.Mod(x, new(big.Int).SetUint64(p))
		res[i] = tmp.Uint64()
	}
	return res
}

// Reconstruct recombines per-prime residues into the unique representative
// in [0, Modulus) via the CRT formula of spec.md §4.D:
// x = sum_i (r_i * M_i^-1 mod p_i) * M_i mod M.
func (c *CRTContext) Reconstruct(residues []uint64) *big.Int {
	acc := new(big.Int)
	term := new(big.Int)
	for i, r := range residues {
		t := MulMod(r, c.miInv[i], c.Primes[i])
		term.SetUint64(t)
		term.Mul(term, c.mi[i])
		acc.Add(acc, term)
	}
	acc.Mod(acc, c.Modulus)
	return acc
}

