package ckks

import (
	"fmt"
	"math"
	"math/big"

	"golang.org/x/crypto/blake2b"

	"github.com/tuneinsight/ckks-core/ring"
)

const (
	defaultTaylorIterations = 7
	defaultHammingWeight    = 64
	defaultPrimeSize        = 59
	crtMarginBits           = 128
)

// Parameters bundles the CKKS scheme parameters of spec.md §6.1: the ring
// degree N, the initial ciphertext coefficient modulus Q, the auxiliary
// big modulus P used during key switching, the scaling factor Δ, and the
// secondary knobs (Taylor-series depth for bootstrap sine evaluation,
// secret-key Hamming weight, and the CRT prime size used to accelerate
// ring multiplication).
type Parameters struct {
	n                int
	q                *big.Int
	p                *big.Int
	scale            *big.Float
	taylorIterations int
	hammingWeight    int
	primeSize        int
	crt              *ring.CRTContext
	embedding        *ring.CanonicalEmbeddingContext
}

// Option configures a secondary Parameters knob away from its default.
type Option func(*paramOptions)

type paramOptions struct {
	taylorIterations int
	hammingWeight    int
	primeSize        int
}

// WithTaylorIterations overrides the number of doubling iterations the
// bootstrap sine evaluation uses (spec.md §4.M).
func WithTaylorIterations(t int) Option {
	return func(o *paramOptions) { o.taylorIterations = t }
}

// WithHammingWeight overrides the Hamming weight of the sparse secret-key
// distribution used for bootstrapping (spec.md §4.A).
func WithHammingWeight(h int) Option {
	return func(o *paramOptions) { o.hammingWeight = h }
}

// WithPrimeSize overrides the bit size of the NTT-friendly primes backing
// the RNS/CRT acceleration context (spec.md §4.D).
func WithPrimeSize(bits int) Option {
	return func(o *paramOptions) { o.primeSize = bits }
}

// NewParameters validates and constructs a Parameters value. N must be a
// power of two, Q must be strictly smaller than P, and Δ must exceed 1.
func NewParameters(N int, Q, P *big.Int, scale *big.Float, opts ...Option) (*Parameters, error) {
	if N <= 0 || N&(N-1) != 0 {
		return nil, newError(KindParameter, "NewParameters", "N=%d is not a power of two", N)
	}
	if Q == nil || P == nil || Q.Sign() <= 0 || P.Sign() <= 0 {
		return nil, newError(KindParameter, "NewParameters", "Q and P must be positive")
	}
	if Q.Cmp(P) >= 0 {
		return nil, newError(KindParameter, "NewParameters", "Q must be strictly smaller than P")
	}
	one := big.NewFloat(1)
	if scale == nil || scale.Cmp(one) <= 0 {
		return nil, newError(KindParameter, "NewParameters", "scaling factor must exceed 1")
	}

	o := &paramOptions{
		taylorIterations: defaultTaylorIterations,
		hammingWeight:    defaultHammingWeight,
		primeSize:        defaultPrimeSize,
	}
	for _, f := range opts {
		f(o)
	}
	if o.taylorIterations <= 0 {
		return nil, newError(KindParameter, "NewParameters", "taylorIterations must be positive")
	}
	if o.hammingWeight <= 0 || o.hammingWeight > N {
		return nil, newError(KindParameter, "NewParameters", "hammingWeight out of range [1,%d]", N)
	}
	if o.primeSize <= 0 || o.primeSize >= 62 {
		return nil, newError(KindParameter, "NewParameters", "primeSize=%d out of supported range", o.primeSize)
	}

	embedding, err := ring.NewCanonicalEmbeddingContext(N)
	if err != nil {
		return nil, newError(KindParameter, "NewParameters", "building embedding context: %v", err)
	}

	targetBits := 2*P.BitLen() + crtMarginBits
	numPrimes := (targetBits + o.primeSize - 1) / o.primeSize
	if numPrimes < 2 {
		numPrimes = 2
	}
	crt, err := ring.NewCRTContext(N, numPrimes, o.primeSize)
	if err != nil {
		return nil, newError(KindParameter, "NewParameters", "building CRT context: %v", err)
	}

	return &Parameters{
		n:                N,
		q:                new(big.Int).Set(Q),
		p:                new(big.Int).Set(P),
		scale:            new(big.Float).Copy(scale),
		taylorIterations: o.taylorIterations,
		hammingWeight:    o.hammingWeight,
		primeSize:        o.primeSize,
		crt:              crt,
		embedding:        embedding,
	}, nil
}

// N returns the ring degree.
func (p *Parameters) N() int { return p.n }

// NumSlots returns the number of complex slots a plaintext can pack, N/2.
func (p *Parameters) NumSlots() int { return p.embedding.NumSlots() }

// Q returns the initial ciphertext coefficient modulus.
func (p *Parameters) Q() *big.Int { return new(big.Int).Set(p.q) }

// P returns the auxiliary big modulus used for key switching.
func (p *Parameters) P() *big.Int { return new(big.Int).Set(p.p) }

// Scale returns the scaling factor Δ.
func (p *Parameters) Scale() *big.Float { return new(big.Float).Copy(p.scale) }

// TaylorIterations returns the configured bootstrap sine-evaluation depth.
func (p *Parameters) TaylorIterations() int { return p.taylorIterations }

// HammingWeight returns the configured sparse secret-key weight.
func (p *Parameters) HammingWeight() int { return p.hammingWeight }

// CRT returns the RNS/CRT acceleration context backing ring
// multiplication (spec.md §4.D).
func (p *Parameters) CRT() *ring.CRTContext { return p.crt }

// Embedding returns the canonical-embedding FFT context backing the
// encoder (spec.md §4.C).
func (p *Parameters) Embedding() *ring.CanonicalEmbeddingContext { return p.embedding }

// String returns a one-line human-readable parameter summary.
func (p *Parameters) String() string {
	scaleF, _ := p.scale.Float64()
	return fmt.Sprintf("ckks.Parameters{N=%d, logQ=%d, logP=%d, scale=2^%.1f, T=%d, h=%d}",
		p.n, p.q.BitLen(), p.p.BitLen(), log2(scaleF), p.taylorIterations, p.hammingWeight)
}

// Hash returns a short deterministic fingerprint of the parameter set,
// derived with BLAKE2b over its defining fields, suitable for
// cache-keying or log correlation (spec.md §9 ambient diagnostics).
func (p *Parameters) Hash() [16]byte {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(fmt.Sprintf("%d|", p.n)))
	h.Write(p.q.Bytes())
	h.Write([]byte("|"))
	h.Write(p.p.Bytes())
	h.Write([]byte("|"))
	h.Write([]byte(p.scale.Text('e', 20)))
	h.Write([]byte(fmt.Sprintf("|%d|%d", p.taylorIterations, p.hammingWeight)))
	var out [16]byte
	copy(out[:], h.Sum(nil))
	return out
}

func log2(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return math.Log2(x)
}
