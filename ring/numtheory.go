package ring

import (
	"math/big"
	"math/bits"
)

// MulMod returns a*b mod q. a and b must already be reduced into [0, q).
// The product is computed as a full 128-bit value and reduced with a
// single 128-by-64 division rather than Montgomery form, trading some
// throughput for a one-line correctness argument (see DESIGN.md).
func MulMod(a, b, q uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	_, rem := bits.Div64(hi, lo, q)
	return rem
}

// AddMod returns a+b mod q. a and b must already be reduced into [0, q).
func AddMod(a, b, q uint64) uint64 {
	s := a + b
	if s < a || s >= q {
		s -= q
	}
	return s
}

// SubMod returns a-b mod q. a and b must already be reduced into [0, q).
func SubMod(a, b, q uint64) uint64 {
	if a >= b {
		return a - b
	}
	return q - (b - a)
}

// ModExpUint64 returns base^exp mod m by repeated squaring. m need not be
// prime.
func ModExpUint64(base, exp, m uint64) uint64 {
	if m == 1 {
		return 0
	}
	result := uint64(1)
	base %= m
	for exp > 0 {
		if exp&1 == 1 {
			result = MulMod(result, base, m)
		}
		base = MulMod(base, base, m)
		exp >>= 1
	}
	return result
}

// ModInvUint64 returns the multiplicative inverse of a modulo the prime p,
// computed as a^(p-2) mod p by Fermat's little theorem.
func ModInvUint64(a, p uint64) uint64 {
	return ModExpUint64(a, p-2, p)
}

// IsPrime reports whether n is prime. It delegates to math/big's
// Baillie-PSW/Miller-Rabin primality test: no third-party primality
// library appears anywhere in the retrieved pack, and math/big.Int's
// ProbablyPrime is the idiomatic standard-library tool for exactly this
// (see DESIGN.md §1).
func IsPrime(n uint64) bool {
	if n < 2 {
		return false
	}
	return new(big.Int).SetUint64(n).ProbablyPrime(32)
}

// factorize returns the distinct prime factors of n via trial division.
func factorize(n uint64) []uint64 {
	var factors []uint64
	for p := uint64(2); p*p <= n; p++ {
		if n%p == 0 {
			factors = append(factors, p)
			for n%p == 0 {
				n /= p
			}
		}
	}
	if n > 1 {
		factors = append(factors, n)
	}
	return factors
}

// PrimitiveRoot returns a generator of the multiplicative group Z_q^*,
// for prime q, by testing small candidates against the prime factors of
// q-1 (spec.md §4.A).
func PrimitiveRoot(q uint64) (uint64, error) {
	if !IsPrime(q) {
		return 0, newError(KindParameter, "PrimitiveRoot", "%d is not prime", q)
	}
	if q == 2 {
		return 1, nil
	}
	phi := q - 1
	factors := factorize(phi)
	for g := uint64(2); g < q; g++ {
		isGenerator := true
		for _, p := range factors {
			if ModExpUint64(g, phi/p, q) == 1 {
				isGenerator = false
				break
			}
		}
		if isGenerator {
			return g, nil
		}
	}
	return 0, newError(KindSampling, "PrimitiveRoot", "no generator found below %d", q)
}

// RootOfUnity returns an element of Z_q^* with multiplicative order
// exactly order, for prime q such that order divides q-1 (spec.md §4.A).
func RootOfUnity(order, q uint64) (uint64, error) {
	if order == 0 || (q-1)%order != 0 {
		return 0, newError(KindParameter, "RootOfUnity", "order %d does not divide q-1=%d", order, q-1)
	}
	g, err := PrimitiveRoot(q)
	if err != nil {
		return 0, err
	}
	root := ModExpUint64(g, (q-1)/order, q)
	if order > 1 && root == 1 {
		return 0, newError(KindSampling, "RootOfUnity", "degenerate root of unity found for order %d mod %d", order, q)
	}
	return root, nil
}

// firstCongruentAbove returns the least value strictly greater than start
// that is congruent to 1 modulo step.
func firstCongruentAbove(start, step uint64) uint64 {
	x := start + 1
	target := uint64(1) % step
	rem := x % step
	if rem <= target {
		x += target - rem
	} else {
		x += step - (rem - target)
	}
	return x
}

// NextNTTPrime returns the least prime congruent to 1 (mod twoN) that is
// greater than 2^bitSize, per spec.md §4.A / DESIGN.md Open Question 3.
func NextNTTPrime(bitSize int, twoN uint64) (uint64, error) {
	if bitSize <= 0 || bitSize >= 64 {
		return 0, newError(KindParameter, "NextNTTPrime", "bitSize=%d out of range", bitSize)
	}
	candidate := firstCongruentAbove(uint64(1)<<uint(bitSize), twoN)
	for {
		if IsPrime(candidate) {
			return candidate, nil
		}
		candidate += twoN
	}
}
