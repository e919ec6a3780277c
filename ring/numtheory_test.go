package ring_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/ckks-core/ring"
)

func TestIsPrime(t *testing.T) {
	primes := []uint64{2, 3, 5, 7, 11, 13, 17, 65537}
	for _, p := range primes {
		require.Truef(t, ring.IsPrime(p), "%d should be prime", p)
	}
	composites := []uint64{0, 1, 4, 6, 9, 100, 65536}
	for _, n := range composites {
		require.Falsef(t, ring.IsPrime(n), "%d should not be prime", n)
	}
}

func TestModExpAndInv(t *testing.T) {
	const q = uint64(1000000007) // a well-known prime
	require.Equal(t, uint64(1), ring.ModExpUint64(7, 0, q))
	a := uint64(123456789)
	inv := ring.ModInvUint64(a, q)
	require.Equal(t, uint64(1), ring.MulMod(a, inv, q))
}

func TestRootOfUnity(t *testing.T) {
	N := 16
	q, err := ring.NextNTTPrime(20, uint64(2*N))
	require.NoError(t, err)
	require.True(t, ring.IsPrime(q))
	require.Equal(t, uint64(1), (q-1)%uint64(2*N))

	psi, err := ring.RootOfUnity(uint64(2*N), q)
	require.NoError(t, err)
	require.Equal(t, uint64(1), ring.ModExpUint64(psi, uint64(2*N), q))
	require.NotEqual(t, uint64(1), ring.ModExpUint64(psi, uint64(N), q))
}

func TestNextNTTPrimeCongruence(t *testing.T) {
	twoN := uint64(8192)
	q, err := ring.NextNTTPrime(30, twoN)
	require.NoError(t, err)
	require.Greater(t, q, uint64(1)<<30)
	require.Equal(t, uint64(1), (q-1)%twoN)
	require.True(t, ring.IsPrime(q))
}
