package ring_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/ckks-core/ring"
)

func bigFromUint64(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}

func TestNTTRoundTrip(t *testing.T) {
	N := 16
	q, err := ring.NextNTTPrime(20, uint64(2*N))
	require.NoError(t, err)

	ctx, err := ring.NewNTTContext(N, q)
	require.NoError(t, err)

	a := make([]uint64, N)
	for i := range a {
		a[i] = uint64(i*37+5) % q
	}

	hat := ctx.Forward(a)
	back := ctx.Inverse(hat)
	require.Equal(t, a, back)
}

func TestNTTMultiplyMatchesSchoolbook(t *testing.T) {
	N := 8
	q, err := ring.NextNTTPrime(20, uint64(2*N))
	require.NoError(t, err)
	ctx, err := ring.NewNTTContext(N, q)
	require.NoError(t, err)

	pa := ring.NewPolynomialFromInt64([]int64{1, 2, 3, 4, 5, 6, 7, 8})
	pb := ring.NewPolynomialFromInt64([]int64{8, 7, 6, 5, 4, 3, 2, 1})

	prodNaive, err := pa.Multiply(pb, bigFromUint64(q))
	require.NoError(t, err)
	prodNTT, err := pa.Multiply(pb, nil, ring.WithNTT(ctx))
	require.NoError(t, err)

	require.True(t, prodNaive.Mod(bigFromUint64(q)).Equal(prodNTT.Mod(bigFromUint64(q))))
}
