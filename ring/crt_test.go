package ring_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/ckks-core/ring"
)

func TestCRTReconstructRoundTrip(t *testing.T) {
	N := 16
	ctx, err := ring.NewCRTContext(N, 3, 20)
	require.NoError(t, err)
	require.Len(t, ctx.Primes, 3)

	x := new(big.Int).Sub(ctx.Modulus, big.NewInt(12345))
	residues := ctx.Decompose(x)
	recovered := ctx.Reconstruct(residues)
	require.Equal(t, 0, x.Cmp(recovered))
}

func TestCRTMultiplyMatchesNaive(t *testing.T) {
	N := 8
	ctx, err := ring.NewCRTContext(N, 2, 25)
	require.NoError(t, err)

	pa := ring.NewPolynomialFromInt64([]int64{1, 2, 3, 4, 5, 6, 7, 8})
	pb := ring.NewPolynomialFromInt64([]int64{8, 7, 6, 5, 4, 3, 2, 1})

	prodCRT, err := pa.Multiply(pb, ctx.Modulus, ring.WithCRT(ctx))
	require.NoError(t, err)
	prodNaive, err := pa.Multiply(pb, ctx.Modulus)
	require.NoError(t, err)

	require.True(t, prodCRT.ModSmall(ctx.Modulus).Equal(prodNaive.ModSmall(ctx.Modulus)))
}
