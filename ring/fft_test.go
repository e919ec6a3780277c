package ring_test

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/ckks-core/ring"
)

func TestEmbeddingRoundTrip(t *testing.T) {
	N := 16
	ctx, err := ring.NewCanonicalEmbeddingContext(N)
	require.NoError(t, err)
	require.Equal(t, N/2, ctx.NumSlots())

	z := []complex128{
		complex(1.0, 2.0),
		complex(-3.5, 0.5),
		complex(0.0, -1.0),
		complex(2.25, 2.25),
	}

	y, err := ctx.Embedding(z)
	require.NoError(t, err)
	back, err := ctx.EmbeddingInv(y)
	require.NoError(t, err)

	for i := range z {
		require.InDeltaf(t, 0, cmplx.Abs(z[i]-back[i]), 1e-9, "slot %d", i)
	}
}

func TestEmbeddingRejectsOversizedInput(t *testing.T) {
	ctx, err := ring.NewCanonicalEmbeddingContext(8)
	require.NoError(t, err)
	_, err = ctx.Embedding(make([]complex128, ctx.NumSlots()*2))
	require.Error(t, err)
}

func TestMultiplyFFTMatchesNaive(t *testing.T) {
	pa := ring.NewPolynomialFromInt64([]int64{1, 2, 3, 4})
	pb := ring.NewPolynomialFromInt64([]int64{5, -1, 2, 0})

	prodNaive, err := pa.Multiply(pb, nil)
	require.NoError(t, err)
	prodFFT, err := pa.MultiplyFFT(pb)
	require.NoError(t, err)

	for i := range prodNaive.Coeffs {
		require.Equal(t, prodNaive.Coeffs[i].Int64(), prodFFT.Coeffs[i].Int64())
	}
}
