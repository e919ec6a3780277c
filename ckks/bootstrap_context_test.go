package ckks_test

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/ckks-core/ckks"
)

func TestBootstrapContextMatrixDimensions(t *testing.T) {
	params := newTestParameters(t)
	bctx, err := ckks.NewBootstrapContext(params)
	require.NoError(t, err)

	n := params.NumSlots()
	for _, m := range [][][]complex128{
		bctx.E0(), bctx.E1(),
		bctx.Transpose0(), bctx.Transpose1(),
		bctx.ConjTranspose0(), bctx.ConjTranspose1(),
	} {
		require.Len(t, m, n)
		for _, row := range m {
			require.Len(t, row, n)
		}
	}
}

func TestBootstrapContextTransposesAreConsistent(t *testing.T) {
	params := newTestParameters(t)
	bctx, err := ckks.NewBootstrapContext(params)
	require.NoError(t, err)

	n := params.NumSlots()
	e0, t0, ct0 := bctx.E0(), bctx.Transpose0(), bctx.ConjTranspose0()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			require.InDelta(t, 0, cmplx.Abs(t0[i][j]-e0[j][i]), 1e-9, "transpose0[%d][%d]", i, j)
			want := complex(real(t0[i][j]), -imag(t0[i][j]))
			require.InDelta(t, 0, cmplx.Abs(ct0[i][j]-want), 1e-9, "conjTranspose0[%d][%d]", i, j)
		}
	}
}

func TestBootstrapContextRowsMatchRotationGroupPrimitiveRoots(t *testing.T) {
	params := newTestParameters(t)
	bctx, err := ckks.NewBootstrapContext(params)
	require.NoError(t, err)

	n := params.N()
	m := 2 * n
	numSlots := params.NumSlots()
	e0, e1 := bctx.E0(), bctx.E1()

	power := 1
	for i := 0; i < numSlots; i++ {
		angle := math.Pi * float64(power) / float64(n)
		rho := cmplx.Exp(complex(0, angle))

		require.InDelta(t, 0, cmplx.Abs(e0[i][0]-1), 1e-9, "row %d", i)
		require.InDelta(t, 0, cmplx.Abs(e0[i][1]-rho), 1e-9, "row %d", i)
		require.InDelta(t, 0, cmplx.Abs(e1[i][0]-cmplx.Pow(rho, complex(float64(numSlots), 0))), 1e-6, "row %d", i)

		power = (power * 5) % m
	}
}
