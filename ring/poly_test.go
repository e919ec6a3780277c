package ring_test

import (
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/ckks-core/ring"
)

func TestPolynomialAddSubtract(t *testing.T) {
	a := ring.NewPolynomialFromInt64([]int64{1, 2, 3, 4})
	b := ring.NewPolynomialFromInt64([]int64{4, 3, 2, 1})

	sum, err := a.Add(b)
	require.NoError(t, err)
	require.True(t, sum.Equal(ring.NewPolynomialFromInt64([]int64{5, 5, 5, 5})))

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	require.True(t, diff.Equal(ring.NewPolynomialFromInt64([]int64{-3, -1, 1, 3})))
}

func TestPolynomialModSmallBalanced(t *testing.T) {
	Q := big.NewInt(17)
	p := ring.NewPolynomialFromInt64([]int64{0, 8, 9, 16, -1})
	reduced := p.ModSmall(Q)
	expected := []int64{0, 8, -8, -1, -1}
	for i, e := range expected {
		require.Equal(t, e, reduced.Coeffs[i].Int64(), "coeff %d", i)
	}
}

func TestPolynomialRotateAndConjugate(t *testing.T) {
	p := ring.NewPolynomialFromInt64([]int64{1, 2, 3, 4})
	rotated := p.Rotate(0)
	require.True(t, p.Equal(rotated))

	conj := p.Conjugate()
	require.Equal(t, int64(1), conj.Coeffs[0].Int64())
	require.Equal(t, int64(-4), conj.Coeffs[1].Int64())
	require.Equal(t, int64(-3), conj.Coeffs[2].Int64())
	require.Equal(t, int64(-2), conj.Coeffs[3].Int64())
}

func TestPolynomialBaseDecomposeReconstructs(t *testing.T) {
	p := ring.NewPolynomialFromInt64([]int64{12345, 6789, 1, 0})
	B := big.NewInt(16)
	digits := p.BaseDecompose(B, 4)

	acc := ring.NewPolynomial(4)
	power := big.NewInt(1)
	for _, d := range digits {
		scaled := d.ScalarMultiply(power)
		var err error
		acc, err = acc.Add(scaled)
		require.NoError(t, err)
		power.Mul(power, B)
	}
	require.Empty(t, cmp.Diff(p.Coeffs[0].String(), acc.Coeffs[0].String()))
	require.True(t, p.Equal(acc))
}

func TestPolynomialScalarIntegerDivideFloors(t *testing.T) {
	p := ring.NewPolynomialFromInt64([]int64{-7, -1, 0, 7})
	div := p.ScalarIntegerDivide(big.NewInt(2))
	require.Equal(t, []int64{-4, -1, 0, 3}, []int64{
		div.Coeffs[0].Int64(), div.Coeffs[1].Int64(), div.Coeffs[2].Int64(), div.Coeffs[3].Int64(),
	})
}
