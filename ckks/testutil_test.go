package ckks_test

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/ckks-core/ckks"
	"github.com/tuneinsight/ckks-core/utils/sampling"
)

func newTestParameters(t *testing.T) *ckks.Parameters {
	t.Helper()
	Q := new(big.Int).Lsh(big.NewInt(1), 55)
	P := new(big.Int).Lsh(big.NewInt(1), 110)
	scale := big.NewFloat(math.Pow(2, 20))
	params, err := ckks.NewParameters(16, Q, P, scale, ckks.WithTaylorIterations(4), ckks.WithHammingWeight(4))
	require.NoError(t, err)
	return params
}

func testPRNG(t *testing.T) sampling.PRNG {
	t.Helper()
	prng, err := sampling.NewKeyedPRNG([]byte("ckks-core-test-seed-0000000000!!"))
	require.NoError(t, err)
	return prng
}
