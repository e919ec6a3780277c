package ckks_test

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/ckks-core/ckks"
)

func TestRequiredRotationStepsCoversAllDiagonals(t *testing.T) {
	steps := ckks.RequiredRotationSteps(8)
	require.Contains(t, steps, 0)
	seen := map[int]bool{}
	for _, s := range steps {
		seen[s] = true
	}
	require.True(t, seen[1] || seen[0])
	for k := 0; k < 8; k++ {
		covered := false
		for _, s := range steps {
			if seen[k-s] {
				covered = true
			}
		}
		require.True(t, covered, "diagonal %d is not a baby step plus a giant step", k)
	}
}

func buildIdentityMatrix(n int) [][]complex128 {
	m := make([][]complex128, n)
	for i := range m {
		m[i] = make([]complex128, n)
		m[i][i] = 1
	}
	return m
}

func buildRotationMatrix(n, shift int) [][]complex128 {
	m := make([][]complex128, n)
	for i := range m {
		m[i] = make([]complex128, n)
		m[i][(i+shift)%n] = 1
	}
	return m
}

func rotationKeysFor(t *testing.T, params *ckks.Parameters, sk *ckks.SecretKey, steps []int) []*ckks.RotationKey {
	t.Helper()
	kg := ckks.NewKeyGenerator(params, testPRNG(t))
	keys := make([]*ckks.RotationKey, 0, len(steps))
	for _, s := range steps {
		if s == 0 {
			continue
		}
		k, err := kg.GenerateRotationKey(sk, s)
		require.NoError(t, err)
		keys = append(keys, k)
	}
	return keys
}

func TestMultiplyMatrixIdentity(t *testing.T) {
	params := newTestParameters(t)
	kg := ckks.NewKeyGenerator(params, testPRNG(t))
	sk := kg.GenerateSecretKey()

	steps := ckks.RequiredRotationSteps(params.NumSlots())
	keys := rotationKeysFor(t, params, sk, steps)
	rot := ckks.NewRotationEvaluator(params, keys, nil)
	enc := ckks.NewEncoder(params)
	arith := ckks.NewArithmeticEvaluator(params, nil)
	matrixEval := ckks.NewMatrixEvaluator(params, enc, rot, arith)

	encryptor := ckks.NewEncryptor(params, testPRNG(t))
	decryptor := ckks.NewDecryptor(params)

	values := make([]complex128, params.NumSlots())
	for i := range values {
		values[i] = complex(float64(i), 0)
	}
	pt, err := enc.Encode(values, params.Scale())
	require.NoError(t, err)
	ct, err := encryptor.EncryptWithSecretKey(pt, sk)
	require.NoError(t, err)

	result, err := matrixEval.MultiplyMatrix(ct, buildIdentityMatrix(params.NumSlots()))
	require.NoError(t, err)

	decoded := decryptTo(t, decryptor, enc, sk, result)
	for i, v := range values {
		require.InDelta(t, 0, cmplx.Abs(v-decoded[i]), 5e-2, "slot %d", i)
	}
}

func TestMultiplyMatrixNaiveMatchesBSGS(t *testing.T) {
	params := newTestParameters(t)
	kg := ckks.NewKeyGenerator(params, testPRNG(t))
	sk := kg.GenerateSecretKey()

	// The naive path rotates by every step in [0, numSlots), a superset of
	// the steps the baby-step/giant-step path needs.
	steps := make([]int, params.NumSlots())
	for i := range steps {
		steps[i] = i
	}
	keys := rotationKeysFor(t, params, sk, steps)
	rot := ckks.NewRotationEvaluator(params, keys, nil)
	enc := ckks.NewEncoder(params)
	arith := ckks.NewArithmeticEvaluator(params, nil)
	matrixEval := ckks.NewMatrixEvaluator(params, enc, rot, arith)

	encryptor := ckks.NewEncryptor(params, testPRNG(t))
	decryptor := ckks.NewDecryptor(params)

	values := make([]complex128, params.NumSlots())
	for i := range values {
		values[i] = complex(float64(i+1), 0)
	}
	pt, err := enc.Encode(values, params.Scale())
	require.NoError(t, err)
	ct, err := encryptor.EncryptWithSecretKey(pt, sk)
	require.NoError(t, err)

	matrix := buildRotationMatrix(params.NumSlots(), 1)

	viaNaive, err := matrixEval.MultiplyMatrixNaive(ct, matrix)
	require.NoError(t, err)
	viaBSGS, err := matrixEval.MultiplyMatrix(ct, matrix)
	require.NoError(t, err)

	decodedNaive := decryptTo(t, decryptor, enc, sk, viaNaive)
	decodedBSGS := decryptTo(t, decryptor, enc, sk, viaBSGS)
	for i := range decodedNaive {
		require.InDelta(t, 0, cmplx.Abs(decodedNaive[i]-decodedBSGS[i]), 5e-2, "slot %d", i)
	}
}
