package ckks_test

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/ckks-core/ckks"
)

func TestEvaluatorComposesAddAndRotate(t *testing.T) {
	params := newTestParameters(t)
	kg := ckks.NewKeyGenerator(params, testPRNG(t))
	sk := kg.GenerateSecretKey()
	rlk, err := kg.GenerateRelinearizationKey(sk)
	require.NoError(t, err)
	rotKey, err := kg.GenerateRotationKey(sk, 1)
	require.NoError(t, err)

	evaluator := ckks.NewEvaluator(params, rlk, ckks.WithRotationKeys([]*ckks.RotationKey{rotKey}))

	encryptor := ckks.NewEncryptor(params, testPRNG(t))
	decryptor := ckks.NewDecryptor(params)

	values := []complex128{complex(1, 0), complex(2, 0), complex(3, 0)}
	pt, err := evaluator.Encoder().Encode(values, params.Scale())
	require.NoError(t, err)
	ct, err := encryptor.EncryptWithSecretKey(pt, sk)
	require.NoError(t, err)

	sum, err := evaluator.Arithmetic().Add(ct, ct)
	require.NoError(t, err)
	decoded := decryptTo(t, decryptor, evaluator.Encoder(), sk, sum)
	require.InDelta(t, 0, cmplx.Abs(decoded[0]-complex(2, 0)), 1e-2)

	rotated, err := evaluator.Rotation().Rotate(ct, 1)
	require.NoError(t, err)
	decodedRot := decryptTo(t, decryptor, evaluator.Encoder(), sk, rotated)
	require.InDelta(t, 0, cmplx.Abs(decodedRot[0]-values[1]), 5e-2)
}

func TestEvaluatorBootstrapRequiresContext(t *testing.T) {
	params := newTestParameters(t)
	kg := ckks.NewKeyGenerator(params, testPRNG(t))
	sk := kg.GenerateSecretKey()
	rlk, err := kg.GenerateRelinearizationKey(sk)
	require.NoError(t, err)

	evaluator := ckks.NewEvaluator(params, rlk)

	encryptor := ckks.NewEncryptor(params, testPRNG(t))
	pt, err := evaluator.Encoder().Encode([]complex128{complex(1, 0)}, params.Scale())
	require.NoError(t, err)
	ct, err := encryptor.EncryptWithSecretKey(pt, sk)
	require.NoError(t, err)

	_, err = evaluator.Bootstrap(ct)
	require.Error(t, err)
}
