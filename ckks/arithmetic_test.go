package ckks_test

import (
	"math/big"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/ckks-core/ckks"
)

func decryptTo(t *testing.T, decryptor *ckks.Decryptor, enc *ckks.Encoder, sk *ckks.SecretKey, ct *ckks.Ciphertext) []complex128 {
	t.Helper()
	pt, err := decryptor.Decrypt(ct, sk)
	require.NoError(t, err)
	values, err := enc.Decode(pt)
	require.NoError(t, err)
	return values
}

func TestArithmeticAdd(t *testing.T) {
	params := newTestParameters(t)
	kg := ckks.NewKeyGenerator(params, testPRNG(t))
	sk := kg.GenerateSecretKey()

	enc := ckks.NewEncoder(params)
	encryptor := ckks.NewEncryptor(params, testPRNG(t))
	decryptor := ckks.NewDecryptor(params)

	pt1, err := enc.Encode([]complex128{complex(2, 0), complex(1, 1)}, params.Scale())
	require.NoError(t, err)
	ct1, err := encryptor.EncryptWithSecretKey(pt1, sk)
	require.NoError(t, err)

	pt2, err := enc.Encode([]complex128{complex(3, 0), complex(-1, 2)}, params.Scale())
	require.NoError(t, err)
	ct2, err := encryptor.EncryptWithSecretKey(pt2, sk)
	require.NoError(t, err)

	arith := ckks.NewArithmeticEvaluator(params, nil)
	sum, err := arith.Add(ct1, ct2)
	require.NoError(t, err)

	decoded := decryptTo(t, decryptor, enc, sk, sum)
	require.InDelta(t, 0, cmplx.Abs(decoded[0]-complex(5, 0)), 1e-2)
	require.InDelta(t, 0, cmplx.Abs(decoded[1]-complex(0, 3)), 1e-2)
}

func TestArithmeticMultiplyAndRescale(t *testing.T) {
	params := newTestParameters(t)
	kg := ckks.NewKeyGenerator(params, testPRNG(t))
	sk := kg.GenerateSecretKey()
	rlk, err := kg.GenerateRelinearizationKey(sk)
	require.NoError(t, err)

	enc := ckks.NewEncoder(params)
	encryptor := ckks.NewEncryptor(params, testPRNG(t))
	decryptor := ckks.NewDecryptor(params)
	arith := ckks.NewArithmeticEvaluator(params, rlk)

	pt1, err := enc.Encode([]complex128{complex(2, 0)}, params.Scale())
	require.NoError(t, err)
	ct1, err := encryptor.EncryptWithSecretKey(pt1, sk)
	require.NoError(t, err)

	pt2, err := enc.Encode([]complex128{complex(3, 0)}, params.Scale())
	require.NoError(t, err)
	ct2, err := encryptor.EncryptWithSecretKey(pt2, sk)
	require.NoError(t, err)

	product, err := arith.Multiply(ct1, ct2)
	require.NoError(t, err)

	delta, _ := params.Scale().Int(nil)
	rescaled, err := arith.Rescale(product, delta)
	require.NoError(t, err)

	decoded := decryptTo(t, decryptor, enc, sk, rescaled)
	require.InDelta(t, 0, cmplx.Abs(decoded[0]-complex(6, 0)), 1e-1)
}

func TestArithmeticMultiplyWithoutRelinKeyFails(t *testing.T) {
	params := newTestParameters(t)
	kg := ckks.NewKeyGenerator(params, testPRNG(t))
	sk := kg.GenerateSecretKey()

	enc := ckks.NewEncoder(params)
	encryptor := ckks.NewEncryptor(params, testPRNG(t))

	pt, err := enc.Encode([]complex128{complex(1, 0)}, params.Scale())
	require.NoError(t, err)
	ct, err := encryptor.EncryptWithSecretKey(pt, sk)
	require.NoError(t, err)

	arith := ckks.NewArithmeticEvaluator(params, nil)
	_, err = arith.Multiply(ct, ct)
	require.Error(t, err)
}

func TestArithmeticRescaleExhaustsModulus(t *testing.T) {
	params := newTestParameters(t)
	kg := ckks.NewKeyGenerator(params, testPRNG(t))
	sk := kg.GenerateSecretKey()

	enc := ckks.NewEncoder(params)
	encryptor := ckks.NewEncryptor(params, testPRNG(t))
	arith := ckks.NewArithmeticEvaluator(params, nil)

	pt, err := enc.Encode([]complex128{complex(1, 0)}, params.Scale())
	require.NoError(t, err)
	ct, err := encryptor.EncryptWithSecretKey(pt, sk)
	require.NoError(t, err)

	hugeDivisor := new(big.Int).Mul(params.Q(), params.Q())
	_, err = arith.Rescale(ct, hugeDivisor)
	require.Error(t, err)
}
