package ckks_test

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/ckks-core/ckks"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	params := newTestParameters(t)
	enc := ckks.NewEncoder(params)

	values := []complex128{
		complex(1.5, -0.5),
		complex(-2.25, 3.75),
		complex(0, 0),
		complex(10, 10),
	}

	pt, err := enc.Encode(values, params.Scale())
	require.NoError(t, err)

	decoded, err := enc.Decode(pt)
	require.NoError(t, err)
	require.Len(t, decoded, params.NumSlots())

	for i, v := range values {
		require.InDelta(t, 0, cmplx.Abs(v-decoded[i]), 1e-3, "slot %d", i)
	}
	for i := len(values); i < params.NumSlots(); i++ {
		require.InDelta(t, 0, cmplx.Abs(decoded[i]), 1e-3, "zero-padded slot %d", i)
	}
}

func TestEncodeRejectsTooManyValues(t *testing.T) {
	params := newTestParameters(t)
	enc := ckks.NewEncoder(params)

	values := make([]complex128, params.NumSlots()+1)
	_, err := enc.Encode(values, params.Scale())
	require.Error(t, err)
}
