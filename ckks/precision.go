package ckks

import (
	"math"
	"math/cmplx"

	"github.com/montanaflynn/stats"
)

// PrecisionStats summarizes per-slot approximation error in bits of
// precision, the consumer-facing shape of the dropped NoiseEstimator
// feature supplemented from original_source/ (SPEC_FULL.md §5): given an
// expected and an actually-decoded slot vector, it reports how many bits
// of precision survived the round trip.
type PrecisionStats struct {
	MinPrecision    float64
	MaxPrecision    float64
	MeanPrecision   float64
	MedianPrecision float64
	StdDevPrecision float64
}

// ComputePrecisionStats compares expected against actual slot-by-slot and
// reports the distribution of -log2(|expected-actual|) across slots,
// using montanaflynn/stats for the descriptive statistics.
func ComputePrecisionStats(expected, actual []complex128) (*PrecisionStats, error) {
	if len(expected) != len(actual) {
		return nil, newError(KindShape, "ComputePrecisionStats", "length mismatch: %d vs %d", len(expected), len(actual))
	}
	if len(expected) == 0 {
		return nil, newError(KindShape, "ComputePrecisionStats", "empty slot vectors")
	}

	precisions := make(stats.Float64Data, len(expected))
	for i := range expected {
		err := cmplx.Abs(expected[i] - actual[i])
		precisions[i] = precisionBits(err)
	}

	mean, err := precisions.Mean()
	if err != nil {
		return nil, newError(KindShape, "ComputePrecisionStats", "mean: %v", err)
	}
	median, err := precisions.Median()
	if err != nil {
		return nil, newError(KindShape, "ComputePrecisionStats", "median: %v", err)
	}
	stddev, err := precisions.StandardDeviation()
	if err != nil {
		return nil, newError(KindShape, "ComputePrecisionStats", "stddev: %v", err)
	}
	min, err := precisions.Min()
	if err != nil {
		return nil, newError(KindShape, "ComputePrecisionStats", "min: %v", err)
	}
	max, err := precisions.Max()
	if err != nil {
		return nil, newError(KindShape, "ComputePrecisionStats", "max: %v", err)
	}

	return &PrecisionStats{
		MinPrecision:    min,
		MaxPrecision:    max,
		MeanPrecision:   mean,
		MedianPrecision: median,
		StdDevPrecision: stddev,
	}, nil
}

func precisionBits(absErr float64) float64 {
	if absErr <= 0 {
		return math.Inf(1)
	}
	return -math.Log2(absErr)
}
