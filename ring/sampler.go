package ring

import (
	"encoding/binary"
	"math/big"

	"github.com/tuneinsight/ckks-core/utils/sampling"
)

// UniformSampler draws integers uniformly from [0, bound) via rejection
// sampling, so every representable value is equiprobable (spec.md §4.A).
type UniformSampler struct {
	prng sampling.PRNG
}

// NewUniformSampler returns a sampler drawing from prng.
func NewUniformSampler(prng sampling.PRNG) *UniformSampler {
	return &UniformSampler{prng: prng}
}

// Sample returns n independent values drawn uniformly from [0, bound).
func (s *UniformSampler) Sample(n int, bound *big.Int) []*big.Int {
	out := make([]*big.Int, n)
	for i := range out {
		out[i] = s.sampleOne(bound)
	}
	return out
}

func (s *UniformSampler) sampleOne(bound *big.Int) *big.Int {
	if bound.Sign() <= 0 {
		return new(big.Int)
	}
	bitLen := bound.BitLen()
	byteLen := (bitLen + 7) / 8
	if byteLen == 0 {
		byteLen = 1
	}
	excess := uint(byteLen*8 - bitLen)
	buf := make([]byte, byteLen)
	for {
		if _, err := s.prng.Read(buf); err != nil {
			panic(err)
		}
		buf[0] &= byte(0xFF >> excess)
		v := new(big.Int).SetBytes(buf)
		if v.Cmp(bound) < 0 {
			return v
		}
	}
}

// TernarySampler draws coefficients from {-1, 0, 1} with probabilities
// {1/4, 1/2, 1/4}, the "triangle" secret/error distribution of
// spec.md §4.A.
type TernarySampler struct {
	prng sampling.PRNG
}

// NewTernarySampler returns a sampler drawing from prng.
func NewTernarySampler(prng sampling.PRNG) *TernarySampler {
	return &TernarySampler{prng: prng}
}

// Sample returns n coefficients drawn independently from {-1, 0, 1}.
func (s *TernarySampler) Sample(n int) []int64 {
	out := make([]int64, n)
	buf := make([]byte, (n+3)/4)
	if _, err := s.prng.Read(buf); err != nil {
		panic(err)
	}
	for i := 0; i < n; i++ {
		byteIdx := i / 4
		shift := uint((i % 4) * 2)
		bits := (buf[byteIdx] >> shift) & 0x3
		switch bits {
		case 0:
			out[i] = -1
		case 1:
			out[i] = 1
		default:
			out[i] = 0
		}
	}
	return out
}

// HammingWeightSampler draws length-n vectors with exactly weight
// nonzero entries, each ±1 with equal probability, used for the
// bootstrap secret-key distribution of spec.md §4.A.
type HammingWeightSampler struct {
	prng sampling.PRNG
}

// NewHammingWeightSampler returns a sampler drawing from prng.
func NewHammingWeightSampler(prng sampling.PRNG) *HammingWeightSampler {
	return &HammingWeightSampler{prng: prng}
}

// Sample returns a length-n vector with exactly weight nonzero ±1 entries
// placed at distinct, uniformly chosen positions.
func (s *HammingWeightSampler) Sample(n, weight int) []int64 {
	out := make([]int64, n)
	if weight > n {
		weight = n
	}
	limit := ^uint32(0) - (^uint32(0))%uint32(n)
	idxBuf := make([]byte, 4)
	signBuf := make([]byte, 1)
	placed := 0
	for placed < weight {
		var v uint32
		for {
			if _, err := s.prng.Read(idxBuf); err != nil {
				panic(err)
			}
			v = binary.BigEndian.Uint32(idxBuf)
			if v < limit {
				break
			}
		}
		idx := int(v % uint32(n))
		if out[idx] != 0 {
			continue
		}
		if _, err := s.prng.Read(signBuf); err != nil {
			panic(err)
		}
		if signBuf[0]&1 == 0 {
			out[idx] = -1
		} else {
			out[idx] = 1
		}
		placed++
	}
	return out
}
