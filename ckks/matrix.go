package ckks

import (
	"math"

	"golang.org/x/exp/slices"
)

// MatrixEvaluator implements the encrypted matrix-vector product of
// spec.md §4.L via the diagonal method: a dense numSlots x numSlots
// matrix is multiplied into an encrypted length-numSlots vector as a sum
// of plaintext-diagonal times rotated-ciphertext terms.
type MatrixEvaluator struct {
	params  *Parameters
	encoder *Encoder
	rot     *RotationEvaluator
	arith   *ArithmeticEvaluator
}

// NewMatrixEvaluator returns an evaluator composing the given encoder,
// rotation and arithmetic evaluators (spec.md §9 constructor-injection
// guidance: no package re-instantiates another's state).
func NewMatrixEvaluator(params *Parameters, encoder *Encoder, rot *RotationEvaluator, arith *ArithmeticEvaluator) *MatrixEvaluator {
	return &MatrixEvaluator{params: params, encoder: encoder, rot: rot, arith: arith}
}

// diagonal extracts the i-th generalized diagonal of an n x n matrix:
// diagonal[j] = matrix[j][(j+i) mod n].
func diagonal(matrix [][]complex128, n, i int) []complex128 {
	out := make([]complex128, n)
	for j := 0; j < n; j++ {
		out[j] = matrix[j][(j+i)%n]
	}
	return out
}

// rotateVector cyclically shifts vec left by shift positions (shift may
// be negative), the plaintext-side counterpart to a ciphertext rotation.
func rotateVector(vec []complex128, shift, n int) []complex128 {
	shift = ((shift % n) + n) % n
	out := make([]complex128, n)
	for j := 0; j < n; j++ {
		out[j] = vec[(j+shift)%n]
	}
	return out
}

// RequiredRotationSteps returns the deduplicated, sorted set of rotation
// steps MultiplyMatrix needs for a numSlots x numSlots matrix: the baby
// steps [0, n1) and the giant steps {0, n1, 2*n1, ...}, so a caller can
// generate exactly the rotation keys the baby-step/giant-step evaluator
// will look up.
func RequiredRotationSteps(numSlots int) []int {
	n1 := babyStepSize(numSlots)
	steps := make([]int, 0, n1+numSlots/n1+1)
	for i := 0; i < n1; i++ {
		steps = append(steps, i)
	}
	for j := 0; j*n1 < numSlots; j++ {
		steps = append(steps, j*n1)
	}
	slices.Sort(steps)
	return slices.Compact(steps)
}

func babyStepSize(numSlots int) int {
	n1 := int(math.Ceil(math.Sqrt(float64(numSlots))))
	if n1 < 1 {
		n1 = 1
	}
	return n1
}

// MultiplyMatrixNaive multiplies ct by matrix using one rotation and one
// plaintext multiplication per diagonal, the O(numSlots)-rotation
// fallback of spec.md §4.L.
func (m *MatrixEvaluator) MultiplyMatrixNaive(ct *Ciphertext, matrix [][]complex128) (*Ciphertext, error) {
	numSlots := m.params.NumSlots()
	var result *Ciphertext
	for i := 0; i < numSlots; i++ {
		diag := diagonal(matrix, numSlots, i)
		pt, err := m.encoder.Encode(diag, ct.Scale)
		if err != nil {
			return nil, newError(KindShape, "MultiplyMatrixNaive", "%v", err)
		}
		rotated, err := m.rot.Rotate(ct, i)
		if err != nil {
			return nil, newError(KindMissingKey, "MultiplyMatrixNaive", "%v", err)
		}
		term, err := m.arith.MultiplyPlain(rotated, pt)
		if err != nil {
			return nil, newError(KindShape, "MultiplyMatrixNaive", "%v", err)
		}
		if result == nil {
			result = term
			continue
		}
		result, err = m.arith.Add(result, term)
		if err != nil {
			return nil, newError(KindShape, "MultiplyMatrixNaive", "%v", err)
		}
	}
	return result, nil
}

// MultiplyMatrix multiplies ct by matrix using the Halevi-Shoup
// baby-step/giant-step diagonal method, the default for bootstrap linear
// maps (spec.md §4.L): O(sqrt(numSlots)) rotations instead of
// O(numSlots).
func (m *MatrixEvaluator) MultiplyMatrix(ct *Ciphertext, matrix [][]complex128) (*Ciphertext, error) {
	numSlots := m.params.NumSlots()
	n1 := babyStepSize(numSlots)

	babySteps := make([]*Ciphertext, n1)
	for i := 0; i < n1; i++ {
		r, err := m.rot.Rotate(ct, i)
		if err != nil {
			return nil, newError(KindMissingKey, "MultiplyMatrix", "baby step %d: %v", i, err)
		}
		babySteps[i] = r
	}

	var result *Ciphertext
	for j := 0; j*n1 < numSlots; j++ {
		var inner *Ciphertext
		for i := 0; i < n1; i++ {
			k := i + j*n1
			if k >= numSlots {
				continue
			}
			diag := diagonal(matrix, numSlots, k)
			diagRot := rotateVector(diag, -j*n1, numSlots)
			pt, err := m.encoder.Encode(diagRot, ct.Scale)
			if err != nil {
				return nil, newError(KindShape, "MultiplyMatrix", "%v", err)
			}
			term, err := m.arith.MultiplyPlain(babySteps[i], pt)
			if err != nil {
				return nil, newError(KindShape, "MultiplyMatrix", "%v", err)
			}
			if inner == nil {
				inner = term
				continue
			}
			inner, err = m.arith.Add(inner, term)
			if err != nil {
				return nil, newError(KindShape, "MultiplyMatrix", "%v", err)
			}
		}
		if inner == nil {
			continue
		}
		giant, err := m.rot.Rotate(inner, j*n1)
		if err != nil {
			return nil, newError(KindMissingKey, "MultiplyMatrix", "giant step %d: %v", j, err)
		}
		if result == nil {
			result = giant
			continue
		}
		result, err = m.arith.Add(result, giant)
		if err != nil {
			return nil, newError(KindShape, "MultiplyMatrix", "%v", err)
		}
	}
	return result, nil
}
