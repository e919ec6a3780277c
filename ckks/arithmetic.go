package ckks

import (
	"math/big"

	"github.com/tuneinsight/ckks-core/ring"
)

// ArithmeticEvaluator implements the ciphertext algebra of spec.md §4.J:
// add/subtract/plaintext-multiply/multiply-with-relinearize/rescale/
// lower-modulus. Multiply always relinearizes back down to a degree-1
// ciphertext, per spec.md §9's explicit-P-parameter guidance, using the
// evaluator's configured relinearization key.
type ArithmeticEvaluator struct {
	params   *Parameters
	relinKey *SwitchingKey
}

// NewArithmeticEvaluator returns an evaluator bound to params and the
// relinearization key Multiply needs.
func NewArithmeticEvaluator(params *Parameters, relinKey *SwitchingKey) *ArithmeticEvaluator {
	return &ArithmeticEvaluator{params: params, relinKey: relinKey}
}

func (e *ArithmeticEvaluator) checkCompatible(op string, a, b *Ciphertext) error {
	if a.Modulus.Cmp(b.Modulus) != 0 {
		return newError(KindShape, op, "modulus mismatch")
	}
	if a.C0.N != b.C0.N {
		return newError(KindShape, op, "degree mismatch: %d vs %d", a.C0.N, b.C0.N)
	}
	return nil
}

// Add returns ct1+ct2. Both operands must share a modulus; their scales
// need not match (spec.md §4.J leaves scale alignment to the caller).
func (e *ArithmeticEvaluator) Add(ct1, ct2 *Ciphertext) (*Ciphertext, error) {
	if err := e.checkCompatible("Add", ct1, ct2); err != nil {
		return nil, err
	}
	c0, err := ct1.C0.Add(ct2.C0)
	if err != nil {
		return nil, newError(KindShape, "Add", "%v", err)
	}
	c1, err := ct1.C1.Add(ct2.C1)
	if err != nil {
		return nil, newError(KindShape, "Add", "%v", err)
	}
	return &Ciphertext{C0: c0.ModSmall(ct1.Modulus), C1: c1.ModSmall(ct1.Modulus), Scale: ct1.Scale, Modulus: ct1.Modulus}, nil
}

// Subtract returns ct1-ct2.
func (e *ArithmeticEvaluator) Subtract(ct1, ct2 *Ciphertext) (*Ciphertext, error) {
	if err := e.checkCompatible("Subtract", ct1, ct2); err != nil {
		return nil, err
	}
	c0, err := ct1.C0.Subtract(ct2.C0)
	if err != nil {
		return nil, newError(KindShape, "Subtract", "%v", err)
	}
	c1, err := ct1.C1.Subtract(ct2.C1)
	if err != nil {
		return nil, newError(KindShape, "Subtract", "%v", err)
	}
	return &Ciphertext{C0: c0.ModSmall(ct1.Modulus), C1: c1.ModSmall(ct1.Modulus), Scale: ct1.Scale, Modulus: ct1.Modulus}, nil
}

// AddPlain adds an unencrypted plaintext into a ciphertext's constant
// term. pt must carry the same scale as ct.
func (e *ArithmeticEvaluator) AddPlain(ct *Ciphertext, pt *Plaintext) (*Ciphertext, error) {
	c0, err := ct.C0.Add(pt.Poly)
	if err != nil {
		return nil, newError(KindShape, "AddPlain", "%v", err)
	}
	return &Ciphertext{C0: c0.ModSmall(ct.Modulus), C1: ct.C1, Scale: ct.Scale, Modulus: ct.Modulus}, nil
}

// MultiplyPlain multiplies a ciphertext by an unencrypted plaintext,
// scaling both ring elements; the result's scale is the product of the
// two input scales.
func (e *ArithmeticEvaluator) MultiplyPlain(ct *Ciphertext, pt *Plaintext) (*Ciphertext, error) {
	crt := e.params.CRT()
	c0, err := ct.C0.Multiply(pt.Poly, ct.Modulus, ring.WithCRT(crt))
	if err != nil {
		return nil, newError(KindShape, "MultiplyPlain", "%v", err)
	}
	c1, err := ct.C1.Multiply(pt.Poly, ct.Modulus, ring.WithCRT(crt))
	if err != nil {
		return nil, newError(KindShape, "MultiplyPlain", "%v", err)
	}
	scale := new(big.Float).Mul(ct.Scale, pt.Scale)
	return &Ciphertext{C0: c0.ModSmall(ct.Modulus), C1: c1.ModSmall(ct.Modulus), Scale: scale, Modulus: ct.Modulus}, nil
}

// Multiply computes the ciphertext-ciphertext tensor product and
// immediately relinearizes it back down to a degree-1 ciphertext with
// the evaluator's relinearization key, per spec.md §4.J.
func (e *ArithmeticEvaluator) Multiply(ct1, ct2 *Ciphertext) (*Ciphertext, error) {
	if err := e.checkCompatible("Multiply", ct1, ct2); err != nil {
		return nil, err
	}
	if e.relinKey == nil {
		return nil, newError(KindMissingKey, "Multiply", "evaluator has no relinearization key")
	}
	crt := e.params.CRT()
	Q := ct1.Modulus

	d0, err := ct1.C0.Multiply(ct2.C0, Q, ring.WithCRT(crt))
	if err != nil {
		return nil, newError(KindShape, "Multiply", "%v", err)
	}
	t1, err := ct1.C0.Multiply(ct2.C1, Q, ring.WithCRT(crt))
	if err != nil {
		return nil, newError(KindShape, "Multiply", "%v", err)
	}
	t2, err := ct1.C1.Multiply(ct2.C0, Q, ring.WithCRT(crt))
	if err != nil {
		return nil, newError(KindShape, "Multiply", "%v", err)
	}
	d1, err := t1.Add(t2)
	if err != nil {
		return nil, newError(KindShape, "Multiply", "%v", err)
	}
	d2, err := ct1.C1.Multiply(ct2.C1, Q, ring.WithCRT(crt))
	if err != nil {
		return nil, newError(KindShape, "Multiply", "%v", err)
	}

	relinB, relinA, err := keySwitch(d2, e.relinKey, e.params, Q)
	if err != nil {
		return nil, newError(KindShape, "Multiply", "relinearize: %v", err)
	}

	c0, err := d0.Add(relinB)
	if err != nil {
		return nil, newError(KindShape, "Multiply", "%v", err)
	}
	c1, err := d1.Add(relinA)
	if err != nil {
		return nil, newError(KindShape, "Multiply", "%v", err)
	}

	scale := new(big.Float).Mul(ct1.Scale, ct2.Scale)
	return &Ciphertext{C0: c0.ModSmall(Q), C1: c1.ModSmall(Q), Scale: scale, Modulus: Q}, nil
}

// Rescale divides a ciphertext's coefficients and modulus by divisor,
// dividing its scale by the same factor, the operation that keeps the
// scale bounded after a Multiply (spec.md §4.J).
func (e *ArithmeticEvaluator) Rescale(ct *Ciphertext, divisor *big.Int) (*Ciphertext, error) {
	newModulus := new(big.Int).Div(ct.Modulus, divisor)
	if newModulus.Sign() <= 0 {
		return nil, newError(KindModulusExhausted, "Rescale", "divisor %s exceeds modulus", divisor)
	}
	c0 := ct.C0.ScalarIntegerDivide(divisor).ModSmall(newModulus)
	c1 := ct.C1.ScalarIntegerDivide(divisor).ModSmall(newModulus)
	divisorF := new(big.Float).SetInt(divisor)
	newScale := new(big.Float).Quo(ct.Scale, divisorF)
	return &Ciphertext{C0: c0, C1: c1, Scale: newScale, Modulus: newModulus}, nil
}

// LowerModulus re-reduces a ciphertext's existing coefficients into a
// smaller modulus without touching its scale, used to align the modulus
// of two ciphertexts before Add/Subtract when one has been rescaled more
// times than the other (spec.md §4.J).
func (e *ArithmeticEvaluator) LowerModulus(ct *Ciphertext, divisionFactor *big.Int) (*Ciphertext, error) {
	newModulus := new(big.Int).Div(ct.Modulus, divisionFactor)
	if newModulus.Sign() <= 0 {
		return nil, newError(KindModulusExhausted, "LowerModulus", "divisionFactor %s exceeds modulus", divisionFactor)
	}
	return &Ciphertext{
		C0:      ct.C0.ModSmall(newModulus),
		C1:      ct.C1.ModSmall(newModulus),
		Scale:   ct.Scale,
		Modulus: newModulus,
	}, nil
}

// keySwitch applies a single-pair SwitchingKey to poly, returning the
// (c0, c1) contribution to add into a ciphertext: one multiply of poly
// against each of swk.P0/swk.P1 modulo targetModulus*P, one mod_small
// into that product modulus, then one floor-divide by P to bring the
// result back down to targetModulus, the current modulus of the caller's
// ciphertext — no digit decomposition (spec.md §4.H/§4.J; ground truth
// arithmetic.py:73-87 relinearize and rotation.py switch_key). The
// caller still owes the final Add and mod_small into targetModulus.
func keySwitch(poly *ring.Polynomial, swk *SwitchingKey, params *Parameters, targetModulus *big.Int) (*ring.Polynomial, *ring.Polynomial, error) {
	P := params.P()
	bigModulus := new(big.Int).Mul(targetModulus, P)
	crt := params.CRT()

	b, err := swk.P0.Multiply(poly, bigModulus, ring.WithCRT(crt))
	if err != nil {
		return nil, nil, err
	}
	a, err := swk.P1.Multiply(poly, bigModulus, ring.WithCRT(crt))
	if err != nil {
		return nil, nil, err
	}

	b = b.ModSmall(bigModulus).ScalarIntegerDivide(P)
	a = a.ModSmall(bigModulus).ScalarIntegerDivide(P)
	return b, a, nil
}
