package ckks

// RotationEvaluator implements the Galois slot-rotation and conjugation
// operators of spec.md §4.K: rotate the ring elements by the Galois
// automorphism, then key-switch the rotated mask term back to the
// original secret.
type RotationEvaluator struct {
	params       *Parameters
	rotationKeys map[int]*RotationKey
	conjKey      *ConjugationKey
}

// NewRotationEvaluator returns an evaluator bound to params, given the
// rotation keys it may be asked to apply and an optional conjugation key.
func NewRotationEvaluator(params *Parameters, rotationKeys []*RotationKey, conjKey *ConjugationKey) *RotationEvaluator {
	keys := make(map[int]*RotationKey, len(rotationKeys))
	for _, k := range rotationKeys {
		keys[k.Rotation] = k
	}
	return &RotationEvaluator{params: params, rotationKeys: keys, conjKey: conjKey}
}

// Rotate cyclically shifts ct's slots left by step positions, using the
// rotation key for that exact step.
func (e *RotationEvaluator) Rotate(ct *Ciphertext, step int) (*Ciphertext, error) {
	if step == 0 {
		return ct, nil
	}
	key, ok := e.rotationKeys[step]
	if !ok {
		return nil, newError(KindMissingKey, "Rotate", "no rotation key for step %d", step)
	}

	rc0 := ct.C0.Rotate(step)
	rc1 := ct.C1.Rotate(step)

	kb, ka, err := keySwitch(rc1, key.Key, e.params, ct.Modulus)
	if err != nil {
		return nil, newError(KindShape, "Rotate", "%v", err)
	}
	c0, err := rc0.Add(kb)
	if err != nil {
		return nil, newError(KindShape, "Rotate", "%v", err)
	}

	return &Ciphertext{C0: c0.ModSmall(ct.Modulus), C1: ka.ModSmall(ct.Modulus), Scale: ct.Scale, Modulus: ct.Modulus}, nil
}

// Conjugate replaces each slot with its complex conjugate, using the
// evaluator's conjugation key.
func (e *RotationEvaluator) Conjugate(ct *Ciphertext) (*Ciphertext, error) {
	if e.conjKey == nil {
		return nil, newError(KindMissingKey, "Conjugate", "evaluator has no conjugation key")
	}

	rc0 := ct.C0.Conjugate()
	rc1 := ct.C1.Conjugate()

	kb, ka, err := keySwitch(rc1, e.conjKey.Key, e.params, ct.Modulus)
	if err != nil {
		return nil, newError(KindShape, "Conjugate", "%v", err)
	}
	c0, err := rc0.Add(kb)
	if err != nil {
		return nil, newError(KindShape, "Conjugate", "%v", err)
	}

	return &Ciphertext{C0: c0.ModSmall(ct.Modulus), C1: ka.ModSmall(ct.Modulus), Scale: ct.Scale, Modulus: ct.Modulus}, nil
}

// HasRotationKey reports whether the evaluator has a key for step.
func (e *RotationEvaluator) HasRotationKey(step int) bool {
	_, ok := e.rotationKeys[step]
	return ok
}
