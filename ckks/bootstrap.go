package ckks

import (
	"math"
	"math/big"

	"github.com/tuneinsight/ckks-core/ring"
)

// Bootstrapper implements the bootstrapping pipeline of spec.md §4.M:
// ModRaise lifts a ciphertext back onto the auxiliary big modulus P,
// CoeffToSlot splits it into two slot-representation ciphertexts via the
// precomputed BootstrapContext matrices, a sine approximation removes the
// modular wraparound introduced by the raise, and SlotToCoeff recombines
// the two channels back into coefficient representation.
type Bootstrapper struct {
	params  *Parameters
	bctx    *BootstrapContext
	matrix  *MatrixEvaluator
	arith   *ArithmeticEvaluator
	rot     *RotationEvaluator
	encoder *Encoder
}

// NewBootstrapper composes the evaluators and precomputed context the
// pipeline needs (spec.md §9 constructor-injection guidance).
func NewBootstrapper(params *Parameters, bctx *BootstrapContext, matrix *MatrixEvaluator, arith *ArithmeticEvaluator, rot *RotationEvaluator, encoder *Encoder) *Bootstrapper {
	return &Bootstrapper{params: params, bctx: bctx, matrix: matrix, arith: arith, rot: rot, encoder: encoder}
}

// ModRaise lifts ct onto newModulus without touching its coefficients or
// scale: a ciphertext's balanced-representative coefficients under a
// smaller modulus are already valid representatives under any larger
// one. This is a pure function of its inputs, per spec.md §9's guidance
// against mutable bootstrap state.
func (b *Bootstrapper) ModRaise(ct *Ciphertext, newModulus *big.Int) *Ciphertext {
	return &Ciphertext{
		C0:      ct.C0.Clone(),
		C1:      ct.C1.Clone(),
		Scale:   new(big.Float).Copy(ct.Scale),
		Modulus: new(big.Int).Set(newModulus),
	}
}

// encodeConstant packs value into every slot and encodes it at scale via
// the full canonical-embedding encoder, the complex per-slot constant
// path (original_source/CKKS/operations/bootstrapping.py's
// create_complex_constant_plain).
func (b *Bootstrapper) encodeConstant(value complex128, scale *big.Float) (*Plaintext, error) {
	vec := make([]complex128, b.params.NumSlots())
	for i := range vec {
		vec[i] = value
	}
	return b.encoder.Encode(vec, scale)
}

// realConstant builds a plaintext carrying a single real constant in its
// degree-0 coefficient, the cheap scalar-multiply path
// (original_source/CKKS/operations/bootstrapping.py's create_constant_plain)
// distinct from encodeConstant's full per-slot embedding: multiplying by
// a polynomial with only a constant term scales every coefficient of the
// other operand uniformly.
func (b *Bootstrapper) realConstant(value float64, scale *big.Float) *Plaintext {
	N := b.params.N()
	scaleF, _ := scale.Float64()
	coeffs := make([]*big.Int, N)
	coeffs[0] = roundToBigInt(value * scaleF)
	for i := 1; i < N; i++ {
		coeffs[i] = big.NewInt(0)
	}
	return &Plaintext{Poly: ring.NewPolynomialFromBigInt(coeffs), Scale: new(big.Float).Copy(scale), Modulus: b.params.Q()}
}

// coeffToSlotChannel computes one of CoeffToSlot's two output ciphertexts:
// s1 = ct * conjT, s2 = conjCt * t, channel = (s1+s2)/N, rescaled by
// oldModulus (original_source/CKKS/operations/bootstrapping.py:63-77
// coeff_to_slot, one call per matrix pair).
func (b *Bootstrapper) coeffToSlotChannel(ct, conjCt *Ciphertext, conjT, t [][]complex128, oldModulus *big.Int) (*Ciphertext, error) {
	s1, err := b.matrix.MultiplyMatrix(ct, conjT)
	if err != nil {
		return nil, err
	}
	s2, err := b.matrix.MultiplyMatrix(conjCt, t)
	if err != nil {
		return nil, err
	}
	sum, err := b.arith.Add(s1, s2)
	if err != nil {
		return nil, err
	}
	ws := new(big.Float).SetInt(oldModulus)
	scaled, err := b.arith.MultiplyPlain(sum, b.realConstant(1/float64(b.params.N()), ws))
	if err != nil {
		return nil, err
	}
	return b.arith.Rescale(scaled, oldModulus)
}

// CoeffToSlot moves ct from coefficient representation into the two
// slot-representation channels spec.md §4.M/§4.N require: ciph0 built
// from E0's transpose/conjugate-transpose, ciph1 from E1's. This is the
// mechanism that inverts the encoder's real/imaginary-half packing
// convention (spec.md §4.G) — a single matrix multiply on one ciphertext
// cannot do this.
func (b *Bootstrapper) CoeffToSlot(ct *Ciphertext, oldModulus *big.Int) (ciph0, ciph1 *Ciphertext, err error) {
	conjCt, err := b.rot.Conjugate(ct)
	if err != nil {
		return nil, nil, newError(KindBootstrap, "CoeffToSlot", "%v", err)
	}
	ciph0, err = b.coeffToSlotChannel(ct, conjCt, b.bctx.ConjTranspose0(), b.bctx.Transpose0(), oldModulus)
	if err != nil {
		return nil, nil, newError(KindBootstrap, "CoeffToSlot", "channel 0: %v", err)
	}
	ciph1, err = b.coeffToSlotChannel(ct, conjCt, b.bctx.ConjTranspose1(), b.bctx.Transpose1(), oldModulus)
	if err != nil {
		return nil, nil, newError(KindBootstrap, "CoeffToSlot", "channel 1: %v", err)
	}
	return ciph0, ciph1, nil
}

// SlotToCoeff recombines CoeffToSlot's two channels back into coefficient
// representation: E0*ciph0 + E1*ciph1 (original_source/CKKS/operations/
// bootstrapping.py:79-82 slot_to_coeff).
func (b *Bootstrapper) SlotToCoeff(ciph0, ciph1 *Ciphertext) (*Ciphertext, error) {
	s1, err := b.matrix.MultiplyMatrix(ciph0, b.bctx.E0())
	if err != nil {
		return nil, newError(KindBootstrap, "SlotToCoeff", "%v", err)
	}
	s2, err := b.matrix.MultiplyMatrix(ciph1, b.bctx.E1())
	if err != nil {
		return nil, newError(KindBootstrap, "SlotToCoeff", "%v", err)
	}
	out, err := b.arith.Add(s1, s2)
	if err != nil {
		return nil, newError(KindBootstrap, "SlotToCoeff", "%v", err)
	}
	return out, nil
}

// expTaylor evaluates the degree-7 Taylor approximation of e^x on ct,
// split into the x/x^2/x^4 grouping original_source/CKKS/operations/
// bootstrapping.py's exp_taylor uses to minimize multiplicative depth:
// (1+x) + ((3+x)/6)*x^2 at depth 1, plus ((5+x)/120 + ((7+x)/5040)*x^2)*x^4
// at depth 3, combined via LowerModulus to align levels before each Add.
func (b *Bootstrapper) expTaylor(ct *Ciphertext, oldModulus *big.Int) (*Ciphertext, error) {
	arith := b.arith

	ciph2, err := arith.Multiply(ct, ct)
	if err != nil {
		return nil, err
	}
	ciph2, err = arith.Rescale(ciph2, oldModulus)
	if err != nil {
		return nil, err
	}
	ciph4, err := arith.Multiply(ciph2, ciph2)
	if err != nil {
		return nil, err
	}
	ciph4, err = arith.Rescale(ciph4, oldModulus)
	if err != nil {
		return nil, err
	}

	ciph01, err := arith.AddPlain(ct, b.realConstant(1, ct.Scale))
	if err != nil {
		return nil, err
	}
	ciph01, err = arith.MultiplyPlain(ciph01, b.realConstant(1, new(big.Float).SetInt(oldModulus)))
	if err != nil {
		return nil, err
	}
	ciph01, err = arith.Rescale(ciph01, oldModulus)
	if err != nil {
		return nil, err
	}

	ciph23, err := arith.AddPlain(ct, b.realConstant(3, ct.Scale))
	if err != nil {
		return nil, err
	}
	ciph23, err = arith.MultiplyPlain(ciph23, b.realConstant(1.0/6, new(big.Float).SetInt(oldModulus)))
	if err != nil {
		return nil, err
	}
	ciph23, err = arith.Rescale(ciph23, oldModulus)
	if err != nil {
		return nil, err
	}
	ciph23, err = arith.Multiply(ciph23, ciph2)
	if err != nil {
		return nil, err
	}
	ciph23, err = arith.Rescale(ciph23, oldModulus)
	if err != nil {
		return nil, err
	}
	ciph01Lowered, err := arith.LowerModulus(ciph01, oldModulus)
	if err != nil {
		return nil, err
	}
	ciph23, err = arith.Add(ciph23, ciph01Lowered)
	if err != nil {
		return nil, err
	}

	ciph45, err := arith.AddPlain(ct, b.realConstant(5, ct.Scale))
	if err != nil {
		return nil, err
	}
	ciph45, err = arith.MultiplyPlain(ciph45, b.realConstant(1.0/120, new(big.Float).SetInt(oldModulus)))
	if err != nil {
		return nil, err
	}
	ciph45, err = arith.Rescale(ciph45, oldModulus)
	if err != nil {
		return nil, err
	}

	result, err := arith.AddPlain(ct, b.realConstant(7, ct.Scale))
	if err != nil {
		return nil, err
	}
	result, err = arith.MultiplyPlain(result, b.realConstant(1.0/5040, new(big.Float).SetInt(oldModulus)))
	if err != nil {
		return nil, err
	}
	result, err = arith.Rescale(result, oldModulus)
	if err != nil {
		return nil, err
	}
	result, err = arith.Multiply(result, ciph2)
	if err != nil {
		return nil, err
	}
	result, err = arith.Rescale(result, oldModulus)
	if err != nil {
		return nil, err
	}

	ciph45Lowered, err := arith.LowerModulus(ciph45, oldModulus)
	if err != nil {
		return nil, err
	}
	result, err = arith.Add(result, ciph45Lowered)
	if err != nil {
		return nil, err
	}
	result, err = arith.Multiply(result, ciph4)
	if err != nil {
		return nil, err
	}
	result, err = arith.Rescale(result, oldModulus)
	if err != nil {
		return nil, err
	}

	ciph23Lowered, err := arith.LowerModulus(ciph23, oldModulus)
	if err != nil {
		return nil, err
	}
	return arith.Add(result, ciph23Lowered)
}

// exp evaluates e^(const*ct) via expTaylor and num_taylor_iterations
// rounds of squaring (original_source/CKKS/operations/bootstrapping.py's
// exp): scale ct by const/2^T, run the Taylor approximation, then square
// T times to recover e^(const*ct) = (e^(const*ct/2^T))^(2^T).
func (b *Bootstrapper) exp(ct *Ciphertext, constVal complex128, oldModulus *big.Int) (*Ciphertext, error) {
	T := b.params.TaylorIterations()
	ws := new(big.Float).SetInt(oldModulus)
	denom := float64(int64(1) << uint(T))

	constPlain, err := b.encodeConstant(constVal/complex(denom, 0), ws)
	if err != nil {
		return nil, err
	}
	scaled, err := b.arith.MultiplyPlain(ct, constPlain)
	if err != nil {
		return nil, err
	}
	scaled, err = b.arith.Rescale(scaled, oldModulus)
	if err != nil {
		return nil, err
	}

	result, err := b.expTaylor(scaled, oldModulus)
	if err != nil {
		return nil, err
	}
	for i := 0; i < T; i++ {
		result, err = b.arith.Multiply(result, result)
		if err != nil {
			return nil, err
		}
		result, err = b.arith.Rescale(result, oldModulus)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// sineChannel approximates sin(2*pi*x/q_old) on one CoeffToSlot channel
// via exp(i*theta) - exp(-i*theta) = 2i*sin(theta), theta =
// (Δ/q_old)*2π*x, then undoes the 2i factor and the Δ/q_old scaling
// (original_source/CKKS/operations/bootstrapping.py's bootstrap body,
// applied once per channel instead of once overall).
func (b *Bootstrapper) sineChannel(ct *Ciphertext, oldModulus *big.Int, originalDelta *big.Float) (*Ciphertext, error) {
	oldModF, _ := new(big.Float).SetInt(oldModulus).Float64()
	deltaF, _ := originalDelta.Float64()
	alpha := deltaF / oldModF * 2 * math.Pi

	expPos, err := b.exp(ct, complex(0, alpha), oldModulus)
	if err != nil {
		return nil, err
	}
	expNeg, err := b.rot.Conjugate(expPos)
	if err != nil {
		return nil, err
	}
	sine, err := b.arith.Subtract(expPos, expNeg)
	if err != nil {
		return nil, err
	}

	correctionVal := complex(0, -0.25*oldModF/(math.Pi*deltaF))
	ws := new(big.Float).SetInt(oldModulus)
	correction, err := b.encodeConstant(correctionVal, ws)
	if err != nil {
		return nil, err
	}
	corrected, err := b.arith.MultiplyPlain(sine, correction)
	if err != nil {
		return nil, err
	}
	return b.arith.Rescale(corrected, oldModulus)
}

// Bootstrap runs the full pipeline of spec.md §4.M: ModRaise onto the
// auxiliary big modulus P, CoeffToSlot into two channels, sine evaluation
// against the ciphertext's pre-raise modulus and the scheme's original
// scaling factor applied independently to each channel, then
// SlotToCoeff recombining both channels back to coefficient
// representation (original_source/CKKS/operations/bootstrapping.py's
// bootstrap; params.P() is the same big_modulus field the Python source
// uses both for key switching and as raise_modulus's target).
func (b *Bootstrapper) Bootstrap(ct *Ciphertext, originalDelta *big.Float) (*Ciphertext, error) {
	oldModulus := ct.Modulus
	raised := b.ModRaise(ct, b.params.P())

	ciph0, ciph1, err := b.CoeffToSlot(raised, oldModulus)
	if err != nil {
		return nil, err
	}
	sine0, err := b.sineChannel(ciph0, oldModulus, originalDelta)
	if err != nil {
		return nil, newError(KindBootstrap, "Bootstrap", "channel 0: %v", err)
	}
	sine1, err := b.sineChannel(ciph1, oldModulus, originalDelta)
	if err != nil {
		return nil, newError(KindBootstrap, "Bootstrap", "channel 1: %v", err)
	}

	out, err := b.SlotToCoeff(sine0, sine1)
	if err != nil {
		return nil, err
	}
	return out, nil
}
