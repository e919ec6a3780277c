package ckks

import "math/big"

// Evaluator composes the arithmetic, rotation, matrix and bootstrap
// evaluators behind a single handle, per spec.md §9's guidance that no
// package instantiate another's state: every sub-evaluator here is built
// once by the caller and threaded through via constructor injection.
type Evaluator struct {
	params        *Parameters
	encoder       *Encoder
	arith         *ArithmeticEvaluator
	rot           *RotationEvaluator
	matrix        *MatrixEvaluator
	bootstrap     *Bootstrapper
	originalDelta *big.Float
}

// EvaluatorOption configures an optional Evaluator capability.
type EvaluatorOption func(*evaluatorOptions)

type evaluatorOptions struct {
	rotationKeys []*RotationKey
	conjKey      *ConjugationKey
	bctx         *BootstrapContext
}

// WithRotationKeys supplies the rotation keys Rotate/MultiplyMatrix need.
func WithRotationKeys(keys []*RotationKey) EvaluatorOption {
	return func(o *evaluatorOptions) { o.rotationKeys = keys }
}

// WithConjugationKey supplies the key Conjugate and bootstrap sine
// evaluation need.
func WithConjugationKey(key *ConjugationKey) EvaluatorOption {
	return func(o *evaluatorOptions) { o.conjKey = key }
}

// WithBootstrapContext supplies the precomputed matrices Bootstrap needs;
// omitting it leaves Bootstrap unavailable.
func WithBootstrapContext(bctx *BootstrapContext) EvaluatorOption {
	return func(o *evaluatorOptions) { o.bctx = bctx }
}

// NewEvaluator builds an Evaluator for params, wiring an
// ArithmeticEvaluator, RotationEvaluator, MatrixEvaluator and, if a
// BootstrapContext is supplied, a Bootstrapper.
func NewEvaluator(params *Parameters, relinKey *SwitchingKey, opts ...EvaluatorOption) *Evaluator {
	o := &evaluatorOptions{}
	for _, f := range opts {
		f(o)
	}

	encoder := NewEncoder(params)
	arith := NewArithmeticEvaluator(params, relinKey)
	rot := NewRotationEvaluator(params, o.rotationKeys, o.conjKey)
	matrix := NewMatrixEvaluator(params, encoder, rot, arith)

	var bootstrapper *Bootstrapper
	if o.bctx != nil {
		bootstrapper = NewBootstrapper(params, o.bctx, matrix, arith, rot, encoder)
	}

	return &Evaluator{
		params:        params,
		encoder:       encoder,
		arith:         arith,
		rot:           rot,
		matrix:        matrix,
		bootstrap:     bootstrapper,
		originalDelta: params.Scale(),
	}
}

// Arithmetic returns the composed ArithmeticEvaluator.
func (e *Evaluator) Arithmetic() *ArithmeticEvaluator { return e.arith }

// Rotation returns the composed RotationEvaluator.
func (e *Evaluator) Rotation() *RotationEvaluator { return e.rot }

// Matrix returns the composed MatrixEvaluator.
func (e *Evaluator) Matrix() *MatrixEvaluator { return e.matrix }

// Encoder returns the composed Encoder.
func (e *Evaluator) Encoder() *Encoder { return e.encoder }

// Bootstrap runs the bootstrap pipeline, raising ct onto the scheme's
// auxiliary big modulus P and using the originally configured scaling
// factor for the sine-evaluation correction step. It returns an error if
// the Evaluator was built without WithBootstrapContext.
func (e *Evaluator) Bootstrap(ct *Ciphertext) (*Ciphertext, error) {
	if e.bootstrap == nil {
		return nil, newError(KindBootstrap, "Bootstrap", "evaluator has no bootstrap context")
	}
	return e.bootstrap.Bootstrap(ct, e.originalDelta)
}
