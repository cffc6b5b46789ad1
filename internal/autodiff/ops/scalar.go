package ops

import "github.com/physgo-ml/physgo/internal/tensor"

// ScalarOp covers the four element-wise scalar kernels. Only the scalar's
// effect on the gradient differs between them:
//
//	MulScalar: grad * s
//	DivScalar: grad / s
//	AddScalar, SubScalar: grad unchanged
type ScalarOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
	factor float64 // multiplier applied to the gradient
}

// NewMulScalarOp records output = input * s.
func NewMulScalarOp(input, output *tensor.RawTensor, s float64) *ScalarOp {
	return &ScalarOp{input: input, output: output, factor: s}
}

// NewDivScalarOp records output = input / s.
func NewDivScalarOp(input, output *tensor.RawTensor, s float64) *ScalarOp {
	return &ScalarOp{input: input, output: output, factor: 1 / s}
}

// NewAddScalarOp records output = input + s.
func NewAddScalarOp(input, output *tensor.RawTensor) *ScalarOp {
	return &ScalarOp{input: input, output: output, factor: 1}
}

// NewSubScalarOp records output = input - s.
func NewSubScalarOp(input, output *tensor.RawTensor) *ScalarOp {
	return &ScalarOp{input: input, output: output, factor: 1}
}

// Backward scales the output gradient by the stored factor.
func (op *ScalarOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	if op.factor == 1 {
		return []*tensor.RawTensor{outputGrad}
	}
	return []*tensor.RawTensor{backend.MulScalar(outputGrad, op.factor)}
}

// Inputs returns the input tensor.
func (op *ScalarOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *ScalarOp) Output() *tensor.RawTensor { return op.output }
