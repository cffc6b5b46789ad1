package ops

import "github.com/physgo-ml/physgo/internal/tensor"

// ExpOp represents y = e^x. Since dy/dx = e^x = y, the backward pass reuses
// the stored output.
type ExpOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewExpOp creates a new ExpOp.
func NewExpOp(input, output *tensor.RawTensor) *ExpOp {
	return &ExpOp{input: input, output: output}
}

// Backward computes grad_input = outputGrad * e^x.
func (op *ExpOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Mul(outputGrad, op.output)}
}

// Inputs returns the input tensor.
func (op *ExpOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *ExpOp) Output() *tensor.RawTensor { return op.output }

// SqrtOp represents y = sqrt(x), dy/dx = 1/(2*sqrt(x)) = 1/(2y).
type SqrtOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSqrtOp creates a new SqrtOp.
func NewSqrtOp(input, output *tensor.RawTensor) *SqrtOp {
	return &SqrtOp{input: input, output: output}
}

// Backward computes grad_input = outputGrad / (2 * sqrt(x)).
func (op *SqrtOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grad := backend.Div(outputGrad, op.output)
	return []*tensor.RawTensor{backend.MulScalar(grad, 0.5)}
}

// Inputs returns the input tensor.
func (op *SqrtOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *SqrtOp) Output() *tensor.RawTensor { return op.output }

// SinOp represents y = sin(x), dy/dx = cos(x).
type SinOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSinOp creates a new SinOp.
func NewSinOp(input, output *tensor.RawTensor) *SinOp {
	return &SinOp{input: input, output: output}
}

// Backward computes grad_input = outputGrad * cos(x).
func (op *SinOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Mul(outputGrad, backend.Cos(op.input))}
}

// Inputs returns the input tensor.
func (op *SinOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *SinOp) Output() *tensor.RawTensor { return op.output }

// CosOp represents y = cos(x), dy/dx = -sin(x).
type CosOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewCosOp creates a new CosOp.
func NewCosOp(input, output *tensor.RawTensor) *CosOp {
	return &CosOp{input: input, output: output}
}

// Backward computes grad_input = -outputGrad * sin(x).
func (op *CosOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grad := backend.Mul(outputGrad, backend.Sin(op.input))
	return []*tensor.RawTensor{backend.MulScalar(grad, -1.0)}
}

// Inputs returns the input tensor.
func (op *CosOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *CosOp) Output() *tensor.RawTensor { return op.output }

// TanhOp represents y = tanh(x), dy/dx = 1 - tanh²(x).
// The backward pass reuses the stored output to avoid recomputing tanh.
type TanhOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewTanhOp creates a new TanhOp.
func NewTanhOp(input, output *tensor.RawTensor) *TanhOp {
	return &TanhOp{input: input, output: output}
}

// Backward computes grad_input = outputGrad * (1 - tanh²(x)).
func (op *TanhOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	squared := backend.Mul(op.output, op.output)
	deriv := backend.SubScalar(backend.MulScalar(squared, -1.0), -1.0) // 1 - tanh²
	return []*tensor.RawTensor{backend.Mul(outputGrad, deriv)}
}

// Inputs returns the input tensor.
func (op *TanhOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *TanhOp) Output() *tensor.RawTensor { return op.output }

// PowOp represents y = x^p, dy/dx = p * x^(p-1).
type PowOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
	p      float64
}

// NewPowOp creates a new PowOp.
func NewPowOp(input, output *tensor.RawTensor, p float64) *PowOp {
	return &PowOp{input: input, output: output, p: p}
}

// Backward computes grad_input = outputGrad * p * x^(p-1).
func (op *PowOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grad := backend.Mul(outputGrad, backend.Pow(op.input, op.p-1))
	return []*tensor.RawTensor{backend.MulScalar(grad, op.p)}
}

// Inputs returns the input tensor.
func (op *PowOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *PowOp) Output() *tensor.RawTensor { return op.output }
