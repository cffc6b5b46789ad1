package ops

import "github.com/physgo-ml/physgo/internal/tensor"

// SumOp represents a full reduction to shape [1].
// Every input element contributes with weight 1, so the scalar gradient
// broadcasts back uniformly.
type SumOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSumOp creates a new SumOp.
func NewSumOp(input, output *tensor.RawTensor) *SumOp {
	return &SumOp{input: input, output: output}
}

// Backward broadcasts the scalar gradient over the input shape.
func (op *SumOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	ones := onesLike(op.input, backend.Device())
	return []*tensor.RawTensor{backend.Mul(ones, outputGrad)}
}

// Inputs returns the input tensor.
func (op *SumOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *SumOp) Output() *tensor.RawTensor { return op.output }

// MeanOp represents a full mean reduction to shape [1].
// The broadcast gradient carries the 1/n weight of each element.
type MeanOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewMeanOp creates a new MeanOp.
func NewMeanOp(input, output *tensor.RawTensor) *MeanOp {
	return &MeanOp{input: input, output: output}
}

// Backward broadcasts the scalar gradient scaled by 1/n.
func (op *MeanOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	ones := onesLike(op.input, backend.Device())
	grad := backend.Mul(ones, outputGrad)
	return []*tensor.RawTensor{backend.DivScalar(grad, float64(op.input.NumElements()))}
}

// Inputs returns the input tensor.
func (op *MeanOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *MeanOp) Output() *tensor.RawTensor { return op.output }

// SumDimOp represents a sum along one dimension.
type SumDimOp struct {
	input   *tensor.RawTensor
	output  *tensor.RawTensor
	dim     int
	keepDim bool
}

// NewSumDimOp creates a new SumDimOp.
func NewSumDimOp(input, output *tensor.RawTensor, dim int, keepDim bool) *SumDimOp {
	return &SumDimOp{input: input, output: output, dim: dim, keepDim: keepDim}
}

// Backward expands the gradient back along the reduced dimension.
func (op *SumDimOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{expandReduced(outputGrad, op.input, op.dim, op.keepDim, backend)}
}

// Inputs returns the input tensor.
func (op *SumDimOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *SumDimOp) Output() *tensor.RawTensor { return op.output }

// MeanDimOp represents a mean along one dimension.
type MeanDimOp struct {
	input   *tensor.RawTensor
	output  *tensor.RawTensor
	dim     int
	keepDim bool
}

// NewMeanDimOp creates a new MeanDimOp.
func NewMeanDimOp(input, output *tensor.RawTensor, dim int, keepDim bool) *MeanDimOp {
	return &MeanDimOp{input: input, output: output, dim: dim, keepDim: keepDim}
}

// Backward expands the gradient scaled by 1/size along the reduced dimension.
func (op *MeanDimOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grad := expandReduced(outputGrad, op.input, op.dim, op.keepDim, backend)
	return []*tensor.RawTensor{backend.DivScalar(grad, float64(op.input.Shape()[op.dim]))}
}

// Inputs returns the input tensor.
func (op *MeanDimOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *MeanDimOp) Output() *tensor.RawTensor { return op.output }

// expandReduced broadcasts a reduced gradient back over the input shape.
// A dropped dimension is first restored as size 1 so the broadcast lines up.
func expandReduced(grad, input *tensor.RawTensor, dim int, keepDim bool, backend tensor.Backend) *tensor.RawTensor {
	if !keepDim {
		restored := input.Shape().Clone()
		restored[dim] = 1
		grad = backend.Reshape(grad, restored)
	}
	ones := onesLike(input, backend.Device())
	return backend.Mul(ones, grad)
}
