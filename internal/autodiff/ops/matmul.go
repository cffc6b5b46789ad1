package ops

import "github.com/physgo-ml/physgo/internal/tensor"

// MatMulOp represents matrix multiplication: output = A @ B.
//
// Backward pass:
//   - grad_A = outputGrad @ Bᵀ
//   - grad_B = Aᵀ @ outputGrad
type MatMulOp struct {
	inputs []*tensor.RawTensor // [A, B]
	output *tensor.RawTensor
}

// NewMatMulOp creates a new MatMulOp.
func NewMatMulOp(a, b, output *tensor.RawTensor) *MatMulOp {
	return &MatMulOp{inputs: []*tensor.RawTensor{a, b}, output: output}
}

// Backward computes input gradients for matrix multiplication.
func (op *MatMulOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]

	gradA := backend.MatMul(outputGrad, backend.Transpose(b))
	gradB := backend.MatMul(backend.Transpose(a), outputGrad)

	return []*tensor.RawTensor{gradA, gradB}
}

// Inputs returns the input tensors [A, B].
func (op *MatMulOp) Inputs() []*tensor.RawTensor { return op.inputs }

// Output returns the output tensor A @ B.
func (op *MatMulOp) Output() *tensor.RawTensor { return op.output }
