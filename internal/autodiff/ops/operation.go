// Package ops defines operation records for automatic differentiation.
//
// Each operation captures its input and output tensors during the forward
// pass and knows how to turn an output gradient into input gradients during
// the backward pass:
//
//   - AddOp/SubOp: gradient passes through (sign-flipped for the subtrahend)
//   - MulOp: d(a*b)/da = b, d(a*b)/db = a
//   - MatMulOp: d(A@B)/dA = grad@Bᵀ, d(A@B)/dB = Aᵀ@grad
//   - TanhOp: d(tanh(x))/dx = 1 - tanh²(x)
//   - MeanOp: gradient spreads uniformly, scaled by 1/n
//
// and so on for the rest of the op surface.
package ops

import "github.com/physgo-ml/physgo/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
// Operations are recorded on the tape in execution order; the tape walks them
// in reverse to apply the chain rule.
type Operation interface {
	// Backward computes gradients for inputs given the output gradient.
	// Returns a slice of gradients corresponding to each input tensor.
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the input tensors for this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}
