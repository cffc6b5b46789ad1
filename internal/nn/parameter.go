package nn

import (
	"github.com/physgo-ml/physgo/internal/tensor"
)

// Parameter represents a trainable parameter in a neural network.
//
// Parameters are the only tensors the optimizer mutates; everything else in
// a training step (sampled points, residual intermediates) is rebuilt from
// them.
type Parameter[B tensor.Backend] struct {
	name   string                     // Parameter name (e.g., "fc1.weight")
	tensor *tensor.Tensor[float32, B] // The parameter tensor
	grad   *tensor.Tensor[float32, B] // Gradient tensor (set after backward)
}

// NewParameter creates a new trainable parameter.
// The tensor should already be initialized.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name.
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[float32, B] {
	return p.tensor
}

// Grad returns the gradient tensor, or nil before the first backward pass.
func (p *Parameter[B]) Grad() *tensor.Tensor[float32, B] {
	return p.grad
}

// SetGrad sets the gradient tensor.
// Called by the optimizer or during the backward pass.
func (p *Parameter[B]) SetGrad(grad *tensor.Tensor[float32, B]) {
	p.grad = grad
}

// ZeroGrad clears the gradient tensor.
// Called before each training iteration so gradients never accumulate
// across steps.
func (p *Parameter[B]) ZeroGrad() {
	p.grad = nil
}
