package nn

import (
	"github.com/physgo-ml/physgo/internal/tensor"
)

// Tanh is a hyperbolic tangent activation module.
//
// PDE trial functions need activations with two well-behaved derivatives
// (the Laplacian of the network appears in the loss), which rules out ReLU;
// tanh is the conventional choice.
type Tanh[B tensor.Backend] struct{}

// NewTanh creates a new Tanh activation module.
func NewTanh[B tensor.Backend]() *Tanh[B] {
	return &Tanh[B]{}
}

// Forward applies tanh element-wise.
func (t *Tanh[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return input.Tanh()
}

// ForwardTaylor propagates a second-order jet through tanh.
//
// With y = tanh(v), u = 1 - y² (= y'):
//
//	val = y
//	der = u * d
//	sec = u * s - 2 * y * u * d²
//
// All intermediate products are tensor ops, so they land on the gradient
// tape and the returned streams stay differentiable in the parameters that
// produced v, d and s.
func (t *Tanh[B]) ForwardTaylor(v, d, s *tensor.Tensor[float32, B]) (val, der, sec *tensor.Tensor[float32, B]) {
	y := v.Tanh()
	u := y.Mul(y).MulScalar(-1).AddScalar(1) // 1 - tanh²

	val = y
	der = u.Mul(d)
	sec = u.Mul(s).Sub(y.Mul(u).Mul(d).Mul(d).MulScalar(2))
	return val, der, sec
}

// Parameters returns nil (Tanh has no trainable parameters).
func (t *Tanh[B]) Parameters() []*Parameter[B] {
	return nil
}
