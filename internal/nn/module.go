// Package nn implements the neural network modules used as PDE trial
// functions:
//   - Module interface: base interface for all components
//   - Parameter: trainable parameters
//   - Linear: fully connected layer
//   - Tanh: smooth activation (residuals need two derivatives)
//   - Sequential, FCN: layer containers
//   - MSELoss: tape-composed mean squared error
//
// Modules that additionally implement TaylorModule can propagate first and
// second directional derivatives through the forward pass, which is how the
// operators package computes gradients and Laplacians of a network.
package nn

import (
	"github.com/physgo-ml/physgo/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Type parameter B must satisfy the tensor.Backend interface.
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	// Inputs are [batch, features]; the output shape depends on the module.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters of this module,
	// including nested module parameters. Modules without trainable
	// parameters (activations) return nil.
	Parameters() []*Parameter[B]
}

// TaylorModule is a module that can push a second-order jet through its
// forward pass.
//
// A jet is a triple (v, d, s): the input values, the first derivative of the
// input along some direction in input space, and the second derivative along
// that same direction. ForwardTaylor returns the corresponding triple for
// the module output.
//
// All three streams are ordinary tensor operations, so when the backend is
// an AutodiffBackend the returned second derivative is itself
// differentiable with respect to the module parameters. That property is
// what lets a Laplacian appear inside a training loss.
type TaylorModule[B tensor.Backend] interface {
	Module[B]

	// ForwardTaylor propagates (value, first, second) derivative streams.
	// All three tensors share the shape [batch, features].
	ForwardTaylor(v, d, s *tensor.Tensor[float32, B]) (val, der, sec *tensor.Tensor[float32, B])
}

// StatefulModule is a module whose parameters can be exported and restored,
// for checkpointing.
type StatefulModule[B tensor.Backend] interface {
	Module[B]

	// StateDict returns a map of parameter names to raw tensors.
	StateDict() map[string]*tensor.RawTensor

	// LoadStateDict loads parameters from a state dictionary.
	LoadStateDict(stateDict map[string]*tensor.RawTensor) error
}
