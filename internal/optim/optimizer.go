// Package optim implements optimization algorithms for training networks.
//
// Two kinds of optimizers exist. First-order methods (SGD, Adam) consume a
// single gradient map per step through the Optimizer interface. Quasi-Newton
// methods (LBFGS) additionally implement ClosureStepper and may re-evaluate
// the loss several times per step during line search.
package optim

import (
	"github.com/physgo-ml/physgo/internal/nn"
	"github.com/physgo-ml/physgo/internal/tensor"
)

// Optimizer updates model parameters from computed gradients.
type Optimizer interface {
	// Step applies one update using the gradient map from a backward pass.
	Step(grads map[*tensor.RawTensor]*tensor.RawTensor)

	// ZeroGrad clears all parameter gradients.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float32
}

// Closure re-evaluates the loss at the current parameter values and returns
// the loss together with fresh gradients. Optimizers that perform line
// searches call it multiple times per step.
type Closure func() (float32, map[*tensor.RawTensor]*tensor.RawTensor)

// ClosureStepper is implemented by optimizers that drive their own loss
// evaluations, such as LBFGS.
type ClosureStepper interface {
	Optimizer

	// StepClosure performs one optimization step, calling the closure as
	// many times as the method requires. Returns the loss at the start of
	// the step.
	StepClosure(closure Closure) float32
}

// Config is the base configuration shared by all optimizers.
type Config struct {
	LR float32
}

// getGradient retrieves the gradient for a parameter, or nil if the
// parameter did not participate in the forward pass.
func getGradient[B tensor.Backend](param *nn.Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor) *tensor.RawTensor {
	if param == nil {
		return nil
	}
	return grads[param.Tensor().Raw()]
}
