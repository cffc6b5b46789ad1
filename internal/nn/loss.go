package nn

import "github.com/physgo-ml/physgo/internal/tensor"

// MSELoss computes the mean squared error between predictions and targets.
// All intermediate operations go through the backend, so when the backend
// records a tape the gradient of the loss reaches every input.
type MSELoss[B tensor.Backend] struct{}

// NewMSELoss creates a mean squared error loss.
func NewMSELoss[B tensor.Backend]() *MSELoss[B] {
	return &MSELoss[B]{}
}

// Forward returns mean((predictions - targets)^2) as a single-element tensor.
func (l *MSELoss[B]) Forward(predictions, targets *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	diff := predictions.Sub(targets)
	return diff.Mul(diff).Mean()
}
