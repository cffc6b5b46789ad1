package optim

import (
	"github.com/physgo-ml/physgo/internal/nn"
	"github.com/physgo-ml/physgo/internal/tensor"
)

// SGD implements stochastic gradient descent with optional momentum.
//
// Without momentum:
//
//	param = param - lr * gradient
//
// With momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
type SGD[B tensor.Backend] struct {
	params     []*nn.Parameter[B]
	lr         float32
	momentum   float32
	velocities map[*nn.Parameter[B]][]float32
}

// SGDConfig holds configuration for the SGD optimizer.
type SGDConfig struct {
	LR       float32 // default 0.01
	Momentum float32 // default 0, range [0, 1)
}

// NewSGD creates an SGD optimizer over the given parameters.
func NewSGD[B tensor.Backend](params []*nn.Parameter[B], config SGDConfig) *SGD[B] {
	if config.LR == 0 {
		config.LR = 0.01
	}
	return &SGD[B]{
		params:     params,
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make(map[*nn.Parameter[B]][]float32),
	}
}

// Step applies one SGD update. Parameters with no gradient are skipped.
func (s *SGD[B]) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	for _, param := range s.params {
		grad := getGradient(param, grads)
		if grad == nil {
			continue
		}

		gradData := grad.AsFloat32()
		paramData := param.Tensor().Raw().AsFloat32()

		if s.momentum == 0 {
			for i := range paramData {
				paramData[i] -= s.lr * gradData[i]
			}
			continue
		}

		vel, ok := s.velocities[param]
		if !ok {
			vel = make([]float32, len(paramData))
			s.velocities[param] = vel
		}
		for i := range paramData {
			vel[i] = s.momentum*vel[i] + gradData[i]
			paramData[i] -= s.lr * vel[i]
		}
	}
}

// ZeroGrad clears gradients for all parameters.
func (s *SGD[B]) ZeroGrad() {
	for _, param := range s.params {
		param.ZeroGrad()
	}
}

// GetLR returns the learning rate.
func (s *SGD[B]) GetLR() float32 {
	return s.lr
}
