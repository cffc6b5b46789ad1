// Copyright 2025 PhysGo Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training networks.
//
// SGD and Adam consume one gradient map per step. LBFGS additionally
// implements ClosureStepper and re-evaluates the loss during its line
// search.
//
// Example:
//
//	optimizer := optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: 0.001})
//	grads := autodiff.Backward(loss, backend)
//	optimizer.Step(grads)
//	optimizer.ZeroGrad()
package optim

import (
	"github.com/physgo-ml/physgo/internal/nn"
	"github.com/physgo-ml/physgo/internal/optim"
	"github.com/physgo-ml/physgo/internal/tensor"
)

// Optimizer updates parameters from computed gradients.
type Optimizer = optim.Optimizer

// Closure re-evaluates the loss and gradients at the current parameters.
type Closure = optim.Closure

// ClosureStepper is an optimizer that drives its own loss evaluations.
type ClosureStepper = optim.ClosureStepper

// SGD is stochastic gradient descent with optional momentum.
type SGD[B tensor.Backend] = optim.SGD[B]

// SGDConfig configures SGD.
type SGDConfig = optim.SGDConfig

// Adam is the Adam optimizer.
type Adam[B tensor.Backend] = optim.Adam[B]

// AdamConfig configures Adam.
type AdamConfig = optim.AdamConfig

// LBFGS is the limited-memory BFGS quasi-Newton optimizer.
type LBFGS[B tensor.Backend] = optim.LBFGS[B]

// LBFGSConfig configures LBFGS.
type LBFGSConfig = optim.LBFGSConfig

// NewSGD creates an SGD optimizer.
func NewSGD[B tensor.Backend](params []*nn.Parameter[B], config SGDConfig) *SGD[B] {
	return optim.NewSGD(params, config)
}

// NewAdam creates an Adam optimizer.
func NewAdam[B tensor.Backend](params []*nn.Parameter[B], config AdamConfig) *Adam[B] {
	return optim.NewAdam(params, config)
}

// NewLBFGS creates an LBFGS optimizer.
func NewLBFGS[B tensor.Backend](params []*nn.Parameter[B], config LBFGSConfig) *LBFGS[B] {
	return optim.NewLBFGS(params, config)
}
