// Copyright 2025 PhysGo Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network building blocks.
//
// Networks built from these modules serve as trial functions for PDE
// solutions. Modules that implement TaylorModule can propagate first and
// second directional derivatives through the forward pass, which the
// operators package uses to compute gradients and Laplacians.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	model := nn.NewFCN(backend, 2, 1)
//	u := model.Forward(points)
package nn

import (
	"github.com/physgo-ml/physgo/internal/nn"
	"github.com/physgo-ml/physgo/internal/tensor"
)

// Module is the base interface for all network components.
type Module[B tensor.Backend] = nn.Module[B]

// TaylorModule is a module that can propagate second order jets.
type TaylorModule[B tensor.Backend] = nn.TaylorModule[B]

// StatefulModule is a module whose parameters can be saved and restored.
type StatefulModule[B tensor.Backend] = nn.StatefulModule[B]

// Parameter is a trainable tensor with a name.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// Linear is a fully connected layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// Tanh is the hyperbolic tangent activation.
type Tanh[B tensor.Backend] = nn.Tanh[B]

// Sequential chains modules.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// FCN is a fully connected network with tanh activations.
type FCN[B tensor.Backend] = nn.FCN[B]

// MSELoss is the mean squared error loss.
type MSELoss[B tensor.Backend] = nn.MSELoss[B]

// Checkpoint holds restored training metadata.
type Checkpoint = nn.Checkpoint

// NewParameter creates a named trainable parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// NewLinear creates a fully connected layer with Xavier initialization.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, backend)
}

// NewTanh creates a tanh activation.
func NewTanh[B tensor.Backend]() *Tanh[B] {
	return nn.NewTanh[B]()
}

// NewSequential creates a sequential container.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// NewFCN creates a fully connected network. Passing no hidden widths uses
// the default {20, 20, 20, 20} layout.
func NewFCN[B tensor.Backend](backend B, inDim, outDim int, hiddenWidths ...int) *FCN[B] {
	return nn.NewFCN(backend, inDim, outDim, hiddenWidths...)
}

// NewMSELoss creates a mean squared error loss.
func NewMSELoss[B tensor.Backend]() *MSELoss[B] {
	return nn.NewMSELoss[B]()
}

// SaveCheckpoint writes model state and training progress to path.
func SaveCheckpoint[B tensor.Backend](path string, model StatefulModule[B], runID string, step int, loss float32) error {
	return nn.SaveCheckpoint(path, model, runID, step, loss)
}

// LoadCheckpoint restores model state from path.
func LoadCheckpoint[B tensor.Backend](path string, model StatefulModule[B]) (*Checkpoint, error) {
	return nn.LoadCheckpoint(path, model)
}
