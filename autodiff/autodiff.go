// Copyright 2025 PhysGo Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation.
//
// It wraps any backend with a gradient tape that records operations so a
// single backward pass can produce gradients for every input.
//
// Example:
//
//	base := cpu.New()
//	backend := autodiff.New(base)
//
//	backend.Tape().StartRecording()
//	loss := computeLoss(model, backend)
//	backend.Tape().StopRecording()
//
//	grads := autodiff.Backward(loss, backend)
package autodiff

import (
	"github.com/physgo-ml/physgo/internal/autodiff"
	"github.com/physgo-ml/physgo/internal/tensor"
)

// Backend is an autodiff-enabled backend wrapping an inner backend B.
type Backend[B tensor.Backend] = autodiff.AutodiffBackend[B]

// GradientTape records operations for the backward pass.
type GradientTape = autodiff.GradientTape

// BackwardCapable is a backend that exposes its gradient tape.
type BackwardCapable = autodiff.BackwardCapable

// New creates an autodiff backend wrapping the given backend.
func New[B tensor.Backend](backend B) *Backend[B] {
	return autodiff.New(backend)
}

// Backward computes gradients of t with respect to every recorded input.
func Backward[T tensor.DType, B autodiff.BackwardCapable](t *tensor.Tensor[T, B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	return autodiff.Backward(t, backend)
}
