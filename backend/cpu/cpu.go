// Copyright 2025 PhysGo Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the CPU compute backend.
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
package cpu

import (
	"github.com/physgo-ml/physgo/internal/backend/cpu"
)

// Backend is the CPU implementation of tensor.Backend.
type Backend = cpu.CPUBackend

// New creates a CPU backend.
func New() *Backend {
	return cpu.New()
}
