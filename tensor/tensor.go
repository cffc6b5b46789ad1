// Copyright 2025 PhysGo Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for tensor operations in PhysGo.
//
// The package defines the core types for type-safe tensor work:
//   - Tensor[T, B]: high-level generic tensor
//   - RawTensor: low-level tensor for advanced use cases
//   - Backend: interface for device-specific compute implementations
//   - Shape, DataType, Device: core type definitions
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	z := x.Add(y)
package tensor

import (
	"github.com/physgo-ml/physgo/internal/tensor"
)

// DType is a constraint for tensor data types.
// Supported types: float32, float64, int32.
type DType = tensor.DType

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
)

// Device represents the device where tensor data resides.
type Device = tensor.Device

// CPU is the only device currently supported.
const CPU Device = tensor.CPU

// Shape represents tensor dimensions.
type Shape = tensor.Shape

// RawTensor is the low-level tensor representation.
type RawTensor = tensor.RawTensor

// Backend is the interface for device-specific compute implementations.
type Backend = tensor.Backend

// Tensor is the high-level generic tensor type.
type Tensor[T DType, B Backend] = tensor.Tensor[T, B]

// New wraps a RawTensor in a typed Tensor.
func New[T DType, B Backend](raw *RawTensor, b B) *Tensor[T, B] {
	return tensor.New[T](raw, b)
}

// NewRaw allocates an uninitialized RawTensor.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// FromSlice creates a tensor from a flat data slice.
func FromSlice[T DType, B Backend](data []T, shape Shape, b B) (*Tensor[T, B], error) {
	return tensor.FromSlice(data, shape, b)
}

// Zeros creates a tensor filled with zeros.
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Zeros[T](shape, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Ones[T](shape, b)
}

// Full creates a tensor filled with a constant value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	return tensor.Full(shape, value, b)
}

// Randn creates a tensor with standard normal random values.
func Randn[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Randn[T](shape, b)
}

// Rand creates a tensor with uniform random values in [0, 1).
func Rand[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Rand[T](shape, b)
}

// Linspace creates a 1D tensor of n evenly spaced values in [start, stop].
func Linspace[T DType, B Backend](start, stop T, n int, b B) *Tensor[T, B] {
	return tensor.Linspace(start, stop, n, b)
}

// Cat concatenates tensors along the given dimension.
func Cat[T DType, B Backend](tensors []*Tensor[T, B], dim int) *Tensor[T, B] {
	return tensor.Cat(tensors, dim)
}

// BroadcastShapes computes the broadcast result shape of two shapes and
// whether broadcasting was needed.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}
