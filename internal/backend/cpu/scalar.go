package cpu

// Scalar variants of the element-wise ops. The scalar is accepted as `any`
// so the generic Tensor wrappers can pass their own element type directly.

import (
	"github.com/physgo-ml/physgo/internal/tensor"
)

// MulScalar multiplies each element by a scalar.
func (b *CPUBackend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s := toFloat64(scalar)
	return b.unary(x, func(v float64) float64 { return v * s })
}

// AddScalar adds a scalar to each element.
func (b *CPUBackend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s := toFloat64(scalar)
	return b.unary(x, func(v float64) float64 { return v + s })
}

// SubScalar subtracts a scalar from each element.
func (b *CPUBackend) SubScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s := toFloat64(scalar)
	return b.unary(x, func(v float64) float64 { return v - s })
}

// DivScalar divides each element by a scalar.
func (b *CPUBackend) DivScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s := toFloat64(scalar)
	return b.unary(x, func(v float64) float64 { return v / s })
}
