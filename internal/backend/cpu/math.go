package cpu

import (
	"fmt"
	"math"

	"github.com/exascience/pargo/parallel"

	"github.com/physgo-ml/physgo/internal/tensor"
)

// Exp computes element-wise e^x.
func (b *CPUBackend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary(x, math.Exp)
}

// Sqrt computes element-wise square root.
func (b *CPUBackend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary(x, math.Sqrt)
}

// Sin computes element-wise sine.
func (b *CPUBackend) Sin(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary(x, math.Sin)
}

// Cos computes element-wise cosine.
func (b *CPUBackend) Cos(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary(x, math.Cos)
}

// Tanh computes element-wise hyperbolic tangent.
func (b *CPUBackend) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary(x, math.Tanh)
}

// Pow raises each element to the power p.
func (b *CPUBackend) Pow(x *tensor.RawTensor, p float64) *tensor.RawTensor {
	if p == 2 {
		// Squaring dominates residual norms; skip the libm call.
		return b.unary(x, func(v float64) float64 { return v * v })
	}
	return b.unary(x, func(v float64) float64 { return math.Pow(v, p) })
}

// unary applies f element-wise, preserving dtype.
func (b *CPUBackend) unary(x *tensor.RawTensor, f func(float64) float64) *tensor.RawTensor {
	out := newResult(x.Shape(), x.DType(), b.Device())

	switch x.DType() {
	case tensor.Float32:
		unaryKernel(x.AsFloat32(), out.AsFloat32(), f)
	case tensor.Float64:
		unaryKernel(x.AsFloat64(), out.AsFloat64(), f)
	default:
		panic(fmt.Sprintf("cpu: unary op unsupported for dtype %s", x.DType()))
	}
	return out
}

func unaryKernel[F float](in, out []F, f func(float64) float64) {
	apply := func(low, high int) {
		for i := low; i < high; i++ {
			out[i] = F(f(float64(in[i])))
		}
	}
	if len(in) < parallelThreshold {
		apply(0, len(in))
		return
	}
	parallel.Range(0, len(in), 0, apply)
}
