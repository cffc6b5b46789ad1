package cpu

import (
	"fmt"

	"github.com/exascience/pargo/parallel"

	"github.com/physgo-ml/physgo/internal/tensor"
)

// Add performs element-wise addition with broadcasting.
func (b *CPUBackend) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binary(x, y,
		func(a, c float32) float32 { return a + c },
		func(a, c float64) float64 { return a + c })
}

// Sub performs element-wise subtraction with broadcasting.
func (b *CPUBackend) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binary(x, y,
		func(a, c float32) float32 { return a - c },
		func(a, c float64) float64 { return a - c })
}

// Mul performs element-wise multiplication with broadcasting.
func (b *CPUBackend) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binary(x, y,
		func(a, c float32) float32 { return a * c },
		func(a, c float64) float64 { return a * c })
}

// Div performs element-wise division with broadcasting.
func (b *CPUBackend) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binary(x, y,
		func(a, c float32) float32 { return a / c },
		func(a, c float64) float64 { return a / c })
}

// binary dispatches a broadcasting binary kernel on dtype.
func (b *CPUBackend) binary(x, y *tensor.RawTensor,
	f32 func(float32, float32) float32,
	f64 func(float64, float64) float64,
) *tensor.RawTensor {
	if x.DType() != y.DType() {
		panic(fmt.Sprintf("cpu: dtype mismatch %s vs %s", x.DType(), y.DType()))
	}

	outShape, _, err := tensor.BroadcastShapes(x.Shape(), y.Shape())
	if err != nil {
		panic(fmt.Sprintf("cpu: %v", err))
	}
	out := newResult(outShape, x.DType(), b.Device())

	switch x.DType() {
	case tensor.Float32:
		binaryKernel(x.AsFloat32(), y.AsFloat32(), out.AsFloat32(), x.Shape(), y.Shape(), outShape, f32)
	case tensor.Float64:
		binaryKernel(x.AsFloat64(), y.AsFloat64(), out.AsFloat64(), x.Shape(), y.Shape(), outShape, f64)
	default:
		panic(fmt.Sprintf("cpu: binary op unsupported for dtype %s", x.DType()))
	}
	return out
}

// binaryKernel applies op over all elements, using broadcast strides when the
// input shapes differ from the output shape.
func binaryKernel[F float](a, c, out []F, aShape, cShape, outShape tensor.Shape, op func(F, F) F) {
	n := len(out)

	if aShape.Equal(outShape) && cShape.Equal(outShape) {
		// Fast path: same-shape contiguous data.
		if n < parallelThreshold {
			for i := 0; i < n; i++ {
				out[i] = op(a[i], c[i])
			}
			return
		}
		parallel.Range(0, n, 0, func(low, high int) {
			for i := low; i < high; i++ {
				out[i] = op(a[i], c[i])
			}
		})
		return
	}

	aStrides := broadcastStrides(aShape, outShape)
	cStrides := broadcastStrides(cShape, outShape)
	outStrides := outShape.ComputeStrides()

	apply := func(low, high int) {
		for i := low; i < high; i++ {
			rem := i
			ai, ci := 0, 0
			for d := range outShape {
				coord := rem / outStrides[d]
				rem %= outStrides[d]
				ai += coord * aStrides[d]
				ci += coord * cStrides[d]
			}
			out[i] = op(a[ai], c[ci])
		}
	}

	if n < parallelThreshold {
		apply(0, n)
		return
	}
	parallel.Range(0, n, 0, apply)
}

// broadcastStrides returns strides for shape aligned to outShape, with
// stride 0 on broadcast dimensions.
func broadcastStrides(shape, outShape tensor.Shape) []int {
	strides := shape.ComputeStrides()
	aligned := make([]int, len(outShape))
	offset := len(outShape) - len(shape)
	for d := range outShape {
		if d < offset {
			continue // Missing leading dimension, stride 0
		}
		if shape[d-offset] == 1 && outShape[d] > 1 {
			continue // Broadcast dimension, stride 0
		}
		aligned[d] = strides[d-offset]
	}
	return aligned
}
