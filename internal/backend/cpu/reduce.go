package cpu

import (
	"fmt"

	"github.com/exascience/pargo/parallel"

	"github.com/physgo-ml/physgo/internal/tensor"
)

// Sum reduces the tensor to its total sum, shape [1].
func (b *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	out := newResult(tensor.Shape{1}, x.DType(), b.Device())

	switch x.DType() {
	case tensor.Float32:
		out.AsFloat32()[0] = float32(sumKernel(x.AsFloat32()))
	case tensor.Float64:
		out.AsFloat64()[0] = sumKernel(x.AsFloat64())
	default:
		panic(fmt.Sprintf("cpu: Sum unsupported for dtype %s", x.DType()))
	}
	return out
}

// Mean reduces the tensor to its mean value, shape [1].
func (b *CPUBackend) Mean(x *tensor.RawTensor) *tensor.RawTensor {
	out := b.Sum(x)
	n := float64(x.NumElements())

	switch x.DType() {
	case tensor.Float32:
		out.AsFloat32()[0] /= float32(n)
	case tensor.Float64:
		out.AsFloat64()[0] /= n
	}
	return out
}

// sumKernel accumulates in float64 regardless of the element type; float32
// residual batches are large enough for naive accumulation to drift.
func sumKernel[F float](data []F) float64 {
	if len(data) < parallelThreshold {
		var sum float64
		for _, v := range data {
			sum += float64(v)
		}
		return sum
	}
	return parallel.RangeReduceFloat64(0, len(data), 0,
		func(low, high int) float64 {
			var sum float64
			for i := low; i < high; i++ {
				sum += float64(data[i])
			}
			return sum
		},
		func(a, b float64) float64 { return a + b },
	)
}

// SumDim sums along the given dimension.
func (b *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("cpu: SumDim dim %d out of range for shape %v", dim, shape))
	}

	outShape := reducedShape(shape, dim, keepDim)
	out := newResult(outShape, x.DType(), b.Device())

	switch x.DType() {
	case tensor.Float32:
		sumDimKernel(x.AsFloat32(), out.AsFloat32(), shape, dim)
	case tensor.Float64:
		sumDimKernel(x.AsFloat64(), out.AsFloat64(), shape, dim)
	default:
		panic(fmt.Sprintf("cpu: SumDim unsupported for dtype %s", x.DType()))
	}
	return out
}

// MeanDim averages along the given dimension.
func (b *CPUBackend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	out := b.SumDim(x, dim, keepDim)
	n := float64(x.Shape()[dim])

	switch out.DType() {
	case tensor.Float32:
		data := out.AsFloat32()
		for i := range data {
			data[i] /= float32(n)
		}
	case tensor.Float64:
		data := out.AsFloat64()
		for i := range data {
			data[i] /= n
		}
	}
	return out
}

func sumDimKernel[F float](in, out []F, shape tensor.Shape, dim int) {
	outer, size, inner := 1, shape[dim], 1
	for d := 0; d < dim; d++ {
		outer *= shape[d]
	}
	for d := dim + 1; d < len(shape); d++ {
		inner *= shape[d]
	}

	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			var sum float64
			for d := 0; d < size; d++ {
				sum += float64(in[(o*size+d)*inner+i])
			}
			out[o*inner+i] = F(sum)
		}
	}
}

// reducedShape drops (or keeps as 1) the reduced dimension.
// A full reduction collapses to shape [1].
func reducedShape(shape tensor.Shape, dim int, keepDim bool) tensor.Shape {
	if keepDim {
		out := shape.Clone()
		out[dim] = 1
		return out
	}
	out := make(tensor.Shape, 0, len(shape)-1)
	for d, size := range shape {
		if d != dim {
			out = append(out, size)
		}
	}
	if len(out) == 0 {
		out = tensor.Shape{1}
	}
	return out
}
