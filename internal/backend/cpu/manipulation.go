package cpu

import (
	"fmt"

	"github.com/physgo-ml/physgo/internal/tensor"
)

// Reshape returns a tensor with the same data in a new shape.
// The element count must be preserved.
func (b *CPUBackend) Reshape(x *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if x.NumElements() != newShape.NumElements() {
		panic(fmt.Sprintf("cpu: Reshape from %v to %v changes element count", x.Shape(), newShape))
	}

	out := newResult(newShape, x.DType(), b.Device())
	copy(out.Data(), x.Data()[:x.ByteSize()])
	return out
}

// Transpose permutes the tensor's dimensions.
// Empty axes reverse all dimensions (standard transpose for 2D).
func (b *CPUBackend) Transpose(x *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		panic(fmt.Sprintf("cpu: Transpose got %d axes for %d dimensions", len(axes), ndim))
	}

	outShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		outShape[i] = shape[ax]
	}
	out := newResult(outShape, x.DType(), b.Device())

	switch x.DType() {
	case tensor.Float32:
		transposeKernel(x.AsFloat32(), out.AsFloat32(), shape, outShape, axes)
	case tensor.Float64:
		transposeKernel(x.AsFloat64(), out.AsFloat64(), shape, outShape, axes)
	default:
		panic(fmt.Sprintf("cpu: Transpose unsupported for dtype %s", x.DType()))
	}
	return out
}

func transposeKernel[F float](in, out []F, inShape, outShape tensor.Shape, axes []int) {
	inStrides := inShape.ComputeStrides()
	outStrides := outShape.ComputeStrides()

	for i := range out {
		rem := i
		src := 0
		for d := range outShape {
			coord := rem / outStrides[d]
			rem %= outStrides[d]
			src += coord * inStrides[axes[d]]
		}
		out[i] = in[src]
	}
}

// Cat concatenates tensors along the given dimension.
func (b *CPUBackend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cpu: Cat of zero tensors")
	}
	first := tensors[0]
	ndim := len(first.Shape())
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("cpu: Cat dim %d out of range for shape %v", dim, first.Shape()))
	}

	outShape := first.Shape().Clone()
	for _, t := range tensors[1:] {
		ts := t.Shape()
		if len(ts) != ndim || t.DType() != first.DType() {
			panic("cpu: Cat tensors must share rank and dtype")
		}
		for d := 0; d < ndim; d++ {
			if d != dim && ts[d] != outShape[d] {
				panic(fmt.Sprintf("cpu: Cat shape mismatch at dim %d: %v vs %v", d, first.Shape(), ts))
			}
		}
		outShape[dim] += ts[dim]
	}
	out := newResult(outShape, first.DType(), b.Device())

	// Copy per outer block: each input contributes a contiguous run of
	// dim*inner elements inside every outer slice of the output.
	elemSize := first.DType().Size()
	outer := 1
	for d := 0; d < dim; d++ {
		outer *= outShape[d]
	}
	inner := 1
	for d := dim + 1; d < ndim; d++ {
		inner *= outShape[d]
	}

	outRow := outShape[dim] * inner * elemSize
	offset := 0
	for _, t := range tensors {
		run := t.Shape()[dim] * inner * elemSize
		src := t.Data()
		dst := out.Data()
		for o := 0; o < outer; o++ {
			copy(dst[o*outRow+offset:o*outRow+offset+run], src[o*run:(o+1)*run])
		}
		offset += run
	}
	return out
}
