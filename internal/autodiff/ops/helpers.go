package ops

import (
	"fmt"

	"github.com/physgo-ml/physgo/internal/tensor"
)

// reduceBroadcast sums a gradient down to the target shape.
//
// When a forward op broadcast an input up to a larger shape, the gradient
// arriving for the output has the broadcast shape; summing over the expanded
// dimensions recovers the gradient for the original input.
func reduceBroadcast(grad *tensor.RawTensor, target tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	// Collapse extra leading dimensions.
	for len(grad.Shape()) > len(target) {
		grad = backend.SumDim(grad, 0, false)
	}

	// Collapse dimensions the input held at size 1.
	for d := 0; d < len(target); d++ {
		if target[d] == 1 && grad.Shape()[d] > 1 {
			grad = backend.SumDim(grad, d, true)
		}
	}

	if !grad.Shape().Equal(target) {
		panic(fmt.Sprintf("ops: cannot reduce gradient %v to input shape %v", grad.Shape(), target))
	}
	return grad
}

// onesLike creates a tensor of ones with the same shape and dtype as t.
func onesLike(t *tensor.RawTensor, device tensor.Device) *tensor.RawTensor {
	out, err := tensor.NewRaw(t.Shape(), t.DType(), device)
	if err != nil {
		panic(err)
	}
	fill(out, 1)
	return out
}

// fill sets every element of a float tensor to v.
func fill(t *tensor.RawTensor, v float64) {
	switch t.DType() {
	case tensor.Float32:
		data := t.AsFloat32()
		for i := range data {
			data[i] = float32(v)
		}
	case tensor.Float64:
		data := t.AsFloat64()
		for i := range data {
			data[i] = v
		}
	default:
		panic(fmt.Sprintf("ops: fill unsupported for dtype %s", t.DType()))
	}
}
