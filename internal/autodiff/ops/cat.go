package ops

import "github.com/physgo-ml/physgo/internal/tensor"

// CatOp represents concatenation along a dimension.
// Backward slices the output gradient back into one piece per input.
type CatOp struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
	dim    int
}

// NewCatOp creates a new CatOp.
func NewCatOp(inputs []*tensor.RawTensor, output *tensor.RawTensor, dim int) *CatOp {
	return &CatOp{inputs: inputs, output: output, dim: dim}
}

// Backward splits the output gradient along dim, one slice per input.
func (op *CatOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	outShape := op.output.Shape()
	elemSize := op.output.DType().Size()

	outer := 1
	for d := 0; d < op.dim; d++ {
		outer *= outShape[d]
	}
	inner := 1
	for d := op.dim + 1; d < len(outShape); d++ {
		inner *= outShape[d]
	}
	outRow := outShape[op.dim] * inner * elemSize

	grads := make([]*tensor.RawTensor, len(op.inputs))
	offset := 0
	for i, in := range op.inputs {
		grad, err := tensor.NewRaw(in.Shape(), in.DType(), backend.Device())
		if err != nil {
			panic(err)
		}
		run := in.Shape()[op.dim] * inner * elemSize
		src := outputGrad.Data()
		dst := grad.Data()
		for o := 0; o < outer; o++ {
			copy(dst[o*run:(o+1)*run], src[o*outRow+offset:o*outRow+offset+run])
		}
		offset += run
		grads[i] = grad
	}
	return grads
}

// Inputs returns the concatenated input tensors.
func (op *CatOp) Inputs() []*tensor.RawTensor { return op.inputs }

// Output returns the concatenated tensor.
func (op *CatOp) Output() *tensor.RawTensor { return op.output }
