// Package autodiff implements automatic differentiation using the decorator pattern.
//
// AutodiffBackend wraps any Backend implementation and adds gradient tracking
// through a GradientTape:
//
//   - Decorator pattern: AutodiffBackend[B] wraps any Backend implementation
//   - GradientTape: records operations during the forward pass
//   - Operation types: each op carries its own backward pass
//   - Reverse-mode AD: one backward walk computes all parameter gradients
//
// Spatial derivatives of networks (gradient, Laplacian) are not taken by
// differentiating the tape a second time; the operators package propagates
// derivative jets through the forward pass using these same recorded ops, so
// a single first-order tape suffices for PDE residual training.
package autodiff

import (
	"github.com/physgo-ml/physgo/internal/autodiff/ops"
	"github.com/physgo-ml/physgo/internal/tensor"
)

// AutodiffBackend wraps a Backend and adds automatic differentiation.
// It implements the tensor.Backend interface and records operations in a
// GradientTape.
type AutodiffBackend[B tensor.Backend] struct {
	inner B             // Wrapped backend
	tape  *GradientTape // Records operations for backpropagation
}

// New creates a new AutodiffBackend wrapping the given backend.
func New[B tensor.Backend](backend B) *AutodiffBackend[B] {
	return &AutodiffBackend[B]{
		inner: backend,
		tape:  NewGradientTape(),
	}
}

// Tape returns the gradient tape for manual control
// (start/stop recording, clearing between steps).
func (b *AutodiffBackend[B]) Tape() *GradientTape {
	return b.tape
}

// Inner returns the wrapped backend for direct access.
func (b *AutodiffBackend[B]) Inner() B {
	return b.inner
}

// Name returns the backend name.
func (b *AutodiffBackend[B]) Name() string {
	return "Autodiff(" + b.inner.Name() + ")"
}

// Device returns the compute device.
func (b *AutodiffBackend[B]) Device() tensor.Device {
	return b.inner.Device()
}

// Add performs element-wise addition and records the operation.
func (b *AutodiffBackend[B]) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	// Prevent inplace modification that would corrupt the recorded graph.
	defer x.ForceNonUnique()()
	defer y.ForceNonUnique()()

	result := b.inner.Add(x, y)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewAddOp(x, y, result))
	}
	return result
}

// Sub performs element-wise subtraction and records the operation.
func (b *AutodiffBackend[B]) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()
	defer y.ForceNonUnique()()

	result := b.inner.Sub(x, y)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewSubOp(x, y, result))
	}
	return result
}

// Mul performs element-wise multiplication and records the operation.
func (b *AutodiffBackend[B]) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()
	defer y.ForceNonUnique()()

	result := b.inner.Mul(x, y)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewMulOp(x, y, result))
	}
	return result
}

// Div performs element-wise division and records the operation.
func (b *AutodiffBackend[B]) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()
	defer y.ForceNonUnique()()

	result := b.inner.Div(x, y)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewDivOp(x, y, result))
	}
	return result
}

// MatMul performs matrix multiplication and records the operation.
func (b *AutodiffBackend[B]) MatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()
	defer y.ForceNonUnique()()

	result := b.inner.MatMul(x, y)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewMatMulOp(x, y, result))
	}
	return result
}

// Reshape reshapes a tensor and records the operation so gradients flow back
// to the original layout (bias broadcasting depends on this).
func (b *AutodiffBackend[B]) Reshape(x *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.Reshape(x, newShape)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewReshapeOp(x, result))
	}
	return result
}

// Transpose transposes a tensor and records the operation.
//
// The backend materializes a new tensor for the transpose, so without the
// recorded op the gradient computed for Wᵀ in a linear layer would never
// reach the weight parameter W.
func (b *AutodiffBackend[B]) Transpose(x *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	ndim := len(x.Shape())
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}

	result := b.inner.Transpose(x, axes...)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewTransposeOp(x, result, axes))
	}
	return result
}

// MulScalar multiplies by a scalar and records the operation.
func (b *AutodiffBackend[B]) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.MulScalar(x, scalar)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewMulScalarOp(x, result, scalarValue(scalar)))
	}
	return result
}

// AddScalar adds a scalar and records the operation.
func (b *AutodiffBackend[B]) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.AddScalar(x, scalar)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewAddScalarOp(x, result))
	}
	return result
}

// SubScalar subtracts a scalar and records the operation.
func (b *AutodiffBackend[B]) SubScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.SubScalar(x, scalar)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewSubScalarOp(x, result))
	}
	return result
}

// DivScalar divides by a scalar and records the operation.
func (b *AutodiffBackend[B]) DivScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.DivScalar(x, scalar)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewDivScalarOp(x, result, scalarValue(scalar)))
	}
	return result
}

// Exp computes element-wise e^x and records the operation.
func (b *AutodiffBackend[B]) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.Exp(x)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewExpOp(x, result))
	}
	return result
}

// Sqrt computes element-wise square root and records the operation.
func (b *AutodiffBackend[B]) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.Sqrt(x)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewSqrtOp(x, result))
	}
	return result
}

// Sin computes element-wise sine and records the operation.
func (b *AutodiffBackend[B]) Sin(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.Sin(x)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewSinOp(x, result))
	}
	return result
}

// Cos computes element-wise cosine and records the operation.
func (b *AutodiffBackend[B]) Cos(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.Cos(x)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewCosOp(x, result))
	}
	return result
}

// Tanh computes element-wise hyperbolic tangent and records the operation.
func (b *AutodiffBackend[B]) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.Tanh(x)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewTanhOp(x, result))
	}
	return result
}

// Pow raises each element to the power p and records the operation.
func (b *AutodiffBackend[B]) Pow(x *tensor.RawTensor, p float64) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.Pow(x, p)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewPowOp(x, result, p))
	}
	return result
}

// Sum reduces to the total sum and records the operation.
func (b *AutodiffBackend[B]) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.Sum(x)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewSumOp(x, result))
	}
	return result
}

// Mean reduces to the mean value and records the operation.
func (b *AutodiffBackend[B]) Mean(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.Mean(x)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewMeanOp(x, result))
	}
	return result
}

// SumDim sums along a dimension and records the operation.
func (b *AutodiffBackend[B]) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.SumDim(x, dim, keepDim)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewSumDimOp(x, result, dim, keepDim))
	}
	return result
}

// MeanDim averages along a dimension and records the operation.
func (b *AutodiffBackend[B]) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.MeanDim(x, dim, keepDim)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewMeanDimOp(x, result, dim, keepDim))
	}
	return result
}

// Cat concatenates tensors and records the operation.
func (b *AutodiffBackend[B]) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	for _, t := range tensors {
		defer t.ForceNonUnique()()
	}

	result := b.inner.Cat(tensors, dim)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewCatOp(tensors, result, dim))
	}
	return result
}

// scalarValue converts a scalar op argument to float64 for gradient records.
func scalarValue(scalar any) float64 {
	switch v := scalar.(type) {
	case float32:
		return float64(v)
	case float64:
		return v
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	default:
		panic("autodiff: unsupported scalar type")
	}
}
