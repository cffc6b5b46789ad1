package cpu

import (
	"fmt"

	"github.com/exascience/pargo/parallel"

	"github.com/physgo-ml/physgo/internal/tensor"
)

// MatMul performs 2D matrix multiplication: (M, K) @ (K, N) → (M, N).
//
// Rows of the output are computed independently, so the kernel parallelizes
// over rows once the output is large enough to amortize goroutine startup.
func (b *CPUBackend) MatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	xs, ys := x.Shape(), y.Shape()
	if len(xs) != 2 || len(ys) != 2 {
		panic(fmt.Sprintf("cpu: MatMul expects 2D tensors, got %v and %v", xs, ys))
	}
	if xs[1] != ys[0] {
		panic(fmt.Sprintf("cpu: MatMul inner dimensions mismatch: %v @ %v", xs, ys))
	}
	if x.DType() != y.DType() {
		panic(fmt.Sprintf("cpu: MatMul dtype mismatch %s vs %s", x.DType(), y.DType()))
	}

	m, k, n := xs[0], xs[1], ys[1]
	out := newResult(tensor.Shape{m, n}, x.DType(), b.Device())

	switch x.DType() {
	case tensor.Float32:
		matmulKernel(x.AsFloat32(), y.AsFloat32(), out.AsFloat32(), m, k, n)
	case tensor.Float64:
		matmulKernel(x.AsFloat64(), y.AsFloat64(), out.AsFloat64(), m, k, n)
	default:
		panic(fmt.Sprintf("cpu: MatMul unsupported for dtype %s", x.DType()))
	}
	return out
}

// matmulKernel computes out = a @ b with an ikj loop order that keeps the
// inner loop streaming over contiguous rows of b.
func matmulKernel[F float](a, b, out []F, m, k, n int) {
	rows := func(low, high int) {
		for i := low; i < high; i++ {
			outRow := out[i*n : (i+1)*n]
			for l := 0; l < k; l++ {
				av := a[i*k+l]
				if av == 0 {
					continue
				}
				bRow := b[l*n : (l+1)*n]
				for j := range outRow {
					outRow[j] += av * bRow[j]
				}
			}
		}
	}

	if m*n < parallelThreshold {
		rows(0, m)
		return
	}
	parallel.Range(0, m, 0, rows)
}
