package tensor

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// The op surface is the one residual training needs: element-wise arithmetic
// with broadcasting, dense matmul, shape moves, smooth element-wise math for
// residual expressions and jet propagation, and reductions for losses.
type Backend interface {
	// Element-wise binary operations (with broadcasting)
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Matrix operations (2D)
	MatMul(a, b *RawTensor) *RawTensor

	// Shape operations
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor

	// Scalar operations (element-wise with scalar)
	MulScalar(x *RawTensor, scalar any) *RawTensor
	AddScalar(x *RawTensor, scalar any) *RawTensor
	SubScalar(x *RawTensor, scalar any) *RawTensor
	DivScalar(x *RawTensor, scalar any) *RawTensor

	// Math operations (element-wise)
	Exp(x *RawTensor) *RawTensor
	Sqrt(x *RawTensor) *RawTensor
	Sin(x *RawTensor) *RawTensor
	Cos(x *RawTensor) *RawTensor
	Tanh(x *RawTensor) *RawTensor
	Pow(x *RawTensor, p float64) *RawTensor

	// Reduction operations
	Sum(x *RawTensor) *RawTensor                            // total sum (shape [1])
	Mean(x *RawTensor) *RawTensor                           // total mean (shape [1])
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor  // sum along dimension
	MeanDim(x *RawTensor, dim int, keepDim bool) *RawTensor // mean along dimension

	// Manipulation operations
	Cat(tensors []*RawTensor, dim int) *RawTensor // concatenate along dimension

	// Metadata
	Name() string
	Device() Device
}
