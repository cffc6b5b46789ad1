package tensor

// Typed wrappers for backend operations. Every method dispatches to the
// tensor's backend, so wrapping the backend with autodiff makes all of these
// tape-recorded automatically.

// Add performs element-wise addition with broadcasting.
//
// Example:
//
//	a := tensor.Ones[float32](Shape{3, 1}, backend)
//	b := tensor.Ones[float32](Shape{3, 5}, backend)
//	c := a.Add(b) // Shape: [3, 5] (broadcasted)
func (t *Tensor[T, B]) Add(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Add(t.raw, other.raw), t.backend)
}

// Sub performs element-wise subtraction with broadcasting.
func (t *Tensor[T, B]) Sub(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Sub(t.raw, other.raw), t.backend)
}

// Mul performs element-wise multiplication with broadcasting.
func (t *Tensor[T, B]) Mul(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Mul(t.raw, other.raw), t.backend)
}

// Div performs element-wise division with broadcasting.
func (t *Tensor[T, B]) Div(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Div(t.raw, other.raw), t.backend)
}

// MatMul performs matrix multiplication: (M, K) @ (K, N) → (M, N).
//
// Example:
//
//	a := tensor.Randn[float32](Shape{3, 4}, backend)
//	b := tensor.Randn[float32](Shape{4, 5}, backend)
//	c := a.MatMul(b) // Shape: [3, 5]
func (t *Tensor[T, B]) MatMul(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.MatMul(t.raw, other.raw), t.backend)
}

// Reshape returns a tensor with the same data but different shape.
// The new shape must have the same number of elements.
func (t *Tensor[T, B]) Reshape(newShape ...int) *Tensor[T, B] {
	return New[T, B](t.backend.Reshape(t.raw, Shape(newShape)), t.backend)
}

// Transpose transposes the tensor by permuting its dimensions.
//
// If axes is empty, reverses all dimensions (for 2D, this is the standard
// transpose). Otherwise, axes specifies the permutation.
func (t *Tensor[T, B]) Transpose(axes ...int) *Tensor[T, B] {
	return New[T, B](t.backend.Transpose(t.raw, axes...), t.backend)
}

// T is a shortcut for 2D transpose (swaps rows and columns).
// Panics if the tensor is not 2D.
func (t *Tensor[T, B]) T() *Tensor[T, B] {
	if len(t.Shape()) != 2 {
		panic("T() only works for 2D tensors")
	}
	return t.Transpose(1, 0)
}

// MulScalar multiplies each element of the tensor by a scalar value.
func (t *Tensor[T, B]) MulScalar(scalar T) *Tensor[T, B] {
	return New[T, B](t.backend.MulScalar(t.raw, scalar), t.backend)
}

// AddScalar adds a scalar value to each element of the tensor.
func (t *Tensor[T, B]) AddScalar(scalar T) *Tensor[T, B] {
	return New[T, B](t.backend.AddScalar(t.raw, scalar), t.backend)
}

// SubScalar subtracts a scalar value from each element of the tensor.
func (t *Tensor[T, B]) SubScalar(scalar T) *Tensor[T, B] {
	return New[T, B](t.backend.SubScalar(t.raw, scalar), t.backend)
}

// DivScalar divides each element of the tensor by a scalar value.
func (t *Tensor[T, B]) DivScalar(scalar T) *Tensor[T, B] {
	return New[T, B](t.backend.DivScalar(t.raw, scalar), t.backend)
}

// Exp computes the exponential (e^x) of each element.
func (t *Tensor[T, B]) Exp() *Tensor[T, B] {
	return New[T, B](t.backend.Exp(t.raw), t.backend)
}

// Sqrt computes the square root of each element.
func (t *Tensor[T, B]) Sqrt() *Tensor[T, B] {
	return New[T, B](t.backend.Sqrt(t.raw), t.backend)
}

// Sin computes the sine of each element (input in radians).
func (t *Tensor[T, B]) Sin() *Tensor[T, B] {
	return New[T, B](t.backend.Sin(t.raw), t.backend)
}

// Cos computes the cosine of each element (input in radians).
func (t *Tensor[T, B]) Cos() *Tensor[T, B] {
	return New[T, B](t.backend.Cos(t.raw), t.backend)
}

// Tanh computes the hyperbolic tangent of each element.
func (t *Tensor[T, B]) Tanh() *Tensor[T, B] {
	return New[T, B](t.backend.Tanh(t.raw), t.backend)
}

// Pow raises each element to the power p.
func (t *Tensor[T, B]) Pow(p float64) *Tensor[T, B] {
	return New[T, B](t.backend.Pow(t.raw, p), t.backend)
}

// Sum reduces the tensor to its total sum, shape [1].
func (t *Tensor[T, B]) Sum() *Tensor[T, B] {
	return New[T, B](t.backend.Sum(t.raw), t.backend)
}

// Mean reduces the tensor to its mean value, shape [1].
//
// Residual losses are built as residual.Mul(residual).Mean() so the whole
// reduction stays on the gradient tape.
func (t *Tensor[T, B]) Mean() *Tensor[T, B] {
	return New[T, B](t.backend.Mean(t.raw), t.backend)
}

// SumDim sums along the given dimension.
func (t *Tensor[T, B]) SumDim(dim int, keepDim bool) *Tensor[T, B] {
	return New[T, B](t.backend.SumDim(t.raw, dim, keepDim), t.backend)
}

// MeanDim averages along the given dimension.
func (t *Tensor[T, B]) MeanDim(dim int, keepDim bool) *Tensor[T, B] {
	return New[T, B](t.backend.MeanDim(t.raw, dim, keepDim), t.backend)
}

// Cat concatenates tensors along the given dimension.
// All tensors must share shape except in dim, and use the same backend.
func Cat[T DType, B Backend](tensors []*Tensor[T, B], dim int) *Tensor[T, B] {
	if len(tensors) == 0 {
		panic("Cat: empty tensor list")
	}
	raws := make([]*RawTensor, len(tensors))
	for i, t := range tensors {
		raws[i] = t.raw
	}
	b := tensors[0].backend
	return New[T, B](b.Cat(raws, dim), b)
}
