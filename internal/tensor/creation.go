package tensor

import (
	"math"
	"math/rand"
)

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	backend := cpu.New()
//	t := tensor.Zeros[float32](Shape{3, 4}, backend)
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy), b.Device())
	if err != nil {
		panic(err) // Shape validation should prevent this
	}

	// Data is already zero-initialized by make()
	return New[T, B](raw, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return Full[T, B](shape, T(1), b)
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	t := tensor.Full[float32](Shape{3, 3}, 3.14, backend)
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Randn creates a tensor with random values from a normal distribution (mean=0, std=1).
// Uses the Box-Muller transform. Only works with float types.
// Note: math/rand is intentional here; initialization is statistical, not cryptographic.
//
// Example:
//
//	t := tensor.Randn[float32](Shape{100, 2}, backend)
func Randn[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()

	var dummy T
	switch any(dummy).(type) {
	case float32, float64:
		for i := 0; i < len(data); i += 2 {
			u1 := rand.Float64() //nolint:gosec // G404: statistical initialization
			u2 := rand.Float64() //nolint:gosec // G404: statistical initialization
			r := math.Sqrt(-2.0 * math.Log(u1))
			data[i] = T(r * math.Cos(2.0*math.Pi*u2))
			if i+1 < len(data) {
				data[i+1] = T(r * math.Sin(2.0*math.Pi*u2))
			}
		}
	default:
		panic("Randn only supports float32 and float64 types")
	}
	return t
}

// Rand creates a tensor with random values uniformly distributed in [0, 1).
// Only works with float types.
func Rand[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()

	var dummy T
	switch any(dummy).(type) {
	case float32, float64:
		for i := range data {
			data[i] = T(rand.Float64()) //nolint:gosec // G404: statistical sampling
		}
	default:
		panic("Rand only supports float32 and float64 types")
	}
	return t
}

// Linspace creates a 1D tensor with n evenly spaced values in [start, stop].
// n must be at least 2 so both endpoints are included.
//
// Example:
//
//	t := tensor.Linspace[float64](0, 1, 50, backend) // Shape: [50]
func Linspace[T DType, B Backend](start, stop T, n int, b B) *Tensor[T, B] {
	if n < 2 {
		panic("Linspace requires n >= 2")
	}

	t := Zeros[T, B](Shape{n}, b)
	data := t.Data()
	step := (float64(stop) - float64(start)) / float64(n-1)
	for i := range data {
		data[i] = T(float64(start) + float64(i)*step)
	}
	data[n-1] = stop // Exact endpoint, avoid accumulation error
	return t
}
