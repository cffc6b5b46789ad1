package nn

import (
	"math"
	"math/rand"

	"github.com/physgo-ml/physgo/internal/tensor"
)

// Xavier (Glorot) initialization for weights.
//
// Draws from U(-sqrt(6/(fanIn+fanOut)), sqrt(6/(fanIn+fanOut))), which keeps
// activation variance roughly constant across layers; with tanh activations
// this matters for how quickly residual losses start to fall.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))

	t := tensor.Zeros[float32](shape, backend)
	data := t.Data()
	for i := range data {
		//nolint:gosec // math/rand for weight initialization (not security-critical)
		data[i] = float32((rand.Float64()*2.0 - 1.0) * bound)
	}
	return t
}

// Zeros creates a tensor filled with zeros. Used for bias initialization.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Zeros[float32](shape, backend)
}

// Ones creates a tensor filled with ones.
func Ones[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Ones[float32](shape, backend)
}
