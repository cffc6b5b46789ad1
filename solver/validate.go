package solver

import (
	"fmt"

	"github.com/physgo-ml/physgo/internal/nn"
	"github.com/physgo-ml/physgo/internal/tensor"
	"github.com/physgo-ml/physgo/problem/space"
)

// Validation holds the error of a model against reference values on a
// held-out point set.
type Validation struct {
	MaxAbsError  float32
	MeanAbsError float32
}

// Validate evaluates the model on the given points and compares the scalar
// output against the reference values, one per point.
func Validate[B tensor.Backend](model nn.Module[B], points *space.Points, reference []float32, backend B) Validation {
	if points.Len() != len(reference) {
		panic(fmt.Sprintf("solver: %d points but %d reference values", points.Len(), len(reference)))
	}

	data := make([]float32, len(points.Data()))
	copy(data, points.Data())
	input, err := tensor.FromSlice(data, tensor.Shape{points.Len(), points.Dim()}, backend)
	if err != nil {
		panic(err)
	}

	out := model.Forward(input).Data()
	var v Validation
	for i, ref := range reference {
		e := out[i] - ref
		if e < 0 {
			e = -e
		}
		if e > v.MaxAbsError {
			v.MaxAbsError = e
		}
		v.MeanAbsError += e
	}
	v.MeanAbsError /= float32(len(reference))
	return v
}
