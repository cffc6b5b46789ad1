// Package operators provides differential operators over networks that
// support jet propagation.
//
// All operators evaluate the network once per input direction with a
// second order jet and assemble the result from the returned value,
// directional derivative and second directional derivative. No operator
// mutates the input points. Because the jets are built from backend
// operations, computing an operator under a recording backend yields a
// result whose gradient with respect to the network parameters is exact.
package operators

import (
	"fmt"

	"github.com/physgo-ml/physgo/internal/nn"
	"github.com/physgo-ml/physgo/internal/tensor"
)

// direction builds a constant b x d batch whose rows are all scale times
// the unit vector along dim.
func direction[B tensor.Backend](backend B, batch, d, dim int, scale float32) *tensor.Tensor[float32, B] {
	data := make([]float32, batch*d)
	for i := 0; i < batch; i++ {
		data[i*d+dim] = scale
	}
	t, err := tensor.FromSlice(data, tensor.Shape{batch, d}, backend)
	if err != nil {
		panic(err)
	}
	return t
}

// jet evaluates the model with a second order jet along the unit direction
// dim and returns (value, directional derivative, second directional
// derivative), each of shape b x out.
func jet[B tensor.Backend](model nn.TaylorModule[B], x *tensor.Tensor[float32, B], dim int) (*tensor.Tensor[float32, B], *tensor.Tensor[float32, B], *tensor.Tensor[float32, B]) {
	shape := x.Shape()
	d := direction(x.Backend(), shape[0], shape[1], dim, 1)
	s := tensor.Zeros[float32](shape.Clone(), x.Backend())
	return model.ForwardTaylor(x, d, s)
}

// jetAlong is like jet but along an arbitrary constant direction.
func jetAlong[B tensor.Backend](model nn.TaylorModule[B], x, dir *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], *tensor.Tensor[float32, B], *tensor.Tensor[float32, B]) {
	s := tensor.Zeros[float32](x.Shape().Clone(), x.Backend())
	return model.ForwardTaylor(x, dir, s)
}

// column extracts column i of a b x d tensor as b x 1 through a matmul with
// a constant selection matrix, keeping the extraction on the tape.
func column[B tensor.Backend](t *tensor.Tensor[float32, B], i int) *tensor.Tensor[float32, B] {
	d := t.Shape()[1]
	sel := make([]float32, d)
	sel[i] = 1
	m, err := tensor.FromSlice(sel, tensor.Shape{d, 1}, t.Backend())
	if err != nil {
		panic(err)
	}
	return t.MatMul(m)
}

func requireScalarOutput[B tensor.Backend](out *tensor.Tensor[float32, B], op string) {
	if out.Shape()[1] != 1 {
		panic(fmt.Sprintf("operators: %s needs a scalar model output, got width %d", op, out.Shape()[1]))
	}
}

// Grad returns the gradient of a scalar-output model at each point,
// as a b x d matrix.
func Grad[B tensor.Backend](model nn.TaylorModule[B], x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	d := x.Shape()[1]
	cols := make([]*tensor.Tensor[float32, B], d)
	for i := 0; i < d; i++ {
		_, der, _ := jet(model, x, i)
		requireScalarOutput(der, "Grad")
		cols[i] = der
	}
	if d == 1 {
		return cols[0]
	}
	return tensor.Cat(cols, 1)
}

// Laplacian returns the sum of unmixed second derivatives of a
// scalar-output model at each point, as a b x 1 column.
func Laplacian[B tensor.Backend](model nn.TaylorModule[B], x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	d := x.Shape()[1]
	var acc *tensor.Tensor[float32, B]
	for i := 0; i < d; i++ {
		_, _, sec := jet(model, x, i)
		requireScalarOutput(sec, "Laplacian")
		if acc == nil {
			acc = sec
		} else {
			acc = acc.Add(sec)
		}
	}
	return acc
}

// Div returns the divergence of a model whose output width equals the
// input dimension, as a b x 1 column.
func Div[B tensor.Backend](model nn.TaylorModule[B], x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	d := x.Shape()[1]
	var acc *tensor.Tensor[float32, B]
	for i := 0; i < d; i++ {
		_, der, _ := jet(model, x, i)
		if der.Shape()[1] != d {
			panic(fmt.Sprintf("operators: Div needs output width %d, got %d", d, der.Shape()[1]))
		}
		c := column(der, i)
		if acc == nil {
			acc = c
		} else {
			acc = acc.Add(c)
		}
	}
	return acc
}

// NormalDerivative returns the derivative of a scalar-output model along
// the given unit normals, as a b x 1 column. The normals tensor must have
// the same shape as x.
func NormalDerivative[B tensor.Backend](model nn.TaylorModule[B], x, normals *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if !x.Shape().Equal(normals.Shape()) {
		panic(fmt.Sprintf("operators: normals shape %v does not match points shape %v", normals.Shape(), x.Shape()))
	}
	_, der, _ := jetAlong(model, x, normals)
	requireScalarOutput(der, "NormalDerivative")
	return der
}

// Partial returns a partial derivative of a scalar-output model as a
// b x 1 column. One dim gives a first derivative, two equal dims an
// unmixed second derivative, and two distinct dims a mixed second
// derivative computed from jets along e_i, e_j and e_i+e_j.
func Partial[B tensor.Backend](model nn.TaylorModule[B], x *tensor.Tensor[float32, B], dims ...int) *tensor.Tensor[float32, B] {
	switch len(dims) {
	case 1:
		_, der, _ := jet(model, x, dims[0])
		requireScalarOutput(der, "Partial")
		return der
	case 2:
		i, j := dims[0], dims[1]
		if i == j {
			_, _, sec := jet(model, x, i)
			requireScalarOutput(sec, "Partial")
			return sec
		}
		// For direction v = e_i + e_j the second directional derivative
		// is u_ii + 2*u_ij + u_jj.
		shape := x.Shape()
		di := direction(x.Backend(), shape[0], shape[1], i, 1)
		dj := direction(x.Backend(), shape[0], shape[1], j, 1)
		_, _, secMix := jetAlong(model, x, di.Add(dj))
		_, _, secI := jet(model, x, i)
		_, _, secJ := jet(model, x, j)
		requireScalarOutput(secMix, "Partial")
		return secMix.Sub(secI).Sub(secJ).MulScalar(0.5)
	default:
		panic(fmt.Sprintf("operators: Partial supports order 1 or 2, got %d dims", len(dims)))
	}
}
