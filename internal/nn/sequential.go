package nn

import (
	"fmt"

	"github.com/physgo-ml/physgo/internal/tensor"
)

// Sequential chains modules, feeding each module's output into the next.
type Sequential[B tensor.Backend] struct {
	modules []Module[B]
}

// NewSequential creates a sequential container from the given modules.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return &Sequential[B]{modules: modules}
}

// Forward runs the input through every module in order.
func (s *Sequential[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	x := input
	for _, m := range s.modules {
		x = m.Forward(x)
	}
	return x
}

// ForwardTaylor chains jet propagation through every module.
// Panics if any contained module cannot propagate jets.
func (s *Sequential[B]) ForwardTaylor(v, d, sec *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], *tensor.Tensor[float32, B], *tensor.Tensor[float32, B]) {
	for _, m := range s.modules {
		tm, ok := m.(TaylorModule[B])
		if !ok {
			panic(fmt.Sprintf("Sequential.ForwardTaylor: module %T does not support jet propagation", m))
		}
		v, d, sec = tm.ForwardTaylor(v, d, sec)
	}
	return v, d, sec
}

// Parameters returns the parameters of all contained modules.
func (s *Sequential[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	for _, m := range s.modules {
		params = append(params, m.Parameters()...)
	}
	return params
}

// Modules returns the contained modules in order.
func (s *Sequential[B]) Modules() []Module[B] {
	return s.modules
}
