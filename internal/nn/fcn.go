package nn

import (
	"fmt"

	"github.com/physgo-ml/physgo/internal/tensor"
)

// DefaultHiddenWidths is the hidden layer layout used when none is given.
var DefaultHiddenWidths = []int{20, 20, 20, 20}

// FCN is a fully connected network with tanh activations between hidden
// layers. The output layer is linear.
type FCN[B tensor.Backend] struct {
	layers []*Linear[B]
	acts   []*Tanh[B]
	inDim  int
	outDim int
}

// NewFCN creates a fully connected network mapping inDim inputs to outDim
// outputs through the given hidden widths. Passing no widths uses
// DefaultHiddenWidths.
func NewFCN[B tensor.Backend](backend B, inDim, outDim int, hiddenWidths ...int) *FCN[B] {
	if len(hiddenWidths) == 0 {
		hiddenWidths = DefaultHiddenWidths
	}
	dims := make([]int, 0, len(hiddenWidths)+2)
	dims = append(dims, inDim)
	dims = append(dims, hiddenWidths...)
	dims = append(dims, outDim)

	f := &FCN[B]{inDim: inDim, outDim: outDim}
	for i := 0; i+1 < len(dims); i++ {
		f.layers = append(f.layers, NewLinear(dims[i], dims[i+1], backend))
		if i+2 < len(dims) {
			f.acts = append(f.acts, NewTanh[B]())
		}
	}
	return f
}

// Forward runs a batch of points through the network.
func (f *FCN[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	x := input
	for i, layer := range f.layers {
		x = layer.Forward(x)
		if i < len(f.acts) {
			x = f.acts[i].Forward(x)
		}
	}
	return x
}

// ForwardTaylor propagates a second order jet through the network.
func (f *FCN[B]) ForwardTaylor(v, d, s *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], *tensor.Tensor[float32, B], *tensor.Tensor[float32, B]) {
	for i, layer := range f.layers {
		v, d, s = layer.ForwardTaylor(v, d, s)
		if i < len(f.acts) {
			v, d, s = f.acts[i].ForwardTaylor(v, d, s)
		}
	}
	return v, d, s
}

// Parameters returns the weights and biases of all layers.
func (f *FCN[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	for _, layer := range f.layers {
		params = append(params, layer.Parameters()...)
	}
	return params
}

// InDim returns the input dimension.
func (f *FCN[B]) InDim() int { return f.inDim }

// OutDim returns the output dimension.
func (f *FCN[B]) OutDim() int { return f.outDim }

// NumLayers returns the number of linear layers.
func (f *FCN[B]) NumLayers() int { return len(f.layers) }

// StateDict returns all parameters keyed by layer index.
func (f *FCN[B]) StateDict() map[string]*tensor.RawTensor {
	state := make(map[string]*tensor.RawTensor)
	for i, layer := range f.layers {
		for name, raw := range layer.StateDict() {
			state[fmt.Sprintf("fc%d.%s", i, name)] = raw
		}
	}
	return state
}

// LoadStateDict restores all parameters from a state dict produced by
// StateDict on a network of the same layout.
func (f *FCN[B]) LoadStateDict(state map[string]*tensor.RawTensor) error {
	for i, layer := range f.layers {
		sub := make(map[string]*tensor.RawTensor)
		prefix := fmt.Sprintf("fc%d.", i)
		for name, raw := range state {
			if len(name) > len(prefix) && name[:len(prefix)] == prefix {
				sub[name[len(prefix):]] = raw
			}
		}
		if err := layer.LoadStateDict(sub); err != nil {
			return fmt.Errorf("layer %d: %w", i, err)
		}
	}
	return nil
}
