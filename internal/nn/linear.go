package nn

import (
	"fmt"

	"github.com/physgo-ml/physgo/internal/tensor"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ Wᵀ + b
// where:
//   - x is the input tensor with shape [batch, in_features]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias vector with shape [out_features]
//
// Weights use Xavier/Glorot initialization, biases start at zero.
type Linear[B tensor.Backend] struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter[B] // [out_features, in_features]
	bias        *Parameter[B] // [out_features]
	backend     B
}

// NewLinear creates a new Linear layer.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	weightShape := tensor.Shape{outFeatures, inFeatures}
	weight := NewParameter("weight", Xavier(inFeatures, outFeatures, weightShape, backend))
	bias := NewParameter("bias", Zeros(tensor.Shape{outFeatures}, backend))

	return &Linear[B]{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      weight,
		bias:        bias,
		backend:     backend,
	}
}

// Forward computes y = x @ Wᵀ + b.
//
// Input shape: [batch, in_features], output shape: [batch, out_features].
func (l *Linear[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	l.checkInput(input)

	// [batch, in] @ [in, out] = [batch, out]
	output := input.MatMul(l.weight.Tensor().T())

	// Reshape bias to [1, out] for broadcasting across the batch.
	b := l.bias.Tensor().Reshape(1, l.outFeatures)
	return output.Add(b)
}

// ForwardTaylor propagates a second-order jet through the affine map.
//
// The map is linear in x, so both derivative streams pass through the same
// weight matrix and the bias touches only the value stream:
//
//	val = v @ Wᵀ + b
//	der = d @ Wᵀ
//	sec = s @ Wᵀ
func (l *Linear[B]) ForwardTaylor(v, d, s *tensor.Tensor[float32, B]) (val, der, sec *tensor.Tensor[float32, B]) {
	l.checkInput(v)

	wT := l.weight.Tensor().T()
	b := l.bias.Tensor().Reshape(1, l.outFeatures)

	val = v.MatMul(wT).Add(b)
	der = d.MatMul(wT)
	sec = s.MatMul(wT)
	return val, der, sec
}

func (l *Linear[B]) checkInput(input *tensor.Tensor[float32, B]) {
	shape := input.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("Linear.Forward: expected 2D input [batch, features], got shape %v", shape))
	}
	if shape[1] != l.inFeatures {
		panic(fmt.Sprintf("Linear.Forward: expected input with %d features, got %d", l.inFeatures, shape[1]))
	}
}

// Parameters returns the trainable parameters [weight, bias].
func (l *Linear[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{l.weight, l.bias}
}

// Weight returns the weight parameter.
func (l *Linear[B]) Weight() *Parameter[B] {
	return l.weight
}

// Bias returns the bias parameter.
func (l *Linear[B]) Bias() *Parameter[B] {
	return l.bias
}

// InFeatures returns the number of input features.
func (l *Linear[B]) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear[B]) OutFeatures() int {
	return l.outFeatures
}

// StateDict returns a map of parameter names to raw tensors.
func (l *Linear[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{
		"weight": l.weight.Tensor().Raw(),
		"bias":   l.bias.Tensor().Raw(),
	}
}

// LoadStateDict loads parameters from a state dictionary.
func (l *Linear[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	weightRaw, ok := stateDict["weight"]
	if !ok {
		return fmt.Errorf("missing weight in state dict")
	}
	expectedWeight := tensor.Shape{l.outFeatures, l.inFeatures}
	if !weightRaw.Shape().Equal(expectedWeight) {
		return fmt.Errorf("weight shape mismatch: expected %v, got %v", expectedWeight, weightRaw.Shape())
	}
	copy(l.weight.Tensor().Data(), weightRaw.AsFloat32())

	biasRaw, ok := stateDict["bias"]
	if !ok {
		return fmt.Errorf("missing bias in state dict")
	}
	expectedBias := tensor.Shape{l.outFeatures}
	if !biasRaw.Shape().Equal(expectedBias) {
		return fmt.Errorf("bias shape mismatch: expected %v, got %v", expectedBias, biasRaw.Shape())
	}
	copy(l.bias.Tensor().Data(), biasRaw.AsFloat32())

	return nil
}
