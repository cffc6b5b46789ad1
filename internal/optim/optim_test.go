package optim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/physgo-ml/physgo/internal/backend/cpu"
	"github.com/physgo-ml/physgo/internal/nn"
	"github.com/physgo-ml/physgo/internal/optim"
	"github.com/physgo-ml/physgo/internal/tensor"
)

// quadratic builds a parameter x and helpers for the loss f(x) = sum((x-c)^2)
// whose gradient 2(x-c) is computed by hand.
type quadratic struct {
	param  *nn.Parameter[*cpu.CPUBackend]
	target []float32
	b      *cpu.CPUBackend
}

func newQuadratic(t *testing.T, init, target []float32) *quadratic {
	t.Helper()
	b := cpu.New()
	data := make([]float32, len(init))
	copy(data, init)
	x, err := tensor.FromSlice(data, tensor.Shape{len(init)}, b)
	require.NoError(t, err)
	return &quadratic{
		param:  nn.NewParameter("x", x),
		target: target,
		b:      b,
	}
}

func (q *quadratic) loss() float32 {
	var acc float32
	for i, v := range q.param.Tensor().Data() {
		d := v - q.target[i]
		acc += d * d
	}
	return acc
}

func (q *quadratic) grads() map[*tensor.RawTensor]*tensor.RawTensor {
	g, err := tensor.NewRaw(q.param.Tensor().Shape().Clone(), tensor.Float32, tensor.CPU)
	if err != nil {
		panic(err)
	}
	gv := g.AsFloat32()
	for i, v := range q.param.Tensor().Data() {
		gv[i] = 2 * (v - q.target[i])
	}
	return map[*tensor.RawTensor]*tensor.RawTensor{q.param.Tensor().Raw(): g}
}

func (q *quadratic) params() []*nn.Parameter[*cpu.CPUBackend] {
	return []*nn.Parameter[*cpu.CPUBackend]{q.param}
}

func TestSGDConverges(t *testing.T) {
	q := newQuadratic(t, []float32{5, -3}, []float32{1, 2})
	opt := optim.NewSGD(q.params(), optim.SGDConfig{LR: 0.1})

	for i := 0; i < 100; i++ {
		opt.Step(q.grads())
	}
	assert.Less(t, q.loss(), float32(1e-6))
}

func TestSGDMomentumConverges(t *testing.T) {
	q := newQuadratic(t, []float32{5}, []float32{-1})
	opt := optim.NewSGD(q.params(), optim.SGDConfig{LR: 0.05, Momentum: 0.9})

	for i := 0; i < 200; i++ {
		opt.Step(q.grads())
	}
	assert.Less(t, q.loss(), float32(1e-4))
}

func TestAdamConverges(t *testing.T) {
	q := newQuadratic(t, []float32{5, -3, 0.5}, []float32{1, 2, -2})
	opt := optim.NewAdam(q.params(), optim.AdamConfig{LR: 0.1})

	for i := 0; i < 500; i++ {
		opt.Step(q.grads())
	}
	assert.Less(t, q.loss(), float32(1e-4))
}

func TestAdamDefaults(t *testing.T) {
	q := newQuadratic(t, []float32{1}, []float32{0})
	opt := optim.NewAdam(q.params(), optim.AdamConfig{})
	assert.InDelta(t, 0.001, opt.GetLR(), 1e-9)
}

func TestOptimizersSkipMissingGradients(t *testing.T) {
	q := newQuadratic(t, []float32{5}, []float32{0})
	opt := optim.NewAdam(q.params(), optim.AdamConfig{})

	before := q.param.Tensor().At(0)
	opt.Step(map[*tensor.RawTensor]*tensor.RawTensor{})
	assert.Equal(t, before, q.param.Tensor().At(0))
}

func TestLBFGSStepClosureConverges(t *testing.T) {
	q := newQuadratic(t, []float32{5, -3, 2, 7}, []float32{1, 2, -2, 0})
	opt := optim.NewLBFGS(q.params(), optim.LBFGSConfig{LR: 1, History: 10, MaxEval: 5})

	closure := func() (float32, map[*tensor.RawTensor]*tensor.RawTensor) {
		return q.loss(), q.grads()
	}

	var first float32
	for i := 0; i < 20; i++ {
		l := opt.StepClosure(closure)
		if i == 0 {
			first = l
		}
	}
	assert.Less(t, q.loss(), first/1000)
}

func TestLBFGSFixedStepDescends(t *testing.T) {
	q := newQuadratic(t, []float32{5}, []float32{0})
	opt := optim.NewLBFGS(q.params(), optim.LBFGSConfig{LR: 0.1})

	before := q.loss()
	for i := 0; i < 10; i++ {
		opt.Step(q.grads())
	}
	assert.Less(t, q.loss(), before)
}

func TestZeroGradClearsParameters(t *testing.T) {
	q := newQuadratic(t, []float32{1}, []float32{0})
	opt := optim.NewSGD(q.params(), optim.SGDConfig{})

	q.param.SetGrad(tensor.Ones[float32](tensor.Shape{1}, q.b))
	require.NotNil(t, q.param.Grad())
	opt.ZeroGrad()
	assert.Nil(t, q.param.Grad())
}
