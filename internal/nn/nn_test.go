package nn_test

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/physgo-ml/physgo/internal/autodiff"
	"github.com/physgo-ml/physgo/internal/backend/cpu"
	"github.com/physgo-ml/physgo/internal/nn"
	"github.com/physgo-ml/physgo/internal/tensor"
)

type adBackend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

func newBackend() adBackend {
	return autodiff.New(cpu.New())
}

func TestLinearForwardShape(t *testing.T) {
	b := newBackend()
	layer := nn.NewLinear(3, 5, b)

	x := tensor.Randn[float32](tensor.Shape{4, 3}, b)
	out := layer.Forward(x)

	assert.True(t, out.Shape().Equal(tensor.Shape{4, 5}))
	assert.Len(t, layer.Parameters(), 2)
	assert.Equal(t, 3, layer.InFeatures())
	assert.Equal(t, 5, layer.OutFeatures())
}

func TestLinearForwardValues(t *testing.T) {
	b := newBackend()
	layer := nn.NewLinear(2, 1, b)

	// Overwrite the initialized weights with known values.
	copy(layer.Weight().Tensor().Raw().AsFloat32(), []float32{2, 3})
	copy(layer.Bias().Tensor().Raw().AsFloat32(), []float32{0.5})

	x, err := tensor.FromSlice([]float32{1, 1, 2, -1}, tensor.Shape{2, 2}, b)
	require.NoError(t, err)
	out := layer.Forward(x)

	assert.InDelta(t, 5.5, out.At(0, 0), 1e-5) // 2*1 + 3*1 + 0.5
	assert.InDelta(t, 1.5, out.At(1, 0), 1e-5) // 2*2 - 3 + 0.5
}

func TestLinearRejectsBadInput(t *testing.T) {
	b := newBackend()
	layer := nn.NewLinear(3, 2, b)
	x := tensor.Randn[float32](tensor.Shape{4, 5}, b)

	assert.Panics(t, func() { layer.Forward(x) })
}

func TestSequentialChains(t *testing.T) {
	b := newBackend()
	model := nn.NewSequential[adBackend](
		nn.NewLinear(2, 4, b),
		nn.NewTanh[adBackend](),
		nn.NewLinear(4, 1, b),
	)

	x := tensor.Randn[float32](tensor.Shape{3, 2}, b)
	out := model.Forward(x)

	assert.True(t, out.Shape().Equal(tensor.Shape{3, 1}))
	assert.Len(t, model.Parameters(), 4)
}

func TestFCNDefaultLayout(t *testing.T) {
	b := newBackend()
	model := nn.NewFCN(b, 2, 1)

	assert.Equal(t, 5, model.NumLayers()) // 4 hidden + output
	assert.Equal(t, 2, model.InDim())
	assert.Equal(t, 1, model.OutDim())

	x := tensor.Randn[float32](tensor.Shape{7, 2}, b)
	out := model.Forward(x)
	assert.True(t, out.Shape().Equal(tensor.Shape{7, 1}))
}

// evalAlong evaluates the model on a line x + t*dir and returns the scalar
// output for the single input row.
func evalAlong(b adBackend, model nn.TaylorModule[adBackend], x, dir []float32, t float64) float64 {
	row := make([]float32, len(x))
	for i := range row {
		row[i] = x[i] + float32(t)*dir[i]
	}
	in, err := tensor.FromSlice(row, tensor.Shape{1, len(x)}, b)
	if err != nil {
		panic(err)
	}
	return float64(model.Forward(in).Item())
}

// TestForwardTaylorMatchesFiniteDifferences drives a jet through a small
// network and compares the derivative streams to central differences of
// the plain forward pass.
func TestForwardTaylorMatchesFiniteDifferences(t *testing.T) {
	b := newBackend()
	model := nn.NewFCN(b, 2, 1, 8, 8)

	point := []float32{0.3, -0.6}
	for dim := 0; dim < 2; dim++ {
		dir := []float32{0, 0}
		dir[dim] = 1

		v, err := tensor.FromSlice([]float32{point[0], point[1]}, tensor.Shape{1, 2}, b)
		require.NoError(t, err)
		d, err := tensor.FromSlice(dir, tensor.Shape{1, 2}, b)
		require.NoError(t, err)
		s := tensor.Zeros[float32](tensor.Shape{1, 2}, b)

		val, der, sec := model.ForwardTaylor(v, d, s)

		f0 := evalAlong(b, model, point, dir, 0)
		h := 1e-2
		fp := evalAlong(b, model, point, dir, h)
		fm := evalAlong(b, model, point, dir, -h)

		assert.InDelta(t, f0, float64(val.Item()), 1e-4, "value stream dim %d", dim)
		assert.InDelta(t, (fp-fm)/(2*h), float64(der.Item()), 1e-2, "first derivative dim %d", dim)
		assert.InDelta(t, (fp-2*f0+fm)/(h*h), float64(sec.Item()), 1e-1, "second derivative dim %d", dim)
	}
}

// TestTanhJetExact checks the tanh jet rules against closed forms.
func TestTanhJetExact(t *testing.T) {
	b := newBackend()
	act := nn.NewTanh[adBackend]()

	x := 0.4
	v, err := tensor.FromSlice([]float32{float32(x)}, tensor.Shape{1, 1}, b)
	require.NoError(t, err)
	d := tensor.Ones[float32](tensor.Shape{1, 1}, b)
	s := tensor.Zeros[float32](tensor.Shape{1, 1}, b)

	val, der, sec := act.ForwardTaylor(v, d, s)

	y := math.Tanh(x)
	u := 1 - y*y
	assert.InDelta(t, y, float64(val.Item()), 1e-6)
	assert.InDelta(t, u, float64(der.Item()), 1e-6)
	assert.InDelta(t, -2*y*u, float64(sec.Item()), 1e-5)
}

func TestMSELoss(t *testing.T) {
	b := newBackend()
	loss := nn.NewMSELoss[adBackend]()

	pred, err := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3, 1}, b)
	require.NoError(t, err)
	target, err := tensor.FromSlice([]float32{0, 2, 5}, tensor.Shape{3, 1}, b)
	require.NoError(t, err)

	out := loss.Forward(pred, target)
	assert.InDelta(t, (1.0+0+4)/3, float64(out.Item()), 1e-5)
}

func TestMSELossGradientFlows(t *testing.T) {
	b := newBackend()
	tape := b.Tape()
	tape.Clear()
	tape.StartRecording()

	pred, err := tensor.FromSlice([]float32{2}, tensor.Shape{1, 1}, b)
	require.NoError(t, err)
	target := tensor.Zeros[float32](tensor.Shape{1, 1}, b)

	out := nn.NewMSELoss[adBackend]().Forward(pred, target)
	tape.StopRecording()

	grads := autodiff.Backward(out, b)
	g := grads[pred.Raw()]
	require.NotNil(t, g)
	// d (p-t)^2 / dp = 2(p-t) = 4
	assert.InDelta(t, 4, float64(g.AsFloat32()[0]), 1e-4)
}

func TestParameterZeroGrad(t *testing.T) {
	b := newBackend()
	p := nn.NewParameter("w", tensor.Ones[float32](tensor.Shape{2}, b))

	p.SetGrad(tensor.Ones[float32](tensor.Shape{2}, b))
	require.NotNil(t, p.Grad())
	p.ZeroGrad()
	assert.Nil(t, p.Grad())
}

func TestStateDictRoundTrip(t *testing.T) {
	b := newBackend()
	src := nn.NewFCN(b, 2, 1, 4, 4)
	dst := nn.NewFCN(b, 2, 1, 4, 4)

	require.NoError(t, dst.LoadStateDict(src.StateDict()))

	x := tensor.Randn[float32](tensor.Shape{5, 2}, b)
	want := src.Forward(x).Data()
	got := dst.Forward(x).Data()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-6)
	}
}

func TestCheckpointRoundTrip(t *testing.T) {
	b := newBackend()
	src := nn.NewFCN(b, 2, 1, 4)
	dst := nn.NewFCN(b, 2, 1, 4)

	path := filepath.Join(t.TempDir(), "ckpt.phg")
	require.NoError(t, nn.SaveCheckpoint(path, src, "run-1", 42, 0.125))

	ckpt, err := nn.LoadCheckpoint(path, dst)
	require.NoError(t, err)
	assert.Equal(t, "run-1", ckpt.RunID)
	assert.Equal(t, 42, ckpt.Step)
	assert.InDelta(t, 0.125, ckpt.Loss, 1e-7)

	x := tensor.Randn[float32](tensor.Shape{3, 2}, b)
	want := src.Forward(x).Data()
	got := dst.Forward(x).Data()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-6)
	}
}

func TestLoadStateDictRejectsShapeMismatch(t *testing.T) {
	b := newBackend()
	src := nn.NewFCN(b, 2, 1, 4)
	dst := nn.NewFCN(b, 2, 1, 8)

	assert.Error(t, dst.LoadStateDict(src.StateDict()))
}
