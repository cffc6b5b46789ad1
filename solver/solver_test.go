package solver_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/physgo-ml/physgo/internal/autodiff"
	"github.com/physgo-ml/physgo/internal/backend/cpu"
	"github.com/physgo-ml/physgo/internal/nn"
	"github.com/physgo-ml/physgo/internal/optim"
	"github.com/physgo-ml/physgo/internal/tensor"
	"github.com/physgo-ml/physgo/problem/condition"
	"github.com/physgo-ml/physgo/problem/domain"
	"github.com/physgo-ml/physgo/problem/sampler"
	"github.com/physgo-ml/physgo/problem/space"
	"github.com/physgo-ml/physgo/solver"
)

type adBackend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

// fitProblem asks a small network to match the constant 1 on the unit
// square, the simplest possible training target.
func fitProblem(b adBackend) (*nn.FCN[adBackend], []*condition.Condition[adBackend]) {
	model := nn.NewFCN(b, 2, 1, 8)
	omega := domain.UnitSquare(space.R2("x"))

	fit := condition.New[adBackend]("fit",
		sampler.Static(sampler.NewGrid(omega, 64)),
		func(in condition.Input[adBackend]) *tensor.Tensor[float32, adBackend] {
			return in.Model.Forward(in.Points).SubScalar(1)
		}, 1)

	return model, []*condition.Condition[adBackend]{fit}
}

func TestTrainReducesLoss(t *testing.T) {
	b := autodiff.New(cpu.New())
	model, conds := fitProblem(b)
	s := solver.New[adBackend](model, conds, b)

	before := s.Loss()
	opt := optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: 0.01})
	final, err := s.Train(context.Background(), opt, solver.TrainConfig{MaxSteps: 200})
	require.NoError(t, err)

	assert.Less(t, final, before/10, "training should reduce the loss")
	assert.NotEmpty(t, s.RunID())
}

func TestTrainWithClosureStepper(t *testing.T) {
	b := autodiff.New(cpu.New())
	model, conds := fitProblem(b)
	s := solver.New[adBackend](model, conds, b)

	// Warm start so the quasi-Newton stage behaves like stage two of a run.
	adam := optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: 0.01})
	_, err := s.Train(context.Background(), adam, solver.TrainConfig{MaxSteps: 50})
	require.NoError(t, err)
	warm := s.Loss()

	lbfgs := optim.NewLBFGS(model.Parameters(), optim.LBFGSConfig{LR: 0.5})
	final, err := s.Train(context.Background(), lbfgs, solver.TrainConfig{MaxSteps: 30})
	require.NoError(t, err)

	assert.LessOrEqual(t, final, warm*1.01, "quasi-Newton stage should not regress")
}

func TestTrainHonorsCancellation(t *testing.T) {
	b := autodiff.New(cpu.New())
	model, conds := fitProblem(b)
	s := solver.New[adBackend](model, conds, b)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opt := optim.NewAdam(model.Parameters(), optim.AdamConfig{})
	_, err := s.Train(ctx, opt, solver.TrainConfig{MaxSteps: 10})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTrainRejectsBadConfig(t *testing.T) {
	b := autodiff.New(cpu.New())
	model, conds := fitProblem(b)
	s := solver.New[adBackend](model, conds, b)

	opt := optim.NewAdam(model.Parameters(), optim.AdamConfig{})
	_, err := s.Train(context.Background(), opt, solver.TrainConfig{})
	assert.Error(t, err)
}

func TestTrainWritesCheckpoint(t *testing.T) {
	b := autodiff.New(cpu.New())
	model, conds := fitProblem(b)
	s := solver.New[adBackend](model, conds, b)

	path := filepath.Join(t.TempDir(), "ckpt.phg")
	opt := optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: 0.01})
	_, err := s.Train(context.Background(), opt, solver.TrainConfig{
		MaxSteps:       5,
		CheckpointPath: path,
	})
	require.NoError(t, err)

	restored := nn.NewFCN(b, 2, 1, 8)
	ckpt, err := nn.LoadCheckpoint(path, restored)
	require.NoError(t, err)
	assert.Equal(t, s.RunID(), ckpt.RunID)
	assert.Equal(t, 5, ckpt.Step)
}

func TestValidate(t *testing.T) {
	b := autodiff.New(cpu.New())
	model := constantOne(b)

	omega := domain.UnitSquare(space.R2("x"))
	pts := omega.SampleGrid(16)
	reference := make([]float32, pts.Len())
	for i := range reference {
		reference[i] = 1
	}

	v := solver.Validate[adBackend](model, pts, reference, b)
	assert.InDelta(t, 0, v.MaxAbsError, 1e-6)
	assert.InDelta(t, 0, v.MeanAbsError, 1e-6)

	reference[0] = 0 // introduce one unit of error
	v = solver.Validate[adBackend](model, pts, reference, b)
	assert.InDelta(t, 1, v.MaxAbsError, 1e-6)
	assert.InDelta(t, 1.0/16, v.MeanAbsError, 1e-6)
}

// constantOne is a linear layer pinned to output exactly 1.
func constantOne(b adBackend) *nn.Linear[adBackend] {
	layer := nn.NewLinear(2, 1, b)
	w := layer.Weight().Tensor().Raw().AsFloat32()
	for i := range w {
		w[i] = 0
	}
	layer.Bias().Tensor().Raw().AsFloat32()[0] = 1
	return layer
}
