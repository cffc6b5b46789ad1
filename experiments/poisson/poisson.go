// Package poisson sets up and trains the Poisson model problem
//
//	Δu = f   on Ω = [0,1]²,   u = g  on ∂Ω
//
// with the manufactured solution u(x1,x2) = sin(π/2·x1)·cos(2π·x2), so the
// trained network can be checked against a known field. Training runs in
// two stages, Adam first and LBFGS to polish.
package poisson

import (
	"context"
	"fmt"
	"math"

	"github.com/physgo-ml/physgo/internal/autodiff"
	"github.com/physgo-ml/physgo/internal/backend/cpu"
	"github.com/physgo-ml/physgo/internal/nn"
	"github.com/physgo-ml/physgo/internal/optim"
	"github.com/physgo-ml/physgo/internal/tensor"
	"github.com/physgo-ml/physgo/operators"
	"github.com/physgo-ml/physgo/plot"
	"github.com/physgo-ml/physgo/problem/condition"
	"github.com/physgo-ml/physgo/problem/domain"
	"github.com/physgo-ml/physgo/problem/sampler"
	"github.com/physgo-ml/physgo/problem/space"
	"github.com/physgo-ml/physgo/solver"
)

// backend is the recording CPU backend the experiment runs on.
type backend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

// Config holds the tunable knobs of the experiment.
type Config struct {
	PDEPoints      int // interior collocation points
	BoundaryPoints int // boundary collocation points

	AdamSteps int
	AdamLR    float32

	LBFGSSteps   int
	LBFGSLR      float32
	LBFGSHistory int
	LBFGSMaxEval int

	HiddenWidths []int

	LogEvery       int
	ValidationGrid int    // validation runs on an n x n grid
	OutDir         string // heatmap output directory, empty disables
	CheckpointPath string // checkpoint file, empty disables
}

// DefaultConfig returns the reference configuration of the experiment.
func DefaultConfig() Config {
	return Config{
		PDEPoints:      10000,
		BoundaryPoints: 2500,
		AdamSteps:      5000,
		AdamLR:         1e-3,
		LBFGSSteps:     200,
		LBFGSLR:        0.05,
		LBFGSHistory:   10,
		LBFGSMaxEval:   5,
		HiddenWidths:   []int{20, 20, 20, 20},
		LogEvery:       500,
		ValidationGrid: 50,
	}
}

// Result summarizes a finished run.
type Result struct {
	RunID      string
	FinalLoss  float32
	Validation solver.Validation
}

// Exact is the manufactured solution u(x1,x2) = sin(π/2·x1)·cos(2π·x2).
func Exact(x1, x2 float64) float64 {
	return math.Sin(math.Pi/2*x1) * math.Cos(2*math.Pi*x2)
}

// Source is the right hand side f with Δu = f for the exact solution,
// f = -17π²/4 · u.
func Source(x1, x2 float64) float64 {
	return -17 * math.Pi * math.Pi / 4 * Exact(x1, x2)
}

// sourceTensor evaluates Source at a batch of points as a b x 1 column.
func sourceTensor(points *tensor.Tensor[float32, backend], b backend) *tensor.Tensor[float32, backend] {
	pts := points.Data()
	n := points.Shape()[0]
	data := make([]float32, n)
	for i := 0; i < n; i++ {
		data[i] = float32(Source(float64(pts[2*i]), float64(pts[2*i+1])))
	}
	t, err := tensor.FromSlice(data, tensor.Shape{n, 1}, b)
	if err != nil {
		panic(err)
	}
	return t
}

// exactTensor evaluates Exact at a batch of points as a b x 1 column.
func exactTensor(points *tensor.Tensor[float32, backend], b backend) *tensor.Tensor[float32, backend] {
	pts := points.Data()
	n := points.Shape()[0]
	data := make([]float32, n)
	for i := 0; i < n; i++ {
		data[i] = float32(Exact(float64(pts[2*i]), float64(pts[2*i+1])))
	}
	t, err := tensor.FromSlice(data, tensor.Shape{n, 1}, b)
	if err != nil {
		panic(err)
	}
	return t
}

// Conditions builds the PDE and boundary conditions of the problem on the
// unit square.
func Conditions(cfg Config, b backend) (*domain.Parallelogram, []*condition.Condition[backend]) {
	x := space.R2("x")
	omega := domain.UnitSquare(x)

	pde := condition.New[backend]("pde",
		sampler.Static(sampler.NewGrid(omega, cfg.PDEPoints)),
		func(in condition.Input[backend]) *tensor.Tensor[float32, backend] {
			lap := operators.Laplacian(in.Model, in.Points)
			return lap.Sub(sourceTensor(in.Points, b))
		}, 1)

	dirichlet := condition.New[backend]("dirichlet",
		sampler.Static(sampler.NewGrid(omega.Boundary(), cfg.BoundaryPoints)),
		func(in condition.Input[backend]) *tensor.Tensor[float32, backend] {
			u := in.Model.Forward(in.Points)
			return u.Sub(exactTensor(in.Points, b))
		}, 10)

	return omega, []*condition.Condition[backend]{pde, dirichlet}
}

// Run executes the full two-stage experiment.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	b := autodiff.New(cpu.New())
	model := nn.NewFCN(b, 2, 1, cfg.HiddenWidths...)
	omega, conds := Conditions(cfg, b)

	s := solver.New(model, conds, b)

	adam := optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: cfg.AdamLR})
	if _, err := s.Train(ctx, adam, solver.TrainConfig{
		MaxSteps:       cfg.AdamSteps,
		LogEvery:       cfg.LogEvery,
		CheckpointPath: cfg.CheckpointPath,
	}); err != nil {
		return nil, err
	}

	lbfgs := optim.NewLBFGS(model.Parameters(), optim.LBFGSConfig{
		LR:      cfg.LBFGSLR,
		History: cfg.LBFGSHistory,
		MaxEval: cfg.LBFGSMaxEval,
	})
	finalLoss, err := s.Train(ctx, lbfgs, solver.TrainConfig{
		MaxSteps:       cfg.LBFGSSteps,
		LogEvery:       cfg.LogEvery / 10,
		CheckpointPath: cfg.CheckpointPath,
	})
	if err != nil {
		return nil, err
	}

	res := &Result{RunID: s.RunID(), FinalLoss: finalLoss}
	res.Validation = validate(cfg, model, omega, b)

	if cfg.OutDir != "" {
		if err := writePlots(cfg, model, b); err != nil {
			return nil, fmt.Errorf("poisson: %w", err)
		}
	}
	return res, nil
}

// validate compares the network to the exact solution on a held-out grid.
func validate(cfg Config, model nn.Module[backend], omega *domain.Parallelogram, b backend) solver.Validation {
	n := cfg.ValidationGrid
	pts := omega.SampleGrid(n * n)
	reference := make([]float32, pts.Len())
	for i := range reference {
		row := pts.Row(i)
		reference[i] = float32(Exact(float64(row[0]), float64(row[1])))
	}
	return solver.Validate(model, pts, reference, b)
}

func writePlots(cfg Config, model nn.Module[backend], b backend) error {
	n := cfg.ValidationGrid
	solution := plot.FieldGrid(model, b, n, n, 0, 1, 0, 1)
	reference := plot.NewGrid(n, n, 0, 1, 0, 1).Fill(Exact)
	return plot.Compare(cfg.OutDir, solution, reference)
}
