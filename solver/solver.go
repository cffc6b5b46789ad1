// Package solver drives the training of physics-informed networks.
//
// A Solver owns a model, a set of conditions and a recording backend. Each
// training step clears the gradient tape, evaluates all condition losses,
// runs one backward pass and hands the gradients to the optimizer. LBFGS
// and other ClosureStepper optimizers instead receive a closure and call it
// as often as their line search requires.
package solver

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/physgo-ml/physgo/internal/autodiff"
	"github.com/physgo-ml/physgo/internal/nn"
	"github.com/physgo-ml/physgo/internal/optim"
	"github.com/physgo-ml/physgo/internal/tensor"
	"github.com/physgo-ml/physgo/problem/condition"
)

// TrainConfig controls one Train call.
type TrainConfig struct {
	// MaxSteps is the number of optimizer steps to run.
	MaxSteps int

	// LogEvery emits a progress line every that many steps. Zero disables
	// periodic logging; the final step is always logged.
	LogEvery int

	// CheckpointPath, when set and the model is stateful, receives a
	// checkpoint every CheckpointEvery steps and at the end of training.
	CheckpointPath  string
	CheckpointEvery int
}

// Solver trains a model against a set of conditions.
type Solver[B autodiff.BackwardCapable] struct {
	model      nn.TaylorModule[B]
	conditions []*condition.Condition[B]
	backend    B
	runID      string

	lastPerCondition []float32
}

// New creates a solver. The backend must be a recording backend so that
// condition losses can be differentiated.
func New[B autodiff.BackwardCapable](model nn.TaylorModule[B], conditions []*condition.Condition[B], backend B) *Solver[B] {
	if len(conditions) == 0 {
		panic("solver: no conditions")
	}
	return &Solver[B]{
		model:      model,
		conditions: conditions,
		backend:    backend,
		runID:      uuid.NewString(),
	}
}

// RunID returns the unique identifier of this training run.
func (s *Solver[B]) RunID() string { return s.runID }

// Loss evaluates the current total loss without recording gradients.
func (s *Solver[B]) Loss() float32 {
	tape := s.backend.GetTape()
	tape.Clear()
	loss, _ := s.totalLoss()
	tape.Clear()
	return loss.Item()
}

// totalLoss sums the weighted condition losses on a fresh tape section.
func (s *Solver[B]) totalLoss() (*tensor.Tensor[float32, B], []float32) {
	perCondition := make([]float32, len(s.conditions))
	var total *tensor.Tensor[float32, B]
	for i, c := range s.conditions {
		l := c.Loss(s.model, s.backend)
		perCondition[i] = l.Item()
		if total == nil {
			total = l
		} else {
			total = total.Add(l)
		}
	}
	return total, perCondition
}

// closure re-evaluates the loss and gradients at the current parameters.
func (s *Solver[B]) closure() (float32, map[*tensor.RawTensor]*tensor.RawTensor) {
	tape := s.backend.GetTape()
	tape.Clear()
	tape.StartRecording()
	total, perCondition := s.totalLoss()
	tape.StopRecording()

	grads := autodiff.Backward(total, s.backend)
	tape.Clear()

	s.lastPerCondition = perCondition
	return total.Item(), grads
}

// Train runs the optimization loop and returns the final total loss.
// Cancellation of ctx stops the loop between steps.
func (s *Solver[B]) Train(ctx context.Context, optimizer optim.Optimizer, cfg TrainConfig) (float32, error) {
	if cfg.MaxSteps <= 0 {
		return 0, fmt.Errorf("solver: MaxSteps must be positive, got %d", cfg.MaxSteps)
	}

	stepper, closureDriven := optimizer.(optim.ClosureStepper)

	var loss float32
	for step := 1; step <= cfg.MaxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return loss, fmt.Errorf("solver: run %s stopped at step %d: %w", s.runID, step, err)
		}

		if closureDriven {
			loss = stepper.StepClosure(s.closure)
		} else {
			var grads map[*tensor.RawTensor]*tensor.RawTensor
			loss, grads = s.closure()
			optimizer.Step(grads)
		}
		optimizer.ZeroGrad()

		if s.shouldLog(step, cfg) {
			log.Printf("run %s step %d/%d loss %.6e%s",
				s.runID, step, cfg.MaxSteps, loss, s.formatPerCondition())
		}
		if err := s.maybeCheckpoint(step, loss, cfg); err != nil {
			return loss, err
		}
	}
	return loss, nil
}

func (s *Solver[B]) shouldLog(step int, cfg TrainConfig) bool {
	if step == cfg.MaxSteps {
		return true
	}
	return cfg.LogEvery > 0 && step%cfg.LogEvery == 0
}

func (s *Solver[B]) formatPerCondition() string {
	var sb strings.Builder
	for i, c := range s.conditions {
		fmt.Fprintf(&sb, " %s %.6e", c.Name(), s.lastPerCondition[i])
	}
	return sb.String()
}

func (s *Solver[B]) maybeCheckpoint(step int, loss float32, cfg TrainConfig) error {
	if cfg.CheckpointPath == "" {
		return nil
	}
	atEnd := step == cfg.MaxSteps
	periodic := cfg.CheckpointEvery > 0 && step%cfg.CheckpointEvery == 0
	if !atEnd && !periodic {
		return nil
	}
	stateful, ok := any(s.model).(nn.StatefulModule[B])
	if !ok {
		return nil
	}
	if err := nn.SaveCheckpoint(cfg.CheckpointPath, stateful, s.runID, step, loss); err != nil {
		return fmt.Errorf("solver: checkpoint at step %d: %w", step, err)
	}
	return nil
}
