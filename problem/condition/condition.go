// Package condition ties a sampler, a residual and a weight into one
// training condition. The solver minimizes the weighted sum of
// mean-squared residuals over all conditions.
package condition

import (
	"fmt"

	"github.com/physgo-ml/physgo/internal/nn"
	"github.com/physgo-ml/physgo/internal/tensor"
	"github.com/physgo-ml/physgo/problem/sampler"
	"github.com/physgo-ml/physgo/problem/space"
)

// Input is everything a residual may need at one batch of points.
type Input[B tensor.Backend] struct {
	// Model is the network being trained.
	Model nn.TaylorModule[B]

	// Points is the joined b x dim batch the residual is evaluated at.
	Points *tensor.Tensor[float32, B]

	// Vars holds the per-variable column blocks of Points.
	Vars map[string]*tensor.Tensor[float32, B]

	// Normals holds outward unit normals when the points come from a
	// boundary sampler, nil otherwise.
	Normals *tensor.Tensor[float32, B]
}

// Residual maps a batch of points to a per-point residual column. The
// training goal is to drive it to zero.
type Residual[B tensor.Backend] func(Input[B]) *tensor.Tensor[float32, B]

// Condition is one named term of the training objective.
type Condition[B tensor.Backend] struct {
	name     string
	sampler  sampler.PointSampler
	residual Residual[B]
	weight   float32
}

// New creates a condition. Weight scales this condition's loss against the
// others; a zero weight is rejected since the condition would be inert.
func New[B tensor.Backend](name string, s sampler.PointSampler, residual Residual[B], weight float32) *Condition[B] {
	if weight == 0 {
		panic(fmt.Sprintf("condition: %q has zero weight", name))
	}
	return &Condition[B]{name: name, sampler: s, residual: residual, weight: weight}
}

// Name returns the condition name used in training logs.
func (c *Condition[B]) Name() string { return c.name }

// Weight returns the loss weight.
func (c *Condition[B]) Weight() float32 { return c.weight }

// Sampler returns the point sampler.
func (c *Condition[B]) Sampler() sampler.PointSampler { return c.sampler }

// Loss draws a batch from the sampler, evaluates the residual and returns
// weight * mean(residual^2) as a single-element tensor. All tensor work
// goes through the backend, so a recording backend captures the full
// computation.
func (c *Condition[B]) Loss(model nn.TaylorModule[B], backend B) *tensor.Tensor[float32, B] {
	pts := c.sampler.Sample()

	input := Input[B]{
		Model:  model,
		Points: toTensor(pts, backend),
		Vars:   make(map[string]*tensor.Tensor[float32, B]),
	}
	for name, part := range pts.Split() {
		input.Vars[name] = toTensor(part, backend)
	}
	if b, ok := sampler.OnBoundary(c.sampler); ok {
		input.Normals = toTensor(b.Normals(pts), backend)
	}

	r := c.residual(input)
	return r.Mul(r).Mean().MulScalar(c.weight)
}

// toTensor copies a point batch into an n x dim tensor on the backend.
func toTensor[B tensor.Backend](pts *space.Points, backend B) *tensor.Tensor[float32, B] {
	data := make([]float32, len(pts.Data()))
	copy(data, pts.Data())
	t, err := tensor.FromSlice(data, tensor.Shape{pts.Len(), pts.Dim()}, backend)
	if err != nil {
		panic(err)
	}
	return t
}
