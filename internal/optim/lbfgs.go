package optim

import (
	"gonum.org/v1/gonum/floats"

	"github.com/physgo-ml/physgo/internal/nn"
	"github.com/physgo-ml/physgo/internal/tensor"
)

// LBFGS implements the limited-memory BFGS quasi-Newton method.
//
// The search direction comes from the standard two-loop recursion over the
// last History curvature pairs (s_k, y_k). StepClosure performs an Armijo
// backtracking line search along that direction, re-evaluating the loss
// through the closure up to MaxEval times. Plain Step applies a fixed step
// of length LR and is mainly useful when no closure is available.
//
// All curvature bookkeeping runs in float64 on flattened parameter vectors
// even though the model itself is float32.
type LBFGS[B tensor.Backend] struct {
	params  []*nn.Parameter[B]
	lr      float32
	history int
	maxEval int

	sHist [][]float64
	yHist [][]float64
	rho   []float64

	prevX   []float64
	prevG   []float64
	hasPrev bool
}

// LBFGSConfig holds configuration for the LBFGS optimizer.
type LBFGSConfig struct {
	LR      float32 // initial line search step length (default 1.0)
	History int     // number of stored curvature pairs (default 10)
	MaxEval int     // max closure evaluations per step (default 5)
}

// NewLBFGS creates an LBFGS optimizer over the given parameters.
func NewLBFGS[B tensor.Backend](params []*nn.Parameter[B], config LBFGSConfig) *LBFGS[B] {
	if config.LR == 0 {
		config.LR = 1.0
	}
	if config.History == 0 {
		config.History = 10
	}
	if config.MaxEval == 0 {
		config.MaxEval = 5
	}
	return &LBFGS[B]{
		params:  params,
		lr:      config.LR,
		history: config.History,
		maxEval: config.MaxEval,
	}
}

// numel returns the total number of scalar parameters.
func (l *LBFGS[B]) numel() int {
	n := 0
	for _, p := range l.params {
		n += p.Tensor().Shape().NumElements()
	}
	return n
}

// flatParams copies all parameter values into one float64 vector.
func (l *LBFGS[B]) flatParams() []float64 {
	x := make([]float64, 0, l.numel())
	for _, p := range l.params {
		for _, v := range p.Tensor().Raw().AsFloat32() {
			x = append(x, float64(v))
		}
	}
	return x
}

// setParams writes a flat float64 vector back into the parameters.
func (l *LBFGS[B]) setParams(x []float64) {
	i := 0
	for _, p := range l.params {
		data := p.Tensor().Raw().AsFloat32()
		for j := range data {
			data[j] = float32(x[i])
			i++
		}
	}
}

// flatGrads flattens a gradient map into one float64 vector, using zeros
// for parameters without a gradient.
func (l *LBFGS[B]) flatGrads(grads map[*tensor.RawTensor]*tensor.RawTensor) []float64 {
	g := make([]float64, 0, l.numel())
	for _, p := range l.params {
		grad := getGradient(p, grads)
		if grad == nil {
			g = append(g, make([]float64, p.Tensor().Shape().NumElements())...)
			continue
		}
		for _, v := range grad.AsFloat32() {
			g = append(g, float64(v))
		}
	}
	return g
}

// pushPair records a curvature pair, dropping the oldest beyond History.
// Pairs with non-positive curvature are rejected to keep the implicit
// Hessian approximation positive definite.
func (l *LBFGS[B]) pushPair(s, y []float64) {
	sy := floats.Dot(s, y)
	if sy <= 1e-10 {
		return
	}
	l.sHist = append(l.sHist, s)
	l.yHist = append(l.yHist, y)
	l.rho = append(l.rho, 1.0/sy)
	if len(l.sHist) > l.history {
		l.sHist = l.sHist[1:]
		l.yHist = l.yHist[1:]
		l.rho = l.rho[1:]
	}
}

// direction computes the quasi-Newton descent direction -H·g using the
// two-loop recursion. Falls back to steepest descent when the result is
// not a descent direction.
func (l *LBFGS[B]) direction(g []float64) []float64 {
	q := make([]float64, len(g))
	copy(q, g)

	n := len(l.sHist)
	alpha := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		alpha[i] = l.rho[i] * floats.Dot(l.sHist[i], q)
		floats.AddScaled(q, -alpha[i], l.yHist[i])
	}
	if n > 0 {
		gamma := floats.Dot(l.sHist[n-1], l.yHist[n-1]) / floats.Dot(l.yHist[n-1], l.yHist[n-1])
		floats.Scale(gamma, q)
	}
	for i := 0; i < n; i++ {
		beta := l.rho[i] * floats.Dot(l.yHist[i], q)
		floats.AddScaled(q, alpha[i]-beta, l.sHist[i])
	}

	floats.Scale(-1, q)
	if floats.Dot(q, g) >= 0 {
		l.sHist, l.yHist, l.rho = nil, nil, nil
		for i := range q {
			q[i] = -g[i]
		}
	}
	return q
}

// updateHistory records the curvature pair between the previous accepted
// point and the current one.
func (l *LBFGS[B]) updateHistory(x, g []float64) {
	if l.hasPrev {
		s := make([]float64, len(x))
		floats.SubTo(s, x, l.prevX)
		y := make([]float64, len(g))
		floats.SubTo(y, g, l.prevG)
		l.pushPair(s, y)
	}
	l.prevX = x
	l.prevG = g
	l.hasPrev = true
}

// StepClosure performs one LBFGS step with Armijo backtracking.
// Returns the loss at the start of the step.
func (l *LBFGS[B]) StepClosure(closure Closure) float32 {
	f0, grads := closure()
	x := l.flatParams()
	g := l.flatGrads(grads)
	l.updateHistory(x, g)

	d := l.direction(g)
	gd := floats.Dot(g, d)

	const c1 = 1e-4
	step := float64(l.lr)

	bestF := f0
	bestStep := 0.0

	xTrial := make([]float64, len(x))
	for eval := 0; eval < l.maxEval; eval++ {
		copy(xTrial, x)
		floats.AddScaled(xTrial, step, d)
		l.setParams(xTrial)

		f, _ := closure()
		if float64(f) <= float64(f0)+c1*step*gd {
			return f0
		}
		if f < bestF {
			bestF = f
			bestStep = step
		}
		step *= 0.5
	}

	// No step satisfied the Armijo condition. Keep the best point seen,
	// or stay put if every trial increased the loss.
	copy(xTrial, x)
	floats.AddScaled(xTrial, bestStep, d)
	l.setParams(xTrial)
	return f0
}

// Step applies a fixed-length quasi-Newton step without line search.
func (l *LBFGS[B]) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	x := l.flatParams()
	g := l.flatGrads(grads)
	l.updateHistory(x, g)

	d := l.direction(g)
	xNew := make([]float64, len(x))
	copy(xNew, x)
	floats.AddScaled(xNew, float64(l.lr), d)
	l.setParams(xNew)
}

// ZeroGrad clears gradients for all parameters.
func (l *LBFGS[B]) ZeroGrad() {
	for _, param := range l.params {
		param.ZeroGrad()
	}
}

// GetLR returns the learning rate.
func (l *LBFGS[B]) GetLR() float32 {
	return l.lr
}
