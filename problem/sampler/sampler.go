// Package sampler turns domains into streams of training points.
//
// Samplers are re-drawn every training step unless wrapped in Static, which
// caches the first draw and returns it forever. PINN training typically uses
// static grid samplers for the collocation points and resamples only when
// the problem calls for it.
package sampler

import (
	"github.com/physgo-ml/physgo/problem/domain"
	"github.com/physgo-ml/physgo/problem/space"
)

// PointSampler produces batches of points from a domain.
type PointSampler interface {
	// Sample draws the next batch of points.
	Sample() *space.Points

	// Len returns the number of points per batch.
	Len() int

	// Domain returns the domain being sampled.
	Domain() domain.Domain
}

// GridSampler samples n equidistant points from a domain.
type GridSampler struct {
	domain domain.Domain
	n      int
}

// NewGrid creates a grid sampler drawing n points per batch.
func NewGrid(d domain.Domain, n int) *GridSampler {
	return &GridSampler{domain: d, n: n}
}

func (g *GridSampler) Sample() *space.Points {
	return g.domain.SampleGrid(g.n)
}

func (g *GridSampler) Len() int { return g.n }

func (g *GridSampler) Domain() domain.Domain { return g.domain }

// RandomUniformSampler samples n uniformly distributed points from a domain.
type RandomUniformSampler struct {
	domain domain.Domain
	n      int
}

// NewRandomUniform creates a random uniform sampler drawing n points per batch.
func NewRandomUniform(d domain.Domain, n int) *RandomUniformSampler {
	return &RandomUniformSampler{domain: d, n: n}
}

func (r *RandomUniformSampler) Sample() *space.Points {
	return r.domain.SampleRandomUniform(r.n)
}

func (r *RandomUniformSampler) Len() int { return r.n }

func (r *RandomUniformSampler) Domain() domain.Domain { return r.domain }

// StaticSampler caches the first draw of an inner sampler and returns the
// same points on every subsequent call.
type StaticSampler struct {
	inner  PointSampler
	cached *space.Points
}

// Static wraps a sampler so its points are drawn once and reused.
func Static(inner PointSampler) *StaticSampler {
	return &StaticSampler{inner: inner}
}

func (s *StaticSampler) Sample() *space.Points {
	if s.cached == nil {
		s.cached = s.inner.Sample()
	}
	return s.cached
}

func (s *StaticSampler) Len() int { return s.inner.Len() }

func (s *StaticSampler) Domain() domain.Domain { return s.inner.Domain() }

// IsStatic reports whether a sampler returns the same points every draw.
func IsStatic(s PointSampler) bool {
	_, ok := s.(*StaticSampler)
	return ok
}

// OnBoundary reports whether the sampler draws from a boundary domain, and
// returns it if so.
func OnBoundary(s PointSampler) (domain.BoundaryDomain, bool) {
	b, ok := s.Domain().(domain.BoundaryDomain)
	return b, ok
}
