// Package domain implements geometric domains that problems are posed on.
//
// A Domain can test membership, report its bounding box and produce point
// samples, either on an equidistant grid or uniformly at random. Grid
// sampling always returns exactly n points: when the natural grid misses
// the count it is topped up with uniform random points, and when it
// overshoots a random subset is cut.
package domain

import (
	"math/rand"

	"github.com/physgo-ml/physgo/problem/space"
)

const defaultTol = 1e-6

// Domain is a geometric region in a coordinate space.
type Domain interface {
	// Space returns the coordinate space the domain lives in.
	Space() space.Space

	// Dim returns the intrinsic dimension of the domain. For a boundary
	// this is one less than the dimension of the enclosing domain.
	Dim() int

	// IsInside reports for a single point whether it lies in the domain,
	// up to the domain tolerance.
	IsInside(point []float32) bool

	// BoundingBox returns [min_1, max_1, min_2, max_2, ...] over all axes.
	BoundingBox() []float32

	// SampleGrid returns exactly n equidistantly placed points.
	SampleGrid(n int) *space.Points

	// SampleRandomUniform returns n uniformly distributed points.
	SampleRandomUniform(n int) *space.Points
}

// WithBoundary is a domain whose boundary is itself a sampleable domain.
type WithBoundary interface {
	Domain

	// Boundary returns the boundary of the domain.
	Boundary() BoundaryDomain
}

// BoundaryDomain is the boundary of a domain. Points sampled from it lie
// on the boundary and carry outward unit normals.
type BoundaryDomain interface {
	Domain

	// Normals returns the outward unit normal at each of the given
	// boundary points, as points in the same space.
	Normals(points *space.Points) *space.Points
}

// cutPoints removes random rows until exactly n remain.
func cutPoints(n int, s space.Space, data []float32) []float32 {
	dim := s.Dim()
	have := len(data) / dim
	for have > n {
		i := rand.Intn(have) //nolint:gosec // G404: statistical sampling
		copy(data[i*dim:(i+1)*dim], data[(have-1)*dim:have*dim])
		data = data[:(have-1)*dim]
		have--
	}
	return data
}

// topUp appends uniform random samples from d until exactly n points exist.
func topUp(n int, d Domain, data []float32) []float32 {
	dim := d.Space().Dim()
	have := len(data) / dim
	if have >= n {
		return data
	}
	extra := d.SampleRandomUniform(n - have)
	return append(data, extra.Data()...)
}
