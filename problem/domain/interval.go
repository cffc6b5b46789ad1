package domain

import (
	"fmt"
	"math/rand"

	"github.com/physgo-ml/physgo/problem/space"
)

// Interval is the closed interval [lower, upper] in a one dimensional space.
type Interval struct {
	space        space.Space
	lower, upper float32
	tol          float32
}

// NewInterval creates an interval domain.
func NewInterval(s space.Space, lower, upper float32) *Interval {
	if s.Dim() != 1 {
		panic(fmt.Sprintf("domain: interval needs a 1D space, got %s", s))
	}
	if lower >= upper {
		panic(fmt.Sprintf("domain: empty interval [%v, %v]", lower, upper))
	}
	return &Interval{space: s, lower: lower, upper: upper, tol: defaultTol}
}

func (iv *Interval) Space() space.Space { return iv.space }

func (iv *Interval) Dim() int { return 1 }

func (iv *Interval) IsInside(point []float32) bool {
	return point[0] >= iv.lower-iv.tol && point[0] <= iv.upper+iv.tol
}

func (iv *Interval) BoundingBox() []float32 {
	return []float32{iv.lower, iv.upper}
}

// SampleGrid returns n equidistant points including both endpoints.
func (iv *Interval) SampleGrid(n int) *space.Points {
	data := make([]float32, n)
	if n == 1 {
		data[0] = (iv.lower + iv.upper) / 2
		return space.NewPoints(iv.space, data)
	}
	step := (iv.upper - iv.lower) / float32(n-1)
	for i := range data {
		data[i] = iv.lower + float32(i)*step
	}
	data[n-1] = iv.upper
	return space.NewPoints(iv.space, data)
}

func (iv *Interval) SampleRandomUniform(n int) *space.Points {
	data := make([]float32, n)
	for i := range data {
		data[i] = iv.lower + rand.Float32()*(iv.upper-iv.lower) //nolint:gosec // G404: statistical sampling
	}
	return space.NewPoints(iv.space, data)
}

// Boundary returns the two endpoints as a boundary domain.
func (iv *Interval) Boundary() BoundaryDomain {
	return &intervalBoundary{interval: iv}
}

// intervalBoundary is the two-point boundary {lower, upper} of an interval.
type intervalBoundary struct {
	interval *Interval
}

func (b *intervalBoundary) Space() space.Space { return b.interval.space }

func (b *intervalBoundary) Dim() int { return 0 }

func (b *intervalBoundary) IsInside(point []float32) bool {
	iv := b.interval
	return abs32(point[0]-iv.lower) <= iv.tol || abs32(point[0]-iv.upper) <= iv.tol
}

func (b *intervalBoundary) BoundingBox() []float32 {
	return b.interval.BoundingBox()
}

// SampleGrid alternates the two endpoints until n points exist.
func (b *intervalBoundary) SampleGrid(n int) *space.Points {
	data := make([]float32, n)
	for i := range data {
		if i%2 == 0 {
			data[i] = b.interval.lower
		} else {
			data[i] = b.interval.upper
		}
	}
	return space.NewPoints(b.interval.space, data)
}

func (b *intervalBoundary) SampleRandomUniform(n int) *space.Points {
	data := make([]float32, n)
	for i := range data {
		if rand.Intn(2) == 0 { //nolint:gosec // G404: statistical sampling
			data[i] = b.interval.lower
		} else {
			data[i] = b.interval.upper
		}
	}
	return space.NewPoints(b.interval.space, data)
}

// Normals returns -1 at the lower endpoint and +1 at the upper one.
func (b *intervalBoundary) Normals(points *space.Points) *space.Points {
	iv := b.interval
	mid := (iv.lower + iv.upper) / 2
	data := make([]float32, points.Len())
	for i := 0; i < points.Len(); i++ {
		if points.Row(i)[0] < mid {
			data[i] = -1
		} else {
			data[i] = 1
		}
	}
	return space.NewPoints(iv.space, data)
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
