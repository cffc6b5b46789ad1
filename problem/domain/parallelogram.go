package domain

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/physgo-ml/physgo/problem/space"
)

// Parallelogram is the 2D region spanned by two edge vectors attached to an
// origin corner. The corners passed to NewParallelogram are the two corners
// adjacent to the origin.
type Parallelogram struct {
	space   space.Space
	origin  [2]float64
	span1   [2]float64 // origin -> corner1
	span2   [2]float64 // origin -> corner2
	inv     [4]float64 // inverse of the spanning matrix [span1 span2]
	tol     float64
}

// NewParallelogram creates a parallelogram from its origin corner and the
// two adjacent corners.
func NewParallelogram(s space.Space, origin, corner1, corner2 [2]float32) *Parallelogram {
	if s.Dim() != 2 {
		panic(fmt.Sprintf("domain: parallelogram needs a 2D space, got %s", s))
	}
	p := &Parallelogram{
		space:  s,
		origin: [2]float64{float64(origin[0]), float64(origin[1])},
		span1:  [2]float64{float64(corner1[0] - origin[0]), float64(corner1[1] - origin[1])},
		span2:  [2]float64{float64(corner2[0] - origin[0]), float64(corner2[1] - origin[1])},
		tol:    defaultTol,
	}
	det := p.span1[0]*p.span2[1] - p.span1[1]*p.span2[0]
	if math.Abs(det) < 1e-12 {
		panic("domain: parallelogram spanning vectors are collinear")
	}
	p.inv = [4]float64{p.span2[1] / det, -p.span2[0] / det, -p.span1[1] / det, p.span1[0] / det}
	return p
}

// UnitSquare is the parallelogram [0,1] x [0,1].
func UnitSquare(s space.Space) *Parallelogram {
	return NewParallelogram(s, [2]float32{0, 0}, [2]float32{1, 0}, [2]float32{0, 1})
}

func (p *Parallelogram) Space() space.Space { return p.space }

func (p *Parallelogram) Dim() int { return 2 }

// localCoords maps a point into spanning coordinates, where the domain is
// the unit square.
func (p *Parallelogram) localCoords(point []float32) (float64, float64) {
	dx := float64(point[0]) - p.origin[0]
	dy := float64(point[1]) - p.origin[1]
	a := p.inv[0]*dx + p.inv[1]*dy
	b := p.inv[2]*dx + p.inv[3]*dy
	return a, b
}

func (p *Parallelogram) toWorld(a, b float64) (float32, float32) {
	x := p.origin[0] + a*p.span1[0] + b*p.span2[0]
	y := p.origin[1] + a*p.span1[1] + b*p.span2[1]
	return float32(x), float32(y)
}

func (p *Parallelogram) IsInside(point []float32) bool {
	a, b := p.localCoords(point)
	return a >= -p.tol && a <= 1+p.tol && b >= -p.tol && b <= 1+p.tol
}

func (p *Parallelogram) BoundingBox() []float32 {
	xs := []float64{0, p.span1[0], p.span2[0], p.span1[0] + p.span2[0]}
	ys := []float64{0, p.span1[1], p.span2[1], p.span1[1] + p.span2[1]}
	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := 1; i < 4; i++ {
		minX = math.Min(minX, xs[i])
		maxX = math.Max(maxX, xs[i])
		minY = math.Min(minY, ys[i])
		maxY = math.Max(maxY, ys[i])
	}
	return []float32{
		float32(p.origin[0] + minX), float32(p.origin[0] + maxX),
		float32(p.origin[1] + minY), float32(p.origin[1] + maxY),
	}
}

// SampleGrid places a cell-centered grid with axis counts proportional to
// the side lengths, then tops up or cuts to exactly n points. Cell centers
// keep interior samples off the boundary.
func (p *Parallelogram) SampleGrid(n int) *space.Points {
	l1 := math.Hypot(p.span1[0], p.span1[1])
	l2 := math.Hypot(p.span2[0], p.span2[1])

	nx := int(math.Round(math.Sqrt(float64(n) * l1 / l2)))
	if nx < 1 {
		nx = 1
	}
	ny := n / nx
	if ny < 1 {
		ny = 1
	}

	data := make([]float32, 0, 2*nx*ny)
	for i := 0; i < nx; i++ {
		a := (float64(i) + 0.5) / float64(nx)
		for j := 0; j < ny; j++ {
			b := (float64(j) + 0.5) / float64(ny)
			x, y := p.toWorld(a, b)
			data = append(data, x, y)
		}
	}
	data = topUp(n, p, data)
	data = cutPoints(n, p.space, data)
	return space.NewPoints(p.space, data)
}

func (p *Parallelogram) SampleRandomUniform(n int) *space.Points {
	data := make([]float32, 0, 2*n)
	for i := 0; i < n; i++ {
		//nolint:gosec // G404: statistical sampling
		x, y := p.toWorld(rand.Float64(), rand.Float64())
		data = append(data, x, y)
	}
	return space.NewPoints(p.space, data)
}

// Boundary returns the four edges as a boundary domain.
func (p *Parallelogram) Boundary() BoundaryDomain {
	corners := [4][2]float64{
		p.origin,
		{p.origin[0] + p.span1[0], p.origin[1] + p.span1[1]},
		{p.origin[0] + p.span1[0] + p.span2[0], p.origin[1] + p.span1[1] + p.span2[1]},
		{p.origin[0] + p.span2[0], p.origin[1] + p.span2[1]},
	}
	centroid := [2]float64{
		p.origin[0] + (p.span1[0]+p.span2[0])/2,
		p.origin[1] + (p.span1[1]+p.span2[1])/2,
	}

	b := &parallelogramBoundary{parent: p}
	for i := 0; i < 4; i++ {
		start := corners[i]
		end := corners[(i+1)%4]
		e := edge{start: start, end: end}
		e.length = math.Hypot(end[0]-start[0], end[1]-start[1])

		// Outward unit normal, oriented away from the centroid.
		nx := (end[1] - start[1]) / e.length
		ny := -(end[0] - start[0]) / e.length
		mid := [2]float64{(start[0] + end[0]) / 2, (start[1] + end[1]) / 2}
		if nx*(centroid[0]-mid[0])+ny*(centroid[1]-mid[1]) > 0 {
			nx, ny = -nx, -ny
		}
		e.normal = [2]float64{nx, ny}

		b.edges[i] = e
		b.perimeter += e.length
	}
	return b
}

type edge struct {
	start, end [2]float64
	length     float64
	normal     [2]float64
}

// distanceTo returns the distance from a point to the edge segment.
func (e *edge) distanceTo(x, y float64) float64 {
	dx := e.end[0] - e.start[0]
	dy := e.end[1] - e.start[1]
	t := ((x-e.start[0])*dx + (y-e.start[1])*dy) / (e.length * e.length)
	t = math.Max(0, math.Min(1, t))
	px := e.start[0] + t*dx
	py := e.start[1] + t*dy
	return math.Hypot(x-px, y-py)
}

// at returns the point at parameter t in [0, 1] along the edge.
func (e *edge) at(t float64) (float32, float32) {
	return float32(e.start[0] + t*(e.end[0]-e.start[0])),
		float32(e.start[1] + t*(e.end[1]-e.start[1]))
}

// parallelogramBoundary is the closed polygonal chain of the four edges.
type parallelogramBoundary struct {
	parent    *Parallelogram
	edges     [4]edge
	perimeter float64
}

func (b *parallelogramBoundary) Space() space.Space { return b.parent.space }

func (b *parallelogramBoundary) Dim() int { return 1 }

func (b *parallelogramBoundary) IsInside(point []float32) bool {
	x, y := float64(point[0]), float64(point[1])
	for i := range b.edges {
		if b.edges[i].distanceTo(x, y) <= b.parent.tol {
			return true
		}
	}
	return false
}

func (b *parallelogramBoundary) BoundingBox() []float32 {
	return b.parent.BoundingBox()
}

// edgeCounts splits n across the edges proportionally to their lengths,
// assigning leftovers to the longest edges first.
func (b *parallelogramBoundary) edgeCounts(n int) [4]int {
	var counts [4]int
	assigned := 0
	for i := range b.edges {
		counts[i] = int(float64(n) * b.edges[i].length / b.perimeter)
		assigned += counts[i]
	}
	for assigned < n {
		best := 0
		bestGap := math.Inf(-1)
		for i := range b.edges {
			gap := float64(n)*b.edges[i].length/b.perimeter - float64(counts[i])
			if gap > bestGap {
				bestGap = gap
				best = i
			}
		}
		counts[best]++
		assigned++
	}
	return counts
}

// SampleGrid walks each edge equidistantly, starting at its first corner
// and stopping short of the next one so corners are not duplicated.
func (b *parallelogramBoundary) SampleGrid(n int) *space.Points {
	counts := b.edgeCounts(n)
	data := make([]float32, 0, 2*n)
	for i := range b.edges {
		m := counts[i]
		for j := 0; j < m; j++ {
			x, y := b.edges[i].at(float64(j) / float64(m))
			data = append(data, x, y)
		}
	}
	return space.NewPoints(b.parent.space, data)
}

func (b *parallelogramBoundary) SampleRandomUniform(n int) *space.Points {
	data := make([]float32, 0, 2*n)
	for i := 0; i < n; i++ {
		//nolint:gosec // G404: statistical sampling
		at := rand.Float64() * b.perimeter
		for j := range b.edges {
			if at <= b.edges[j].length || j == len(b.edges)-1 {
				x, y := b.edges[j].at(at / b.edges[j].length)
				data = append(data, x, y)
				break
			}
			at -= b.edges[j].length
		}
	}
	return space.NewPoints(b.parent.space, data)
}

// Normals returns the outward unit normal of the nearest edge for each
// point. Points sitting exactly on a corner get the normal of the first of
// the two touching edges.
func (b *parallelogramBoundary) Normals(points *space.Points) *space.Points {
	data := make([]float32, 0, 2*points.Len())
	for i := 0; i < points.Len(); i++ {
		row := points.Row(i)
		x, y := float64(row[0]), float64(row[1])
		best := 0
		bestDist := math.Inf(1)
		for j := range b.edges {
			if d := b.edges[j].distanceTo(x, y); d < bestDist {
				bestDist = d
				best = j
			}
		}
		n := b.edges[best].normal
		data = append(data, float32(n[0]), float32(n[1]))
	}
	return space.NewPoints(b.parent.space, data)
}
