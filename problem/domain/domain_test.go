package domain_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/physgo-ml/physgo/problem/domain"
	"github.com/physgo-ml/physgo/problem/space"
)

func TestIntervalMembership(t *testing.T) {
	iv := domain.NewInterval(space.R1("t"), 0, 2)

	assert.True(t, iv.IsInside([]float32{1}))
	assert.True(t, iv.IsInside([]float32{0}))
	assert.True(t, iv.IsInside([]float32{2}))
	assert.False(t, iv.IsInside([]float32{2.1}))
	assert.Equal(t, []float32{0, 2}, iv.BoundingBox())
}

func TestIntervalGridIncludesEndpoints(t *testing.T) {
	iv := domain.NewInterval(space.R1("t"), 0, 1)
	pts := iv.SampleGrid(5)

	require.Equal(t, 5, pts.Len())
	assert.InDelta(t, 0, pts.Row(0)[0], 1e-6)
	assert.InDelta(t, 0.25, pts.Row(1)[0], 1e-6)
	assert.InDelta(t, 1, pts.Row(4)[0], 1e-6)
}

func TestIntervalRandomStaysInside(t *testing.T) {
	iv := domain.NewInterval(space.R1("t"), -1, 1)
	pts := iv.SampleRandomUniform(100)

	require.Equal(t, 100, pts.Len())
	for i := 0; i < pts.Len(); i++ {
		assert.True(t, iv.IsInside(pts.Row(i)))
	}
}

func TestIntervalBoundaryNormals(t *testing.T) {
	b := domain.NewInterval(space.R1("t"), 0, 2).Boundary()
	pts := space.NewPoints(space.R1("t"), []float32{0, 2})

	normals := b.Normals(pts)
	assert.Equal(t, float32(-1), normals.Row(0)[0])
	assert.Equal(t, float32(1), normals.Row(1)[0])
}

func TestParallelogramMembership(t *testing.T) {
	p := domain.UnitSquare(space.R2("x"))

	assert.True(t, p.IsInside([]float32{0.5, 0.5}))
	assert.True(t, p.IsInside([]float32{0, 0}))
	assert.True(t, p.IsInside([]float32{1, 1}))
	assert.False(t, p.IsInside([]float32{1.1, 0.5}))
	assert.False(t, p.IsInside([]float32{0.5, -0.1}))
}

func TestSkewedParallelogramMembership(t *testing.T) {
	p := domain.NewParallelogram(space.R2("x"),
		[2]float32{0, 0}, [2]float32{2, 0}, [2]float32{1, 1})

	assert.True(t, p.IsInside([]float32{1.5, 0.5}))
	assert.False(t, p.IsInside([]float32{0.1, 0.9}))

	box := p.BoundingBox()
	assert.InDelta(t, 0, box[0], 1e-6)
	assert.InDelta(t, 3, box[1], 1e-6)
	assert.InDelta(t, 0, box[2], 1e-6)
	assert.InDelta(t, 1, box[3], 1e-6)
}

func TestParallelogramGridExactCountInside(t *testing.T) {
	p := domain.UnitSquare(space.R2("x"))

	for _, n := range []int{10, 100, 997} {
		pts := p.SampleGrid(n)
		require.Equal(t, n, pts.Len(), "grid count for n=%d", n)
		for i := 0; i < pts.Len(); i++ {
			assert.True(t, p.IsInside(pts.Row(i)))
		}
	}
}

func TestParallelogramGridAvoidsBoundary(t *testing.T) {
	p := domain.UnitSquare(space.R2("x"))
	b := p.Boundary()

	pts := p.SampleGrid(100)
	for i := 0; i < pts.Len(); i++ {
		assert.False(t, b.IsInside(pts.Row(i)), "interior point %v on boundary", pts.Row(i))
	}
}

func TestParallelogramRandomStaysInside(t *testing.T) {
	p := domain.NewParallelogram(space.R2("x"),
		[2]float32{1, 1}, [2]float32{3, 1}, [2]float32{1.5, 2})

	pts := p.SampleRandomUniform(200)
	require.Equal(t, 200, pts.Len())
	for i := 0; i < pts.Len(); i++ {
		assert.True(t, p.IsInside(pts.Row(i)))
	}
}

func TestBoundaryGridOnBoundary(t *testing.T) {
	p := domain.UnitSquare(space.R2("x"))
	b := p.Boundary()

	pts := b.SampleGrid(40)
	require.Equal(t, 40, pts.Len())
	for i := 0; i < pts.Len(); i++ {
		assert.True(t, b.IsInside(pts.Row(i)), "point %v not on boundary", pts.Row(i))
	}
}

func TestBoundaryNormalsUnitAndOutward(t *testing.T) {
	p := domain.UnitSquare(space.R2("x"))
	b := p.Boundary()

	pts := b.SampleGrid(40)
	normals := b.Normals(pts)
	for i := 0; i < pts.Len(); i++ {
		n := normals.Row(i)
		norm := math.Hypot(float64(n[0]), float64(n[1]))
		assert.InDelta(t, 1, norm, 1e-5, "normal length at %v", pts.Row(i))

		// Stepping outward must leave the domain.
		row := pts.Row(i)
		outside := []float32{row[0] + 0.01*n[0], row[1] + 0.01*n[1]}
		assert.False(t, p.IsInside(outside), "normal at %v points inward", row)
	}
}

func TestBoundaryNormalDirections(t *testing.T) {
	p := domain.UnitSquare(space.R2("x"))
	b := p.Boundary()

	pts := space.NewPoints(space.R2("x"), []float32{
		0.5, 0, // bottom edge
		1, 0.5, // right edge
		0.5, 1, // top edge
		0, 0.5, // left edge
	})
	normals := b.Normals(pts)

	want := [][2]float32{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	for i, w := range want {
		n := normals.Row(i)
		assert.InDelta(t, w[0], n[0], 1e-5)
		assert.InDelta(t, w[1], n[1], 1e-5)
	}
}
