package sampler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/physgo-ml/physgo/problem/domain"
	"github.com/physgo-ml/physgo/problem/sampler"
	"github.com/physgo-ml/physgo/problem/space"
)

func TestGridSampler(t *testing.T) {
	omega := domain.UnitSquare(space.R2("x"))
	s := sampler.NewGrid(omega, 50)

	assert.Equal(t, 50, s.Len())
	pts := s.Sample()
	require.Equal(t, 50, pts.Len())
	for i := 0; i < pts.Len(); i++ {
		assert.True(t, omega.IsInside(pts.Row(i)))
	}
}

func TestRandomUniformSamplerResamples(t *testing.T) {
	omega := domain.UnitSquare(space.R2("x"))
	s := sampler.NewRandomUniform(omega, 20)

	a := s.Sample()
	b := s.Sample()
	require.Equal(t, a.Len(), b.Len())

	same := true
	for i := range a.Data() {
		if a.Data()[i] != b.Data()[i] {
			same = false
			break
		}
	}
	assert.False(t, same, "two random draws should differ")
}

func TestStaticSamplerCaches(t *testing.T) {
	omega := domain.UnitSquare(space.R2("x"))
	s := sampler.Static(sampler.NewRandomUniform(omega, 20))

	a := s.Sample()
	b := s.Sample()
	assert.Same(t, a, b, "static sampler should return the cached draw")
	assert.True(t, sampler.IsStatic(s))
	assert.False(t, sampler.IsStatic(sampler.NewGrid(omega, 5)))
}

func TestOnBoundary(t *testing.T) {
	omega := domain.UnitSquare(space.R2("x"))

	_, onB := sampler.OnBoundary(sampler.NewGrid(omega, 5))
	assert.False(t, onB)

	bd, onB := sampler.OnBoundary(sampler.Static(sampler.NewGrid(omega.Boundary(), 5)))
	assert.True(t, onB)
	require.NotNil(t, bd)
}
