package space

import "fmt"

// Points is a batch of points in a space, stored row-major as an n x Dim
// float32 matrix.
type Points struct {
	space Space
	data  []float32
}

// NewPoints wraps row-major data as points of the given space.
// len(data) must be a multiple of space.Dim().
func NewPoints(s Space, data []float32) *Points {
	dim := s.Dim()
	if dim == 0 || len(data)%dim != 0 {
		panic(fmt.Sprintf("space: %d values do not form rows of dimension %d", len(data), dim))
	}
	return &Points{space: s, data: data}
}

// Space returns the space the points live in.
func (p *Points) Space() Space {
	return p.space
}

// Len returns the number of points.
func (p *Points) Len() int {
	return len(p.data) / p.space.Dim()
}

// Dim returns the dimension of each point.
func (p *Points) Dim() int {
	return p.space.Dim()
}

// Data returns the underlying row-major values.
func (p *Points) Data() []float32 {
	return p.data
}

// Row returns the coordinates of point i.
func (p *Points) Row(i int) []float32 {
	dim := p.space.Dim()
	return p.data[i*dim : (i+1)*dim]
}

// Split divides the point matrix into per-variable column blocks.
// Each returned Points lives in the single-variable subspace.
func (p *Points) Split() map[string]*Points {
	n := p.Len()
	dim := p.space.Dim()
	out := make(map[string]*Points, len(p.space.vars))
	off := 0
	for _, v := range p.space.vars {
		data := make([]float32, n*v.Dim)
		for i := 0; i < n; i++ {
			copy(data[i*v.Dim:(i+1)*v.Dim], p.data[i*dim+off:i*dim+off+v.Dim])
		}
		out[v.Name] = NewPoints(New(v), data)
		off += v.Dim
	}
	return out
}

// Join assembles per-variable column blocks back into points of the given
// space. All blocks must have the same length and every variable of the
// space must be present.
func Join(s Space, parts map[string]*Points) *Points {
	n := -1
	for _, v := range s.vars {
		part, ok := parts[v.Name]
		if !ok {
			panic(fmt.Sprintf("space: missing variable %q", v.Name))
		}
		if part.Dim() != v.Dim {
			panic(fmt.Sprintf("space: variable %q has dimension %d, want %d", v.Name, part.Dim(), v.Dim))
		}
		if n == -1 {
			n = part.Len()
		} else if part.Len() != n {
			panic(fmt.Sprintf("space: variable %q has %d points, want %d", v.Name, part.Len(), n))
		}
	}

	dim := s.Dim()
	data := make([]float32, n*dim)
	off := 0
	for _, v := range s.vars {
		part := parts[v.Name]
		for i := 0; i < n; i++ {
			copy(data[i*dim+off:i*dim+off+v.Dim], part.data[i*v.Dim:(i+1)*v.Dim])
		}
		off += v.Dim
	}
	return NewPoints(s, data)
}

// Concat stacks two point batches of the same space.
func Concat(a, b *Points) *Points {
	if !a.space.Equal(b.space) {
		panic("space: cannot concat points from different spaces")
	}
	data := make([]float32, 0, len(a.data)+len(b.data))
	data = append(data, a.data...)
	data = append(data, b.data...)
	return NewPoints(a.space, data)
}
