// Package plot renders scalar fields on rectangular grids to PNG heatmaps.
package plot

import (
	"fmt"
	"math"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/physgo-ml/physgo/internal/nn"
	"github.com/physgo-ml/physgo/internal/tensor"
)

// Grid is a scalar field sampled on a regular nx x ny grid over a
// rectangle. It implements plotter.GridXYZ.
type Grid struct {
	nx, ny                 int
	xmin, xmax, ymin, ymax float64
	z                      []float64 // row-major, z[j*nx+i]
}

// NewGrid creates an empty grid over [xmin, xmax] x [ymin, ymax].
func NewGrid(nx, ny int, xmin, xmax, ymin, ymax float64) *Grid {
	if nx < 2 || ny < 2 {
		panic(fmt.Sprintf("plot: grid needs at least 2x2 points, got %dx%d", nx, ny))
	}
	return &Grid{
		nx: nx, ny: ny,
		xmin: xmin, xmax: xmax, ymin: ymin, ymax: ymax,
		z: make([]float64, nx*ny),
	}
}

// Dims returns the number of columns and rows.
func (g *Grid) Dims() (int, int) { return g.nx, g.ny }

// X returns the x coordinate of column c.
func (g *Grid) X(c int) float64 {
	return g.xmin + float64(c)*(g.xmax-g.xmin)/float64(g.nx-1)
}

// Y returns the y coordinate of row r.
func (g *Grid) Y(r int) float64 {
	return g.ymin + float64(r)*(g.ymax-g.ymin)/float64(g.ny-1)
}

// Z returns the field value at column c, row r.
func (g *Grid) Z(c, r int) float64 { return g.z[r*g.nx+c] }

// SetZ sets the field value at column c, row r.
func (g *Grid) SetZ(c, r int, v float64) { g.z[r*g.nx+c] = v }

// Fill evaluates f at every grid node.
func (g *Grid) Fill(f func(x, y float64) float64) *Grid {
	for r := 0; r < g.ny; r++ {
		for c := 0; c < g.nx; c++ {
			g.SetZ(c, r, f(g.X(c), g.Y(r)))
		}
	}
	return g
}

// AbsDiff returns a grid of absolute differences between two grids of the
// same layout.
func AbsDiff(a, b *Grid) *Grid {
	if a.nx != b.nx || a.ny != b.ny {
		panic(fmt.Sprintf("plot: grid sizes differ, %dx%d vs %dx%d", a.nx, a.ny, b.nx, b.ny))
	}
	out := NewGrid(a.nx, a.ny, a.xmin, a.xmax, a.ymin, a.ymax)
	for i := range out.z {
		out.z[i] = math.Abs(a.z[i] - b.z[i])
	}
	return out
}

// FieldGrid evaluates a scalar-output model on an nx x ny grid over the
// given rectangle.
func FieldGrid[B tensor.Backend](model nn.Module[B], backend B, nx, ny int, xmin, xmax, ymin, ymax float64) *Grid {
	g := NewGrid(nx, ny, xmin, xmax, ymin, ymax)

	data := make([]float32, 0, 2*nx*ny)
	for r := 0; r < ny; r++ {
		for c := 0; c < nx; c++ {
			data = append(data, float32(g.X(c)), float32(g.Y(r)))
		}
	}
	input, err := tensor.FromSlice(data, tensor.Shape{nx * ny, 2}, backend)
	if err != nil {
		panic(err)
	}
	out := model.Forward(input).Data()
	for i, v := range out {
		g.z[i] = float64(v)
	}
	return g
}

// Heatmap writes the grid as a PNG heatmap.
func Heatmap(path, title string, g *Grid) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x1"
	p.Y.Label.Text = "x2"

	pal := moreland.SmoothBlueRed().Palette(255)
	p.Add(plotter.NewHeatMap(g, pal))

	if err := p.Save(6*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("plot: save %s: %w", path, err)
	}
	return nil
}

// Compare writes solution, reference and absolute-error heatmaps into dir.
func Compare(dir string, solution, reference *Grid) error {
	if err := Heatmap(filepath.Join(dir, "solution.png"), "network solution", solution); err != nil {
		return err
	}
	if err := Heatmap(filepath.Join(dir, "reference.png"), "analytic reference", reference); err != nil {
		return err
	}
	return Heatmap(filepath.Join(dir, "error.png"), "absolute error", AbsDiff(solution, reference))
}
