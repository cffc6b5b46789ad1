package cpu

import (
	"math"
	"testing"

	"github.com/physgo-ml/physgo/internal/tensor"
)

func fromSlice(t *testing.T, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatal(err)
	}
	copy(raw.AsFloat32(), data)
	return raw
}

func assertFloats(t *testing.T, want, got []float32, tol float64, msg string) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("%s: length %d, want %d", msg, len(got), len(want))
	}
	for i := range want {
		if math.Abs(float64(want[i]-got[i])) > tol {
			t.Errorf("%s: index %d: got %v, want %v", msg, i, got[i], want[i])
		}
	}
}

func TestBackendName(t *testing.T) {
	b := New()
	if b.Name() == "" {
		t.Error("backend name should not be empty")
	}
	if b.Device() != tensor.CPU {
		t.Errorf("device = %v, want CPU", b.Device())
	}
}

func TestElementWiseSameShape(t *testing.T) {
	b := New()
	x := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	y := fromSlice(t, []float32{5, 6, 7, 8}, tensor.Shape{2, 2})

	assertFloats(t, []float32{6, 8, 10, 12}, b.Add(x, y).AsFloat32(), 1e-6, "Add")
	assertFloats(t, []float32{-4, -4, -4, -4}, b.Sub(x, y).AsFloat32(), 1e-6, "Sub")
	assertFloats(t, []float32{5, 12, 21, 32}, b.Mul(x, y).AsFloat32(), 1e-6, "Mul")
	assertFloats(t, []float32{0.2, 1.0 / 3, 3.0 / 7, 0.5}, b.Div(x, y).AsFloat32(), 1e-6, "Div")
}

func TestElementWiseBroadcast(t *testing.T) {
	b := New()

	// Row broadcast, the bias-add pattern.
	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	row := fromSlice(t, []float32{10, 20, 30}, tensor.Shape{1, 3})
	assertFloats(t, []float32{11, 22, 33, 14, 25, 36}, b.Add(x, row).AsFloat32(), 1e-6, "row broadcast")

	// Column against row.
	col := fromSlice(t, []float32{1, 2}, tensor.Shape{2, 1})
	r := fromSlice(t, []float32{3, 4, 5}, tensor.Shape{1, 3})
	out := b.Mul(col, r)
	if !out.Shape().Equal(tensor.Shape{2, 3}) {
		t.Fatalf("broadcast shape = %v, want [2 3]", out.Shape())
	}
	assertFloats(t, []float32{3, 4, 5, 6, 8, 10}, out.AsFloat32(), 1e-6, "outer broadcast")
}

func TestMatMul(t *testing.T) {
	b := New()
	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	y := fromSlice(t, []float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})

	out := b.MatMul(x, y)
	if !out.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("matmul shape = %v, want [2 2]", out.Shape())
	}
	assertFloats(t, []float32{58, 64, 139, 154}, out.AsFloat32(), 1e-5, "MatMul")
}

func TestMatMulLargeParallel(t *testing.T) {
	b := New()
	n := 200 // above the parallel threshold for n*n elements
	data := make([]float32, n*n)
	for i := range data {
		data[i] = float32(i%7) * 0.1
	}
	x := fromSlice(t, data, tensor.Shape{n, n})
	id := make([]float32, n*n)
	for i := 0; i < n; i++ {
		id[i*n+i] = 1
	}
	eye := fromSlice(t, id, tensor.Shape{n, n})

	assertFloats(t, data, b.MatMul(x, eye).AsFloat32(), 1e-4, "X @ I")
}

func TestScalarOps(t *testing.T) {
	b := New()
	x := fromSlice(t, []float32{1, 2, 3}, tensor.Shape{3})

	assertFloats(t, []float32{2, 4, 6}, b.MulScalar(x, float32(2)).AsFloat32(), 1e-6, "MulScalar")
	assertFloats(t, []float32{1.5, 2.5, 3.5}, b.AddScalar(x, 0.5).AsFloat32(), 1e-6, "AddScalar")
	assertFloats(t, []float32{0, 1, 2}, b.SubScalar(x, 1).AsFloat32(), 1e-6, "SubScalar")
	assertFloats(t, []float32{0.5, 1, 1.5}, b.DivScalar(x, float64(2)).AsFloat32(), 1e-6, "DivScalar")
}

func TestMathOps(t *testing.T) {
	b := New()
	x := fromSlice(t, []float32{0, 1, -1}, tensor.Shape{3})

	assertFloats(t, []float32{1, float32(math.E), float32(1 / math.E)}, b.Exp(x).AsFloat32(), 1e-5, "Exp")
	assertFloats(t, []float32{0, float32(math.Sin(1)), float32(math.Sin(-1))}, b.Sin(x).AsFloat32(), 1e-6, "Sin")
	assertFloats(t, []float32{1, float32(math.Cos(1)), float32(math.Cos(1))}, b.Cos(x).AsFloat32(), 1e-6, "Cos")
	assertFloats(t, []float32{0, float32(math.Tanh(1)), float32(math.Tanh(-1))}, b.Tanh(x).AsFloat32(), 1e-6, "Tanh")

	sq := fromSlice(t, []float32{4, 9, 16}, tensor.Shape{3})
	assertFloats(t, []float32{2, 3, 4}, b.Sqrt(sq).AsFloat32(), 1e-6, "Sqrt")
	assertFloats(t, []float32{16, 81, 256}, b.Pow(sq, 2).AsFloat32(), 1e-4, "Pow")
}

func TestReductions(t *testing.T) {
	b := New()
	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	sum := b.Sum(x)
	if !sum.Shape().Equal(tensor.Shape{1}) {
		t.Fatalf("Sum shape = %v, want [1]", sum.Shape())
	}
	assertFloats(t, []float32{21}, sum.AsFloat32(), 1e-6, "Sum")
	assertFloats(t, []float32{3.5}, b.Mean(x).AsFloat32(), 1e-6, "Mean")

	rowSums := b.SumDim(x, 1, false)
	if !rowSums.Shape().Equal(tensor.Shape{2}) {
		t.Fatalf("SumDim shape = %v, want [2]", rowSums.Shape())
	}
	assertFloats(t, []float32{6, 15}, rowSums.AsFloat32(), 1e-6, "SumDim rows")

	colMeans := b.MeanDim(x, 0, true)
	if !colMeans.Shape().Equal(tensor.Shape{1, 3}) {
		t.Fatalf("MeanDim shape = %v, want [1 3]", colMeans.Shape())
	}
	assertFloats(t, []float32{2.5, 3.5, 4.5}, colMeans.AsFloat32(), 1e-6, "MeanDim cols")
}

func TestSumLargeParallelAccuracy(t *testing.T) {
	b := New()
	n := 1 << 16
	data := make([]float32, n)
	for i := range data {
		data[i] = 0.1
	}
	x := fromSlice(t, data, tensor.Shape{n})
	got := b.Sum(x).AsFloat32()[0]
	if math.Abs(float64(got)-float64(n)*0.1) > 1 {
		t.Errorf("parallel Sum = %v, want %v", got, float64(n)*0.1)
	}
}

func TestReshapeAndTranspose(t *testing.T) {
	b := New()
	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	r := b.Reshape(x, tensor.Shape{3, 2})
	assertFloats(t, []float32{1, 2, 3, 4, 5, 6}, r.AsFloat32(), 1e-6, "Reshape data")

	tr := b.Transpose(x)
	if !tr.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("Transpose shape = %v, want [3 2]", tr.Shape())
	}
	assertFloats(t, []float32{1, 4, 2, 5, 3, 6}, tr.AsFloat32(), 1e-6, "Transpose data")
}

func TestCat(t *testing.T) {
	b := New()
	x := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	y := fromSlice(t, []float32{5, 6, 7, 8}, tensor.Shape{2, 2})

	rows := b.Cat([]*tensor.RawTensor{x, y}, 0)
	if !rows.Shape().Equal(tensor.Shape{4, 2}) {
		t.Fatalf("Cat dim 0 shape = %v, want [4 2]", rows.Shape())
	}
	assertFloats(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, rows.AsFloat32(), 1e-6, "Cat dim 0")

	cols := b.Cat([]*tensor.RawTensor{x, y}, 1)
	if !cols.Shape().Equal(tensor.Shape{2, 4}) {
		t.Fatalf("Cat dim 1 shape = %v, want [2 4]", cols.Shape())
	}
	assertFloats(t, []float32{1, 2, 5, 6, 3, 4, 7, 8}, cols.AsFloat32(), 1e-6, "Cat dim 1")
}
