package tensor

import (
	"fmt"
	"math"
)

var _ Backend = (*MockBackend)(nil)

// MockBackend is a naive float32-only backend for tests in this package.
// Compute backends live elsewhere and cannot be imported here without a
// cycle.
type MockBackend struct{}

// NewMockBackend creates a MockBackend.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

func (m *MockBackend) Name() string   { return "mock" }
func (m *MockBackend) Device() Device { return CPU }

func (m *MockBackend) alloc(shape Shape) *RawTensor {
	out, err := NewRaw(shape, Float32, CPU)
	if err != nil {
		panic(err)
	}
	return out
}

func (m *MockBackend) elementWise(a, b *RawTensor, op func(x, y float32) float32) *RawTensor {
	outShape, _, err := BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(err)
	}
	out := m.alloc(outShape)
	av, bv, ov := a.AsFloat32(), b.AsFloat32(), out.AsFloat32()
	for i := range ov {
		ov[i] = op(av[i%len(av)], bv[i%len(bv)])
	}
	return out
}

func (m *MockBackend) Add(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float32) float32 { return x + y })
}

func (m *MockBackend) Sub(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float32) float32 { return x - y })
}

func (m *MockBackend) Mul(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float32) float32 { return x * y })
}

func (m *MockBackend) Div(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float32) float32 { return x / y })
}

func (m *MockBackend) MatMul(a, b *RawTensor) *RawTensor {
	as, bs := a.Shape(), b.Shape()
	if len(as) != 2 || len(bs) != 2 || as[1] != bs[0] {
		panic(fmt.Sprintf("mock: matmul shapes %v x %v", as, bs))
	}
	out := m.alloc(Shape{as[0], bs[1]})
	av, bv, ov := a.AsFloat32(), b.AsFloat32(), out.AsFloat32()
	for i := 0; i < as[0]; i++ {
		for j := 0; j < bs[1]; j++ {
			var acc float32
			for k := 0; k < as[1]; k++ {
				acc += av[i*as[1]+k] * bv[k*bs[1]+j]
			}
			ov[i*bs[1]+j] = acc
		}
	}
	return out
}

func (m *MockBackend) Reshape(t *RawTensor, newShape Shape) *RawTensor {
	if newShape.NumElements() != t.NumElements() {
		panic(fmt.Sprintf("mock: reshape %v to %v", t.Shape(), newShape))
	}
	out := m.alloc(newShape)
	copy(out.AsFloat32(), t.AsFloat32())
	return out
}

func (m *MockBackend) Transpose(t *RawTensor, axes ...int) *RawTensor {
	shape := t.Shape()
	if len(axes) == 0 {
		axes = make([]int, len(shape))
		for i := range axes {
			axes[i] = len(shape) - 1 - i
		}
	}
	outShape := make(Shape, len(shape))
	for i, ax := range axes {
		outShape[i] = shape[ax]
	}
	out := m.alloc(outShape)
	inStrides := shape.ComputeStrides()
	outStrides := outShape.ComputeStrides()
	tv, ov := t.AsFloat32(), out.AsFloat32()
	for i := range ov {
		rem := i
		src := 0
		for d := range outShape {
			src += (rem / outStrides[d]) * inStrides[axes[d]]
			rem %= outStrides[d]
		}
		ov[i] = tv[src]
	}
	return out
}

func scalarFloat(s any) float32 {
	switch v := s.(type) {
	case float32:
		return v
	case float64:
		return float32(v)
	case int:
		return float32(v)
	default:
		panic(fmt.Sprintf("mock: unsupported scalar %T", s))
	}
}

func (m *MockBackend) scalarOp(x *RawTensor, op func(float32) float32) *RawTensor {
	out := m.alloc(x.Shape().Clone())
	xv, ov := x.AsFloat32(), out.AsFloat32()
	for i := range ov {
		ov[i] = op(xv[i])
	}
	return out
}

func (m *MockBackend) MulScalar(x *RawTensor, s any) *RawTensor {
	c := scalarFloat(s)
	return m.scalarOp(x, func(v float32) float32 { return v * c })
}

func (m *MockBackend) AddScalar(x *RawTensor, s any) *RawTensor {
	c := scalarFloat(s)
	return m.scalarOp(x, func(v float32) float32 { return v + c })
}

func (m *MockBackend) SubScalar(x *RawTensor, s any) *RawTensor {
	c := scalarFloat(s)
	return m.scalarOp(x, func(v float32) float32 { return v - c })
}

func (m *MockBackend) DivScalar(x *RawTensor, s any) *RawTensor {
	c := scalarFloat(s)
	return m.scalarOp(x, func(v float32) float32 { return v / c })
}

func (m *MockBackend) Exp(x *RawTensor) *RawTensor {
	return m.scalarOp(x, func(v float32) float32 { return float32(math.Exp(float64(v))) })
}

func (m *MockBackend) Sqrt(x *RawTensor) *RawTensor {
	return m.scalarOp(x, func(v float32) float32 { return float32(math.Sqrt(float64(v))) })
}

func (m *MockBackend) Sin(x *RawTensor) *RawTensor {
	return m.scalarOp(x, func(v float32) float32 { return float32(math.Sin(float64(v))) })
}

func (m *MockBackend) Cos(x *RawTensor) *RawTensor {
	return m.scalarOp(x, func(v float32) float32 { return float32(math.Cos(float64(v))) })
}

func (m *MockBackend) Tanh(x *RawTensor) *RawTensor {
	return m.scalarOp(x, func(v float32) float32 { return float32(math.Tanh(float64(v))) })
}

func (m *MockBackend) Pow(x *RawTensor, p float64) *RawTensor {
	return m.scalarOp(x, func(v float32) float32 { return float32(math.Pow(float64(v), p)) })
}

func (m *MockBackend) Sum(x *RawTensor) *RawTensor {
	out := m.alloc(Shape{1})
	var acc float64
	for _, v := range x.AsFloat32() {
		acc += float64(v)
	}
	out.AsFloat32()[0] = float32(acc)
	return out
}

func (m *MockBackend) Mean(x *RawTensor) *RawTensor {
	out := m.Sum(x)
	out.AsFloat32()[0] /= float32(x.NumElements())
	return out
}

func (m *MockBackend) SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor {
	shape := x.Shape()
	outer, inner := 1, 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	for i := dim + 1; i < len(shape); i++ {
		inner *= shape[i]
	}
	size := shape[dim]

	outShape := make(Shape, 0, len(shape))
	for i, s := range shape {
		if i == dim {
			if keepDim {
				outShape = append(outShape, 1)
			}
			continue
		}
		outShape = append(outShape, s)
	}
	if len(outShape) == 0 {
		outShape = Shape{1}
	}

	out := m.alloc(outShape)
	xv, ov := x.AsFloat32(), out.AsFloat32()
	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			var acc float64
			for k := 0; k < size; k++ {
				acc += float64(xv[(o*size+k)*inner+in])
			}
			ov[o*inner+in] = float32(acc)
		}
	}
	return out
}

func (m *MockBackend) MeanDim(x *RawTensor, dim int, keepDim bool) *RawTensor {
	out := m.SumDim(x, dim, keepDim)
	n := float32(x.Shape()[dim])
	ov := out.AsFloat32()
	for i := range ov {
		ov[i] /= n
	}
	return out
}

func (m *MockBackend) Cat(tensors []*RawTensor, dim int) *RawTensor {
	shape := tensors[0].Shape().Clone()
	total := 0
	for _, t := range tensors {
		total += t.Shape()[dim]
	}
	shape[dim] = total

	outer, inner := 1, 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	for i := dim + 1; i < len(shape); i++ {
		inner *= shape[i]
	}

	out := m.alloc(shape)
	ov := out.AsFloat32()
	for o := 0; o < outer; o++ {
		offset := 0
		for _, t := range tensors {
			size := t.Shape()[dim]
			tv := t.AsFloat32()
			copy(ov[(o*total+offset)*inner:(o*total+offset+size)*inner],
				tv[o*size*inner:(o+1)*size*inner])
			offset += size
		}
	}
	return out
}
