package tensor

import (
	"math"
	"testing"
)

func assertEqualFloat32(t *testing.T, expected, actual float32, msg string) {
	t.Helper()
	if math.Abs(float64(expected-actual)) > 1e-6 {
		t.Errorf("%s: expected %v, got %v", msg, expected, actual)
	}
}

func assertEqualShape(t *testing.T, expected, actual Shape, msg string) {
	t.Helper()
	if !expected.Equal(actual) {
		t.Errorf("%s: expected shape %v, got %v", msg, expected, actual)
	}
}

func TestDataTypeSize(t *testing.T) {
	tests := []struct {
		dtype DataType
		size  int
	}{
		{Float32, 4},
		{Float64, 8},
		{Int32, 4},
	}
	for _, tt := range tests {
		if got := tt.dtype.Size(); got != tt.size {
			t.Errorf("%s.Size() = %d, want %d", tt.dtype, got, tt.size)
		}
	}
}

func TestShapeNumElements(t *testing.T) {
	if got := (Shape{2, 3, 4}).NumElements(); got != 24 {
		t.Errorf("NumElements() = %d, want 24", got)
	}
	if got := (Shape{}).NumElements(); got != 1 {
		t.Errorf("scalar NumElements() = %d, want 1", got)
	}
}

func TestShapeComputeStrides(t *testing.T) {
	strides := Shape{2, 3, 4}.ComputeStrides()
	want := []int{12, 4, 1}
	for i := range want {
		if strides[i] != want[i] {
			t.Errorf("strides = %v, want %v", strides, want)
			break
		}
	}
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		a, b, want Shape
		needed     bool
	}{
		{Shape{2, 3}, Shape{2, 3}, Shape{2, 3}, false},
		{Shape{2, 3}, Shape{1, 3}, Shape{2, 3}, true},
		{Shape{4, 1}, Shape{1, 5}, Shape{4, 5}, true},
		{Shape{3}, Shape{2, 3}, Shape{2, 3}, true},
	}
	for _, tt := range tests {
		got, needed, err := BroadcastShapes(tt.a, tt.b)
		if err != nil {
			t.Fatalf("BroadcastShapes(%v, %v): %v", tt.a, tt.b, err)
		}
		assertEqualShape(t, tt.want, got, "broadcast result")
		if needed != tt.needed {
			t.Errorf("BroadcastShapes(%v, %v) needed = %v, want %v", tt.a, tt.b, needed, tt.needed)
		}
	}

	if _, _, err := BroadcastShapes(Shape{2, 3}, Shape{2, 4}); err == nil {
		t.Error("expected error for incompatible shapes")
	}
}

func TestNewRawViews(t *testing.T) {
	raw, err := NewRaw(Shape{2, 2}, Float32, CPU)
	if err != nil {
		t.Fatal(err)
	}
	view := raw.AsFloat32()
	if len(view) != 4 {
		t.Fatalf("view length = %d, want 4", len(view))
	}
	view[3] = 7
	if raw.AsFloat32()[3] != 7 {
		t.Error("view does not alias the buffer")
	}
}

func TestRawRefCounting(t *testing.T) {
	raw, err := NewRaw(Shape{4}, Float32, CPU)
	if err != nil {
		t.Fatal(err)
	}
	if !raw.IsUnique() {
		t.Fatal("fresh tensor should be unique")
	}
	release := raw.ForceNonUnique()
	if raw.IsUnique() {
		t.Error("tensor should not be unique while pinned")
	}
	release()
	if !raw.IsUnique() {
		t.Error("tensor should be unique again after release")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	raw, err := NewRaw(Shape{2}, Float32, CPU)
	if err != nil {
		t.Fatal(err)
	}
	raw.AsFloat32()[0] = 1
	clone := raw.Clone()
	clone.AsFloat32()[0] = 5
	if raw.AsFloat32()[0] != 1 {
		t.Error("clone shares its buffer with the original")
	}
}

func TestFromSliceAndAccessors(t *testing.T) {
	backend := NewMockBackend()
	x, err := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, backend)
	if err != nil {
		t.Fatal(err)
	}
	assertEqualShape(t, Shape{2, 3}, x.Shape(), "FromSlice shape")
	assertEqualFloat32(t, 6, x.At(1, 2), "At(1,2)")

	x.Set(9, 0, 1)
	assertEqualFloat32(t, 9, x.At(0, 1), "Set then At")

	if _, err := FromSlice([]float32{1, 2}, Shape{3}, backend); err == nil {
		t.Error("expected error for mismatched data length")
	}
}

func TestItemPanicsOnNonScalar(t *testing.T) {
	backend := NewMockBackend()
	x, _ := FromSlice([]float32{1, 2}, Shape{2}, backend)
	defer func() {
		if recover() == nil {
			t.Error("expected panic for Item on multi-element tensor")
		}
	}()
	x.Item()
}

func TestCreation(t *testing.T) {
	backend := NewMockBackend()

	z := Zeros[float32](Shape{2, 2}, backend)
	for _, v := range z.Data() {
		assertEqualFloat32(t, 0, v, "Zeros")
	}

	o := Ones[float32](Shape{3}, backend)
	for _, v := range o.Data() {
		assertEqualFloat32(t, 1, v, "Ones")
	}

	f := Full(Shape{2}, float32(2.5), backend)
	assertEqualFloat32(t, 2.5, f.At(0), "Full")

	l := Linspace[float32](0, 1, 5, backend)
	assertEqualFloat32(t, 0, l.At(0), "Linspace start")
	assertEqualFloat32(t, 0.25, l.At(1), "Linspace step")
	assertEqualFloat32(t, 1, l.At(4), "Linspace end")
}

func TestRandnStatistics(t *testing.T) {
	backend := NewMockBackend()
	x := Randn[float32](Shape{10000}, backend)

	var sum float64
	for _, v := range x.Data() {
		sum += float64(v)
	}
	mean := sum / float64(x.NumElements())
	if math.Abs(mean) > 0.1 {
		t.Errorf("Randn mean = %v, want near 0", mean)
	}
}

func TestDetachBreaksIdentity(t *testing.T) {
	backend := NewMockBackend()
	x, _ := FromSlice([]float32{1, 2}, Shape{2}, backend)
	d := x.Detach()
	if d.Raw() == x.Raw() {
		t.Error("Detach should produce a fresh raw tensor")
	}
	assertEqualFloat32(t, x.At(1), d.At(1), "Detach data")
}
