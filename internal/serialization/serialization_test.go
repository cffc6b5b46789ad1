package serialization

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/physgo-ml/physgo/internal/tensor"
)

func testFile(t *testing.T) *File {
	t.Helper()
	w, err := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range []float32{1, 2, 3, 4, 5, 6} {
		w.AsFloat32()[i] = v
	}
	b, err := tensor.NewRaw(tensor.Shape{3}, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatal(err)
	}
	b.AsFloat32()[1] = -0.5

	return &File{
		RunID:     "test-run",
		Step:      42,
		Loss:      0.125,
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Tensors:   map[string]*tensor.RawTensor{"weight": w, "bias": b},
	}
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.phg")
	orig := testFile(t)
	if err := Write(path, orig); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.RunID != orig.RunID || got.Step != orig.Step || got.Loss != orig.Loss {
		t.Errorf("metadata mismatch: %+v", got)
	}
	if !got.CreatedAt.Equal(orig.CreatedAt) {
		t.Errorf("created at %v, want %v", got.CreatedAt, orig.CreatedAt)
	}
	if len(got.Tensors) != 2 {
		t.Fatalf("got %d tensors, want 2", len(got.Tensors))
	}
	for name, want := range orig.Tensors {
		raw, ok := got.Tensors[name]
		if !ok {
			t.Fatalf("missing tensor %q", name)
		}
		if !raw.Shape().Equal(want.Shape()) {
			t.Errorf("tensor %q shape %v, want %v", name, raw.Shape(), want.Shape())
		}
		for i, v := range want.AsFloat32() {
			if raw.AsFloat32()[i] != v {
				t.Errorf("tensor %q element %d is %v, want %v", name, i, raw.AsFloat32()[i], v)
			}
		}
	}
}

func TestDeterministicOutput(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.phg")
	b := filepath.Join(dir, "b.phg")
	f := testFile(t)
	if err := Write(a, f); err != nil {
		t.Fatal(err)
	}
	if err := Write(b, f); err != nil {
		t.Fatal(err)
	}
	ba, _ := os.ReadFile(a)
	bb, _ := os.ReadFile(b)
	if string(ba) != string(bb) {
		t.Error("writing the same state twice produced different bytes")
	}
}

func TestReadRejectsCorruption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.phg")
	if err := Write(path, testFile(t)); err != nil {
		t.Fatal(err)
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// Flip one bit of tensor data.
	corrupt := append([]byte(nil), buf...)
	corrupt[len(corrupt)-1] ^= 0x01
	if err := os.WriteFile(path, corrupt, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path); !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("got %v, want ErrChecksumMismatch", err)
	}
}

func TestReadRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.phg")
	if err := os.WriteFile(path, []byte("not a checkpoint at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path); !errors.Is(err, ErrBadMagic) {
		t.Errorf("got %v, want ErrBadMagic", err)
	}
}

func TestReadRejectsUnsupportedVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.phg")
	if err := Write(path, testFile(t)); err != nil {
		t.Fatal(err)
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	buf[4] = 0xFF // version field, little endian
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("got %v, want ErrUnsupportedVersion", err)
	}
}
