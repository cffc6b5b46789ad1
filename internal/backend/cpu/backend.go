// Package cpu implements the tensor.Backend interface with pure Go kernels.
//
// Large element-wise loops and matmul rows are parallelized with pargo's
// parallel.Range; small tensors run serially to avoid scheduling overhead.
package cpu

import (
	"fmt"

	"github.com/klauspost/cpuid/v2"

	"github.com/physgo-ml/physgo/internal/tensor"
)

// parallelThreshold is the element count below which kernels stay serial.
// Boundary batches and single-point evaluations are far below it; interior
// collocation batches are above it.
const parallelThreshold = 1 << 14

// CPUBackend implements tensor.Backend with pure Go kernels.
type CPUBackend struct {
	name string
}

// New creates a new CPU backend.
//
// The backend name reports the host CPU brand and vector capability so
// training logs identify the machine a run came from.
func New() *CPUBackend {
	name := "CPU"
	if brand := cpuid.CPU.BrandName; brand != "" {
		name = fmt.Sprintf("CPU(%s)", brand)
	}
	switch {
	case cpuid.CPU.Supports(cpuid.AVX512F):
		name += "/avx512"
	case cpuid.CPU.Supports(cpuid.AVX2):
		name += "/avx2"
	case cpuid.CPU.Supports(cpuid.ASIMD):
		name += "/neon"
	}
	return &CPUBackend{name: name}
}

// Name returns the backend name.
func (b *CPUBackend) Name() string {
	return b.name
}

// Device returns the compute device.
func (b *CPUBackend) Device() tensor.Device {
	return tensor.CPU
}

// Compile-time check that CPUBackend implements tensor.Backend.
var _ tensor.Backend = (*CPUBackend)(nil)

// float constrains kernel helpers to the floating point dtypes.
type float interface {
	~float32 | ~float64
}

// newResult allocates an output tensor, panicking on invalid shapes.
// Backend kernels panic rather than return errors, matching the op-call
// surface the autodiff decorator wraps.
func newResult(shape tensor.Shape, dtype tensor.DataType, device tensor.Device) *tensor.RawTensor {
	out, err := tensor.NewRaw(shape, dtype, device)
	if err != nil {
		panic(fmt.Sprintf("cpu: %v", err))
	}
	return out
}

// toFloat64 converts a scalar argument of any supported numeric type.
func toFloat64(scalar any) float64 {
	switch v := scalar.(type) {
	case float32:
		return float64(v)
	case float64:
		return v
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	default:
		panic(fmt.Sprintf("cpu: unsupported scalar type %T", scalar))
	}
}
