// Package tensor provides the core tensor types and operations for the PhysGo framework.
package tensor

// DType is a constraint for supported tensor data types.
// It uses Go generics to ensure compile-time type safety.
type DType interface {
	~float32 | ~float64 | ~int32
}

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types for tensors.
//
// Network parameters and sampled points are float32 (matching the usual
// PINN convention), float64 is available for validation grids and the
// L-BFGS flat-vector math, int32 for index data.
const (
	Float32 DataType = iota
	Float64
	Int32
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32:
		return 4
	case Float64:
		return 8
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	default:
		return "unknown"
	}
}

// inferDataType infers DataType from a generic type T.
func inferDataType[T DType](dummy T) DataType {
	switch any(dummy).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case int32:
		return Int32
	default:
		panic("unsupported type")
	}
}
