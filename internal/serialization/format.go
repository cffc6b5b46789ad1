// Package serialization implements the .phg checkpoint file format.
//
// Layout:
//
//	[4]  magic "PHGO"
//	[4]  format version, little endian uint32
//	[32] SHA-256 checksum of everything that follows
//	[8]  header length, little endian uint64
//	[..] JSON header
//	[..] raw tensor data, offsets relative to the data section
package serialization

import (
	"fmt"
	"time"

	"github.com/physgo-ml/physgo/internal/tensor"
)

const (
	Magic         = "PHGO"
	FormatVersion = 1

	checksumSize    = 32
	fixedHeaderSize = 4 + 4 + checksumSize + 8
)

// Header is the JSON header of a checkpoint file.
type Header struct {
	FormatVersion int          `json:"format_version"`
	RunID         string       `json:"run_id"`
	Step          int          `json:"step"`
	Loss          float64      `json:"loss"`
	CreatedAt     time.Time    `json:"created_at"`
	Tensors       []TensorMeta `json:"tensors"`
}

// TensorMeta describes one tensor in the data section.
type TensorMeta struct {
	Name   string `json:"name"`
	DType  string `json:"dtype"`
	Shape  []int  `json:"shape"`
	Offset int64  `json:"offset"`
	Size   int64  `json:"size"`
}

func dtypeToString(dt tensor.DataType) (string, error) {
	switch dt {
	case tensor.Float32:
		return "float32", nil
	case tensor.Float64:
		return "float64", nil
	case tensor.Int32:
		return "int32", nil
	default:
		return "", fmt.Errorf("serialization: unsupported dtype %v", dt)
	}
}

func stringToDType(s string) (tensor.DataType, error) {
	switch s {
	case "float32":
		return tensor.Float32, nil
	case "float64":
		return tensor.Float64, nil
	case "int32":
		return tensor.Int32, nil
	default:
		return 0, fmt.Errorf("serialization: unsupported dtype %q", s)
	}
}
