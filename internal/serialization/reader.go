package serialization

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"

	"github.com/physgo-ml/physgo/internal/tensor"
)

// Read loads and validates a checkpoint from path.
func Read(path string) (*File, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("serialization: read %s: %w", path, err)
	}
	if len(buf) < fixedHeaderSize || string(buf[:4]) != Magic {
		return nil, ErrBadMagic
	}
	if v := binary.LittleEndian.Uint32(buf[4:8]); v != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}

	stored := buf[8 : 8+checksumSize]
	rest := buf[fixedHeaderSize-8:] // header length onward
	if sum := sha256.Sum256(rest); !bytes.Equal(sum[:], stored) {
		return nil, ErrChecksumMismatch
	}

	headerLen := binary.LittleEndian.Uint64(rest[:8])
	if uint64(len(rest)) < 8+headerLen {
		return nil, fmt.Errorf("serialization: truncated header in %s", path)
	}
	var header Header
	if err := json.Unmarshal(rest[8:8+headerLen], &header); err != nil {
		return nil, fmt.Errorf("serialization: decode header: %w", err)
	}

	data := rest[8+headerLen:]
	f := &File{
		RunID:     header.RunID,
		Step:      header.Step,
		Loss:      header.Loss,
		CreatedAt: header.CreatedAt,
		Tensors:   make(map[string]*tensor.RawTensor, len(header.Tensors)),
	}
	for _, meta := range header.Tensors {
		dt, err := stringToDType(meta.DType)
		if err != nil {
			return nil, err
		}
		if meta.Offset < 0 || meta.Offset+meta.Size > int64(len(data)) {
			return nil, fmt.Errorf("serialization: tensor %q out of bounds", meta.Name)
		}
		raw, err := tensor.NewRaw(tensor.Shape(meta.Shape), dt, tensor.CPU)
		if err != nil {
			return nil, fmt.Errorf("serialization: tensor %q: %w", meta.Name, err)
		}
		if raw.ByteSize() != int(meta.Size) {
			return nil, fmt.Errorf("serialization: tensor %q size %d does not match shape %v",
				meta.Name, meta.Size, meta.Shape)
		}
		copy(raw.Data(), data[meta.Offset:meta.Offset+meta.Size])
		f.Tensors[meta.Name] = raw
	}
	return f, nil
}
