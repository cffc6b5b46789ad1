package serialization

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/physgo-ml/physgo/internal/tensor"
)

// File is the in-memory form of a checkpoint.
type File struct {
	RunID     string
	Step      int
	Loss      float64
	CreatedAt time.Time
	Tensors   map[string]*tensor.RawTensor
}

// Write serializes the checkpoint to path. Tensors are laid out in name
// order so files written from the same state are byte-identical.
func Write(path string, f *File) error {
	names := make([]string, 0, len(f.Tensors))
	for name := range f.Tensors {
		names = append(names, name)
	}
	sort.Strings(names)

	header := Header{
		FormatVersion: FormatVersion,
		RunID:         f.RunID,
		Step:          f.Step,
		Loss:          f.Loss,
		CreatedAt:     f.CreatedAt,
	}

	var data bytes.Buffer
	for _, name := range names {
		raw := f.Tensors[name]
		dt, err := dtypeToString(raw.DType())
		if err != nil {
			return fmt.Errorf("tensor %q: %w", name, err)
		}
		header.Tensors = append(header.Tensors, TensorMeta{
			Name:   name,
			DType:  dt,
			Shape:  []int(raw.Shape().Clone()),
			Offset: int64(data.Len()),
			Size:   int64(raw.ByteSize()),
		})
		data.Write(raw.Data())
	}

	headerJSON, err := json.Marshal(&header)
	if err != nil {
		return fmt.Errorf("serialization: encode header: %w", err)
	}

	// Checksum covers header length, header and tensor data.
	h := sha256.New()
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(headerJSON)))
	h.Write(lenBuf[:])
	h.Write(headerJSON)
	h.Write(data.Bytes())

	var out bytes.Buffer
	out.Grow(fixedHeaderSize + len(headerJSON) + data.Len())
	out.WriteString(Magic)
	var verBuf [4]byte
	binary.LittleEndian.PutUint32(verBuf[:], FormatVersion)
	out.Write(verBuf[:])
	out.Write(h.Sum(nil))
	out.Write(lenBuf[:])
	out.Write(headerJSON)
	out.Write(data.Bytes())

	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		return fmt.Errorf("serialization: write %s: %w", path, err)
	}
	return nil
}
