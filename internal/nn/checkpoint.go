package nn

import (
	"fmt"
	"time"

	"github.com/physgo-ml/physgo/internal/serialization"
	"github.com/physgo-ml/physgo/internal/tensor"
)

// Checkpoint holds the training metadata restored from a checkpoint file.
type Checkpoint struct {
	RunID string
	Step  int
	Loss  float32
}

// SaveCheckpoint writes the model state and training progress to path.
func SaveCheckpoint[B tensor.Backend](path string, model StatefulModule[B], runID string, step int, loss float32) error {
	state := model.StateDict()
	tensors := make(map[string]*tensor.RawTensor, len(state))
	for name, raw := range state {
		tensors[name] = raw.Clone()
	}

	err := serialization.Write(path, &serialization.File{
		RunID:     runID,
		Step:      step,
		Loss:      float64(loss),
		CreatedAt: time.Now().UTC(),
		Tensors:   tensors,
	})
	if err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}

// LoadCheckpoint reads a checkpoint from path and restores the model state.
func LoadCheckpoint[B tensor.Backend](path string, model StatefulModule[B]) (*Checkpoint, error) {
	f, err := serialization.Read(path)
	if err != nil {
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}
	if err := model.LoadStateDict(f.Tensors); err != nil {
		return nil, fmt.Errorf("load checkpoint state: %w", err)
	}
	return &Checkpoint{RunID: f.RunID, Step: f.Step, Loss: float32(f.Loss)}, nil
}
