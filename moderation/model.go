package moderation

import (
	"encoding/gob"
	"fmt"
	"os"
)

// Model is a logistic regression over hashed binary features. Features is
// the vector size; Weights must hold exactly that many entries.
type Model struct {
	Features int
	Bias     float64
	Weights  []float64
}

func (m *Model) valid() bool {
	return m != nil && m.Features > 0 && len(m.Weights) == m.Features
}

// SaveModel writes a model artifact as gob to path.
func SaveModel(path string, m *Model) error {
	if !m.valid() {
		return fmt.Errorf("refusing to save invalid model")
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return gob.NewEncoder(file).Encode(m)
}

// LoadModel reads a gob model artifact from path.
func LoadModel(path string) (*Model, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var m Model
	if err := gob.NewDecoder(file).Decode(&m); err != nil {
		return nil, fmt.Errorf("decoding model artifact: %w", err)
	}
	if !m.valid() {
		return nil, fmt.Errorf("model artifact is malformed")
	}
	return &m, nil
}
