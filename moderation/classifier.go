package moderation

import (
	"log/slog"
	"math"

	"roomchat/errors"
)

// Classifier scores free text for toxicity in [0, 1]. A classifier whose
// artifact could not be loaded stays permanently unavailable; callers treat
// that as a degraded mode, not a fatal condition.
type Classifier struct {
	model *Model
	log   *slog.Logger
}

// NewClassifier loads the model artifact at path. Load failures produce a
// working but unavailable classifier.
func NewClassifier(path string, log *slog.Logger) *Classifier {
	model, err := LoadModel(path)
	if err != nil {
		log.Warn("toxicity model unavailable, semantic stage disabled", slog.String("path", path), slog.Any("error", err))
		return &Classifier{log: log}
	}
	log.Info("toxicity model loaded", slog.String("path", path), slog.Int("features", model.Features))
	return &Classifier{model: model, log: log}
}

// Available reports whether a model was loaded.
func (c *Classifier) Available() bool { return c.model != nil }

// Score returns the toxicity probability for text. It fails with
// ErrClassifierUnavailable when no model is loaded or the model produces a
// non-finite value.
func (c *Classifier) Score(text string) (float64, error) {
	if c.model == nil {
		return 0, errors.ErrClassifierUnavailable
	}

	vec := Features(text, c.model.Features)
	z := c.model.Bias
	for i, w := range c.model.Weights {
		z += w * vec[i]
	}

	score := 1.0 / (1.0 + math.Exp(-z))
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, errors.ErrClassifierUnavailable
	}
	return score, nil
}
