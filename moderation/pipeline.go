package moderation

import (
	"log/slog"
	"strings"
)

// Decision is the outcome of running one message through the pipeline.
// Output is what gets delivered and persisted; Flagged means the sender
// must be alerted.
type Decision struct {
	Output  string
	Flagged bool
}

// Pipeline chains the lexical filter and the toxicity classifier. A lexical
// hit is definitive: the masked text is the outcome and the classifier is
// skipped. Only clean text reaches the semantic stage.
type Pipeline struct {
	lexicon       *Lexicon
	classifier    *Classifier
	threshold     float64
	removalNotice string
	log           *slog.Logger
}

func NewPipeline(lexicon *Lexicon, classifier *Classifier, threshold float64, removalNotice string, log *slog.Logger) *Pipeline {
	return &Pipeline{
		lexicon:       lexicon,
		classifier:    classifier,
		threshold:     threshold,
		removalNotice: removalNotice,
		log:           log,
	}
}

// Sanitize runs text through both stages and returns the delivery decision.
// Empty or whitespace-only input short-circuits untouched. A classifier
// failure degrades to letting the message through; moderation never takes
// the chat down.
func (p *Pipeline) Sanitize(text string) Decision {
	if strings.TrimSpace(text) == "" {
		return Decision{Output: text}
	}

	if masked, hit := p.lexicon.Mask(text); hit {
		return Decision{Output: masked, Flagged: true}
	}

	score, err := p.classifier.Score(text)
	if err != nil {
		p.log.Debug("classifier unavailable, passing message through", slog.Any("error", err))
		return Decision{Output: text}
	}
	if score >= p.threshold {
		p.log.Info("message removed by toxicity classifier", slog.Float64("score", score))
		return Decision{Output: p.removalNotice, Flagged: true}
	}
	return Decision{Output: text}
}
