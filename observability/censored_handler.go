package observability

import (
	"log/slog"
	"sync"
)

// CensorHits counts flagged messages, in total and per detected language.
type CensorHits struct {
	mu     sync.Mutex
	log    *slog.Logger
	total  uint64
	byLang map[string]uint64
}

func NewCensorHits(log *slog.Logger) *CensorHits {
	return &CensorHits{
		log:    log,
		byLang: make(map[string]uint64),
	}
}

func (h *CensorHits) Handle(sample Sample) {
	if !sample.Flagged {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.total++
	h.byLang[sample.Lang]++
	h.log.Info("telemetry: message flagged",
		"room_id", sample.Room,
		"author", sample.Username,
		"lang", sample.Lang,
		"total_hits", h.total,
	)
}

// Total reports how many flagged samples were seen.
func (h *CensorHits) Total() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.total
}

// ByLang reports flagged counts per detected language.
func (h *CensorHits) ByLang() map[string]uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make(map[string]uint64, len(h.byLang))
	for lang, n := range h.byLang {
		out[lang] = n
	}
	return out
}
