package observability

import (
	"log/slog"
	"time"
)

type LatencyHandler struct {
	log              *slog.Logger
	latencyThreshold time.Duration
}

func NewLatencyHandler(log *slog.Logger, latencyThreshold time.Duration) *LatencyHandler {
	return &LatencyHandler{log: log, latencyThreshold: latencyThreshold}
}

func (h *LatencyHandler) Handle(sample Sample) {
	h.log.Debug("telemetry: moderation latency",
		"room_id", sample.Room,
		"author", sample.Username,
		"lead_time_ms", sample.Elapsed.Milliseconds(),
	)

	if sample.Elapsed > h.latencyThreshold {
		h.log.Warn("high moderation latency detected", "lead_time", sample.Elapsed)
	}
}
