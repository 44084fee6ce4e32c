package workers

import (
	"context"
	"log/slog"

	"roomchat/observability"
)

// TelemetryWorker drains the moderation sample channel and fans each sample
// out to the registered handlers.
type TelemetryWorker struct {
	log      *slog.Logger
	samples  chan observability.Sample
	handlers []observability.Handler
}

func NewTelemetryWorker(log *slog.Logger,
	samples chan observability.Sample,
	handlers []observability.Handler) *TelemetryWorker {
	return &TelemetryWorker{
		log:      log,
		samples:  samples,
		handlers: handlers,
	}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping telemetry fanout")
			return nil
		case sample := <-w.samples:
			w.handle(sample)
		}
	}
}

func (w *TelemetryWorker) handle(sample observability.Sample) {
	for _, h := range w.handlers {
		h.Handle(sample)
	}
}
