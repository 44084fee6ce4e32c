package workers

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	badger "github.com/dgraph-io/badger/v4"
)

// StoreGCWorker runs Badger value log garbage collection on a ticker.
// ErrNoRewrite just means there was nothing worth compacting.
type StoreGCWorker struct {
	log      *slog.Logger
	db       *badger.DB
	interval time.Duration
}

func NewStoreGCWorker(log *slog.Logger, db *badger.DB, interval time.Duration) *StoreGCWorker {
	return &StoreGCWorker{log: log, db: db, interval: interval}
}

func (w *StoreGCWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping store garbage collection")
			return nil
		case <-ticker.C:
			err := w.db.RunValueLogGC(0.5)
			if err != nil && !stderrors.Is(err, badger.ErrNoRewrite) {
				w.log.Warn("value log garbage collection failed", "err", err)
				continue
			}
			if err == nil {
				w.log.Debug("value log garbage collection reclaimed space")
			}
		}
	}
}
