package workers

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const gcDiscardRatio = 0.5

// StoreGCWorker reclaims the value log space left by expired and overwritten sessions.
type StoreGCWorker struct {
	log      *slog.Logger
	db       *badger.DB
	interval time.Duration
}

func NewStoreGCWorker(log *slog.Logger, db *badger.DB, interval time.Duration) *StoreGCWorker {
	return &StoreGCWorker{log: log, db: db, interval: interval}
}

// Run executes a value log GC every interval until ctx is canceled.
// In-memory stores have no value log and a zero interval disables the GC:
// the worker returns immediately in both cases.
func (w *StoreGCWorker) Run(ctx context.Context) error {
	if w.db.Opts().InMemory {
		w.log.Debug("In-memory identity store, value log GC disabled")
		return nil
	}
	if w.interval <= 0 {
		w.log.Debug("Value log GC disabled", "interval", w.interval)
		return nil
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.collect()
		}
	}
}

func (w *StoreGCWorker) collect() {
	rewrites := 0
	for {
		err := w.db.RunValueLogGC(gcDiscardRatio)
		if stderrors.Is(err, badger.ErrNoRewrite) {
			break
		}
		if err != nil {
			w.log.Warn("Value log GC failed", "error", err)
			break
		}
		rewrites++
	}
	if rewrites > 0 {
		w.log.Debug("Value log GC done", "rewrites", rewrites)
	}
}
