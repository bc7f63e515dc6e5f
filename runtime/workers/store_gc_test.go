package workers

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func openDiskStore(t *testing.T) *badger.DB {
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.WARNING))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestStoreGCWorker_DisabledIntervals(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	db := openDiskStore(t)

	for _, interval := range []time.Duration{0, -time.Minute} {
		t.Run(fmt.Sprintf("should stop at once with interval %s", interval), func(t *testing.T) {
			req := require.New(t)
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			// When the worker is supervised
			done := make(chan struct{})
			go func() {
				defer close(done)
				Supervise(ctx, log, NewStoreGCWorker(log, db, interval))
			}()

			// Then it finishes without crashing nor being restarted
			req.Eventually(func() bool {
				select {
				case <-done:
					return true
				default:
					return false
				}
			}, 500*time.Millisecond, 10*time.Millisecond)
		})
	}
}

func TestStoreGCWorker_InMemoryStore(t *testing.T) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLoggingLevel(badger.WARNING))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	err = NewStoreGCWorker(slog.Default(), db, time.Millisecond).Run(context.Background())

	require.NoError(t, err)
}

func TestStoreGCWorker_CollectsUntilCanceled(t *testing.T) {
	req := require.New(t)
	db := openDiskStore(t)
	for i := 0; i < 10; i++ {
		req.NoError(db.Update(func(txn *badger.Txn) error {
			return txn.Set([]byte("identity:1.1"), []byte(fmt.Sprintf("value-%d", i)))
		}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := NewStoreGCWorker(slog.Default(), db, 10*time.Millisecond).Run(ctx)

	req.ErrorIs(err, context.DeadlineExceeded)
}
