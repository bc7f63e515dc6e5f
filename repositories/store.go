package repositories

import (
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// OpenStore opens the Badger database backing the identity directory.
// An empty path keeps everything in memory: sessions are lost on restart,
// clients simply authenticate again.
func OpenStore(path string, log *slog.Logger) (*badger.DB, error) {
	options := badger.DefaultOptions(path).WithLoggingLevel(badger.WARNING)
	if path == "" {
		options = options.WithInMemory(true)
	}
	db, err := badger.Open(options)
	if err != nil {
		return nil, fmt.Errorf("badger open failed: %w", err)
	}
	log.Info("Identity store opened", "path", path, "in_memory", options.InMemory)
	return db, nil
}
