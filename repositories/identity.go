package repositories

import (
	"channel-gate/domain"
	"channel-gate/errors"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/samber/lo"
)

// IdentityPrefix namespaces the session entries in the store.
const IdentityPrefix = "identity:"

// IdentityRepository is the session -> identity directory backed by BadgerDB.
// Writes are last-writer-wins; every entry expires after ttl when ttl > 0.
type IdentityRepository struct {
	db  *badger.DB
	log *slog.Logger
	ttl time.Duration
}

func NewIdentityRepository(db *badger.DB, log *slog.Logger, ttl time.Duration) *IdentityRepository {
	return &IdentityRepository{db: db, log: log, ttl: ttl}
}

// DiskIdentity is the stored form of an identity, keyed by "identity:{session}".
type DiskIdentity struct {
	Session   string          `cbor:"session"`
	Identity  domain.Identity `cbor:"identity"`
	StoredAt  int64           `cbor:"stored_at"`
	ExpiresAt uint64          `cbor:"-"`
}

func identityKey(session string) []byte {
	return []byte(IdentityPrefix + session)
}

// Get returns the identity bound to session, or errors.ErrSessionUnknown.
func (r *IdentityRepository) Get(session string) (domain.Identity, error) {
	var disk DiskIdentity
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(identityKey(session))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return cbor.Unmarshal(val, &disk)
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Identity{}, fmt.Errorf("%w: session %s", errors.ErrSessionUnknown, session)
	}
	if err != nil {
		return domain.Identity{}, fmt.Errorf("identity lookup failed: %w", err)
	}
	return disk.Identity, nil
}

// Set binds identity to session, replacing any previous identity for that session.
func (r *IdentityRepository) Set(session string, identity domain.Identity) error {
	bytes, err := cbor.Marshal(DiskIdentity{
		Session:  session,
		Identity: identity,
		StoredAt: time.Now().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(identityKey(session), bytes)
		if r.ttl > 0 {
			entry = entry.WithTTL(r.ttl)
		}
		return txn.SetEntry(entry)
	})
}

// List returns every live identity, ordered by session key.
func (r *IdentityRepository) List() ([]domain.Identity, error) {
	entries, err := r.Entries()
	if err != nil {
		return nil, err
	}
	return lo.Map(entries, func(item DiskIdentity, _ int) domain.Identity {
		return item.Identity
	}), nil
}

// Entries returns the stored form of every live identity, including its session and expiry.
func (r *IdentityRepository) Entries() ([]DiskIdentity, error) {
	return ScanIdentities(r.db)
}

// Clear drops every session. Used on shutdown.
func (r *IdentityRepository) Clear() error {
	var keys [][]byte
	err := r.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Prefix = []byte(IdentityPrefix)
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("identity clear failed: %w", err)
	}

	batch := r.db.NewWriteBatch()
	defer batch.Cancel()
	for _, key := range keys {
		if err := batch.Delete(key); err != nil {
			return fmt.Errorf("identity clear failed: %w", err)
		}
	}
	if err := batch.Flush(); err != nil {
		return fmt.Errorf("identity clear failed: %w", err)
	}
	r.log.Debug("Identity directory cleared", "sessions", len(keys))
	return nil
}

// ScanIdentities iterates the identity prefix of db. Expired entries are skipped by Badger.
func ScanIdentities(db *badger.DB) ([]DiskIdentity, error) {
	var entries []DiskIdentity
	err := db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Prefix = []byte(IdentityPrefix)
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			var disk DiskIdentity
			if err := item.Value(func(val []byte) error {
				return cbor.Unmarshal(val, &disk)
			}); err != nil {
				return fmt.Errorf("unmarshal %s failed: %w", item.Key(), err)
			}
			disk.ExpiresAt = item.ExpiresAt()
			entries = append(entries, disk)
		}
		return nil
	})
	return entries, err
}
