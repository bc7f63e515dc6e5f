package repositories

import (
	"channel-gate/domain"
	"channel-gate/errors"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func openInMemory(t *testing.T) *badger.DB {
	db, err := OpenStore("", slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func bob() domain.Identity {
	return domain.Identity{
		ID:          "bob",
		DisplayName: "bob",
		Attributes:  map[string]string{"user": "bob"},
		Watchlist:   []string{"pud", "pud2", "pud3"},
	}
}

func TestIdentityRepository_SetAndGet(t *testing.T) {
	req := require.New(t)
	repository := NewIdentityRepository(openInMemory(t), slog.Default(), time.Hour)

	// Given no session is known
	_, err := repository.Get("1.1")
	req.ErrorIs(err, errors.ErrSessionUnknown)

	// When bob authenticates on session 1.1
	req.NoError(repository.Set("1.1", bob()))

	// Then the session resolves to bob
	identity, err := repository.Get("1.1")
	req.NoError(err)
	req.Equal(bob(), identity)
}

func TestIdentityRepository_SetOverwritesSession(t *testing.T) {
	req := require.New(t)
	repository := NewIdentityRepository(openInMemory(t), slog.Default(), 0)

	req.NoError(repository.Set("1.1", bob()))
	alice := domain.Identity{ID: "alice", DisplayName: "alice", Attributes: map[string]string{"user": "alice"}}
	req.NoError(repository.Set("1.1", alice))

	identity, err := repository.Get("1.1")
	req.NoError(err)
	req.Equal(alice, identity)

	identities, err := repository.List()
	req.NoError(err)
	req.Len(identities, 1)
}

func TestIdentityRepository_ListClear(t *testing.T) {
	req := require.New(t)
	repository := NewIdentityRepository(openInMemory(t), slog.Default(), time.Hour)

	req.NoError(repository.Set("1.1", bob()))
	req.NoError(repository.Set("2.2", domain.Identity{ID: "bob2", DisplayName: "bob2"}))
	req.NoError(repository.Set("3.3", domain.Identity{ID: "carol", DisplayName: "carol"}))

	identities, err := repository.List()
	req.NoError(err)
	req.Len(identities, 3)
	req.Equal("bob", identities[0].ID)
	req.Equal("carol", identities[2].ID)

	entries, err := repository.Entries()
	req.NoError(err)
	req.Equal("1.1", entries[0].Session)
	req.NotZero(entries[0].ExpiresAt)

	req.NoError(repository.Clear())
	identities, err = repository.List()
	req.NoError(err)
	req.Empty(identities)
	_, err = repository.Get("2.2")
	req.ErrorIs(err, errors.ErrSessionUnknown)
}

func TestIdentityRepository_ExpiresAfterTTL(t *testing.T) {
	req := require.New(t)
	repository := NewIdentityRepository(openInMemory(t), slog.Default(), time.Second)

	req.NoError(repository.Set("1.1", bob()))
	_, err := repository.Get("1.1")
	req.NoError(err)

	// Badger expiry has a one second granularity
	time.Sleep(2100 * time.Millisecond)

	_, err = repository.Get("1.1")
	req.ErrorIs(err, errors.ErrSessionUnknown)
	identities, err := repository.List()
	req.NoError(err)
	req.Empty(identities)
}

func TestIdentityRepository_PersistsOnDisk(t *testing.T) {
	req := require.New(t)
	path := t.TempDir()

	db, err := OpenStore(path, slog.Default())
	req.NoError(err)
	req.NoError(NewIdentityRepository(db, slog.Default(), 0).Set("1.1", bob()))
	req.NoError(db.Close())

	db, err = OpenStore(path, slog.Default())
	req.NoError(err)
	defer db.Close()

	entries, err := ScanIdentities(db)
	req.NoError(err)
	req.Len(entries, 1)
	req.Equal("1.1", entries[0].Session)
	req.Equal(bob(), entries[0].Identity)
	req.Zero(entries[0].ExpiresAt)
}
