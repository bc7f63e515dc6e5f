package main

import (
	"bytes"
	"channel-gate/domain"
	"channel-gate/repositories"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	req := require.New(t)
	now := time.Now()
	entries := []repositories.DiskIdentity{
		{
			Session: "1.2",
			Identity: domain.Identity{
				ID:         "bob",
				Attributes: map[string]string{"user": "bob", "position": "lead"},
				Watchlist:  []string{"pud", "pud2"},
			},
			StoredAt:  now.UnixMilli(),
			ExpiresAt: uint64(now.Add(time.Hour).Unix()),
		},
		{Session: "3.4", Identity: domain.Identity{ID: "alice"}, StoredAt: now.UnixMilli()},
	}

	var out bytes.Buffer
	render(&out, entries, now, false)

	req.Contains(out.String(), "bob")
	req.Contains(out.String(), "position=lead user=bob")
	req.Contains(out.String(), "pud,pud2")
	req.Contains(out.String(), "never")
	req.Contains(out.String(), "2 session(s)")
}

func TestExpiresIn(t *testing.T) {
	now := time.Unix(1_000, 0)
	require.Equal(t, "never", expiresIn(0, now))
	require.Equal(t, "1m0s", expiresIn(1_060, now))
}
