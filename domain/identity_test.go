package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNameStem(t *testing.T) {
	tests := []struct {
		user string
		want string
	}{
		{"bob", "bob"},
		{"Bob42", "bob"},
		{"bob7x", "bob"},
		{"ALICE", "alice"},
		{"42bob", "9"},
		{"", "9"},
		{"jean-luc", "jean-luc"},
	}
	for _, tt := range tests {
		t.Run(tt.user, func(t *testing.T) {
			require.Equal(t, tt.want, NameStem(tt.user))
		})
	}
}

func TestParseWatchlistMode(t *testing.T) {
	req := require.New(t)

	mode, err := ParseWatchlistMode("")
	req.NoError(err)
	req.Equal(WatchlistPlaceholder, mode)

	mode, err = ParseWatchlistMode(" Computed ")
	req.NoError(err)
	req.Equal(WatchlistComputed, mode)

	_, err = ParseWatchlistMode("random")
	req.Error(err)
}

func TestIdentity_PublicProfile(t *testing.T) {
	req := require.New(t)

	// Given an identity with attributes
	identity := Identity{
		ID:          "bob",
		DisplayName: "bob",
		Attributes:  map[string]string{"user": "bob"},
		Watchlist:   []string{"bob2"},
	}

	// When the public profile is modified
	profile := identity.PublicProfile()
	profile.UserInfo["user"] = "mallory"

	// Then the identity is untouched
	req.Equal("bob", profile.UserID)
	req.Equal("bob", identity.Attributes["user"])
}
