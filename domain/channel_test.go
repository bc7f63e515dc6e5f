package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChannelName_UnitKey(t *testing.T) {
	tests := []struct {
		channel ChannelName
		want    string
	}{
		{"private-unit-alpha", "alpha"},
		{"presence-unit-bravo", "bravo"},
		{"private-cache-unit-charlie", "charlie"},
		{"presence-cache-unit-delta", "delta"},
		{"private-echo", "private-echo"},
		{"unit-foxtrot", "unit-foxtrot"},
		{"Private-unit-golf", "Private-unit-golf"},
		{"private-unit-", ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.channel), func(t *testing.T) {
			require.Equal(t, tt.want, tt.channel.UnitKey())
		})
	}
}

func TestChannelName_OwnedBy(t *testing.T) {
	tests := []struct {
		name        string
		channel     ChannelName
		displayName string
		want        bool
	}{
		{"Same first letter", "presence-unit-bob-room", "bob", true},
		{"Different first letter", "presence-unit-bob-room", "alice", false},
		{"Case sensitive", "private-unit-bob", "Bob", false},
		{"No unit grammar compares the whole name", "private-foo", "paul", true},
		{"Empty unit key and empty name", "private-unit-", "", true},
		{"Empty unit key only", "private-unit-", "bob", false},
		{"Multibyte first rune", "private-unit-élodie", "élise", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.channel.OwnedBy(tt.displayName))
		})
	}
}

func TestChannelName_Prefixes(t *testing.T) {
	tests := []struct {
		channel       ChannelName
		private       bool
		presence      bool
		broadcastable bool
	}{
		{"private-foo", true, false, true},
		{"PRIVATE-foo", false, false, true},
		{"private-cache-foo", true, false, false},
		{"Private-Cache-foo", false, false, false},
		{"presence-foo", false, true, false},
		{"presence-cache-foo", false, true, false},
		{"public-foo", false, false, false},
		{"", false, false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.channel), func(t *testing.T) {
			req := require.New(t)
			req.Equal(tt.private, tt.channel.IsPrivate())
			req.Equal(tt.presence, tt.channel.IsPresence())
			req.Equal(tt.broadcastable, tt.channel.IsBroadcastable())
		})
	}
}
