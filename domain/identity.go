// Package domain contains core concepts of the channel gate.
// This file defines identities and the tokens minted for them.
// No runtime, network, or storage logic should be added here.
package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultWatchlistLimit is the maximum number of entries kept in a watchlist.
const DefaultWatchlistLimit = 10

// PlaceholderWatchlist is served instead of the computed candidates in WatchlistPlaceholder mode.
var PlaceholderWatchlist = []string{"pud", "pud2", "pud3"}

var nameStem = regexp.MustCompile(`^\D+`)

// Identity is the authenticated profile bound to a session.
// It is replaced, never mutated, when the same session authenticates again.
type Identity struct {
	ID          string            `cbor:"id" json:"id"`
	DisplayName string            `cbor:"display_name" json:"display_name"`
	Attributes  map[string]string `cbor:"attributes" json:"user_info"`
	Watchlist   []string          `cbor:"watchlist" json:"watchlist,omitempty"`
}

// PresenceInfo is the public part of an identity rendered in presence member lists.
type PresenceInfo struct {
	UserID   string
	UserInfo map[string]string
}

// PublicProfile exposes the id and a copy of the attributes.
func (i Identity) PublicProfile() PresenceInfo {
	info := make(map[string]string, len(i.Attributes))
	for k, v := range i.Attributes {
		info[k] = v
	}
	return PresenceInfo{UserID: i.ID, UserInfo: info}
}

// NameStem returns the leading non-digit run of the lowercase user name.
// Names starting with a digit fall back to the stem "9".
func NameStem(user string) string {
	if stem := nameStem.FindString(strings.ToLower(user)); stem != "" {
		return stem
	}
	return "9"
}

// WatchlistMode decides what is served as the watchlist of a new identity.
type WatchlistMode string

const (
	// WatchlistPlaceholder discards the computed candidates and serves PlaceholderWatchlist.
	WatchlistPlaceholder WatchlistMode = "placeholder"
	// WatchlistComputed serves the candidates computed from the tracked identities.
	WatchlistComputed WatchlistMode = "computed"
)

func ParseWatchlistMode(s string) (WatchlistMode, error) {
	switch mode := WatchlistMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case WatchlistPlaceholder, WatchlistComputed:
		return mode, nil
	case "":
		return WatchlistPlaceholder, nil
	default:
		return "", fmt.Errorf("unknown watchlist mode %q", s)
	}
}

// AuthToken is the broker-signed user authentication response, serialized as JSON.
type AuthToken []byte

// ChannelToken is the broker-signed channel authorization response, serialized as JSON.
type ChannelToken []byte
