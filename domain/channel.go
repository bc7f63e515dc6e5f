// Package domain contains core concepts of the channel gate.
// This file defines channel names and the access rules encoded in their prefix.
package domain

import (
	"regexp"
	"strings"
)

const (
	privatePrefix      = "private-"
	privateCachePrefix = "private-cache-"
	presencePrefix     = "presence-"
)

// unitPrefix matches private-unit-, presence-unit-, private-cache-unit- and presence-cache-unit-.
var unitPrefix = regexp.MustCompile(`^(?:private|presence)(?:-cache)?-unit-`)

// ChannelName is a broker channel whose prefix carries access-control metadata.
// It is parsed on demand and never stored.
type ChannelName string

func (c ChannelName) String() string {
	return string(c)
}

// IsPrivate reports whether the channel is a plain private channel (case-sensitive).
func (c ChannelName) IsPrivate() bool {
	return strings.HasPrefix(string(c), privatePrefix)
}

func (c ChannelName) IsPresence() bool {
	return strings.HasPrefix(string(c), presencePrefix)
}

// IsBroadcastable reports whether an occupied channel should receive the recurring data feed:
// private scoped and not cache scoped, ignoring case.
func (c ChannelName) IsBroadcastable() bool {
	lower := strings.ToLower(string(c))
	return strings.HasPrefix(lower, privatePrefix) && !strings.HasPrefix(lower, privateCachePrefix)
}

// UnitKey strips the private/presence, cache and unit segments from the channel name.
// A channel that does not follow the unit grammar is returned unchanged.
func (c ChannelName) UnitKey() string {
	return unitPrefix.ReplaceAllString(string(c), "")
}

// OwnedBy reports whether the unit key and the display name start with the same character.
// Two empty strings share the same (empty) first character.
func (c ChannelName) OwnedBy(displayName string) bool {
	return firstChar(c.UnitKey()) == firstChar(displayName)
}

func firstChar(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}
