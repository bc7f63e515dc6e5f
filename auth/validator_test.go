package auth

import (
	"channel-gate/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate_UserAuthRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     UserAuthRequest
		wantErr bool
	}{
		{"Valid request", UserAuthRequest{User: "bob", SocketID: "1234.5678"}, false},
		{"Missing user", UserAuthRequest{SocketID: "1234.5678"}, true},
		{"Missing socket id", UserAuthRequest{User: "bob"}, true},
		{"Socket id without dot", UserAuthRequest{User: "bob", SocketID: "12345678"}, true},
		{"Socket id with letters", UserAuthRequest{User: "bob", SocketID: "12a.34"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.req)
			if tt.wantErr {
				require.ErrorIs(t, err, errors.ErrInvalidRequest)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidate_ChannelAndEventRequests(t *testing.T) {
	req := require.New(t)

	req.NoError(Validate(ChannelAuthRequest{SocketID: "1.2", ChannelName: "private-unit-bob"}))
	req.ErrorIs(Validate(ChannelAuthRequest{SocketID: "1.2"}), errors.ErrInvalidRequest)

	req.NoError(Validate(EventRequest{Channel: "private-foo", Event: "data", Data: map[string]any{"a": 1}}))
	req.NoError(Validate(&EventRequest{Channel: "private-foo", Event: "data"}))
	req.ErrorIs(Validate(EventRequest{Channel: "private-foo"}), errors.ErrInvalidRequest)
}
