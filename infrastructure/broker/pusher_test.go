package broker

import (
	"channel-gate/auth"
	"channel-gate/domain"
	"channel-gate/errors"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

const (
	appKey    = "278d425bdf160c739803"
	appSecret = "7ad3773142a6692b25b8"
	socketID  = "1234.1234"
)

func newBroker(host string) *PusherBroker {
	return NewPusherBroker(Config{
		AppID:   "3",
		Key:     appKey,
		Secret:  appSecret,
		Host:    host,
		Timeout: time.Second,
	}, logs.GetLoggerFromLevel(slog.LevelDebug))
}

type authResponse struct {
	Auth        string `json:"auth"`
	ChannelData string `json:"channel_data"`
	UserData    string `json:"user_data"`
}

func TestPusherBroker_MintChannelToken_Private(t *testing.T) {
	req := require.New(t)
	broker := newBroker("localhost:6001")

	token, err := broker.MintChannelToken(context.Background(), socketID, "private-unit-bob", nil)
	req.NoError(err)

	var response authResponse
	req.NoError(json.Unmarshal(token, &response))
	expected := appKey + ":" + auth.Sign([]byte(socketID+":private-unit-bob"), []byte(appSecret))
	req.Equal(expected, response.Auth)
	req.Empty(response.ChannelData)
}

func TestPusherBroker_MintChannelToken_Presence(t *testing.T) {
	req := require.New(t)
	broker := newBroker("localhost:6001")
	presence := &domain.PresenceInfo{UserID: "bob", UserInfo: map[string]string{"user": "bob"}}

	token, err := broker.MintChannelToken(context.Background(), socketID, "presence-unit-bob", presence)
	req.NoError(err)

	var response authResponse
	req.NoError(json.Unmarshal(token, &response))
	req.True(strings.HasPrefix(response.Auth, appKey+":"))

	var member map[string]any
	req.NoError(json.Unmarshal([]byte(response.ChannelData), &member))
	req.Equal("bob", member["user_id"])
	req.Equal(map[string]any{"user": "bob"}, member["user_info"])

	expected := appKey + ":" + auth.Sign([]byte(socketID+":presence-unit-bob:"+response.ChannelData), []byte(appSecret))
	req.Equal(expected, response.Auth)
}

func TestPusherBroker_MintSessionToken(t *testing.T) {
	req := require.New(t)
	broker := newBroker("localhost:6001")
	identity := domain.Identity{
		ID:          "bob",
		DisplayName: "bob",
		Attributes:  map[string]string{"user": "bob"},
		Watchlist:   []string{"pud", "pud2", "pud3"},
	}

	token, err := broker.MintSessionToken(context.Background(), socketID, identity)
	req.NoError(err)

	var response authResponse
	req.NoError(json.Unmarshal(token, &response))
	req.True(strings.HasPrefix(response.Auth, appKey+":"))

	var userData map[string]any
	req.NoError(json.Unmarshal([]byte(response.UserData), &userData))
	req.Equal("bob", userData["id"])
	req.Equal([]any{"pud", "pud2", "pud3"}, userData["watchlist"])
}

func TestPusherBroker_Publish(t *testing.T) {
	req := require.New(t)
	received := make(chan map[string]any, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var event map[string]any
		_ = json.Unmarshal(body, &event)
		event["path"] = r.URL.Path
		received <- event
		_, _ = w.Write([]byte("{}"))
	}))
	defer server.Close()

	broker := newBroker(strings.TrimPrefix(server.URL, "http://"))
	err := broker.Publish(context.Background(), "private-foo", domain.BroadcastEvent, "private-foo => 1")
	req.NoError(err)

	event := <-received
	req.Equal("/apps/3/events", event["path"])
	req.Equal(domain.BroadcastEvent, event["name"])
	req.Equal([]any{"private-foo"}, event["channels"])
	req.Equal("private-foo => 1", event["data"])
}

func TestPusherBroker_Publish_Failure(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	broker := newBroker(strings.TrimPrefix(server.URL, "http://"))
	err := broker.Publish(context.Background(), "private-foo", domain.BroadcastEvent, "x")
	req.ErrorIs(err, errors.ErrBrokerFailure)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = broker.Publish(ctx, "private-foo", domain.BroadcastEvent, "x")
	req.ErrorIs(err, errors.ErrBrokerFailure)
}
