package broker

import (
	"channel-gate/domain"
	"channel-gate/errors"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/pusher/pusher-http-go/v5"
)

// Config holds the credentials and location of the Pusher-compatible broker.
type Config struct {
	AppID   string
	Key     string
	Secret  string
	Host    string
	Secure  bool
	Cluster string
	Timeout time.Duration
}

// PusherBroker implements contract.IBroker on top of the Pusher HTTP client.
type PusherBroker struct {
	client *pusher.Client
	log    *slog.Logger
}

func NewPusherBroker(config Config, log *slog.Logger) *PusherBroker {
	client := &pusher.Client{
		AppID:      config.AppID,
		Key:        config.Key,
		Secret:     config.Secret,
		Host:       config.Host,
		Secure:     config.Secure,
		Cluster:    config.Cluster,
		HTTPClient: &http.Client{Timeout: config.Timeout},
	}
	return &PusherBroker{client: client, log: log}
}

// Publish triggers event on channel. The Pusher client has no context support,
// ctx is only checked before the call.
func (b *PusherBroker) Publish(ctx context.Context, channel domain.ChannelName, event string, data any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrBrokerFailure, err)
	}
	if err := b.client.Trigger(channel.String(), event, data); err != nil {
		return fmt.Errorf("%w: trigger %s on %s: %v", errors.ErrBrokerFailure, event, channel, err)
	}
	return nil
}

// MintSessionToken signs the user authentication response for session.
// The user data carries the id, the profile as user_info and the watchlist.
func (b *PusherBroker) MintSessionToken(ctx context.Context, session string, identity domain.Identity) (domain.AuthToken, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrBrokerFailure, err)
	}
	params := url.Values{"socket_id": {session}}
	userData := map[string]interface{}{
		"id":        identity.ID,
		"user_info": identity.Attributes,
	}
	if len(identity.Watchlist) > 0 {
		userData["watchlist"] = identity.Watchlist
	}
	response, err := b.client.AuthenticateUser([]byte(params.Encode()), userData)
	if err != nil {
		return nil, fmt.Errorf("%w: authenticate user %s: %v", errors.ErrBrokerFailure, identity.ID, err)
	}
	return response, nil
}

// MintChannelToken signs a subscription to channel for session, with member data when presence is set.
func (b *PusherBroker) MintChannelToken(ctx context.Context, session string, channel domain.ChannelName, presence *domain.PresenceInfo) (domain.ChannelToken, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrBrokerFailure, err)
	}
	params := []byte(url.Values{
		"socket_id":    {session},
		"channel_name": {channel.String()},
	}.Encode())

	var (
		response []byte
		err      error
	)
	if presence == nil {
		response, err = b.client.AuthorizePrivateChannel(params)
	} else {
		response, err = b.client.AuthorizePresenceChannel(params, pusher.MemberData{
			UserID:   presence.UserID,
			UserInfo: presence.UserInfo,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("%w: authorize %s: %v", errors.ErrBrokerFailure, channel, err)
	}
	b.log.Debug("Channel token minted", "channel", channel, "presence", presence != nil)
	return response, nil
}
