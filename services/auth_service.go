package services

import (
	"channel-gate/auth"
	"channel-gate/contract"
	"channel-gate/domain"
	"channel-gate/errors"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"
)

type IAuthService interface {
	Authenticate(ctx context.Context, user, session string) (domain.AuthToken, error)
	Authorize(ctx context.Context, session string, channel domain.ChannelName) (domain.ChannelToken, error)
}

// AuthPolicy holds the tunable rules of authentication.
type AuthPolicy struct {
	// BannedPrefix rejects every user whose name starts with it. Empty disables the ban.
	BannedPrefix   string
	WatchlistMode  domain.WatchlistMode
	WatchlistLimit int
	// Profile attributes added to every identity next to "user".
	Profile map[string]string
}

func DefaultAuthPolicy() AuthPolicy {
	return AuthPolicy{
		BannedPrefix:   "x",
		WatchlistMode:  domain.WatchlistPlaceholder,
		WatchlistLimit: domain.DefaultWatchlistLimit,
	}
}

type authenticateInput struct {
	User    string `validate:"required,max=128"`
	Session string `validate:"required"`
}

type authorizeInput struct {
	Session string `validate:"required"`
	Channel string `validate:"required,max=200"`
}

type AuthService struct {
	log       *slog.Logger
	directory contract.IIdentityDirectory
	broker    contract.IBroker
	policy    AuthPolicy
}

func NewAuthService(log *slog.Logger, directory contract.IIdentityDirectory, broker contract.IBroker, policy AuthPolicy) *AuthService {
	if policy.WatchlistLimit <= 0 {
		policy.WatchlistLimit = domain.DefaultWatchlistLimit
	}
	return &AuthService{log: log, directory: directory, broker: broker, policy: policy}
}

// Authenticate builds the identity of user, has the broker sign it for session
// and binds session to it. The directory is only touched on success.
func (s *AuthService) Authenticate(ctx context.Context, user, session string) (domain.AuthToken, error) {
	if err := auth.Validate(authenticateInput{User: user, Session: session}); err != nil {
		return nil, err
	}

	if s.policy.BannedPrefix != "" && strings.HasPrefix(user, s.policy.BannedPrefix) {
		return nil, fmt.Errorf("%w: %s", errors.ErrBanned, user)
	}

	watchlist, err := s.watchlist(user)
	if err != nil {
		return nil, err
	}

	identity := domain.Identity{
		ID:          user,
		DisplayName: user,
		Attributes:  s.attributes(user),
		Watchlist:   watchlist,
	}

	token, err := s.broker.MintSessionToken(ctx, session, identity)
	if err != nil {
		return nil, err
	}

	if err := s.directory.Set(session, identity); err != nil {
		return nil, fmt.Errorf("identity store failed: %w", err)
	}
	s.log.Debug("Auth successful", "user", user, "session", session)
	return token, nil
}

// Authorize lets session subscribe to channel when the unit key of the channel
// and the display name of the session's identity start with the same character.
func (s *AuthService) Authorize(ctx context.Context, session string, channel domain.ChannelName) (domain.ChannelToken, error) {
	if err := auth.Validate(authorizeInput{Session: session, Channel: channel.String()}); err != nil {
		return nil, err
	}

	identity, err := s.directory.Get(session)
	if err != nil {
		return nil, err
	}

	if !channel.OwnedBy(identity.DisplayName) {
		return nil, fmt.Errorf("%w: user %s is not authorized to subscribe unit: %s",
			errors.ErrForbidden, identity.DisplayName, channel)
	}

	var presence *domain.PresenceInfo
	if !channel.IsPrivate() {
		presence = lo.ToPtr(identity.PublicProfile())
	}

	token, err := s.broker.MintChannelToken(ctx, session, channel, presence)
	if err != nil {
		return nil, err
	}
	s.log.Debug("Authz successful", "user", identity.DisplayName, "channel", channel)
	return token, nil
}

func (s *AuthService) attributes(user string) map[string]string {
	attributes := make(map[string]string, len(s.policy.Profile)+1)
	for k, v := range s.policy.Profile {
		if v != "" {
			attributes[k] = v
		}
	}
	attributes["user"] = user
	return attributes
}

// watchlist computes the friend candidates of user among the tracked identities.
// In placeholder mode the candidates are computed then replaced by domain.PlaceholderWatchlist.
func (s *AuthService) watchlist(user string) ([]string, error) {
	identities, err := s.directory.List()
	if err != nil {
		return nil, fmt.Errorf("identity listing failed: %w", err)
	}
	candidates := Candidates(user, identities)

	if s.policy.WatchlistMode == domain.WatchlistComputed {
		return lo.Subset(candidates, 0, uint(s.policy.WatchlistLimit)), nil
	}
	s.log.Debug("Serving placeholder watchlist", "user", user, "candidates", len(candidates))
	placeholder := append([]string(nil), domain.PlaceholderWatchlist...)
	return lo.Subset(placeholder, 0, uint(s.policy.WatchlistLimit)), nil
}

// Candidates returns the ids of the identities whose lowercase display name starts
// with the name stem of user, user excluded. Duplicates keep their first occurrence.
func Candidates(user string, identities []domain.Identity) []string {
	lowerUser := strings.ToLower(user)
	stem := domain.NameStem(user)

	matches := lo.Filter(identities, func(item domain.Identity, _ int) bool {
		lowerName := strings.ToLower(item.DisplayName)
		return strings.HasPrefix(lowerName, stem) && lowerName != lowerUser
	})
	return lo.Uniq(lo.Map(matches, func(item domain.Identity, _ int) string {
		return item.ID
	}))
}
