package internal

import (
	"channel-gate/domain"
	"fmt"
	"strings"
	"time"
)

type Config struct {
	PusherAppID     string        `env:"PUSHER_APP_ID,required=true"`
	PusherAppKey    string        `env:"PUSHER_APP_KEY,required=true"`
	PusherAppSecret string        `env:"PUSHER_APP_SECRET,required=true"`
	PusherHost      string        `env:"PUSHER_HOST,default=localhost:6001"`
	PusherSecure    bool          `env:"PUSHER_SECURE,default=false"`
	PusherCluster   string        `env:"PUSHER_CLUSTER"`
	BrokerTimeout   time.Duration `env:"BROKER_TIMEOUT,default=5s"`

	Host     string `env:"HOST,default=0.0.0.0"`
	Port     int    `env:"PORT,default=3000"`
	LogLevel string `env:"LOG_LEVEL,default=INFO"`

	BroadcastInterval time.Duration `env:"BROADCAST_INTERVAL,default=1s"`
	BannedPrefix      string        `env:"BANNED_PREFIX,default=x"`
	WatchlistMode     string        `env:"WATCHLIST_MODE,default=placeholder"`
	WatchlistLimit    int           `env:"WATCHLIST_LIMIT,default=10"`
	WebhookAllEvents  bool          `env:"WEBHOOK_ALL_EVENTS,default=false"`

	SessionTTL        time.Duration `env:"SESSION_TTL,default=24h"`
	IdentityStorePath string        `env:"IDENTITY_STORE_PATH"`
	StoreGCInterval   time.Duration `env:"STORE_GC_INTERVAL,default=5m"`
	HealthInterval    time.Duration `env:"HEALTH_INTERVAL,default=1m"`

	EventSigningKey string `env:"EVENT_SIGNING_KEY"`
	AllowedOrigins  string `env:"ALLOWED_ORIGINS,default=*"`
	StaticDir       string `env:"STATIC_DIR"`

	ProfileFirstname string `env:"PROFILE_FIRSTNAME"`
	ProfileLastname  string `env:"PROFILE_LASTNAME"`
	ProfilePosition  string `env:"PROFILE_POSITION"`
}

func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Origins splits ALLOWED_ORIGINS. A nil result means every origin is allowed.
func (c Config) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			return nil
		}
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// Profile returns the attributes published with every identity.
func (c Config) Profile() map[string]string {
	return map[string]string{
		"firstname": c.ProfileFirstname,
		"lastname":  c.ProfileLastname,
		"position":  c.ProfilePosition,
	}
}

// Watchlist parses WATCHLIST_MODE.
func (c Config) Watchlist() (domain.WatchlistMode, error) {
	mode, err := domain.ParseWatchlistMode(c.WatchlistMode)
	if err != nil {
		return "", fmt.Errorf("WATCHLIST_MODE: %w", err)
	}
	return mode, nil
}

func (c Config) Validate() error {
	if _, err := c.Watchlist(); err != nil {
		return err
	}
	if c.WatchlistLimit < 0 {
		return fmt.Errorf("WATCHLIST_LIMIT must be positive, got %d", c.WatchlistLimit)
	}
	if c.BroadcastInterval <= 0 {
		return fmt.Errorf("BROADCAST_INTERVAL must be positive, got %s", c.BroadcastInterval)
	}
	if c.StoreGCInterval < 0 {
		return fmt.Errorf("STORE_GC_INTERVAL must not be negative, got %s", c.StoreGCInterval)
	}
	if c.HealthInterval < 0 {
		return fmt.Errorf("HEALTH_INTERVAL must not be negative, got %s", c.HealthInterval)
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("SESSION_TTL must not be negative, got %s", c.SessionTTL)
	}
	return nil
}
