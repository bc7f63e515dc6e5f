package services

import (
	"channel-gate/auth"
	"channel-gate/contract"
	"channel-gate/domain"
	"channel-gate/errors"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

type IWebhookService interface {
	Handle(ctx context.Context, appKey, signature string, body []byte) error
}

// WebhookConfig identifies the broker allowed to send webhooks.
type WebhookConfig struct {
	AppKey string
	Secret []byte
	// AllEvents processes the whole batch. By default only the first event is acted upon.
	AllEvents bool
}

type WebhookService struct {
	log       *slog.Logger
	scheduler contract.IScheduler
	config    WebhookConfig
}

func NewWebhookService(log *slog.Logger, scheduler contract.IScheduler, config WebhookConfig) *WebhookService {
	return &WebhookService{log: log, scheduler: scheduler, config: config}
}

// Handle verifies a webhook and forwards its events to the scheduler.
// A webhook failing verification is dropped without error so that nothing
// about the verification leaks to the caller.
func (s *WebhookService) Handle(ctx context.Context, appKey, signature string, body []byte) error {
	if err := s.verify(appKey, signature, body); err != nil {
		s.log.Debug("Dropping webhook", "error", err)
		return nil
	}

	var payload domain.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrMalformedWebhook, err)
	}
	if len(payload.Events) == 0 {
		s.log.Warn("Webhook without events", "time_ms", payload.TimeMs)
		return nil
	}

	events := payload.Events[:1]
	if s.config.AllEvents {
		events = payload.Events
	} else if len(payload.Events) > 1 {
		s.log.Debug("Only the first webhook event is processed", "received", len(payload.Events))
	}

	for _, event := range events {
		if err := s.scheduler.HandleEvent(ctx, event.Name, event.Channel); err != nil {
			return fmt.Errorf("webhook event %s on %s failed: %w", event.Name, event.Channel, err)
		}
	}
	return nil
}

func (s *WebhookService) verify(appKey, signature string, body []byte) error {
	if s.config.AppKey != "" && appKey != s.config.AppKey {
		return fmt.Errorf("%w: unexpected app key %q", errors.ErrSignatureInvalid, appKey)
	}
	if !auth.VerifySignature(body, signature, s.config.Secret) {
		return errors.ErrSignatureInvalid
	}
	return nil
}
