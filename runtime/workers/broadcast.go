package workers

import (
	"channel-gate/contract"
	"channel-gate/domain"
	"context"
	"fmt"
	"log/slog"
	"time"
)

// BroadcastWorker publishes a data event on an occupied channel at a fixed interval.
type BroadcastWorker struct {
	log      *slog.Logger
	broker   contract.IBroker
	channel  domain.ChannelName
	interval time.Duration
	now      func() time.Time
}

func NewBroadcastWorker(log *slog.Logger, broker contract.IBroker, channel domain.ChannelName, interval time.Duration) *BroadcastWorker {
	return &BroadcastWorker{
		log:      log.With("channel", channel),
		broker:   broker,
		channel:  channel,
		interval: interval,
		now:      time.Now,
	}
}

// Payload is the data published on each tick: "<channel> => <unix ms>".
func (w *BroadcastWorker) Payload(at time.Time) string {
	return fmt.Sprintf("%s => %d", w.channel, at.UnixMilli())
}

// Run ticks until ctx is canceled. A failed publish is logged and the next tick retried,
// nothing is published once ctx is done.
func (w *BroadcastWorker) Run(ctx context.Context) error {
	w.log.Debug("Trigger real time data")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stop real time update")
			return nil
		case <-ticker.C:
			if ctx.Err() != nil {
				return nil
			}
			if err := w.broker.Publish(ctx, w.channel, domain.BroadcastEvent, w.Payload(w.now())); err != nil {
				w.log.Warn("Real time publish failed", "error", err)
			}
		}
	}
}
