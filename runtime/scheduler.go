// Package runtime drives the recurring tasks attached to occupied channels.
// It orchestrates the workers without containing authorization rules.
package runtime

import (
	"channel-gate/contract"
	"channel-gate/domain"
	"channel-gate/errors"
	"channel-gate/runtime/workers"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultBroadcastInterval is the period of the data feed of an occupied channel.
const DefaultBroadcastInterval = time.Second

// OccupancyScheduler is the single authority starting and stopping the broadcast task of a channel.
// Per channel the state machine is Idle -> Active -> Idle.
type OccupancyScheduler struct {
	log      *slog.Logger
	broker   contract.IBroker
	registry *TimerRegistry
	interval time.Duration

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

func NewOccupancyScheduler(log *slog.Logger, broker contract.IBroker, registry *TimerRegistry, interval time.Duration) *OccupancyScheduler {
	if interval <= 0 {
		interval = DefaultBroadcastInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &OccupancyScheduler{
		log:      log,
		broker:   broker,
		registry: registry,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// HandleEvent applies a webhook notification to the channel.
// Occupied broadcastable channels start their task, any other occupied or vacated
// notification stops it. Unknown event names are ignored.
func (s *OccupancyScheduler) HandleEvent(ctx context.Context, name string, channel domain.ChannelName) error {
	switch name {
	case domain.ChannelOccupied:
		if channel.IsBroadcastable() {
			return s.start(channel)
		}
		s.stop(channel)
	case domain.ChannelVacated:
		s.stop(channel)
	default:
		s.log.Debug("Ignoring webhook event", "name", name, "channel", channel)
	}
	return nil
}

// start is a no-op when the channel already has a running task.
func (s *OccupancyScheduler) start(channel domain.ChannelName) error {
	unlock := s.registry.Lock(channel)
	defer unlock()

	if _, ok := s.registry.Get(channel); ok {
		s.log.Debug("Real time data already running", "channel", channel)
		return nil
	}

	// Held until the timer is registered so that Close sees it.
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("%w: cannot start %s", errors.ErrSchedulerClosed, channel)
	}
	ctx, cancel := context.WithCancel(s.ctx)

	timer := &OccupancyTimer{Channel: channel, cancel: cancel, done: make(chan struct{})}
	worker := workers.NewBroadcastWorker(s.log, s.broker, channel, s.interval)
	go func() {
		defer close(timer.done)
		workers.Supervise(ctx, s.log, worker)
	}()
	s.registry.Put(timer)
	s.log.Info("Trigger real time data for channel", "channel", channel, "interval", s.interval)
	return nil
}

// stop cancels the task of channel, waits for it, then forgets it.
func (s *OccupancyScheduler) stop(channel domain.ChannelName) {
	unlock := s.registry.Lock(channel)
	defer unlock()

	timer, ok := s.registry.Get(channel)
	if !ok {
		return
	}
	timer.Stop()
	s.registry.Delete(channel)
	s.log.Info("Stop real time update for channel", "channel", channel)
}

// Active lists the channels currently receiving the data feed.
func (s *OccupancyScheduler) Active() []domain.ChannelName {
	return s.registry.Channels()
}

// Close stops every task and rejects further starts. Safe to call twice.
func (s *OccupancyScheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	for _, channel := range s.registry.Channels() {
		s.stop(channel)
	}
	s.log.Info("Occupancy scheduler closed")
}
