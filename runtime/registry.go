package runtime

import (
	"channel-gate/domain"
	"context"
	"sort"
	"sync"

	"github.com/samber/lo"
)

// OccupancyTimer is the handle of the recurring task running for one occupied channel.
type OccupancyTimer struct {
	Channel domain.ChannelName
	cancel  context.CancelFunc
	done    chan struct{}
}

// Stop cancels the task and waits until it exited: no publish happens after Stop returns.
func (t *OccupancyTimer) Stop() {
	t.cancel()
	<-t.done
}

type channelLock struct {
	sync.Mutex
	refs int
}

// TimerRegistry indexes the running timers by channel.
// It also hands out one lock per channel so that transitions of a channel are serialized
// while other channels proceed. Locks are dropped once nobody holds or waits for them.
type TimerRegistry struct {
	mu     sync.RWMutex
	timers map[domain.ChannelName]*OccupancyTimer
	locks  map[domain.ChannelName]*channelLock
}

func NewTimerRegistry() *TimerRegistry {
	return &TimerRegistry{
		timers: make(map[domain.ChannelName]*OccupancyTimer),
		locks:  make(map[domain.ChannelName]*channelLock),
	}
}

// Lock acquires the lock of channel and returns its release function.
func (r *TimerRegistry) Lock(channel domain.ChannelName) func() {
	r.mu.Lock()
	lock, ok := r.locks[channel]
	if !ok {
		lock = &channelLock{}
		r.locks[channel] = lock
	}
	lock.refs++
	r.mu.Unlock()

	lock.Lock()
	return func() {
		lock.Unlock()
		r.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(r.locks, channel)
		}
		r.mu.Unlock()
	}
}

func (r *TimerRegistry) Get(channel domain.ChannelName) (*OccupancyTimer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	timer, ok := r.timers[channel]
	return timer, ok
}

func (r *TimerRegistry) Put(timer *OccupancyTimer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timers[timer.Channel] = timer
}

func (r *TimerRegistry) Delete(channel domain.ChannelName) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.timers, channel)
}

// Channels returns the channels with a running timer, sorted.
func (r *TimerRegistry) Channels() []domain.ChannelName {
	r.mu.RLock()
	defer r.mu.RUnlock()
	channels := lo.Keys(r.timers)
	sort.Slice(channels, func(i, j int) bool { return channels[i] < channels[j] })
	return channels
}

func (r *TimerRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.timers)
}
