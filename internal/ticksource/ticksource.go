// Package ticksource defines the periodic event sources that drive the
// recurring lifecycle phases. Each source delivers a single elapsed-time
// value (seconds) per firing to its subscribers, in subscription order. The
// interface is subscribe-only: once registered, a callback persists for the
// source's lifetime.
package ticksource

import (
	"context"
	"sync"
	"time"
)

// Source is a periodic event emitter. Subscribe never blocks and there is no
// unsubscribe; a subscription lives as long as the source does.
type Source interface {
	Subscribe(fn func(dt float64))
}

// Interval is a wall-clock Source backed by a time.Ticker. The dt delivered
// to subscribers is the measured elapsed time since the previous firing, not
// the nominal interval, so slow hosts see honest numbers.
type Interval struct {
	every time.Duration

	mu   sync.Mutex
	subs []func(dt float64)
}

// NewInterval creates a Source firing roughly every d.
func NewInterval(d time.Duration) *Interval {
	return &Interval{every: d}
}

// Subscribe registers fn to be called once per firing.
func (s *Interval) Subscribe(fn func(dt float64)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Run drives the ticker loop until ctx is cancelled. Subscribers run on the
// loop goroutine, strictly in subscription order within one firing; distinct
// Interval sources run on distinct goroutines and interleave freely.
func (s *Interval) Run(ctx context.Context) {
	ticker := time.NewTicker(s.every)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			s.fire(dt)
		}
	}
}

func (s *Interval) fire(dt float64) {
	s.mu.Lock()
	subs := make([]func(dt float64), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(dt)
	}
}
