package ticksource

import "sync"

// Manual is a Source fired explicitly by the caller. It exists for tests and
// for hosts that bring their own frame loop.
type Manual struct {
	mu   sync.Mutex
	subs []func(dt float64)
}

// NewManual creates an empty manual source.
func NewManual() *Manual {
	return &Manual{}
}

// Subscribe registers fn to be called once per Fire.
func (m *Manual) Subscribe(fn func(dt float64)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// Fire synchronously invokes every subscriber, in subscription order, with
// the given elapsed-time value.
func (m *Manual) Fire(dt float64) {
	m.mu.Lock()
	subs := make([]func(dt float64), len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(dt)
	}
}
