// Package metrics instruments the lifecycle lanes. Prometheus counters cover
// the aggregate view (firings and hook errors per phase); a concurrent map
// keeps a per-module hook tally that the debug endpoint serves as JSON. The
// three tick lanes increment concurrently, so the tally map must tolerate
// concurrent writers.
package metrics

import (
	"net/http"
	"sync/atomic"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Set bundles the lifecycle metrics for one app instance. A fresh
// prometheus.Registry per Set keeps tests and multiple apps isolated.
type Set struct {
	registry   *prometheus.Registry
	firings    *prometheus.CounterVec
	hookErrors *prometheus.CounterVec
	tally      cmap.ConcurrentMap[string, *atomic.Int64]
}

// New creates and registers the lifecycle metrics.
func New() *Set {
	reg := prometheus.NewRegistry()

	firings := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "runloop_phase_firings_total",
		Help: "Tick-source firings observed per lifecycle phase.",
	}, []string{"phase"})

	hookErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "runloop_hook_errors_total",
		Help: "Errors returned by lifecycle hooks, per phase.",
	}, []string{"phase"})

	reg.MustRegister(firings, hookErrors)

	return &Set{
		registry:   reg,
		firings:    firings,
		hookErrors: hookErrors,
		tally:      cmap.New[*atomic.Int64](),
	}
}

// Handler exposes the Set's registry in Prometheus text format.
func (s *Set) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}

// Firing records one tick-source firing for a phase.
func (s *Set) Firing(phase string) {
	s.firings.WithLabelValues(phase).Inc()
}

// HookError records one hook failure for a phase.
func (s *Set) HookError(phase string) {
	s.hookErrors.WithLabelValues(phase).Inc()
}

// HookRan bumps the per-module tally for one hook invocation.
func (s *Set) HookRan(phase, module string) {
	key := phase + "/" + module
	if c, ok := s.tally.Get(key); ok {
		c.Add(1)
		return
	}
	c := &atomic.Int64{}
	if !s.tally.SetIfAbsent(key, c) {
		// Lost the insert race; bump the winner instead.
		c, _ = s.tally.Get(key)
	}
	c.Add(1)
}

// TallySnapshot returns the per-module hook counts, keyed "phase/module".
func (s *Set) TallySnapshot() map[string]int64 {
	out := make(map[string]int64, s.tally.Count())
	for item := range s.tally.IterBuffered() {
		out[item.Key] = item.Val.Load()
	}
	return out
}
