// Package heartbeat is a built-in module that proves the update lane is
// alive: it accumulates elapsed time and logs an uptime line at a configured
// period.
package heartbeat

import (
	"context"
	"log/slog"
	"time"

	"github.com/vk/runloop/internal/catalog"
	"github.com/vk/runloop/internal/ctxlog"
)

// Module implements the catalog.Module interface for this package.
type Module struct{}

// Register registers the factory with the catalog.
func (Module) Register(c *catalog.Catalog) {
	c.RegisterFactory("heartbeat", New)
}

// New builds a Heartbeat from its declared params. Supported params:
//
//	every — reporting period as a duration string (default "5s")
func New(ctx context.Context, params catalog.Params) (any, error) {
	every, err := params.Duration("every", 5*time.Second)
	if err != nil {
		return nil, err
	}
	return &Heartbeat{every: every.Seconds()}, nil
}

// Heartbeat implements Initializer and Updater.
type Heartbeat struct {
	logger *slog.Logger
	every  float64
	window float64
	uptime float64
	beats  uint64
}

// OnInit captures the logger; tick hooks carry no context.
func (h *Heartbeat) OnInit(ctx context.Context) error {
	h.logger = ctxlog.FromContext(ctx).With("module", "heartbeat")
	h.logger.Debug("Heartbeat initialized.", "every_seconds", h.every)
	return nil
}

// OnUpdate accumulates elapsed time and reports once per period.
func (h *Heartbeat) OnUpdate(dt float64) error {
	h.uptime += dt
	h.window += dt
	h.beats++

	if h.window >= h.every {
		h.window -= h.every
		h.logger.Info("💓 Heartbeat.", "uptime_seconds", h.uptime, "beats", h.beats)
	}
	return nil
}

// Uptime returns the accumulated update-lane time in seconds.
func (h *Heartbeat) Uptime() float64 { return h.uptime }

// Beats returns the number of update firings observed.
func (h *Heartbeat) Beats() uint64 { return h.beats }
