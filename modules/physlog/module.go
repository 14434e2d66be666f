// Package physlog is a built-in module for the physics lane: it counts steps
// and tracks how far each step's elapsed time drifts from the nominal
// interval.
package physlog

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/vk/runloop/internal/catalog"
	"github.com/vk/runloop/internal/ctxlog"
)

// Module implements the catalog.Module interface for this package.
type Module struct{}

// Register registers the factory with the catalog.
func (Module) Register(c *catalog.Catalog) {
	c.RegisterFactory("physlog", New)
}

// New builds a Steps from its declared params. Supported params:
//
//	nominal      — expected step interval as a duration string (default "10ms")
//	report_every — steps between summary log lines (default 600)
func New(ctx context.Context, params catalog.Params) (any, error) {
	nominal, err := params.Duration("nominal", 10*time.Millisecond)
	if err != nil {
		return nil, err
	}
	reportEvery, err := params.Int("report_every", 600)
	if err != nil {
		return nil, err
	}
	return &Steps{nominal: nominal.Seconds(), reportEvery: uint64(reportEvery)}, nil
}

// Steps implements Initializer and PhysicsStepper.
type Steps struct {
	logger      *slog.Logger
	nominal     float64
	reportEvery uint64

	steps     uint64
	maxJitter float64
}

// OnInit captures the logger.
func (s *Steps) OnInit(ctx context.Context) error {
	s.logger = ctxlog.FromContext(ctx).With("module", "physlog")
	s.logger.Debug("Physics step logger initialized.", "nominal_seconds", s.nominal)
	return nil
}

// OnPhysics tracks step jitter and reports periodically.
func (s *Steps) OnPhysics(dt float64) error {
	s.steps++
	if j := math.Abs(dt - s.nominal); j > s.maxJitter {
		s.maxJitter = j
	}
	if s.reportEvery > 0 && s.steps%s.reportEvery == 0 {
		s.logger.Info("Physics lane summary.", "steps", s.steps, "max_jitter_seconds", s.maxJitter)
		s.maxJitter = 0
	}
	return nil
}

// StepCount returns the number of physics firings observed.
func (s *Steps) StepCount() uint64 { return s.steps }
