// Package statusline is a built-in render-lane module: once per render tick
// it rewrites a single status line with frame count and a smoothed frame
// rate. On a server-like host its render hook is ignored by the collector;
// the module still initializes and starts normally.
package statusline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/runloop/internal/catalog"
	"github.com/vk/runloop/internal/ctxlog"
)

// Module implements the catalog.Module interface for this package.
type Module struct{}

// Register registers the factory with the catalog.
func (Module) Register(c *catalog.Catalog) {
	c.RegisterFactory("statusline", New)
}

// New builds a Statusline writing to stdout. Supported params:
//
//	label — prefix for the rendered line (default "runloop")
func New(ctx context.Context, params catalog.Params) (any, error) {
	return &Statusline{
		W:     os.Stdout,
		label: params.String("label", "runloop"),
	}, nil
}

// Statusline implements Initializer, Starter, and Renderer. W is exported so
// tests can point the output at a buffer.
type Statusline struct {
	W     io.Writer
	label string

	logger *slog.Logger
	frames uint64
	fps    float64
}

// OnInit captures the logger.
func (s *Statusline) OnInit(ctx context.Context) error {
	s.logger = ctxlog.FromContext(ctx).With("module", "statusline")
	return nil
}

// OnStart announces the status line once the lifecycle is running.
func (s *Statusline) OnStart(ctx context.Context) error {
	s.logger.Info("Status line active.", "label", s.label)
	return nil
}

// OnRender rewrites the status line with the latest frame stats. The frame
// rate is an exponential moving average so a single slow frame does not make
// the line flicker.
func (s *Statusline) OnRender(dt float64) error {
	s.frames++
	if dt > 0 {
		const alpha = 0.1
		s.fps = s.fps*(1-alpha) + (1/dt)*alpha
	}
	_, err := fmt.Fprintf(s.W, "\r%s | frames=%d fps=%.1f", s.label, s.frames, s.fps)
	return err
}

// Frames returns the number of render firings observed.
func (s *Statusline) Frames() uint64 { return s.frames }
