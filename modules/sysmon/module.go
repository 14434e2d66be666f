// Package sysmon is a built-in module that samples host CPU and memory on
// the update lane, backed by gopsutil.
package sysmon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/vk/runloop/internal/catalog"
	"github.com/vk/runloop/internal/ctxlog"
)

// Module implements the catalog.Module interface for this package.
type Module struct{}

// Register registers the factory with the catalog.
func (Module) Register(c *catalog.Catalog) {
	c.RegisterFactory("sysmon", New)
}

// New builds a Sysmon from its declared params. Supported params:
//
//	sample     — sampling period as a duration string (default "10s")
//	sample_cpu — whether to sample CPU load (default true)
func New(ctx context.Context, params catalog.Params) (any, error) {
	sample, err := params.Duration("sample", 10*time.Second)
	if err != nil {
		return nil, err
	}
	sampleCPU, err := params.Bool("sample_cpu", true)
	if err != nil {
		return nil, err
	}
	return &Sysmon{sample: sample.Seconds(), sampleCPU: sampleCPU}, nil
}

// Sysmon implements Initializer, Starter, and Updater.
type Sysmon struct {
	logger    *slog.Logger
	sample    float64
	window    float64
	sampleCPU bool
}

// OnInit logs the host facts once.
func (s *Sysmon) OnInit(ctx context.Context) error {
	s.logger = ctxlog.FromContext(ctx).With("module", "sysmon")

	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return fmt.Errorf("reading host info: %w", err)
	}
	s.logger.Info("Host facts.", "os", info.OS, "platform", info.Platform, "uptime_seconds", info.Uptime)
	return nil
}

// OnStart warms the CPU counters. The first CPU sample needs a measurement
// window, which would be far too slow for an init hook; the start lane is
// allowed to block.
func (s *Sysmon) OnStart(ctx context.Context) error {
	if !s.sampleCPU {
		return nil
	}
	if _, err := cpu.PercentWithContext(ctx, time.Second, false); err != nil {
		return fmt.Errorf("warming cpu counters: %w", err)
	}
	s.logger.Debug("CPU counters warmed.")
	return nil
}

// OnUpdate samples once per configured period.
func (s *Sysmon) OnUpdate(dt float64) error {
	s.window += dt
	if s.window < s.sample {
		return nil
	}
	s.window -= s.sample

	vm, err := mem.VirtualMemory()
	if err != nil {
		return fmt.Errorf("sampling memory: %w", err)
	}
	args := []any{"mem_used_percent", vm.UsedPercent}

	if s.sampleCPU {
		// Zero interval reuses the counters warmed by OnStart.
		pcts, err := cpu.Percent(0, false)
		if err != nil {
			return fmt.Errorf("sampling cpu: %w", err)
		}
		if len(pcts) > 0 {
			args = append(args, "cpu_percent", pcts[0])
		}
	}

	s.logger.Info("System sample.", args...)
	return nil
}
