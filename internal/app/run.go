package app

import (
	"context"
	"fmt"

	"github.com/vk/runloop/internal/discovery"
	"github.com/vk/runloop/internal/scope"
)

// Run executes the main application lifecycle: discover the declared
// modules, consume the registry, start the tick lanes, and block until the
// context is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx = a.loggedContext(ctx)
	a.logger.Debug("App.Run method started.")

	root := scope.FromConfig(ctx, a.model.Root)
	loader := scope.NewLoader(a.cat, root)
	source := discovery.New(a.reg, loader)

	if err := source.Descendants(ctx, root); err != nil {
		return fmt.Errorf("module discovery failed: %w", err)
	}
	a.logger.Debug("Discovery complete.", "modules", a.reg.Len())

	if a.model.HealthcheckPort > 0 {
		a.startHealthcheckServer(a.model.HealthcheckPort)
	}

	if err := a.orch.Consume(ctx); err != nil {
		return fmt.Errorf("lifecycle startup failed: %w", err)
	}

	go a.update.Run(ctx)
	go a.physics.Run(ctx)
	if a.render != nil {
		go a.render.Run(ctx)
	}
	a.logger.Debug("Tick lanes running.",
		"update", a.model.Ticks.Update, "physics", a.model.Ticks.Physics, "render", a.model.Ticks.Render)

	<-ctx.Done()

	a.logger.Info("🏁 Shutting down.")
	if err := a.closeHealthcheckServer(); err != nil {
		a.logger.Error("Healthcheck server shutdown failed.", "error", err)
	}
	a.orch.Close()

	a.logger.Debug("App.Run method finished.")
	return nil
}
