package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vk/runloop/internal/catalog"
	"github.com/vk/runloop/internal/config"
	"github.com/vk/runloop/internal/ctxlog"
	"github.com/vk/runloop/internal/hostenv"
	"github.com/vk/runloop/internal/metrics"
	"github.com/vk/runloop/internal/orchestrator"
	"github.com/vk/runloop/internal/registry"
	"github.com/vk/runloop/internal/ticksource"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle wiring: logger, decoded config model, module catalog, registry,
// tick sources, and the orchestrator itself.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	model  *config.Model
	cat    *catalog.Catalog
	reg    *registry.Registry
	env    *hostenv.Env
	met    *metrics.Set
	orch   *orchestrator.Orchestrator

	update  *ticksource.Interval
	physics *ticksource.Interval
	render  *ticksource.Interval

	httpServer *http.Server
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger, catalog, and
// registry. When no modules are passed, the built-in set is registered.
func NewApp(outW io.Writer, appConfig *Config, mods ...catalog.Module) *App {
	bootCtx := context.Background()

	model, err := config.Load(bootCtx, appConfig.ConfigPath)
	if err != nil {
		// A failure to load config is a fatal startup error.
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}

	logLevel := model.LogLevel
	if appConfig.LogLevel != "" {
		logLevel = appConfig.LogLevel
	}
	logFormat := model.LogFormat
	if appConfig.LogFormat != "" {
		logFormat = appConfig.LogFormat
	}
	logger := newLogger(logLevel, logFormat, outW)
	logger.Debug("Logger configured successfully.", "role", model.Role)

	cat := catalog.New()
	if len(mods) == 0 {
		mods = coreModules
	}
	for _, mod := range mods {
		mod.Register(cat)
	}
	logger.Debug("All module factories registered.", "count", len(mods), "types", cat.Types())

	env := hostenv.New(model.Role)
	reg := registry.New()
	met := metrics.New()

	app := &App{
		outW:    outW,
		logger:  logger,
		model:   model,
		cat:     cat,
		reg:     reg,
		env:     env,
		met:     met,
		update:  ticksource.NewInterval(model.Ticks.Update),
		physics: ticksource.NewInterval(model.Ticks.Physics),
	}
	if env.IsClientLike() {
		app.render = ticksource.NewInterval(model.Ticks.Render)
	}

	opts := orchestrator.Options{
		Registry:     reg,
		Env:          env,
		Update:       app.update,
		Physics:      app.physics,
		Metrics:      met,
		StartWorkers: model.StartWorkers,
	}
	if app.render != nil {
		opts.Render = app.render
	}
	orch, err := orchestrator.New(opts)
	if err != nil {
		// Wiring mismatches are programmer errors.
		panic(err)
	}
	app.orch = orch

	return app
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.reg
}

// Orchestrator returns the application's orchestrator. Primarily for testing.
func (a *App) Orchestrator() *orchestrator.Orchestrator {
	return a.orch
}

// Logger returns a context carrying the app's logger.
func (a *App) loggedContext(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
