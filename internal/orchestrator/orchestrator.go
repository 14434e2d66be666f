package orchestrator

import (
	"context"
	"fmt"

	"github.com/panjf2000/ants/v2"

	"github.com/vk/runloop/internal/ctxlog"
	"github.com/vk/runloop/internal/hostenv"
	"github.com/vk/runloop/internal/lifecycle"
	"github.com/vk/runloop/internal/metrics"
	"github.com/vk/runloop/internal/registry"
	"github.com/vk/runloop/internal/ticksource"
)

// Options configures an Orchestrator. Registry, Env, Update and Physics are
// required; Render may be nil on server-like hosts, Metrics defaults to a
// fresh set, StartWorkers 0 means an unbounded start pool.
type Options struct {
	Registry     *registry.Registry
	Env          *hostenv.Env
	Update       ticksource.Source
	Physics      ticksource.Source
	Render       ticksource.Source
	Metrics      *metrics.Set
	StartWorkers int
}

// Orchestrator drives the one-time discovering -> consumed transition and
// wires the recurring phases to their tick sources. The registry's Freeze is
// the sole gate: everything the orchestrator derives from the registry is
// immutable after Consume.
type Orchestrator struct {
	reg     *registry.Registry
	env     *hostenv.Env
	update  ticksource.Source
	physics ticksource.Source
	render  ticksource.Source
	met     *metrics.Set
	pool    *ants.Pool

	// hooks is written once, inside the winning Consume call.
	hooks *lifecycle.Hooks
}

// New creates an Orchestrator with its start-hook pool.
func New(opts Options) (*Orchestrator, error) {
	if opts.Registry == nil {
		return nil, fmt.Errorf("orchestrator requires a registry")
	}
	if opts.Env == nil {
		return nil, fmt.Errorf("orchestrator requires a host environment")
	}
	if opts.Update == nil || opts.Physics == nil {
		return nil, fmt.Errorf("orchestrator requires update and physics tick sources")
	}
	if opts.Env.IsClientLike() && opts.Render == nil {
		return nil, fmt.Errorf("client-like hosts require a render tick source")
	}

	size := opts.StartWorkers
	if size <= 0 {
		// Unbounded: Submit must never block, even while earlier start
		// hooks are still running (or never finish).
		size = -1
	}
	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, fmt.Errorf("creating start-hook pool: %w", err)
	}

	met := opts.Metrics
	if met == nil {
		met = metrics.New()
	}

	return &Orchestrator{
		reg:     opts.Registry,
		env:     opts.Env,
		update:  opts.Update,
		physics: opts.Physics,
		render:  opts.Render,
		met:     met,
		pool:    pool,
	}, nil
}

// Consume performs the one-time transition from discovery to the running
// lifecycle:
//
//  1. Freeze the registry (repeat calls fail with ErrAlreadyConsumed).
//  2. Collect the capability hooks from the frozen snapshot.
//  3. Run every init hook synchronously, in order; the first failure aborts
//     the rest and propagates.
//  4. Subscribe the update and physics lists to their tick sources; on
//     client-like hosts, the render list too.
//  5. Submit every start hook to the pool and return without waiting.
//
// Hook errors after init never stop the lanes; they are logged and counted.
func (o *Orchestrator) Consume(ctx context.Context) error {
	if err := o.reg.Freeze(); err != nil {
		return err
	}
	logger := ctxlog.FromContext(ctx)

	hooks := lifecycle.Collect(ctx, o.reg.Snapshot(), o.env)
	o.hooks = hooks
	logger.Debug("Capability collection complete.",
		"init", len(hooks.Init), "start", len(hooks.Start), "update", len(hooks.Update),
		"physics", len(hooks.Physics), "render", len(hooks.Render))

	for _, h := range hooks.Init {
		if err := h.Fn(ctx); err != nil {
			return fmt.Errorf("init hook %s: %w", h.ID, err)
		}
		o.met.HookRan("init", h.ID.String())
	}

	o.update.Subscribe(o.lane(ctx, "update", hooks.Update))
	o.physics.Subscribe(o.lane(ctx, "physics", hooks.Physics))
	if o.env.IsClientLike() {
		o.render.Subscribe(o.lane(ctx, "render", hooks.Render))
	}

	for _, h := range hooks.Start {
		h := h
		err := o.pool.Submit(func() {
			o.met.HookRan("start", h.ID.String())
			if err := h.Fn(ctx); err != nil {
				o.met.HookError("start")
				logger.Error("Start hook failed.", "module", h.ID, "error", err)
			}
		})
		if err != nil {
			return fmt.Errorf("scheduling start hook %s: %w", h.ID, err)
		}
	}

	kind := "services"
	if o.env.IsClientLike() {
		kind = "controllers"
	}
	logger.Info(fmt.Sprintf("🚀 All %s up and running.", kind), "modules", o.reg.Len())
	return nil
}

// lane builds the per-firing callback for one recurring phase: every
// subscribed hook runs in sequence order with the source-supplied dt; a
// failing hook is logged and counted but never halts the lane or the hooks
// after it.
func (o *Orchestrator) lane(ctx context.Context, phase string, hooks []lifecycle.TickHook) func(dt float64) {
	logger := ctxlog.FromContext(ctx)
	return func(dt float64) {
		o.met.Firing(phase)
		for _, h := range hooks {
			o.met.HookRan(phase, h.ID.String())
			if err := h.Fn(dt); err != nil {
				o.met.HookError(phase)
				logger.Error("Lifecycle hook failed.", "phase", phase, "module", h.ID, "error", err)
			}
		}
	}
}

// Hooks returns the collected hook lists, or nil before Consume. Exposed for
// introspection and tests; the lists are immutable once set.
func (o *Orchestrator) Hooks() *lifecycle.Hooks {
	return o.hooks
}

// Metrics returns the orchestrator's metric set.
func (o *Orchestrator) Metrics() *metrics.Set {
	return o.met
}

// Close releases the start-hook pool. Running start hooks are not
// interrupted; there is no unsubscribe for the tick lanes.
func (o *Orchestrator) Close() {
	o.pool.Release()
}
