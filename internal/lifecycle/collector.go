package lifecycle

import (
	"context"

	"github.com/vk/runloop/internal/ctxlog"
	"github.com/vk/runloop/internal/hostenv"
	"github.com/vk/runloop/internal/registry"
)

// CtxHook binds a module identity to a context-taking lifecycle callable
// (init, start).
type CtxHook struct {
	ID registry.Identity
	Fn func(ctx context.Context) error
}

// TickHook binds a module identity to an elapsed-time lifecycle callable
// (update, physics, render).
type TickHook struct {
	ID registry.Identity
	Fn func(dt float64) error
}

// Hooks holds the five collected hook lists. Built exactly once at the
// discovering -> consumed transition and never mutated afterwards.
type Hooks struct {
	Init    []CtxHook
	Start   []CtxHook
	Update  []TickHook
	Physics []TickHook
	Render  []TickHook
}

// Collect probes every registered instance for the optional capability
// interfaces and groups the discovered hooks by phase, preserving snapshot
// order within each phase. OnRender on a server-like host is dropped with a
// warning naming the module; the module keeps participating in its other
// phases.
func Collect(ctx context.Context, entries []registry.Entry, env *hostenv.Env) *Hooks {
	logger := ctxlog.FromContext(ctx)
	hooks := &Hooks{}

	for _, e := range entries {
		if init, ok := e.Instance.(Initializer); ok {
			hooks.Init = append(hooks.Init, CtxHook{ID: e.ID, Fn: init.OnInit})
		}
		if st, ok := e.Instance.(Starter); ok {
			hooks.Start = append(hooks.Start, CtxHook{ID: e.ID, Fn: st.OnStart})
		}
		if up, ok := e.Instance.(Updater); ok {
			hooks.Update = append(hooks.Update, TickHook{ID: e.ID, Fn: up.OnUpdate})
		}
		if ph, ok := e.Instance.(PhysicsStepper); ok {
			hooks.Physics = append(hooks.Physics, TickHook{ID: e.ID, Fn: ph.OnPhysics})
		}
		if rn, ok := e.Instance.(Renderer); ok {
			if env.IsServerLike() {
				logger.Warn("Render hook ignored: render is a client-only concept.", "module", e.ID)
			} else {
				hooks.Render = append(hooks.Render, TickHook{ID: e.ID, Fn: rn.OnRender})
			}
		}
	}

	return hooks
}
