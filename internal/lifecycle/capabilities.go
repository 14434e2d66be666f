package lifecycle

import "context"

// The five optional capabilities a module instance may implement. A module
// implements any subset, including none; absence of a capability is not an
// error. Detection happens once, by interface assertion over the registry
// snapshot, when the orchestrator consumes the registry.

// Initializer runs synchronously, in registration order, before anything
// else. An OnInit must not assume any other module's OnInit or OnStart has
// run, and should not block for long: it delays every module behind it.
type Initializer interface {
	OnInit(ctx context.Context) error
}

// Starter runs once, concurrently with other starters, after all OnInit
// hooks completed. Start hooks may block forever without holding anything up.
type Starter interface {
	OnStart(ctx context.Context) error
}

// Updater fires once per update tick with the elapsed seconds since the
// previous firing.
type Updater interface {
	OnUpdate(dt float64) error
}

// PhysicsStepper fires once per physics tick. The physics lane is
// independent of the update lane and may interleave with it.
type PhysicsStepper interface {
	OnPhysics(dt float64) error
}

// Renderer fires once per render tick. Render is a client-only concept: on a
// server-like host the hook is ignored with a warning.
type Renderer interface {
	OnRender(dt float64) error
}
