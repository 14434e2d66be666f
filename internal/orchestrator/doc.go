// Package orchestrator is the lifecycle state machine. It gates discovery
// against consumption through the registry's one-time freeze, runs init
// hooks synchronously in registration order, fans start hooks out to a task
// pool without waiting, and wires the update, physics, and render hook lists
// to their independent tick sources. Render wiring only happens on
// client-like hosts.
package orchestrator
