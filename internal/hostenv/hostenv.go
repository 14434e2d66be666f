// Package hostenv models the host's execution context. The only distinction
// the lifecycle cares about is server-like vs client-like: it gates render
// hook collection and the phrasing of the startup log line, nothing else.
package hostenv

import "fmt"

// Role is the host's execution role.
type Role int

const (
	// RoleServer hosts run services; render hooks are not a server concept.
	RoleServer Role = iota
	// RoleClient hosts additionally drive the render lane.
	RoleClient
)

func (r Role) String() string {
	switch r {
	case RoleServer:
		return "server"
	case RoleClient:
		return "client"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// ParseRole translates a config string into a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "server":
		return RoleServer, nil
	case "client":
		return RoleClient, nil
	default:
		return RoleServer, fmt.Errorf("invalid role %q: must be 'server' or 'client'", s)
	}
}

// Env answers capability queries about the current execution context.
type Env struct {
	role Role
}

// New creates an Env for the given role.
func New(role Role) *Env {
	return &Env{role: role}
}

// Role returns the configured role.
func (e *Env) Role() Role { return e.role }

// IsServerLike reports whether the host runs in a server-only context.
func (e *Env) IsServerLike() bool { return e.role == RoleServer }

// IsClientLike reports whether the host can drive render ticks.
func (e *Env) IsClientLike() bool { return e.role == RoleClient }
