package config

import (
	"time"

	"github.com/vk/runloop/internal/hostenv"
)

// Model is the fully decoded and validated host configuration.
type Model struct {
	Role            hostenv.Role
	LogLevel        string
	LogFormat       string
	HealthcheckPort int
	// StartWorkers caps the start-hook pool; 0 means unbounded.
	StartWorkers int
	Ticks        Ticks
	// Root is the top of the declared module tree. Its Name is empty.
	Root Folder
}

// Ticks holds the nominal firing intervals of the three lanes.
type Ticks struct {
	Update  time.Duration
	Physics time.Duration
	Render  time.Duration
}

// Decl is one declared module instance.
type Decl struct {
	Name   string
	Type   string
	Params map[string]string
}

// Folder groups declarations; folders nest arbitrarily.
type Folder struct {
	Name    string
	Modules []Decl
	Folders []Folder
}

const (
	defaultLogLevel  = "info"
	defaultLogFormat = "text"

	defaultUpdateTick  = 16 * time.Millisecond
	defaultPhysicsTick = 10 * time.Millisecond
	defaultRenderTick  = 16 * time.Millisecond
)
