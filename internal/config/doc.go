// Package config loads and validates the HCL host configuration: the host
// role, logging settings, tick intervals, and the declared module tree that
// discovery later walks. The decoded Model is the single source of truth for
// app wiring; nothing downstream touches HCL types.
package config
