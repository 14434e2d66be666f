// Package lifecycle defines the optional capability interfaces a module may
// implement (OnInit, OnStart, OnUpdate, OnPhysics, OnRender) and the
// collector that groups discovered hooks by phase from a frozen registry
// snapshot. A module implements any subset of the capabilities; absence is
// never an error.
package lifecycle
