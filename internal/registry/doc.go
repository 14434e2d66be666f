// Package registry holds the mapping from module identity to live module
// instance. It is mutable only during the discovery window; the Freeze call
// is the single discovering -> consumed transition, after which every
// registration attempt fails with ErrAlreadyConsumed and the snapshot
// becomes stable for the lifetime of the process.
package registry
