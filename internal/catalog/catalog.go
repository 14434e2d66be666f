// Package catalog is the compiled-in module table: a mapping from the type
// names used in host config to the Go factories that build module instances.
// Built-in modules register themselves through the Module interface during
// app construction, mirroring how handlers reach the engine.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"
)

// ErrUnknownModuleType is returned when config declares a type no compiled-in
// module registered.
var ErrUnknownModuleType = errors.New("unknown module type")

// Params carries the declared module parameters as a flat string map, the
// shape they have after config decoding. Typed accessors do the parsing so
// factories stay short.
type Params map[string]string

// String returns the value for key, or def when absent.
func (p Params) String(key, def string) string {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// Duration parses the value for key as a time.Duration, or returns def when
// absent.
func (p Params) Duration(key string, def time.Duration) (time.Duration, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("param %q: %w", key, err)
	}
	return d, nil
}

// Bool parses the value for key as a boolean, or returns def when absent.
func (p Params) Bool(key string, def bool) (bool, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("param %q: %w", key, err)
	}
	return b, nil
}

// Int parses the value for key as an int, or returns def when absent.
func (p Params) Int(key string, def int) (int, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("param %q: %w", key, err)
	}
	return n, nil
}

// Factory builds one module instance from its declared parameters.
type Factory func(ctx context.Context, params Params) (any, error)

// Module is the interface a built-in module package implements to be
// registered into a catalog.
type Module interface {
	Register(c *Catalog)
}

// Catalog holds the registered factories for a single app instance.
type Catalog struct {
	factories map[string]Factory
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{factories: make(map[string]Factory)}
}

// RegisterFactory registers a factory under a type name. Registering the
// same name twice is a programmer error and panics.
func (c *Catalog) RegisterFactory(typeName string, f Factory) {
	if _, exists := c.factories[typeName]; exists {
		panic(fmt.Sprintf("module factory with type '%s' already registered", typeName))
	}
	slog.Debug("Registering module factory.", "type", typeName)
	c.factories[typeName] = f
}

// Build resolves typeName and invokes its factory.
func (c *Catalog) Build(ctx context.Context, typeName string, params Params) (any, error) {
	f, ok := c.factories[typeName]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownModuleType, typeName, c.Types())
	}
	return f(ctx, params)
}

// Types lists the registered type names, sorted for stable diagnostics.
func (c *Catalog) Types() []string {
	names := make([]string, 0, len(c.factories))
	for name := range c.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
