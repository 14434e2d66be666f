// Package discovery walks a scope of candidate items, loads the ones that
// are modules, and registers the resulting instances. Discovery is
// best-effort: a loader failure aborts the remainder of that traversal call
// and propagates, but registrations made earlier in the same call stay in
// place.
package discovery

import (
	"context"
	"fmt"

	"github.com/vk/runloop/internal/ctxlog"
	"github.com/vk/runloop/internal/registry"
)

// Item is one member of a scope. Non-module items (folders, groupings) are
// skipped by discovery but still descended through.
type Item interface {
	Identity() registry.Identity
	IsModule() bool
	Children() []Item
}

// Loader turns a module identity into a live instance. Errors are propagated
// verbatim to the discovery caller; the loader is called at most once per
// identity per traversal.
type Loader interface {
	Load(ctx context.Context, id registry.Identity) (any, error)
}

// Source wires a scope traversal to the registry through a loader.
type Source struct {
	reg    *registry.Registry
	loader Loader
}

// New creates a discovery source registering into reg via loader.
func New(reg *registry.Registry, loader Loader) *Source {
	return &Source{reg: reg, loader: loader}
}

// Children loads and registers the immediate members of scope that are
// modules. It fails with registry.ErrAlreadyConsumed once the registry is
// frozen, without touching it.
func (s *Source) Children(ctx context.Context, scope Item) error {
	if s.reg.Consumed() {
		return registry.ErrAlreadyConsumed
	}
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Discovering immediate children.", "scope", scope.Identity())

	for _, item := range scope.Children() {
		if err := s.loadOne(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

// Descendants loads and registers every module in the scope subtree,
// pre-order. Same consumption and failure semantics as Children.
func (s *Source) Descendants(ctx context.Context, scope Item) error {
	if s.reg.Consumed() {
		return registry.ErrAlreadyConsumed
	}
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Discovering descendants.", "scope", scope.Identity())

	return s.walk(ctx, scope)
}

func (s *Source) walk(ctx context.Context, scope Item) error {
	for _, item := range scope.Children() {
		if err := s.loadOne(ctx, item); err != nil {
			return err
		}
		if err := s.walk(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func (s *Source) loadOne(ctx context.Context, item Item) error {
	if !item.IsModule() {
		return nil
	}
	id := item.Identity()
	instance, err := s.loader.Load(ctx, id)
	if err != nil {
		return fmt.Errorf("loading module %s: %w", id, err)
	}
	return s.reg.Register(id, instance)
}
