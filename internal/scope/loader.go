package scope

import (
	"context"
	"fmt"

	"github.com/vk/runloop/internal/catalog"
	"github.com/vk/runloop/internal/ctxlog"
	"github.com/vk/runloop/internal/registry"
)

// Loader is the production discovery.Loader: it resolves an identity back to
// its config declaration and asks the catalog to build the instance.
type Loader struct {
	cat   *catalog.Catalog
	decls map[registry.Identity]catalogDecl
}

type catalogDecl struct {
	typeName string
	params   catalog.Params
}

// NewLoader indexes the scope tree so Load can go from identity to
// declaration without re-walking it.
func NewLoader(cat *catalog.Catalog, root *Node) *Loader {
	decls := make(map[registry.Identity]catalogDecl)
	root.walk(func(n *Node) {
		if n.decl != nil {
			decls[n.id] = catalogDecl{typeName: n.decl.Type, params: catalog.Params(n.decl.Params)}
		}
	})
	return &Loader{cat: cat, decls: decls}
}

// Load builds the module instance declared under id. Factory and
// unknown-type errors propagate to the discovery caller untouched, aborting
// the remainder of that traversal.
func (l *Loader) Load(ctx context.Context, id registry.Identity) (any, error) {
	decl, ok := l.decls[id]
	if !ok {
		return nil, fmt.Errorf("no declaration for identity %s", id)
	}
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading module.", "identity", id, "type", decl.typeName)

	instance, err := l.cat.Build(ctx, decl.typeName, decl.params)
	if err != nil {
		return nil, err
	}
	return instance, nil
}
