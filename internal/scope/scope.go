// Package scope materializes the declared module tree from config into the
// item tree that discovery traverses. Identities are slash paths from the
// root ("monitoring/sys"), so diagnostics point straight back at the config.
package scope

import (
	"context"
	"path"

	"github.com/vk/runloop/internal/config"
	"github.com/vk/runloop/internal/ctxlog"
	"github.com/vk/runloop/internal/discovery"
	"github.com/vk/runloop/internal/registry"
)

// Node is one item in the scope tree; it implements discovery.Item. Module
// nodes carry their declaration, folder nodes only group children.
type Node struct {
	id       registry.Identity
	decl     *config.Decl
	children []*Node
}

// FromConfig builds the scope tree for a decoded module tree. Duplicate
// sibling names collapse to one registry entry later (last declaration
// wins); that is the documented registry contract, but it is almost always a
// config mistake, so the builder warns about each collision it sees.
func FromConfig(ctx context.Context, root config.Folder) *Node {
	logger := ctxlog.FromContext(ctx)
	return build(logger.Warn, "", root)
}

func build(warn func(msg string, args ...any), base string, folder config.Folder) *Node {
	node := &Node{id: registry.Identity(base)}

	seen := make(map[string]bool)
	note := func(name string) {
		if seen[name] {
			warn("Duplicate name in folder; the later declaration will overwrite the earlier one.",
				"folder", base, "name", name)
		}
		seen[name] = true
	}

	for _, decl := range folder.Modules {
		note(decl.Name)
		d := decl
		node.children = append(node.children, &Node{
			id:   registry.Identity(path.Join(base, decl.Name)),
			decl: &d,
		})
	}
	for _, sub := range folder.Folders {
		note(sub.Name)
		node.children = append(node.children, build(warn, path.Join(base, sub.Name), sub))
	}

	return node
}

// Identity returns the node's slash path from the root.
func (n *Node) Identity() registry.Identity { return n.id }

// IsModule reports whether this node is a module declaration.
func (n *Node) IsModule() bool { return n.decl != nil }

// Children returns the node's immediate members.
func (n *Node) Children() []discovery.Item {
	items := make([]discovery.Item, len(n.children))
	for i, c := range n.children {
		items[i] = c
	}
	return items
}

// Decl returns the module declaration, or nil for folder nodes.
func (n *Node) Decl() *config.Decl { return n.decl }

// walk visits every node in the subtree, pre-order, excluding the root.
func (n *Node) walk(visit func(*Node)) {
	for _, c := range n.children {
		visit(c)
		c.walk(visit)
	}
}
