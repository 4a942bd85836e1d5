package yml

import (
	"context"

	"github.com/speakeasy-api/yamlcodec/errors"
	"gopkg.in/yaml.v3"
)

const (
	// ErrTerminate is a sentinel error that can be returned from a Walk function to terminate the walk.
	ErrTerminate = errors.Error("terminate")
	// ErrCyclicAlias is returned by Walk when an alias refers to a node that encloses it.
	ErrCyclicAlias = errors.Error("alias refers to an enclosing node")
)

// VisitFunc represents a function that will be called for each node in the node structure.
// The functions receives the current node, any parent nodes, and the root node.
type VisitFunc func(ctx context.Context, node, parent *yaml.Node, root *yaml.Node) error

// Walk will walk the yaml node structure and call the provided VisitFunc for each node in the document.
// Aliases are followed, so a node reachable through several aliases is visited once per reference.
func Walk(ctx context.Context, node *yaml.Node, visit VisitFunc) error {
	w := &walker{
		root:      node,
		visit:     visit,
		enclosing: make(map[*yaml.Node]struct{}),
	}

	err := w.walkNode(ctx, node, nil)
	if err != nil {
		if errors.Is(err, ErrTerminate) {
			return nil
		}
		return err
	}

	return nil
}

// CountExpanded counts the nodes reachable from node with aliases expanded, stopping once limit is exceeded.
// It reports the count and whether the limit was exceeded. A limit <= 0 disables the limit.
// A cyclic alias expands without bound and always exceeds a limit.
func CountExpanded(ctx context.Context, node *yaml.Node, limit int) (int, bool) {
	count := 0
	err := Walk(ctx, node, func(_ context.Context, _, _, _ *yaml.Node) error {
		count++
		if limit > 0 && count > limit {
			return ErrTerminate
		}
		return nil
	})
	if errors.Is(err, ErrCyclicAlias) {
		return count, limit > 0
	}

	return count, limit > 0 && count > limit
}

type walker struct {
	root  *yaml.Node
	visit VisitFunc
	// enclosing holds the containers on the path from the root to the current node.
	enclosing map[*yaml.Node]struct{}
}

func (w *walker) walkNode(ctx context.Context, node *yaml.Node, parent *yaml.Node) error {
	if node == nil {
		return nil
	}

	if err := w.visit(ctx, node, parent, w.root); err != nil {
		return err
	}

	switch node.Kind {
	case yaml.DocumentNode, yaml.MappingNode, yaml.SequenceNode:
		return w.walkChildren(ctx, node)
	case yaml.AliasNode:
		if _, ok := w.enclosing[node.Alias]; ok {
			return ErrCyclicAlias
		}
		return w.walkNode(ctx, node.Alias, node)
	}

	return nil
}

func (w *walker) walkChildren(ctx context.Context, node *yaml.Node) error {
	w.enclosing[node] = struct{}{}
	defer delete(w.enclosing, node)

	for _, child := range node.Content {
		if err := w.walkNode(ctx, child, node); err != nil {
			return err
		}
	}

	return nil
}
