package domain

import "context"

// Func is the signature every node callable implements.
// It receives a context and the node's parameters keyed by name, and
// returns a result or an error. A node with a single declared return
// yields its result directly; a node with several must yield a []any
// whose elements match the declared return names positionally.
type Func func(ctx context.Context, args map[string]any) (any, error)

// Node represents a unit of computation in the graph: a callable with
// an ordered list of named parameters and named return values.
// Nodes are immutable once a plan has been built from them.
type Node struct {
	ID      string
	Func    Func
	Params  []string
	Returns []string
}
