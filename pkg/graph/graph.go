package graph

import (
	"fmt"

	"braid/pkg/domain"
)

// Graph is a mutable builder for a dataflow model. Nodes are linked
// implicitly: a producer of a value name feeds every node that consumes
// the same name. Graph is not safe for concurrent mutation; build it
// fully, then compile it once with Plan.
type Graph struct {
	nodes    []domain.Node
	byID     map[string]int
	producer map[string]string // value name -> producing node ID
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		byID:     make(map[string]int),
		producer: make(map[string]string),
	}
}

// Add registers a node. It rejects duplicate node IDs, nodes without a
// callable, nodes without declared returns, and duplicate producers of
// the same value name (each name must have exactly one producer).
func (g *Graph) Add(n domain.Node) error {
	if n.ID == "" {
		return fmt.Errorf("node ID must not be empty")
	}
	if _, ok := g.byID[n.ID]; ok {
		return fmt.Errorf("duplicate node ID: %s", n.ID)
	}
	if n.Func == nil {
		return fmt.Errorf("node %q has no callable", n.ID)
	}
	if len(n.Returns) == 0 {
		return fmt.Errorf("node %q declares no returns", n.ID)
	}
	for _, name := range n.Returns {
		if prev, ok := g.producer[name]; ok {
			return fmt.Errorf("value %q produced by both %q and %q", name, prev, n.ID)
		}
	}

	for _, name := range n.Returns {
		g.producer[name] = n.ID
	}
	g.byID[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, n)
	return nil
}

// MustAdd is Add for static graph definitions; it panics on error.
func (g *Graph) MustAdd(n domain.Node) {
	if err := g.Add(n); err != nil {
		panic(err)
	}
}

// Len returns the number of nodes added so far.
func (g *Graph) Len() int {
	return len(g.nodes)
}
