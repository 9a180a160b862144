package graph

import (
	"fmt"
	"sort"

	"braid/pkg/domain"
)

// Plan is the compiled, immutable form of a Graph: nodes in an order
// where every dependency precedes its dependents, plus the graph's
// derived external signature. A Plan is computed once and reused across
// every call of the model built on it.
type Plan struct {
	nodes    []domain.Node
	inputs   []string            // external inputs, sorted
	outputs  []string            // sink values, sorted
	producer map[string]string   // value name -> producing node ID
	consumed map[string]int      // value name -> number of node-param references
}

// Plan compiles the graph into a topological execution plan.
// Ordering uses Kahn's algorithm with ties broken by insertion order, so
// the plan is deterministic for a given construction sequence. A cycle
// in the dependency structure is a compilation error.
func (g *Graph) Plan() (*Plan, error) {
	consumed := make(map[string]int)
	indegree := make(map[string]int, len(g.nodes))
	dependents := make(map[string][]string, len(g.nodes)) // producer ID -> consumer IDs

	for _, n := range g.nodes {
		for _, param := range n.Params {
			consumed[param]++
			prodID, ok := g.producer[param]
			if !ok {
				continue // external input
			}
			if prodID == n.ID {
				return nil, fmt.Errorf("node %q consumes its own return %q", n.ID, param)
			}
			dependents[prodID] = append(dependents[prodID], n.ID)
			indegree[n.ID]++
		}
	}

	// FIFO queue seeded in insertion order keeps the order stable.
	queue := make([]string, 0, len(g.nodes))
	for _, n := range g.nodes {
		if indegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	ordered := make([]domain.Node, 0, len(g.nodes))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		ordered = append(ordered, g.nodes[g.byID[id]])

		for _, depID := range dependents[id] {
			indegree[depID]--
			if indegree[depID] == 0 {
				queue = append(queue, depID)
			}
		}
	}

	if len(ordered) != len(g.nodes) {
		for _, n := range g.nodes {
			if indegree[n.ID] > 0 {
				return nil, fmt.Errorf("cycle detected involving node %q", n.ID)
			}
		}
		return nil, fmt.Errorf("cycle detected")
	}

	p := &Plan{
		nodes:    ordered,
		producer: make(map[string]string, len(g.producer)),
		consumed: consumed,
	}
	for name, id := range g.producer {
		p.producer[name] = id
	}

	seen := make(map[string]bool)
	for _, n := range g.nodes {
		for _, param := range n.Params {
			if _, produced := g.producer[param]; !produced && !seen[param] {
				seen[param] = true
				p.inputs = append(p.inputs, param)
			}
		}
		for _, ret := range n.Returns {
			if consumed[ret] == 0 {
				p.outputs = append(p.outputs, ret)
			}
		}
	}
	sort.Strings(p.inputs)
	sort.Strings(p.outputs)

	return p, nil
}

// Nodes returns the topologically ordered nodes. Callers must not
// mutate the returned slice.
func (p *Plan) Nodes() []domain.Node {
	return p.nodes
}

// Inputs returns the sorted external inputs: parameter names that no
// node produces and therefore must be supplied by the caller.
func (p *Plan) Inputs() []string {
	return p.inputs
}

// Outputs returns the sorted sink values: return names that no node
// consumes. These are the model's declared outputs.
func (p *Plan) Outputs() []string {
	return p.outputs
}

// Produces reports whether the plan can make name resolvable: either a
// node returns it or it is an external input.
func (p *Plan) Produces(name string) bool {
	if _, ok := p.producer[name]; ok {
		return true
	}
	for _, in := range p.inputs {
		if in == name {
			return true
		}
	}
	return false
}

// UsageCounts computes the remaining-consumer count for every value
// touched by the plan: the number of node-parameter references to the
// name, plus one if it appears in requested. The counted-eviction
// strategy decrements these during a call and evicts values at zero.
func (p *Plan) UsageCounts(requested []string) map[string]int {
	counts := make(map[string]int, len(p.consumed))
	for name, n := range p.consumed {
		counts[name] = n
	}
	for _, name := range requested {
		counts[name]++
	}
	return counts
}
