package handler

import (
	"context"

	"braid/pkg/domain"
)

// Counted is the default strategy: a reference-counted memory policy on
// top of the plain node-execution logic. Each value carries a
// remaining-consumer count (node-parameter references plus one if it is
// a requested output); after a node runs, the counts of its consumed
// parameters are decremented and any value reaching zero is evicted.
// The mapping therefore never holds a value with zero remaining
// consumers, bounding peak memory to the live set of the graph instead
// of its full history. Requested outputs keep a count of at least one
// until Finish reads them; Finish never decrements.
type Counted struct {
	counts map[string]int

	// OnEvict, if set, is called with each value name the moment it is
	// evicted. Used for observability; must not block.
	OnEvict func(name string)
}

// NewCounted creates a counted-eviction handler from precomputed usage
// counts, typically plan.UsageCounts(requestedOutputs).
func NewCounted(counts map[string]int) *Counted {
	return &Counted{counts: counts}
}

// Begin seeds the data instance with the inputs and a private working
// copy of the usage counts.
func (h *Counted) Begin(ctx context.Context, inputs map[string]any) (Execution, error) {
	values := make(map[string]any, len(inputs))
	for name, value := range inputs {
		values[name] = value
	}
	remaining := make(map[string]int, len(h.counts))
	for name, count := range h.counts {
		remaining[name] = count
	}
	return &countedExecution{values: values, remaining: remaining, onEvict: h.OnEvict}, nil
}

type countedExecution struct {
	values    map[string]any
	remaining map[string]int
	onEvict   func(string)
}

func (e *countedExecution) RunNode(ctx context.Context, node domain.Node) error {
	results, err := callNode(ctx, node, e.get)
	if err != nil {
		return err
	}
	for _, r := range results {
		e.values[r.name] = r.value
	}

	// The counter precisely tracks every remaining consumer, including
	// the requested outputs, so a value hitting zero cannot be needed
	// again.
	for _, param := range node.Params {
		e.remaining[param]--
		if e.remaining[param] == 0 {
			delete(e.values, param)
			if e.onEvict != nil {
				e.onEvict(param)
			}
		}
	}
	return nil
}

func (e *countedExecution) Finish(ctx context.Context, outputs []string) (any, error) {
	return collect(outputs, e.get)
}

// Fail performs no cleanup: already-evicted values are gone, and the
// node error carries the identity needed for debugging.
func (e *countedExecution) Fail(ctx context.Context, node domain.Node, cause error) error {
	return nodeError(node, cause)
}

func (e *countedExecution) get(name string) (any, error) {
	value, ok := e.values[name]
	if !ok {
		return nil, missing(name)
	}
	return value, nil
}
