package handler

import (
	"context"
	"fmt"
	"reflect"

	"braid/pkg/domain"
)

// Handler creates the per-call execution state for one strategy.
// Implementations are safe to reuse across calls; see Durable for the
// one concurrency caveat.
type Handler interface {
	// Begin creates a fresh data instance seeded with the call's
	// named inputs. The instance must make every input resolvable as
	// a parameter for the nodes that need it.
	Begin(ctx context.Context, inputs map[string]any) (Execution, error)
}

// Execution is the data instance threaded through one call. It is
// created by Begin, mutated by RunNode, consumed by exactly one of
// Finish or Fail, and never reused afterwards.
type Execution interface {
	// RunNode gathers the node's parameters from the instance, invokes
	// the callable, and stores the results back under the node's
	// declared return names.
	RunNode(ctx context.Context, node domain.Node) error

	// Finish reads the requested outputs from the instance and
	// releases any resources it holds. With a single requested output
	// the raw value is returned; with several, a []any in the same
	// order as outputs.
	Finish(ctx context.Context, outputs []string) (any, error)

	// Fail runs strategy-specific cleanup for a node failure and
	// returns the *domain.NodeError wrapping cause. Cleanup always
	// happens before the wrapped error is surfaced.
	Fail(ctx context.Context, node domain.Node, cause error) error
}

// namedValue pairs a produced value with its declared return name,
// preserving declaration order.
type namedValue struct {
	name  string
	value any
}

// callNode gathers parameters through get, invokes the node, and shapes
// the result against the declared return names: a single return name
// receives the raw result; several are zipped positionally against the
// result sequence.
func callNode(ctx context.Context, node domain.Node, get func(name string) (any, error)) ([]namedValue, error) {
	args := make(map[string]any, len(node.Params))
	for _, param := range node.Params {
		value, err := get(param)
		if err != nil {
			return nil, err
		}
		args[param] = value
	}

	result, err := node.Func(ctx, args)
	if err != nil {
		return nil, err
	}

	if len(node.Returns) == 1 {
		return []namedValue{{name: node.Returns[0], value: result}}, nil
	}

	rv := reflect.ValueOf(result)
	if result == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, fmt.Errorf("node %q declares %d returns but produced %T, want a sequence",
			node.ID, len(node.Returns), result)
	}
	if rv.Len() != len(node.Returns) {
		return nil, fmt.Errorf("node %q declares %d returns but produced %d values",
			node.ID, len(node.Returns), rv.Len())
	}

	out := make([]namedValue, len(node.Returns))
	for i, name := range node.Returns {
		out[i] = namedValue{name: name, value: rv.Index(i).Interface()}
	}
	return out, nil
}

// collect reads the requested outputs in order and shapes the result:
// one output returns the raw value, several return a []any.
func collect(outputs []string, read func(name string) (any, error)) (any, error) {
	if len(outputs) == 1 {
		return read(outputs[0])
	}
	values := make([]any, len(outputs))
	for i, name := range outputs {
		value, err := read(name)
		if err != nil {
			return nil, err
		}
		values[i] = value
	}
	return values, nil
}

// nodeError wraps a node failure with the failing node's identity and
// attributes, preserving cause for errors.Is/As.
func nodeError(node domain.Node, cause error) error {
	return &domain.NodeError{
		NodeID:  node.ID,
		Params:  node.Params,
		Returns: node.Returns,
		Err:     cause,
	}
}

// missing reports a value absent from the execution state.
func missing(name string) error {
	return fmt.Errorf("%q: %w", name, domain.ErrMissingValue)
}
