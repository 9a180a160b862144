package handler

import (
	"context"

	"braid/pkg/domain"
)

// Plain is the retain-all strategy: every input and produced value is
// kept in one mapping for the lifetime of the call. Fast and simple,
// at the cost of holding the full value history in memory.
type Plain struct{}

// NewPlain creates a retain-all handler.
func NewPlain() *Plain {
	return &Plain{}
}

// Begin seeds the data instance with the call's named inputs.
func (*Plain) Begin(ctx context.Context, inputs map[string]any) (Execution, error) {
	values := make(map[string]any, len(inputs))
	for name, value := range inputs {
		values[name] = value
	}
	return &plainExecution{values: values}, nil
}

type plainExecution struct {
	values map[string]any
}

func (e *plainExecution) RunNode(ctx context.Context, node domain.Node) error {
	results, err := callNode(ctx, node, e.get)
	if err != nil {
		return err
	}
	for _, r := range results {
		e.values[r.name] = r.value
	}
	return nil
}

func (e *plainExecution) Finish(ctx context.Context, outputs []string) (any, error) {
	return collect(outputs, e.get)
}

// Fail has no resources to release; the mapping is simply discarded
// with the instance.
func (e *plainExecution) Fail(ctx context.Context, node domain.Node, cause error) error {
	return nodeError(node, cause)
}

func (e *plainExecution) get(name string) (any, error) {
	value, ok := e.values[name]
	if !ok {
		return nil, missing(name)
	}
	return value, nil
}
