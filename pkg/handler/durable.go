package handler

import (
	"context"
	"errors"
	"fmt"

	"braid/pkg/domain"
	"braid/pkg/ports"
)

// Durable executes the same node-run logic as the in-memory strategies
// while storing every input and output as durable, individually
// addressable entries. Each call gets its own group named
// "{identity}_{n}", n counting calls on this handler from 1, so every
// run leaves a permanent, inspectable record: inputs, every
// intermediate, and either the final outputs or a failure note.
//
// Every parameter read goes back through the store rather than an
// in-memory cache, which validates the persisted round trip of every
// value, not just the final outputs.
//
// The call counter and store handle are shared mutable state with no
// internal synchronization: concurrent calls against one Durable
// handler must be serialized by the caller.
type Durable struct {
	store    ports.GroupStore
	identity string
	calls    int
}

// NewDurable creates a durable-persisted handler writing through store.
// identity prefixes every group name and should be unique per handler,
// e.g. the model name.
func NewDurable(store ports.GroupStore, identity string) *Durable {
	return &Durable{store: store, identity: identity}
}

// Begin opens the store in append mode, creates the group for this
// call, and persists every named input into it.
func (h *Durable) Begin(ctx context.Context, inputs map[string]any) (Execution, error) {
	h.calls++

	handle, err := h.store.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	name := fmt.Sprintf("%s_%d", h.identity, h.calls)
	group, err := handle.CreateGroup(ctx, name)
	if err != nil {
		handle.Close()
		return nil, fmt.Errorf("create group %q: %w", name, err)
	}

	for key, value := range inputs {
		if err := group.Write(ctx, key, value); err != nil {
			handle.Close()
			return nil, fmt.Errorf("write input %q: %w", key, err)
		}
	}

	return &durableExecution{handle: handle, group: group}, nil
}

type durableExecution struct {
	handle ports.StoreHandle
	group  ports.Group
}

func (e *durableExecution) RunNode(ctx context.Context, node domain.Node) error {
	results, err := callNode(ctx, node, func(name string) (any, error) {
		return e.get(ctx, name)
	})
	if err != nil {
		return err
	}
	for _, r := range results {
		if err := e.group.Write(ctx, r.name, r.value); err != nil {
			return fmt.Errorf("write %q: %w", r.name, err)
		}
	}
	return nil
}

func (e *durableExecution) Finish(ctx context.Context, outputs []string) (any, error) {
	result, err := collect(outputs, func(name string) (any, error) {
		return e.get(ctx, name)
	})
	if err != nil {
		e.handle.Close()
		return nil, err
	}
	if err := e.handle.Close(); err != nil {
		return nil, fmt.Errorf("close store: %w", err)
	}
	return result, nil
}

// Fail annotates the group with the failing node and cause, closes the
// handle, and returns the wrapped node error. Cleanup failures are
// joined onto it rather than masking it, so errors.As still finds the
// node error first.
func (e *durableExecution) Fail(ctx context.Context, node domain.Node, cause error) error {
	note := fmt.Sprintf("%T occurred for node %s: %v", cause, node.ID, cause)
	err := nodeError(node, cause)
	if attrErr := e.group.SetAttr(ctx, "note", note); attrErr != nil {
		err = errors.Join(err, fmt.Errorf("write failure note: %w", attrErr))
	}
	if closeErr := e.handle.Close(); closeErr != nil {
		err = errors.Join(err, fmt.Errorf("close store: %w", closeErr))
	}
	return err
}

// get reads one value back from the group, mapping an absent key onto
// the same missing-value error the in-memory strategies report.
func (e *durableExecution) get(ctx context.Context, name string) (any, error) {
	value, err := e.group.Read(ctx, name)
	if errors.Is(err, ports.ErrKeyNotFound) {
		return nil, missing(name)
	}
	return value, err
}
