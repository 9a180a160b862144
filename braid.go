package braid

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"braid/pkg/domain"
	"braid/pkg/graph"
	"braid/pkg/handler"
)

// Model is an executable dataflow model: a compiled plan, a fixed set
// of requested outputs, and an execution strategy. Construct it once
// with New and call it as often as needed; the plan is never
// recomputed.
type Model struct {
	name    string
	plan    *graph.Plan
	outputs []string
	handler handler.Handler
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
}

// New compiles the graph and builds a model around it.
//
// The requested outputs are the graph's sink values plus any extras
// added with WithExtraOutputs, in sorted order. Construction fails with
// domain.ErrUnknownOutput if a requested output is neither produced by
// a node nor an external input, and with domain.ErrNoOutputs if the
// model would produce nothing.
func New(g *graph.Graph, opts ...Option) (*Model, error) {
	cfg := newConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	plan, err := g.Plan()
	if err != nil {
		return nil, fmt.Errorf("compile graph: %w", err)
	}

	outputs := requestedOutputs(plan, cfg.extraOutputs)
	if len(outputs) == 0 {
		return nil, domain.ErrNoOutputs
	}
	for _, name := range outputs {
		if !plan.Produces(name) {
			return nil, fmt.Errorf("%q: %w", name, domain.ErrUnknownOutput)
		}
	}

	m := &Model{
		name:    cfg.name,
		plan:    plan,
		outputs: outputs,
		logger:  cfg.logger,
		hooks:   cfg.hooks,
	}
	m.handler, err = cfg.factory(cfg.name, plan, outputs)
	if err != nil {
		return nil, fmt.Errorf("build handler: %w", err)
	}
	return m, nil
}

// requestedOutputs merges the plan's declared outputs with the extras,
// deduplicated and sorted.
func requestedOutputs(plan *graph.Plan, extra []string) []string {
	seen := make(map[string]bool)
	var outputs []string
	for _, name := range plan.Outputs() {
		if !seen[name] {
			seen[name] = true
			outputs = append(outputs, name)
		}
	}
	for _, name := range extra {
		if !seen[name] {
			seen[name] = true
			outputs = append(outputs, name)
		}
	}
	sort.Strings(outputs)
	return outputs
}

// Call runs the model once against the named inputs.
//
// With a single requested output the raw value is returned; with
// several, a []any in the sorted order reported by Outputs. A node
// failure surfaces as a *domain.NodeError wrapping the original error;
// strategy cleanup (such as closing a store handle and annotating the
// execution group) always runs first.
func (m *Model) Call(ctx context.Context, inputs map[string]any) (any, error) {
	if err := m.checkInputs(inputs); err != nil {
		return nil, err
	}

	callStart := time.Now()
	if m.hooks.OnCallStart != nil {
		m.hooks.OnCallStart(ctx, &domain.CallEvent{Model: m.name})
	}

	result, err := m.run(ctx, inputs)

	if m.hooks.OnCallEnd != nil {
		m.hooks.OnCallEnd(ctx, &domain.CallEvent{
			Model:    m.name,
			Duration: time.Since(callStart),
			Err:      err,
		})
	}
	return result, err
}

func (m *Model) run(ctx context.Context, inputs map[string]any) (any, error) {
	exec, err := m.handler.Begin(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("begin execution: %w", err)
	}

	for _, node := range m.plan.Nodes() {
		nodeStart := time.Now()
		if m.hooks.OnNodeStart != nil {
			m.hooks.OnNodeStart(ctx, &domain.NodeEvent{NodeID: node.ID})
		}
		m.logger.Debug("running node", "model", m.name, "node_id", node.ID)

		err := exec.RunNode(ctx, node)

		if m.hooks.OnNodeEnd != nil {
			m.hooks.OnNodeEnd(ctx, &domain.NodeEvent{
				NodeID:   node.ID,
				Duration: time.Since(nodeStart),
				Err:      err,
			})
		}
		if err != nil {
			m.logger.Error("node failed", "model", m.name, "node_id", node.ID, "error", err)
			return nil, exec.Fail(ctx, node, err)
		}
	}

	return exec.Finish(ctx, m.outputs)
}

// checkInputs enforces the model's external signature: every required
// input present, no unknown names.
func (m *Model) checkInputs(inputs map[string]any) error {
	for _, name := range m.plan.Inputs() {
		if _, ok := inputs[name]; !ok {
			return fmt.Errorf("missing required input %q: %w", name, domain.ErrInvalidInput)
		}
	}
	for name := range inputs {
		known := false
		for _, in := range m.plan.Inputs() {
			if in == name {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("unexpected input %q: %w", name, domain.ErrInvalidInput)
		}
	}
	return nil
}

// Name returns the model's configured name.
func (m *Model) Name() string {
	return m.name
}

// Inputs returns the model's external inputs, sorted.
func (m *Model) Inputs() []string {
	return m.plan.Inputs()
}

// Outputs returns the requested output names in the order Call returns
// their values.
func (m *Model) Outputs() []string {
	return m.outputs
}
