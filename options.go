package braid

import (
	"io"
	"log/slog"

	"braid/pkg/domain"
	"braid/pkg/graph"
	"braid/pkg/handler"
	"braid/pkg/ports"
)

// HandlerFactory builds a configured execution strategy for a compiled
// plan and its requested outputs. It replaces ad-hoc partial
// construction: anything a strategy needs beyond the plan is captured
// by the closure.
type HandlerFactory func(name string, plan *graph.Plan, outputs []string) (handler.Handler, error)

type config struct {
	name         string
	extraOutputs []string
	factory      HandlerFactory
	logger       *slog.Logger
	hooks        domain.LifecycleHooks
}

func newConfig() *config {
	return &config{
		name:    "model",
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		factory: countedFactory,
	}
}

// countedFactory is the default strategy: counted eviction driven by
// the plan's usage counts.
func countedFactory(name string, plan *graph.Plan, outputs []string) (handler.Handler, error) {
	return handler.NewCounted(plan.UsageCounts(outputs)), nil
}

// Option defines a functional option for configuring a Model.
type Option func(*config)

// WithName sets the model name used in logs, events, and as the
// default durable-store identity.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithLogger sets a custom structured logger for the model.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *config) {
		c.hooks = hooks
	}
}

// WithExtraOutputs requests intermediate values in addition to the
// graph's sink values. Extras count as consumers, so under the counted
// strategy they survive until finish.
func WithExtraOutputs(names ...string) Option {
	return func(c *config) {
		c.extraOutputs = append(c.extraOutputs, names...)
	}
}

// WithHandlerFactory injects a custom execution strategy.
func WithHandlerFactory(factory HandlerFactory) Option {
	return func(c *config) {
		c.factory = factory
	}
}

// WithPlain selects the retain-all strategy.
func WithPlain() Option {
	return WithHandlerFactory(func(string, *graph.Plan, []string) (handler.Handler, error) {
		return handler.NewPlain(), nil
	})
}

// WithDurable selects the durable-persisted strategy writing through
// store. Group names are derived from the model name; a model calling
// through this strategy must not be invoked concurrently.
func WithDurable(store ports.GroupStore) Option {
	return WithHandlerFactory(func(name string, _ *graph.Plan, _ []string) (handler.Handler, error) {
		return handler.NewDurable(store, name), nil
	})
}
