/*
Package braid is a topological dataflow executor: given a directed
acyclic graph whose nodes are callables with named inputs and outputs,
it runs every node exactly once in dependency order, threads values
between nodes by name, and returns a requested subset of the produced
values.

# Concept

A model is built from a graph and compiled once into an execution plan.
Each call creates a private data instance, drives the plan through a
uniform four-phase lifecycle (initiate, run-node, finish or fail), and
discards the instance. Three interchangeable strategies implement the
same contract with different storage policies:

  - Counted (default): reference-counted eviction keeps peak memory
    bounded to the live set of the graph.
  - Plain: retain-all, fastest bookkeeping.
  - Durable: every input, intermediate, and output is persisted to a
    group store (bolt file, Redis, or in-memory), leaving a permanent
    audit record per call, including failure notes.

# Usage

	g := graph.New()
	g.MustAdd(domain.Node{
		ID:   "add",
		Func: func(ctx context.Context, args map[string]any) (any, error) {
			return args["a"].(float64) + args["b"].(float64), nil
		},
		Params:  []string{"a", "b"},
		Returns: []string{"c"},
	})
	g.MustAdd(domain.Node{
		ID:   "multiply",
		Func: func(ctx context.Context, args map[string]any) (any, error) {
			return args["c"].(float64) * args["d"].(float64), nil
		},
		Params:  []string{"c", "d"},
		Returns: []string{"e"},
	})

	model, err := braid.New(g)
	if err != nil {
		log.Fatal(err)
	}
	out, err := model.Call(ctx, map[string]any{"a": 2.0, "b": 3.0, "d": 10.0})
	// out == 50.0

Calls are strictly sequential within one model call; no two nodes ever
execute concurrently. Models using the in-memory strategies are safe
for concurrent Call from multiple goroutines; a durable-backed model
must be serialized by the caller.
*/
package braid
