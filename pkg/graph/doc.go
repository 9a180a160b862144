/*
Package graph builds dataflow graphs and compiles them into execution
plans.

A Graph is assembled from domain.Node values. Edges are not declared
explicitly: a node that produces a value name is linked to every node
that lists the same name among its parameters. Compiling the graph
yields an immutable Plan — a topological ordering plus the derived
external signature (inputs nobody produces, outputs nobody consumes)
and per-value usage counts that drive the counted-eviction strategy.

The executor core never touches a Graph directly; it consumes only the
compiled Plan.
*/
package graph
