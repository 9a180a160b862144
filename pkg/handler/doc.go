/*
Package handler implements the execution strategies of the braid
executor.

Every strategy shares one four-phase contract: Begin creates the data
instance for a single call, RunNode executes one node against it,
Finish reads the requested outputs and tears the instance down, and
Fail performs strategy-specific cleanup before surfacing a wrapped
node error. The driving loop lives in the braid root package and is
written once, parametrized over a Handler.

Three strategies are provided:

  - Plain: keeps every produced value in one growing map.
  - Counted: the default; evicts a value the moment its last remaining
    consumer has run, bounding peak memory to the live set of the
    dependency graph.
  - Durable: persists every input, intermediate, and output of a call
    into a uniquely named group of a ports.GroupStore, leaving a
    permanent audit trail including failure annotations.
*/
package handler
