/*
Package ports defines the driven-port interfaces the braid executor
consumes, following Hexagonal Architecture: the core depends on these
contracts, adapters implement them.

The only port today is the durable group store used by the
durable-persisted execution strategy. Implementations live under
pkg/adapters (memory, bolt, redis) and are verified against the shared
contract suite in pkg/ports/tests.
*/
package ports
