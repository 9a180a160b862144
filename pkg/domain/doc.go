/*
Package domain contains the core domain models for the braid executor.

It defines the fundamental entities of a dataflow model: the Node (a
callable with named parameters and named returns), the error taxonomy
shared by every execution strategy, and the lifecycle events emitted
during a call. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture
principles.
*/
package domain
