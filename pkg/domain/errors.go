package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownOutput is returned at model construction when a requested
// output is neither produced by any node nor an external input.
var ErrUnknownOutput = errors.New("requested output is not produced by the model")

// ErrNoOutputs is returned at model construction when the model would
// produce no outputs at all.
var ErrNoOutputs = errors.New("model produces no outputs")

// ErrInvalidInput is returned by a call when the supplied inputs do not
// match the model's external signature: a required input is absent or
// an unknown name was passed. These are caller mistakes, as opposed to
// execution failures inside the model.
var ErrInvalidInput = errors.New("inputs do not match model signature")

// ErrMissingValue is returned when a value is absent from the execution
// state: a parameter nobody supplied during run-node, or a requested
// output missing at finish. The latter signals an inconsistent plan, not
// a caller mistake; construction-time validation makes it unreachable in
// a well-formed model.
var ErrMissingValue = errors.New("value missing from execution state")

// NodeError wraps a failure raised by a node's callable during a call.
// It identifies the failing node and preserves the underlying error as
// its cause.
type NodeError struct {
	NodeID  string
	Params  []string
	Returns []string
	Err     error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %q (params: %s, returns: %s) failed: %v",
		e.NodeID, strings.Join(e.Params, ", "), strings.Join(e.Returns, ", "), e.Err)
}

// Unwrap exposes the original error for errors.Is/As.
func (e *NodeError) Unwrap() error {
	return e.Err
}
