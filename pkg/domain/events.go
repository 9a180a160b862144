package domain

import (
	"context"
	"time"
)

// NodeEvent describes the execution of a single node within a call.
type NodeEvent struct {
	NodeID   string        `json:"node_id"`
	Duration time.Duration `json:"duration,omitempty"`
	Err      error         `json:"-"`
}

// CallEvent describes one full traversal of the plan.
type CallEvent struct {
	Model    string        `json:"model"`
	Duration time.Duration `json:"duration,omitempty"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for executor observability.
// Any nil hook is skipped. Hooks run synchronously on the calling
// goroutine, so they should return quickly.
type LifecycleHooks struct {
	OnCallStart func(context.Context, *CallEvent)
	OnCallEnd   func(context.Context, *CallEvent)
	OnNodeStart func(context.Context, *NodeEvent)
	OnNodeEnd   func(context.Context, *NodeEvent)
}
