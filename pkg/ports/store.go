package ports

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Group.Read when no value has been
// written under the requested name.
var ErrKeyNotFound = errors.New("key not found in group")

// ErrGroupExists is returned by StoreHandle.CreateGroup when the group
// name is already taken. Group names must be unique per store; the
// durable strategy derives them from a per-handler call counter.
var ErrGroupExists = errors.New("group already exists")

// GroupStore is the durable store the durable-persisted strategy writes
// through. Open is called once per call in append mode: existing groups
// are preserved and a fresh handle is returned.
type GroupStore interface {
	Open(ctx context.Context) (StoreHandle, error)
}

// StoreHandle is an open session against the backing store. It must be
// closed on every exit path, successful or not.
type StoreHandle interface {
	// CreateGroup creates a new, uniquely named namespace for one call.
	CreateGroup(ctx context.Context, name string) (Group, error)

	// OpenGroup returns an existing group for offline inspection, or
	// ErrKeyNotFound if it was never created.
	OpenGroup(ctx context.Context, name string) (Group, error)

	// Close releases the handle. Closing twice is allowed and the
	// second call is a no-op.
	Close() error
}

// Group is a namespace holding every value of one call as individually
// keyed entries, plus free-form annotations.
type Group interface {
	// Write stores a value under its name. Writing an existing name
	// overwrites it.
	Write(ctx context.Context, name string, value any) error

	// Read returns the value stored under name, or ErrKeyNotFound.
	// The value round-trips through the adapter's codec, so its
	// concrete type may be normalized (e.g. integers widen to int64).
	Read(ctx context.Context, name string) (any, error)

	// SetAttr attaches a string annotation to the group, such as the
	// failure note written when a node raises.
	SetAttr(ctx context.Context, name, value string) error

	// Attr returns the annotation stored under name, or ErrKeyNotFound.
	Attr(ctx context.Context, name string) (string, error)
}
