// Package memory provides an in-process implementation of
// ports.GroupStore. It is suitable for tests and development; values
// still round-trip through the codec so behavior matches the durable
// backends.
package memory

import (
	"context"
	"sync"

	"braid/pkg/codec"
	"braid/pkg/ports"
)

// Store implements ports.GroupStore in memory.
// Safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	groups map[string]*group
}

// NewStore creates a new in-memory group store.
func NewStore() *Store {
	return &Store{groups: make(map[string]*group)}
}

// Open returns a handle over the shared in-memory state. Handles are
// cheap; Close is a no-op.
func (s *Store) Open(ctx context.Context) (ports.StoreHandle, error) {
	return &handle{store: s}, nil
}

type handle struct {
	store *Store
}

func (h *handle) CreateGroup(ctx context.Context, name string) (ports.Group, error) {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	if _, ok := h.store.groups[name]; ok {
		return nil, ports.ErrGroupExists
	}
	g := &group{
		store:  h.store,
		values: make(map[string][]byte),
		attrs:  make(map[string]string),
	}
	h.store.groups[name] = g
	return g, nil
}

func (h *handle) OpenGroup(ctx context.Context, name string) (ports.Group, error) {
	h.store.mu.RLock()
	defer h.store.mu.RUnlock()

	g, ok := h.store.groups[name]
	if !ok {
		return nil, ports.ErrKeyNotFound
	}
	return g, nil
}

func (h *handle) Close() error {
	return nil
}

type group struct {
	store  *Store
	values map[string][]byte
	attrs  map[string]string
}

func (g *group) Write(ctx context.Context, name string, value any) error {
	data, err := codec.Encode(value)
	if err != nil {
		return err
	}
	g.store.mu.Lock()
	defer g.store.mu.Unlock()
	g.values[name] = data
	return nil
}

func (g *group) Read(ctx context.Context, name string) (any, error) {
	g.store.mu.RLock()
	data, ok := g.values[name]
	g.store.mu.RUnlock()
	if !ok {
		return nil, ports.ErrKeyNotFound
	}
	return codec.Decode(data)
}

func (g *group) SetAttr(ctx context.Context, name, value string) error {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()
	g.attrs[name] = value
	return nil
}

func (g *group) Attr(ctx context.Context, name string) (string, error) {
	g.store.mu.RLock()
	defer g.store.mu.RUnlock()
	value, ok := g.attrs[name]
	if !ok {
		return "", ports.ErrKeyNotFound
	}
	return value, nil
}
