// Package redis implements ports.GroupStore on Redis.
//
// Each execution group maps to a pair of hashes: "<prefix><group>" for
// msgpack-encoded values and "<prefix><group>:attrs" for annotations.
// Group names are tracked in the set "<prefix>groups" so creation can
// detect duplicates. The client is owned by the caller; Close on a
// handle does not close it.
package redis

import (
	"context"
	"errors"
	"fmt"

	backend "github.com/redis/go-redis/v9"

	"braid/pkg/codec"
	"braid/pkg/ports"
)

const defaultPrefix = "braid:"

// Store implements ports.GroupStore using Redis.
type Store struct {
	client *backend.Client
	prefix string
}

// Option configures the store.
type Option func(*Store)

// WithPrefix overrides the default "braid:" key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// NewFromClient creates a store on an existing Redis client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: defaultPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open verifies connectivity and returns a handle.
func (s *Store) Open(ctx context.Context) (ports.StoreHandle, error) {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &handle{store: s}, nil
}

type handle struct {
	store *Store
}

func (h *handle) CreateGroup(ctx context.Context, name string) (ports.Group, error) {
	added, err := h.store.client.SAdd(ctx, h.store.prefix+"groups", name).Result()
	if err != nil {
		return nil, fmt.Errorf("redis create group %q: %w", name, err)
	}
	if added == 0 {
		return nil, ports.ErrGroupExists
	}
	return h.group(name), nil
}

func (h *handle) OpenGroup(ctx context.Context, name string) (ports.Group, error) {
	known, err := h.store.client.SIsMember(ctx, h.store.prefix+"groups", name).Result()
	if err != nil {
		return nil, fmt.Errorf("redis open group %q: %w", name, err)
	}
	if !known {
		return nil, ports.ErrKeyNotFound
	}
	return h.group(name), nil
}

func (h *handle) Close() error {
	return nil
}

func (h *handle) group(name string) *group {
	return &group{
		client:   h.store.client,
		valueKey: h.store.prefix + name,
		attrKey:  h.store.prefix + name + ":attrs",
	}
}

type group struct {
	client   *backend.Client
	valueKey string
	attrKey  string
}

func (g *group) Write(ctx context.Context, name string, value any) error {
	data, err := codec.Encode(value)
	if err != nil {
		return err
	}
	if err := g.client.HSet(ctx, g.valueKey, name, data).Err(); err != nil {
		return fmt.Errorf("redis write %q: %w", name, err)
	}
	return nil
}

func (g *group) Read(ctx context.Context, name string) (any, error) {
	data, err := g.client.HGet(ctx, g.valueKey, name).Bytes()
	if errors.Is(err, backend.Nil) {
		return nil, ports.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis read %q: %w", name, err)
	}
	return codec.Decode(data)
}

func (g *group) SetAttr(ctx context.Context, name, value string) error {
	if err := g.client.HSet(ctx, g.attrKey, name, value).Err(); err != nil {
		return fmt.Errorf("redis set attr %q: %w", name, err)
	}
	return nil
}

func (g *group) Attr(ctx context.Context, name string) (string, error) {
	value, err := g.client.HGet(ctx, g.attrKey, name).Result()
	if errors.Is(err, backend.Nil) {
		return "", ports.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis attr %q: %w", name, err)
	}
	return value, nil
}
