// Package bolt implements ports.GroupStore on a single bbolt file.
//
// Each execution group is a top-level bucket holding two nested
// buckets, "values" (msgpack-encoded entries) and "attrs" (string
// annotations). The file is always opened in append mode: existing
// groups are preserved across handles, giving every past call a
// permanently inspectable record.
package bolt

import (
	"context"
	"errors"
	"fmt"
	"time"

	bbolt "go.etcd.io/bbolt"

	"braid/pkg/codec"
	"braid/pkg/ports"
)

var (
	valuesBucket = []byte("values")
	attrsBucket  = []byte("attrs")
)

// Store implements ports.GroupStore backed by a bbolt database file.
type Store struct {
	path string
}

// NewStore creates a store for the given database path. The file is
// created on first Open.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Open opens the database file, creating it if needed.
func (s *Store) Open(ctx context.Context) (ports.StoreHandle, error) {
	db, err := bbolt.Open(s.path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt store %s: %w", s.path, err)
	}
	return &handle{db: db}, nil
}

type handle struct {
	db *bbolt.DB
}

func (h *handle) CreateGroup(ctx context.Context, name string) (ports.Group, error) {
	err := h.db.Update(func(tx *bbolt.Tx) error {
		root, err := tx.CreateBucket([]byte(name))
		if errors.Is(err, bbolt.ErrBucketExists) {
			return ports.ErrGroupExists
		}
		if err != nil {
			return err
		}
		if _, err := root.CreateBucket(valuesBucket); err != nil {
			return err
		}
		_, err = root.CreateBucket(attrsBucket)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create group %q: %w", name, err)
	}
	return &group{db: h.db, name: []byte(name)}, nil
}

func (h *handle) OpenGroup(ctx context.Context, name string) (ports.Group, error) {
	err := h.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(name)) == nil {
			return ports.ErrKeyNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &group{db: h.db, name: []byte(name)}, nil
}

// Close releases the file. bbolt makes closing an already-closed
// database a no-op.
func (h *handle) Close() error {
	return h.db.Close()
}

type group struct {
	db   *bbolt.DB
	name []byte
}

func (g *group) Write(ctx context.Context, name string, value any) error {
	data, err := codec.Encode(value)
	if err != nil {
		return err
	}
	return g.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := g.bucket(tx, valuesBucket)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(name), data)
	})
}

func (g *group) Read(ctx context.Context, name string) (any, error) {
	var data []byte
	err := g.db.View(func(tx *bbolt.Tx) error {
		bucket, err := g.bucket(tx, valuesBucket)
		if err != nil {
			return err
		}
		raw := bucket.Get([]byte(name))
		if raw == nil {
			return ports.ErrKeyNotFound
		}
		// The slice is only valid inside the transaction.
		data = append([]byte(nil), raw...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return codec.Decode(data)
}

func (g *group) SetAttr(ctx context.Context, name, value string) error {
	return g.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := g.bucket(tx, attrsBucket)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(name), []byte(value))
	})
}

func (g *group) Attr(ctx context.Context, name string) (string, error) {
	var value string
	err := g.db.View(func(tx *bbolt.Tx) error {
		bucket, err := g.bucket(tx, attrsBucket)
		if err != nil {
			return err
		}
		raw := bucket.Get([]byte(name))
		if raw == nil {
			return ports.ErrKeyNotFound
		}
		value = string(raw)
		return nil
	})
	if err != nil {
		return "", err
	}
	return value, nil
}

func (g *group) bucket(tx *bbolt.Tx, child []byte) (*bbolt.Bucket, error) {
	root := tx.Bucket(g.name)
	if root == nil {
		return nil, ports.ErrKeyNotFound
	}
	bucket := root.Bucket(child)
	if bucket == nil {
		return nil, fmt.Errorf("group %q is missing its %s bucket", g.name, child)
	}
	return bucket, nil
}
