// Package kv is the opaque key-value storage the core persists small state
// into, such as server options and unsent drafts.
package kv

import (
	"context"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by Get for a missing bucket or key.
var ErrNotFound = errors.New("kv: not found")

type IStore interface {
	// Get returns a copy of the value stored under key.
	Get(ctx context.Context, bucket, key string) ([]byte, error)

	// Put creates or replaces the value under key.
	Put(ctx context.Context, bucket, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, bucket, key string) error

	// ForEach calls fn for every key of bucket in key order. An error from fn
	// stops the iteration and is returned.
	ForEach(ctx context.Context, bucket string, fn func(key string, value []byte) error) error

	Close() error
}

func IsNotFound(err error) bool {
	return errors.Cause(err) == ErrNotFound
}
