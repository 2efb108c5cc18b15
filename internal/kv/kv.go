// Package kv provides the key-value storage layer backing all persisted
// collections. Callers depend on the Store interface, never on a concrete
// backend, so tests can substitute an in-memory implementation.
package kv

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when the key has never been set
// or has been deleted.
var ErrKeyNotFound = errors.New("key not found")

// Well-known keys. The state and action keys match the original browser
// storage entries so an exported snapshot stays recognizable.
const (
	KeyUserState        = "learning-micro-academy-user-state"
	KeyCompletedActions = "learning_micro_academy_completed_actions"
	KeyAuthToken        = "auth_token"
	KeyUser             = "user"
	KeyPendingSync      = "pending_sync"
)

// Store is the minimal key-value contract. Values are opaque byte slices;
// collections above this layer encode themselves as JSON.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
