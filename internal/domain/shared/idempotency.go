package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers request keys that have already been handled.
// Checkout uses it to turn a retried POST into a replay of the first result.
type IdempotencyStore interface {
	// Reserve claims the key for ttl.
	// Returns true if the key was newly reserved, false if it was already taken
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Complete stores the result reference for a reserved key
	Complete(ctx context.Context, key, result string, ttl time.Duration) error

	// Result returns the stored result reference, or "" when the key is still in flight
	Result(ctx context.Context, key string) (string, error)

	// Release drops a reservation so the request can be retried
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}
