// Package store provides the shared expiring key-value store used for
// cross-instance lockout counters and token revocation markers. Keys carry a
// per-key TTL and the store is the single source of truth: no caller keeps a
// long-lived copy of anything read from it.
package store

import (
	"context"
	"time"
)

// ExpiringStore is the contract both the credential guard and the revocation
// registry are written against. The atomicity the guard needs (increment then
// compare against the threshold) is provided by the store itself, never by
// in-process locking.
type ExpiringStore interface {
	// Set writes value under key with the given TTL, replacing any prior value.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// SetNX writes value under key only if the key does not already exist.
	// Returns true if the write happened.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	// Get returns the value for key; ok is false when the key is absent or expired.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// Incr atomically increments the counter at key and returns the new value.
	// The TTL is applied when the increment creates the key, so a counter and
	// its expiry begin together.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// TTL returns the remaining lifetime of key, or 0 when the key is absent.
	TTL(ctx context.Context, key string) (time.Duration, error)

	// Exists reports whether key is present and unexpired.
	Exists(ctx context.Context, key string) (bool, error)

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error
}
