// Package cache provides the generic key-value cache consumed by the
// selection engine: a Redis-backed implementation for deployments that share
// cache state across instances, and an in-process implementation that
// preserves correctness (only scale) when no Redis is configured.
package cache

import (
	"context"
	"time"
)

// Cache is the minimal TTL key-value surface the selection engine needs.
// Implementations must be safe for concurrent use. Writes are whole-value:
// racing writers on one key may overwrite each other but never interleave.
type Cache interface {
	// Get returns the value for key, or types.ErrCacheMiss when no live
	// entry exists.
	Get(ctx context.Context, key string) (string, error)

	// SetEx stores value under key with the given TTL.
	SetEx(ctx context.Context, key string, ttl time.Duration, value string) error

	// Delete removes the given keys; missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// Keys returns all live keys matching a glob pattern ("prefix:*").
	Keys(ctx context.Context, pattern string) ([]string, error)
}
