// Package counter defines the storage contract for quotaguard's counters.
//
// A counter is a persisted (key, count, expiry) triple. Counters are created
// implicitly by the first increment, shared by every process that addresses
// the same key, and reclaimed by the store's own expiry; nothing ever
// deletes one explicitly. All correctness above this package rests on IncrBy
// being a single atomic operation; callers must never emulate it with a
// separate read and write.
package counter

import (
	"context"
	"time"
)

// Store is the only component that performs I/O against the backing store.
// Implementations must be safe for concurrent use from many processes that
// share no memory.
type Store interface {
	// Get returns the current count for key, or 0 when the key is absent.
	// Callers cannot distinguish a missing counter from one at zero.
	Get(ctx context.Context, key string) (int64, error)

	// IncrBy atomically adds amount to the counter at key, creating it at
	// zero first when absent, and returns the post-increment count together
	// with the time left until the counter expires. The window is applied
	// as the key's expiry only when the key has none yet, so the counting
	// window stays anchored to the first increment.
	IncrBy(ctx context.Context, key string, amount int64, window time.Duration) (count int64, ttl time.Duration, err error)

	// Close releases any resources held by the store.
	Close() error
}
