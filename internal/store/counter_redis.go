package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/quotaguard/internal/counter"
)

// DefaultNamespace prefixes counter keys when no namespace is configured.
const DefaultNamespace = "quotaguard:"

// RedisCounters is the Redis implementation of counter.Store. It is the
// production backend: every engine instance shares state through it and
// relies on Redis for atomicity and key expiry.
type RedisCounters struct {
	client    *redis.Client
	namespace string
}

// NewRedisCounters creates a Redis-backed counter store. The namespace is
// prepended to every key so one Redis database can host several deployments.
func NewRedisCounters(client *redis.Client, namespace string) *RedisCounters {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	return &RedisCounters{client: client, namespace: namespace}
}

func (r *RedisCounters) Get(ctx context.Context, key string) (int64, error) {
	val, err := r.client.Get(ctx, r.namespace+key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}

		return 0, fmt.Errorf("redis get failed: %w", err)
	}

	return val, nil
}

// IncrBy runs INCRBY and EXPIRE NX in one pipeline. INCRBY alone carries the
// atomicity guarantee; the NX expiry keeps the window anchored to the first
// increment instead of sliding forward on every request.
func (r *RedisCounters) IncrBy(ctx context.Context, key string, amount int64, window time.Duration) (int64, time.Duration, error) {
	fullKey := r.namespace + key

	pipe := r.client.Pipeline()
	incr := pipe.IncrBy(ctx, fullKey, amount)
	pipe.ExpireNX(ctx, fullKey, window)
	ttlCmd := pipe.TTL(ctx, fullKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, fmt.Errorf("redis incrby failed: %w", err)
	}

	ttl := ttlCmd.Val()
	if ttl < 0 {
		// TTL reports -1 when the expiry raced away; the window is the
		// closest honest answer.
		ttl = window
	}

	return incr.Val(), ttl, nil
}

// Close is a no-op; the Redis client's lifecycle belongs to the container.
func (r *RedisCounters) Close() error {
	return nil
}

// Compile-time check.
var _ counter.Store = (*RedisCounters)(nil)
