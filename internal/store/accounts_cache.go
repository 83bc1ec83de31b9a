package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/quotaguard/internal/account"
)

// CachedAccounts wraps an account.Lookup with Redis caching for reads.
// A tier change becomes visible once the cached entry expires.
type CachedAccounts struct {
	lookup account.Lookup
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewCachedAccounts creates a Redis-cached account lookup decorator.
func NewCachedAccounts(lookup account.Lookup, client *redis.Client, ttl time.Duration) *CachedAccounts {
	return &CachedAccounts{
		lookup: lookup,
		client: client,
		prefix: "account:",
		ttl:    ttl,
	}
}

// AccountType returns the cached tier when present, otherwise asks the
// underlying lookup and populates the cache. Cache failures count as
// misses, so the lookup stays correct with Redis down, just slower.
func (c *CachedAccounts) AccountType(ctx context.Context, identifier string) (account.Type, error) {
	if cached, err := c.client.Get(ctx, c.prefix+identifier).Result(); err == nil {
		return account.Type(cached), nil
	}

	acct, err := c.lookup.AccountType(ctx, identifier)
	if err != nil {
		return "", err
	}

	// Best-effort populate; a failed write just means another miss later.
	_ = c.client.Set(ctx, c.prefix+identifier, string(acct), c.ttl).Err()

	return acct, nil
}

// Compile-time check.
var _ account.Lookup = (*CachedAccounts)(nil)
