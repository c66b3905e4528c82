package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"marketplace-wallet/internal/core/ports"

	goredis "github.com/redis/go-redis/v9"
)

// PendingCountsCache implements ports.PendingCountsCache using Redis. The
// operator dashboard polls pending counts on an interval; the cache keeps
// those polls off PostgreSQL. Create/resolve paths invalidate it.
type PendingCountsCache struct {
	client *goredis.Client
	key    string
}

// NewPendingCountsCache creates a new Redis-backed pending counts cache.
func NewPendingCountsCache(client *goredis.Client) *PendingCountsCache {
	return &PendingCountsCache{
		client: client,
		key:    "pending_counts",
	}
}

// Get retrieves the cached counts. Returns nil, nil on cache miss.
func (c *PendingCountsCache) Get(ctx context.Context) (*ports.PendingCounts, error) {
	val, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis pending counts get: %w", err)
	}

	counts := &ports.PendingCounts{}
	if err := json.Unmarshal(val, counts); err != nil {
		return nil, fmt.Errorf("unmarshal pending counts: %w", err)
	}
	return counts, nil
}

// Set stores the counts with a TTL.
func (c *PendingCountsCache) Set(ctx context.Context, counts ports.PendingCounts, ttl time.Duration) error {
	data, err := json.Marshal(counts)
	if err != nil {
		return fmt.Errorf("marshal pending counts: %w", err)
	}
	if err := c.client.Set(ctx, c.key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis pending counts set: %w", err)
	}
	return nil
}

// Invalidate drops the cached counts.
func (c *PendingCountsCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("redis pending counts del: %w", err)
	}
	return nil
}
