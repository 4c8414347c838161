// Package statscache caches per-user task statistics in Redis.
package statscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/redis/go-redis/v9"
)

// Counters tracks cache activity.
type Counters struct {
	Hits          uint64 `json:"hits"`
	Misses        uint64 `json:"misses"`
	Sets          uint64 `json:"sets"`
	Invalidations uint64 `json:"invalidations"`
	Errors        uint64 `json:"errors"`
}

// Cache stores domain.Stats values keyed by user id.
type Cache struct {
	client   *redis.Client
	prefix   string
	ttl      time.Duration
	counters Counters
}

// New creates a Cache. Keys are prefix + user id.
func New(client *redis.Client, prefix string, ttl time.Duration) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// NewClient creates a Redis client for addr.
func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

func (c *Cache) key(userID string) string {
	return c.prefix + userID
}

// Get returns the cached stats for userID and whether they were found.
func (c *Cache) Get(ctx context.Context, userID string) (domain.Stats, bool, error) {
	data, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			atomic.AddUint64(&c.counters.Misses, 1)
			return domain.Stats{}, false, nil
		}
		atomic.AddUint64(&c.counters.Errors, 1)
		return domain.Stats{}, false, fmt.Errorf("cache get error: %w", err)
	}

	var stats domain.Stats
	if err := json.Unmarshal(data, &stats); err != nil {
		atomic.AddUint64(&c.counters.Errors, 1)
		return domain.Stats{}, false, fmt.Errorf("cache unmarshal error: %w", err)
	}
	atomic.AddUint64(&c.counters.Hits, 1)
	return stats, true, nil
}

// Set stores stats for userID with the configured TTL.
func (c *Cache) Set(ctx context.Context, userID string, stats domain.Stats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		atomic.AddUint64(&c.counters.Errors, 1)
		return fmt.Errorf("cache marshal error: %w", err)
	}
	if err := c.client.Set(ctx, c.key(userID), data, c.ttl).Err(); err != nil {
		atomic.AddUint64(&c.counters.Errors, 1)
		return fmt.Errorf("cache set error: %w", err)
	}
	atomic.AddUint64(&c.counters.Sets, 1)
	return nil
}

// Invalidate drops the cached stats for userID.
func (c *Cache) Invalidate(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil {
		atomic.AddUint64(&c.counters.Errors, 1)
		return fmt.Errorf("cache delete error: %w", err)
	}
	atomic.AddUint64(&c.counters.Invalidations, 1)
	return nil
}

// Snapshot returns a copy of the counters.
func (c *Cache) Snapshot() Counters {
	return Counters{
		Hits:          atomic.LoadUint64(&c.counters.Hits),
		Misses:        atomic.LoadUint64(&c.counters.Misses),
		Sets:          atomic.LoadUint64(&c.counters.Sets),
		Invalidations: atomic.LoadUint64(&c.counters.Invalidations),
		Errors:        atomic.LoadUint64(&c.counters.Errors),
	}
}

// Ping checks if the Redis connection is healthy.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client connection.
func (c *Cache) Close() error {
	return c.client.Close()
}
