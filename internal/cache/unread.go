package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// UnreadCounter caches per-user unread notification counts in Redis. A nil
// client turns every operation into a cache miss / no-op, so the service
// runs without Redis in tests and local setups.
type UnreadCounter struct {
	client *redis.Client
	ttl    time.Duration
}

func NewUnreadCounter(addr, password string, ttl time.Duration) (*UnreadCounter, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &UnreadCounter{client: rdb, ttl: ttl}, nil
}

// NewNoopUnreadCounter returns a counter that never caches.
func NewNoopUnreadCounter() *UnreadCounter {
	return &UnreadCounter{}
}

func key(userID string) string {
	return "notifications:unread:" + userID
}

// Get returns the cached count and whether the cache held a value.
func (c *UnreadCounter) Get(ctx context.Context, userID string) (int64, bool) {
	if c == nil || c.client == nil {
		return 0, false
	}
	val, err := c.client.Get(ctx, key(userID)).Result()
	if err != nil {
		return 0, false
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (c *UnreadCounter) Set(ctx context.Context, userID string, count int64) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Set(ctx, key(userID), count, c.ttl)
}

// Invalidate drops the cached count; the next read repopulates from the DB.
func (c *UnreadCounter) Invalidate(ctx context.Context, userID string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, key(userID))
}

func (c *UnreadCounter) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
