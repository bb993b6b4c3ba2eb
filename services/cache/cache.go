// Package cache is a best-effort Redis layer: reads that fail are misses,
// writes that fail are no-ops, and neither ever reaches the caller.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

const scanBatch = 200

// Cache wraps the shared connection with swallow-and-log semantics.
type Cache struct {
	conn       *Manager
	dispatcher *Dispatcher
	logger     *zap.Logger
	opTimeout  time.Duration
}

func New(conn *Manager, dispatcher *Dispatcher, logger *zap.Logger) *Cache {
	return &Cache{
		conn:       conn,
		dispatcher: dispatcher,
		logger:     logger,
		opTimeout:  time.Second,
	}
}

// Get returns the raw value and whether it was found.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	client, err := c.conn.Client(ctx)
	if err != nil {
		return nil, false
	}
	val, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if !isNil(err) {
			c.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return val, true
}

// GetJSON decodes the value at key into dst. Undecodable values are misses.
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) bool {
	raw, ok := c.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.logger.Warn("cache value is not valid JSON", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Set stores value with a TTL and reports whether the write landed.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	client, err := c.conn.Client(ctx)
	if err != nil {
		return false
	}
	if err := client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// InvalidatePattern deletes every key matching a glob pattern. SCAN is used
// so a large keyspace never blocks the server.
func (c *Cache) InvalidatePattern(ctx context.Context, pattern string) bool {
	client, err := c.conn.Client(ctx)
	if err != nil {
		return false
	}

	var cursor uint64
	for {
		keys, next, err := client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			c.logger.Warn("cache scan failed", zap.String("pattern", pattern), zap.Error(err))
			return false
		}
		if len(keys) > 0 {
			if err := client.Del(ctx, keys...).Err(); err != nil {
				c.logger.Warn("cache delete failed", zap.String("pattern", pattern), zap.Error(err))
				return false
			}
		}
		cursor = next
		if cursor == 0 {
			return true
		}
	}
}

// SetAsync queues a write on the dispatcher.
func (c *Cache) SetAsync(key string, value []byte, ttl time.Duration) {
	c.dispatcher.Dispatch("cache.set "+key, func(ctx context.Context) error {
		c.Set(ctx, key, value, ttl)
		return nil
	})
}

// SetJSONAsync marshals value now and queues the write.
func (c *Cache) SetJSONAsync(key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache value not serialisable", zap.String("key", key), zap.Error(err))
		return
	}
	c.SetAsync(key, raw, ttl)
}

// InvalidateAsync queues pattern invalidations.
func (c *Cache) InvalidateAsync(patterns ...string) {
	for _, p := range patterns {
		p := p
		c.dispatcher.Dispatch("cache.invalidate "+p, func(ctx context.Context) error {
			c.InvalidatePattern(ctx, p)
			return nil
		})
	}
}

// Invalidate queues every pattern registered for the mutation.
func (c *Cache) Invalidate(m Mutation) {
	patterns := Patterns(m)
	if len(patterns) == 0 {
		c.logger.Error("mutation has no invalidation patterns", zap.Stringer("mutation", m))
		return
	}
	c.InvalidateAsync(patterns...)
}
