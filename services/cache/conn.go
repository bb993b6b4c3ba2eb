package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ErrUnavailable is returned while a failed connection is cooling down.
var ErrUnavailable = errors.New("redis unavailable")

// Manager owns the process-wide Redis connection. The first caller to
// connect publishes the client; concurrent losers close their duplicate.
type Manager struct {
	opts     *redis.Options
	cooldown time.Duration
	logger   *zap.Logger

	client     atomic.Pointer[redis.Client]
	lastFailed atomic.Int64 // unix nanos of the last failed dial
}

func NewManager(opts *redis.Options, cooldown time.Duration, logger *zap.Logger) *Manager {
	return &Manager{opts: opts, cooldown: cooldown, logger: logger}
}

// Client returns the shared client, connecting on first use.
func (m *Manager) Client(ctx context.Context) (*redis.Client, error) {
	if c := m.client.Load(); c != nil {
		return c, nil
	}

	if last := m.lastFailed.Load(); last != 0 && time.Since(time.Unix(0, last)) < m.cooldown {
		return nil, ErrUnavailable
	}

	c := redis.NewClient(m.opts)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx).Err(); err != nil {
		_ = c.Close()
		m.lastFailed.Store(time.Now().UnixNano())
		m.logger.Warn("redis connect failed", zap.String("addr", m.opts.Addr), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if !m.client.CompareAndSwap(nil, c) {
		_ = c.Close()
		return m.client.Load(), nil
	}
	m.lastFailed.Store(0)
	m.logger.Info("redis connected", zap.String("addr", m.opts.Addr), zap.Int("db", m.opts.DB))
	return c, nil
}

// Ping reports whether Redis currently answers.
func (m *Manager) Ping(ctx context.Context) error {
	c, err := m.Client(ctx)
	if err != nil {
		return err
	}
	return c.Ping(ctx).Err()
}

// Close releases the shared client, if one was established.
func (m *Manager) Close() error {
	if c := m.client.Swap(nil); c != nil {
		return c.Close()
	}
	return nil
}

func isNil(err error) bool {
	return errors.Is(err, redis.Nil)
}
