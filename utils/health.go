package utils

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Pinger is anything the health monitor can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Mongo     bool      `json:"mongo"`
	Redis     bool      `json:"redis"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Status is "ok" when every dependency answers and "degraded" otherwise.
func (h HealthStatus) Status() string {
	if h.Mongo && h.Redis {
		return "ok"
	}
	return "degraded"
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// CheckHealth probes mongo and redis once and stores the result.
func CheckHealth(ctx context.Context, mongo, redis Pinger) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	status := HealthStatus{
		Mongo:     mongo.Ping(ctx) == nil,
		Redis:     redis.Ping(ctx) == nil,
		CheckedAt: time.Now(),
	}

	mu.Lock()
	currentHealth = status
	mu.Unlock()
	return status
}

// StartHealthMonitor performs periodic health checks until ctx is done.
func StartHealthMonitor(ctx context.Context, mongo, redis Pinger, interval time.Duration) {
	go func() {
		CheckHealth(ctx, mongo, redis)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				status := CheckHealth(ctx, mongo, redis)
				if status.Status() != "ok" {
					GetLogger().Warn("dependency check failed",
						zap.Bool("mongo", status.Mongo),
						zap.Bool("redis", status.Redis))
				}
			}
		}
	}()
}
