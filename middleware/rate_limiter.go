package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RedisProvider hands out the shared Redis client; *cache.Manager implements it.
type RedisProvider interface {
	Client(ctx context.Context) (*redis.Client, error)
}

// rateLimiterStore holds a map of keys to their in-memory rate limiters.
type rateLimiterStore struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	newFn    func() *rate.Limiter
}

func newLimiterStore(newFn func() *rate.Limiter) *rateLimiterStore {
	return &rateLimiterStore{limiters: make(map[string]*rate.Limiter), newFn: newFn}
}

// getLimiter returns the rate limiter for a key, creating one if it doesn't exist.
func (s *rateLimiterStore) getLimiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[key]
	if !exists {
		limiter = s.newFn()
		s.limiters[key] = limiter
	}
	return limiter
}

// RateLimitMiddleware limits requests per IP address across the whole API.
func RateLimitMiddleware(perMinute int) gin.HandlerFunc {
	store := newLimiterStore(func() *rate.Limiter {
		return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
	})
	return func(c *gin.Context) {
		ip := getClientIP(c)
		if !store.getLimiter(ip).Allow() {
			utils.GetLogger().Warn("Rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}

type RouteLimitOptions struct {
	Limit  int
	Window time.Duration
	// Identify picks the caller; default is the client IP.
	Identify func(c *gin.Context) string
}

// RouteRateLimitMiddleware applies a fixed-window limit per route and
// caller, counted in Redis. Without Redis it falls back to an in-memory
// token bucket; any other failure lets the request through. A non-positive
// limit or window disables it.
func RouteRateLimitMiddleware(conn RedisProvider, opts RouteLimitOptions) gin.HandlerFunc {
	if opts.Limit <= 0 || opts.Window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if opts.Identify == nil {
		opts.Identify = getClientIP
	}
	windowSecs := int(opts.Window / time.Second)
	message := fmt.Sprintf("Too Many Requests, you can only call this %d times every %d seconds.", opts.Limit, windowSecs)
	fallback := newLimiterStore(func() *rate.Limiter {
		return rate.NewLimiter(rate.Every(opts.Window/time.Duration(opts.Limit)), opts.Limit)
	})

	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		key := fmt.Sprintf("rl:%s:%s:%s", c.Request.Method, route, opts.Identify(c))

		client, err := conn.Client(c.Request.Context())
		if err != nil {
			if !fallback.getLimiter(key).Allow() {
				c.Header("Retry-After", strconv.Itoa(windowSecs))
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": message})
				return
			}
			c.Next()
			return
		}

		count, ttl, err := hitWindow(c.Request.Context(), client, key, opts.Window)
		if err != nil {
			utils.GetLogger().Warn("rate limiter unavailable, allowing request", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		resetSecs := int(math.Ceil(ttl.Seconds()))
		remaining := opts.Limit - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(opts.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSecs))

		if int(count) > opts.Limit {
			c.Header("Retry-After", strconv.Itoa(resetSecs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": message})
			return
		}
		c.Next()
	}
}

// hitWindow counts one request in key's window and returns the count and
// the time left in the window.
func hitWindow(ctx context.Context, client *redis.Client, key string, window time.Duration) (int64, time.Duration, error) {
	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	if count == 1 {
		if err := client.Expire(ctx, key, window).Err(); err != nil {
			return 0, 0, err
		}
		return count, window, nil
	}
	ttl, err := client.TTL(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	if ttl < 0 {
		// Expiry was lost; start a fresh window.
		if err := client.Expire(ctx, key, window).Err(); err != nil {
			return 0, 0, err
		}
		ttl = window
	}
	return count, ttl, nil
}
