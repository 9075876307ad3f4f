// Package ratelimit provides Redis-based rate limiting for code execution
// requests.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRateLimited is returned when a rate limit is exceeded.
var ErrRateLimited = errors.New("rate limit exceeded")

// Limiter provides rate limiting functionality using Redis.
type Limiter struct {
	redis *redis.Client
}

// NewLimiter creates a new rate limiter. A nil client yields a limiter that
// allows everything.
func NewLimiter(rdb *redis.Client) *Limiter {
	return &Limiter{redis: rdb}
}

// RunLimits defines the rate limits for code execution requests.
type RunLimits struct {
	// Per-room: how many executions a single room can trigger. Execution
	// results are broadcast room-wide, so the room is the natural unit.
	RoomLimit  int
	RoomWindow time.Duration

	// Per-IP: fallback limit for a single client hammering many rooms.
	IPLimit  int
	IPWindow time.Duration
}

// DefaultRunLimits returns the recommended rate limits.
func DefaultRunLimits() RunLimits {
	return RunLimits{
		RoomLimit:  30,
		RoomWindow: time.Minute,
		IPLimit:    60,
		IPWindow:   time.Minute,
	}
}

// CheckRun checks all rate limits for a code execution request. Returns nil
// if allowed, ErrRateLimited if any limit is exceeded.
func (l *Limiter) CheckRun(ctx context.Context, roomID, ip string) error {
	if l == nil || l.redis == nil {
		// If Redis is unavailable, allow the request (fail-open for
		// availability).
		return nil
	}

	limits := DefaultRunLimits()

	roomKey := fmt.Sprintf("ratelimit:run:room:%s", roomID)
	if err := l.checkLimit(ctx, roomKey, limits.RoomLimit, limits.RoomWindow); err != nil {
		log.Printf("[RateLimit] Room %s exceeded run limit", roomID)
		return ErrRateLimited
	}

	if ip != "" {
		ipKey := fmt.Sprintf("ratelimit:run:ip:%s", ip)
		if err := l.checkLimit(ctx, ipKey, limits.IPLimit, limits.IPWindow); err != nil {
			log.Printf("[RateLimit] IP %s exceeded run limit", ip)
			return ErrRateLimited
		}
	}

	return nil
}

// checkLimit performs the actual rate limit check using Redis INCR.
func (l *Limiter) checkLimit(ctx context.Context, key string, limit int, window time.Duration) error {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		// Fail-open on Redis errors to maintain availability.
		return nil
	}

	// If this is the first request, set the expiry.
	if count == 1 {
		l.redis.Expire(ctx, key, window)
	}

	if int(count) > limit {
		return ErrRateLimited
	}

	return nil
}
