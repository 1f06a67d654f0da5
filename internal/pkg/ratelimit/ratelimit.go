// Package ratelimit implements fixed-window request counters on Redis.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable wraps Redis failures so callers can decide to fail open.
var ErrUnavailable = errors.New("ratelimit: redis unavailable")

// Limiter decides whether one more hit for a key fits the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// Result describes the state of a window after a hit.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// FixedWindow counts hits per key in windows of a fixed length. The window
// starts at the first hit and its TTL is never extended by later hits.
type FixedWindow struct {
	client redis.UniversalClient
	prefix string
	limit  int
	window time.Duration
}

// NewFixedWindow allows limit hits per window for each key.
func NewFixedWindow(client redis.UniversalClient, prefix string, limit int, window time.Duration) *FixedWindow {
	return &FixedWindow{client: client, prefix: prefix, limit: limit, window: window}
}

// Allow records a hit for key.
func (f *FixedWindow) Allow(ctx context.Context, key string) (Result, error) {
	k := f.prefix + key

	count, err := f.client.Incr(ctx, k).Result()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if count == 1 {
		if err := f.client.Expire(ctx, k, f.window).Err(); err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	res := Result{
		Allowed:   count <= int64(f.limit),
		Limit:     f.limit,
		Remaining: max(f.limit-int(count), 0),
	}
	if res.Allowed {
		return res, nil
	}

	ttl, err := f.client.TTL(ctx, k).Result()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if ttl < 0 {
		// key lost its expiry; restart the window
		if err := f.client.Expire(ctx, k, f.window).Err(); err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		ttl = f.window
	}
	res.RetryAfter = ttl

	return res, nil
}
