// Package ratelimit provides a Redis fixed-window request limiter. The
// student search endpoint fires on every key-up in the UI, so it gets a
// per-caller ceiling to keep typing bursts from turning into request storms.
package ratelimit

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

type Limiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

// New creates a limiter allowing limit requests per window per key.
func New(rdb *redis.Client, limit int, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, limit: limit, window: window}
}

// Allow reports whether the caller identified by key may proceed. The
// limiter fails open: if Redis is unreachable the request is allowed and the
// error is logged, since throttling is protective, not load-bearing.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.rdb == nil {
		return true
	}

	bucket := fmt.Sprintf("ratelimit:%s:%d", key, time.Now().Unix()/int64(l.window.Seconds()))
	count, err := l.rdb.Incr(ctx, bucket).Result()
	if err != nil {
		log.Printf("rate limiter unavailable, allowing request: %v", err)
		return true
	}
	if count == 1 {
		l.rdb.Expire(ctx, bucket, l.window)
	}
	return count <= int64(l.limit)
}
