// Package ratelimit implements a fixed-window request counter keyed by
// (namespace, actor). Counters live in a shared store rather than process
// memory, so limits hold across multiple server instances.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Store counts hits per key within a window. Implementations must be safe for
// concurrent use.
type Store interface {
	// Incr increments the counter for key, starting its expiry window on
	// first hit, and returns the new count.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// Limiter enforces a per-actor request ceiling over a fixed window.
type Limiter struct {
	store     Store
	namespace string
	limit     int64
	window    time.Duration
}

// NewLimiter creates a limiter for one namespace (e.g. "bids").
func NewLimiter(store Store, namespace string, limit int, window time.Duration) *Limiter {
	return &Limiter{
		store:     store,
		namespace: namespace,
		limit:     int64(limit),
		window:    window,
	}
}

// Allow records one hit for the actor and reports whether it is within the
// limit. Store failures allow the request; throttling is best-effort and must
// not take the API down with it.
func (l *Limiter) Allow(ctx context.Context, actorID uint64) bool {
	key := fmt.Sprintf("ratelimit:%s:%d", l.namespace, actorID)
	count, err := l.store.Incr(ctx, key, l.window)
	if err != nil {
		return true
	}
	return count <= l.limit
}
