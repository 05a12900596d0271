package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_AllowsUpToLimit(t *testing.T) {
	limiter := NewLimiter(NewMemoryStore(), "bids", 3, time.Minute)
	ctx := context.Background()

	assert.True(t, limiter.Allow(ctx, 1))
	assert.True(t, limiter.Allow(ctx, 1))
	assert.True(t, limiter.Allow(ctx, 1))
	assert.False(t, limiter.Allow(ctx, 1))
}

func TestLimiter_ActorsCountedSeparately(t *testing.T) {
	limiter := NewLimiter(NewMemoryStore(), "bids", 1, time.Minute)
	ctx := context.Background()

	assert.True(t, limiter.Allow(ctx, 1))
	assert.False(t, limiter.Allow(ctx, 1))
	assert.True(t, limiter.Allow(ctx, 2))
}

func TestLimiter_NamespacesCountedSeparately(t *testing.T) {
	store := NewMemoryStore()
	bids := NewLimiter(store, "bids", 1, time.Minute)
	milestones := NewLimiter(store, "milestones", 1, time.Minute)
	ctx := context.Background()

	assert.True(t, bids.Allow(ctx, 1))
	assert.False(t, bids.Allow(ctx, 1))
	assert.True(t, milestones.Allow(ctx, 1))
}

func TestMemoryStore_WindowResets(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	count, err := store.Incr(ctx, "k", 10*time.Millisecond)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	time.Sleep(20 * time.Millisecond)

	count, err = store.Incr(ctx, "k", 10*time.Millisecond)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
