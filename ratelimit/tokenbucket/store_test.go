package tokenbucket

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/graph-gophers/graphql-guard/ratelimit"
)

var _ ratelimit.RateLimiter = &Store{}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func TestStore_BurstThenLimit(t *testing.T) {
	clock := newClock()
	s := NewStore(1, 2, withClock(clock.Now))
	ctx := context.Background()

	assert.False(t, s.LimitQuery(ctx, "k"))
	assert.False(t, s.LimitQuery(ctx, "k"))
	assert.True(t, s.LimitQuery(ctx, "k"), "burst exhausted")

	clock.Advance(time.Second)
	assert.False(t, s.LimitQuery(ctx, "k"), "one token refilled")
	assert.True(t, s.LimitQuery(ctx, "k"))
}

func TestStore_KeysAreIndependent(t *testing.T) {
	clock := newClock()
	s := NewStore(1, 1, withClock(clock.Now))
	ctx := context.Background()

	assert.False(t, s.LimitQuery(ctx, "a"))
	assert.True(t, s.LimitQuery(ctx, "a"))
	assert.False(t, s.LimitQuery(ctx, "b"))
	assert.Equal(t, 2, s.Len())
}

func TestStore_CleanupRemovesIdleEntries(t *testing.T) {
	clock := newClock()
	s := NewStore(10, 1, WithIdleTTL(time.Minute), WithCleanupEvery(0), withClock(clock.Now))
	ctx := context.Background()

	s.LimitQuery(ctx, "idle")
	clock.Advance(30 * time.Second)
	s.LimitQuery(ctx, "active")
	clock.Advance(45 * time.Second)

	s.Cleanup()
	assert.Equal(t, 1, s.Len())

	s.LimitQuery(ctx, "active")
	assert.Equal(t, 1, s.Len())
}

func TestStore_StartJanitor(t *testing.T) {
	s := NewStore(10, 1, WithIdleTTL(time.Nanosecond), WithCleanupEvery(time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.LimitQuery(ctx, "k")
	s.StartJanitor(ctx)

	assert.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, time.Millisecond)
}

func TestStore_Accessors(t *testing.T) {
	s := NewStore(2.5, 4)
	assert.Equal(t, 2.5, s.RPS())
	assert.Equal(t, 4, s.Burst())
}
