package stats

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Store = Nop{}
	_ Store = &MemoryStore{}
	_ Store = &RedisStore{}
)

func TestMemoryStore_Record(t *testing.T) {
	s := NewMemoryStore(WithTrackClients(true))
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, Event{Outcome: OutcomeAccepted, Client: "a"}))
	require.NoError(t, s.Record(ctx, Event{Outcome: OutcomeRejected, Client: "a", Rules: []string{"QueryComplexity", "QueryDepth"}}))
	require.NoError(t, s.Record(ctx, Event{Outcome: OutcomeRejected, Client: "b", Rules: []string{"QueryDepth"}}))
	require.NoError(t, s.Record(ctx, Event{Outcome: OutcomeRateLimited, Client: "b"}))

	assert.Equal(t, map[string]int64{OutcomeAccepted: 1, OutcomeRejected: 2, OutcomeRateLimited: 1}, s.Total())
	assert.Equal(t, map[string]int64{"QueryComplexity": 1, "QueryDepth": 2}, s.ByRule())
	assert.Equal(t, map[string]int64{"a": 1, "b": 2}, s.ByClient())
}

func TestMemoryStore_ClientsNotTrackedByDefault(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Record(context.Background(), Event{Outcome: OutcomeRejected, Client: "a"}))
	assert.Empty(t, s.ByClient())
}

func TestMemoryStore_Concurrent(t *testing.T) {
	s := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Record(context.Background(), Event{Outcome: OutcomeRejected, Rules: []string{"MaximumAliases"}})
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(50), s.ByRule()["MaximumAliases"])
}

func TestRedisStore_Increments(t *testing.T) {
	s := NewRedisStore(nil, WithPrefix(":guard:"), WithRedisTrackClients(true))
	at := time.Date(2024, 3, 9, 14, 5, 59, 0, time.UTC)

	got := s.increments(Event{
		Outcome: OutcomeRejected,
		Rules:   []string{"QueryDepth"},
		Client:  " 10.0.0.1 ",
		At:      at,
	})

	assert.Equal(t, []increment{
		{key: "guard:total", field: OutcomeRejected},
		{key: "guard:minute:202403091405", field: OutcomeRejected, expire: true},
		{key: "guard:rule", field: "QueryDepth"},
		{key: "guard:client:10.0.0.1", field: OutcomeRejected, expire: true},
	}, got)
}

func TestRedisStore_IncrementsAcceptedSkipsClient(t *testing.T) {
	s := NewRedisStore(nil, WithRedisTrackClients(true))
	got := s.increments(Event{Outcome: OutcomeAccepted, Client: "a", At: time.Unix(0, 0)})
	require.Len(t, got, 2)
	assert.Equal(t, "gqlguard:stats:total", got[0].key)
	assert.Equal(t, "gqlguard:stats:minute:197001010000", got[1].key)
}

func TestRedisStore_NilClient(t *testing.T) {
	var s *RedisStore
	assert.NoError(t, s.Record(context.Background(), Event{Outcome: OutcomeAccepted}))
}

// TestRedisStore_Integration runs against the server named by GQLGUARD_TEST_REDIS_ADDR.
func TestRedisStore_Integration(t *testing.T) {
	addr := os.Getenv("GQLGUARD_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("GQLGUARD_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	prefix := "gqlguard:test:" + time.Now().Format("150405.000000")
	s := NewRedisStore(rdb, WithPrefix(prefix), WithTTL(time.Minute))
	t.Cleanup(func() {
		keys, _ := rdb.Keys(ctx, prefix+":*").Result()
		if len(keys) > 0 {
			rdb.Del(ctx, keys...)
		}
		_ = s.Close()
	})
	require.NoError(t, s.Ping(ctx))

	require.NoError(t, s.Record(ctx, Event{Outcome: OutcomeRejected, Rules: []string{"QueryComplexity"}}))
	require.NoError(t, s.Record(ctx, Event{Outcome: OutcomeAccepted}))

	totals, err := s.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{OutcomeRejected: 1, OutcomeAccepted: 1}, totals)

	rules, err := s.ByRule(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"QueryComplexity": 1}, rules)
}
