package stats

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps counters in Redis hashes:
//
//	<prefix>:total                  outcome -> count, never expires
//	<prefix>:minute:<yyyymmddHHMM>  outcome -> count, expires after the TTL
//	<prefix>:rule                   rule -> count, never expires
//	<prefix>:client:<key>           outcome -> count, expires after the TTL (optional)
type RedisStore struct {
	rdb redis.UniversalClient

	prefix string
	ttl    time.Duration

	trackClients bool
}

type RedisOption func(*RedisStore)

func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = strings.Trim(prefix, ":")
	}
}

// WithTTL sets the expiry of the per-minute and per-client hashes. 0 keeps them forever.
func WithTTL(d time.Duration) RedisOption {
	return func(s *RedisStore) { s.ttl = d }
}

func WithRedisTrackClients(track bool) RedisOption {
	return func(s *RedisStore) { s.trackClients = track }
}

func NewRedisStore(rdb redis.UniversalClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		rdb:    rdb,
		prefix: "gqlguard:stats",
		ttl:    24 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type increment struct {
	key    string
	field  string
	expire bool
}

func (s *RedisStore) increments(ev Event) []increment {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	incs := []increment{
		{key: s.prefix + ":total", field: ev.Outcome},
		{key: fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format("200601021504")), field: ev.Outcome, expire: true},
	}
	for _, rule := range ev.Rules {
		incs = append(incs, increment{key: s.prefix + ":rule", field: rule})
	}
	if s.trackClients {
		if c := strings.TrimSpace(ev.Client); c != "" && ev.Outcome != OutcomeAccepted {
			incs = append(incs, increment{key: s.prefix + ":client:" + c, field: ev.Outcome, expire: true})
		}
	}
	return incs
}

// Record increments every counter of ev in a single pipeline.
func (s *RedisStore) Record(ctx context.Context, ev Event) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	pipe := s.rdb.Pipeline()
	for _, inc := range s.increments(ev) {
		pipe.HIncrBy(ctx, inc.key, inc.field, 1)
		if inc.expire && s.ttl > 0 {
			pipe.Expire(ctx, inc.key, s.ttl)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("recording stats: %w", err)
	}
	return nil
}

// Totals reads the number of events per outcome.
func (s *RedisStore) Totals(ctx context.Context) (map[string]int64, error) {
	return s.readCounts(ctx, s.prefix+":total")
}

// ByRule reads the number of rejections per rule.
func (s *RedisStore) ByRule(ctx context.Context) (map[string]int64, error) {
	return s.readCounts(ctx, s.prefix+":rule")
}

func (s *RedisStore) readCounts(ctx context.Context, key string) (map[string]int64, error) {
	raw, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	out := make(map[string]int64, len(raw))
	for field, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("reading %s: field %q: %w", key, field, err)
		}
		out[field] = n
	}
	return out, nil
}

// Ping checks the connection to Redis.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
