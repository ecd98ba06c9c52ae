package stats

import (
	"context"
	"sync"
)

// MemoryStore counts events in process. It never expires anything and is meant for
// development and tests.
type MemoryStore struct {
	mu       sync.Mutex
	total    map[string]int64
	byRule   map[string]int64
	byClient map[string]int64

	trackClients bool
}

type MemoryOption func(*MemoryStore)

// WithTrackClients also counts rejections per client key.
func WithTrackClients(track bool) MemoryOption {
	return func(s *MemoryStore) { s.trackClients = track }
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		total:    make(map[string]int64),
		byRule:   make(map[string]int64),
		byClient: make(map[string]int64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Record(_ context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total[ev.Outcome]++
	for _, rule := range ev.Rules {
		s.byRule[rule]++
	}
	if s.trackClients && ev.Client != "" && ev.Outcome != OutcomeAccepted {
		s.byClient[ev.Client]++
	}
	return nil
}

// Total returns the number of events per outcome.
func (s *MemoryStore) Total() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyCounts(s.total)
}

// ByRule returns the number of rejections per rule.
func (s *MemoryStore) ByRule() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyCounts(s.byRule)
}

// ByClient returns the number of refused requests per client. It is empty unless client
// tracking is enabled.
func (s *MemoryStore) ByClient() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyCounts(s.byClient)
}

func copyCounts(m map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
