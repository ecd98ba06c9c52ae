// Package stats records what the guard decided for every request. Recording is best
// effort: a failing store never changes the outcome of a request.
package stats

import (
	"context"
	"time"
)

// Outcomes of a request.
const (
	OutcomeAccepted    = "accepted"
	OutcomeRejected    = "rejected"
	OutcomeRateLimited = "rate_limited"
)

// Event describes the decision taken for one request.
type Event struct {
	Outcome string

	// Rules lists the rules that rejected the query, empty unless Outcome is OutcomeRejected.
	Rules []string

	Client    string
	Operation string
	At        time.Time
}

type Store interface {
	Record(ctx context.Context, ev Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Record(context.Context, Event) error { return nil }
