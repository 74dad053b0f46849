// Package stats records nonce-validation decisions. Recording is best
// effort: the middleware never lets a stats failure affect the request.
package stats

import (
	"context"
	"time"
)

// Event represents one validation decision made by the middleware.
//
// Watch cardinality when persisting: SessionID and Path are unbounded and
// can blow up the key space of a backend like Redis if tracked raw.
type Event struct {
	SessionID  string
	Allowed    bool
	EntryPoint bool // true when the request bypassed validation

	Method string
	Path   string

	At time.Time
}

// Recorder is the persistence strategy for validation decisions.
//
// Implementations may store in Redis, memory, etc. Callers must treat a
// returned error as best-effort (do not fail the request).
type Recorder interface {
	Record(ctx context.Context, ev Event) error
}
