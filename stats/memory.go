package stats

import (
	"context"
	"sync"
)

type Counters struct {
	Allowed int64
	Denied  int64
}

// MemoryRecorder is a simple in-memory Recorder. Useful for tests and
// development; it never expires anything and is not meant for production.
type MemoryRecorder struct {
	mu       sync.Mutex
	total    Counters
	bypassed int64
	byRoute  map[string]Counters
}

func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{byRoute: make(map[string]Counters)}
}

func (s *MemoryRecorder) Record(_ context.Context, ev Event) error {
	route := ev.Method + " " + ev.Path

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.byRoute[route]
	if ev.Allowed {
		s.total.Allowed++
		c.Allowed++
	} else {
		s.total.Denied++
		c.Denied++
	}
	s.byRoute[route] = c

	if ev.EntryPoint {
		s.bypassed++
	}
	return nil
}

func (s *MemoryRecorder) Total() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *MemoryRecorder) Bypassed() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bypassed
}

func (s *MemoryRecorder) ByRoute() map[string]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Counters, len(s.byRoute))
	for k, v := range s.byRoute {
		out[k] = v
	}
	return out
}
