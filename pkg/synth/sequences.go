package synth

import (
	"sync"
	"sync/atomic"
)

// Sequences manages the named auto-incrementing counters behind
// sequence.next() directives. Counters are atomic.Int64 so every Next is
// a single indivisible read-modify-write: N concurrent calls on one name
// always produce N distinct, monotonic values.
type Sequences struct {
	mu       sync.RWMutex
	counters map[string]*atomic.Int64
}

// NewSequences creates an empty counter store.
func NewSequences() *Sequences {
	return &Sequences{counters: make(map[string]*atomic.Int64)}
}

// Next increments the named counter and returns its new value.
// A counter starts at 1 on its first call.
func (s *Sequences) Next(name string) int64 {
	s.mu.RLock()
	c, ok := s.counters[name]
	s.mu.RUnlock()
	if !ok {
		s.mu.Lock()
		c, ok = s.counters[name]
		if !ok {
			c = &atomic.Int64{}
			s.counters[name] = c
		}
		s.mu.Unlock()
	}
	return c.Add(1)
}

// Current returns the last value handed out for the named counter,
// or 0 if it was never used.
func (s *Sequences) Current(name string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.counters[name]; ok {
		return c.Load()
	}
	return 0
}

// Reset removes the named counter so it restarts from 1.
func (s *Sequences) Reset(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.counters, name)
}
