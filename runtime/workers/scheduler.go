package workers

import (
	"sync"
	"time"
)

// ExpiryScheduler wraps the single reschedulable idle deadline of one
// room. Arming a new deadline always replaces any pending one:
// deadlines never stack, at most one is outstanding. Every Arm bumps a
// generation counter and the fire callback carries the generation it
// was armed with, so a deadline that was replaced after its timer
// already fired can be recognized as stale and ignored.
type ExpiryScheduler struct {
	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
	fire       func(generation uint64)
}

func NewExpiryScheduler(fire func(generation uint64)) *ExpiryScheduler {
	return &ExpiryScheduler{fire: fire}
}

// Arm replaces the pending deadline with now+ttl and returns the new
// generation.
func (s *ExpiryScheduler) Arm(ttl time.Duration) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.generation++
	generation := s.generation
	s.timer = time.AfterFunc(ttl, func() {
		s.fire(generation)
	})
	return generation
}

// Disarm cancels any pending deadline without bumping the generation.
func (s *ExpiryScheduler) Disarm() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Generation returns the generation of the most recently armed
// deadline. A fired deadline carrying an older generation is stale.
func (s *ExpiryScheduler) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}
