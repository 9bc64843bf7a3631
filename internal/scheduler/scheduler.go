package scheduler

import (
	"sync"
	"time"
)

// Scheduler runs a function once after a delay, keyed so a later schedule
// for the same key replaces the earlier one. Jobs re-validate whatever
// state they need at execution time; the scheduler never captures state
// for them.
type Scheduler interface {
	// Schedule runs fn after delay. A pending job with the same key is
	// cancelled and replaced.
	Schedule(key string, delay time.Duration, fn func())

	// Cancel stops a pending job if one exists for the key
	Cancel(key string)
}

// TimerScheduler implements Scheduler with time.AfterFunc timers
type TimerScheduler struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
}

// Ensure TimerScheduler implements Scheduler
var _ Scheduler = (*TimerScheduler)(nil)

// New creates a new TimerScheduler
func New() *TimerScheduler {
	return &TimerScheduler{
		timers: make(map[string]*time.Timer),
	}
}

// Schedule runs fn after delay, replacing any pending job for the key
func (s *TimerScheduler) Schedule(key string, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[key]; ok {
		timer.Stop()
	}

	s.timers[key] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, key)
		s.mu.Unlock()
		fn()
	})
}

// Cancel stops a pending job if one exists for the key
func (s *TimerScheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[key]; ok {
		timer.Stop()
		delete(s.timers, key)
	}
}

// PendingCount returns the number of scheduled jobs that have not fired
func (s *TimerScheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
