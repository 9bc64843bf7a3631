package mocks

import (
	"sync"
	"time"

	"github.com/harborline/battleship-go/internal/scheduler"
)

// MockScheduler is a mock implementation of Scheduler for testing.
// Jobs never fire on their own; tests trigger them with Fire.
type MockScheduler struct {
	mu   sync.Mutex
	jobs map[string]scheduledJob
}

type scheduledJob struct {
	delay time.Duration
	fn    func()
}

// Ensure MockScheduler implements Scheduler
var _ scheduler.Scheduler = (*MockScheduler)(nil)

// NewMockScheduler creates a new MockScheduler
func NewMockScheduler() *MockScheduler {
	return &MockScheduler{
		jobs: make(map[string]scheduledJob),
	}
}

// Schedule records the job without starting a timer
func (s *MockScheduler) Schedule(key string, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[key] = scheduledJob{delay: delay, fn: fn}
}

// Cancel removes a recorded job
func (s *MockScheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, key)
}

// Fire runs the job for the key, if one is recorded, and removes it.
// Returns true if a job ran.
func (s *MockScheduler) Fire(key string) bool {
	s.mu.Lock()
	job, ok := s.jobs[key]
	delete(s.jobs, key)
	s.mu.Unlock()

	if !ok {
		return false
	}
	job.fn()
	return true
}

// Delay returns the recorded delay for a pending job
func (s *MockScheduler) Delay(key string) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[key]
	return job.delay, ok
}

// PendingKeys returns the keys of all recorded jobs
func (s *MockScheduler) PendingKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.jobs))
	for key := range s.jobs {
		keys = append(keys, key)
	}
	return keys
}
