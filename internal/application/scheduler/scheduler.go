package scheduler

import (
	"sync"
	"time"
)

// PeriodicScheduler runs one handler at a fixed interval on a single
// goroutine, so ticks never overlap; a slow handler delays rather than
// parallelizes the next tick.
//
// Each Start installs a fresh cancellation token. Starting while a schedule
// is active cancels the previous token first, so the prior handler never
// fires again and exactly one schedule exists at any time.
type PeriodicScheduler struct {
	mu     sync.Mutex
	cancel chan struct{} // nil when no schedule is installed
}

// NewPeriodicScheduler creates an idle scheduler.
func NewPeriodicScheduler() *PeriodicScheduler {
	return &PeriodicScheduler{}
}

// Start begins invoking handler every interval, replacing any active
// schedule.
func (s *PeriodicScheduler) Start(interval time.Duration, handler func()) {
	done := make(chan struct{})

	s.mu.Lock()
	if s.cancel != nil {
		close(s.cancel)
	}
	s.cancel = done
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				// A tick already buffered when the schedule was cancelled
				// must not fire.
				select {
				case <-done:
					return
				default:
				}
				handler()
			}
		}
	}()
}

// Stop cancels the active schedule. It is idempotent and safe without a
// prior Start. An invocation already in flight may still complete after Stop
// returns.
func (s *PeriodicScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		close(s.cancel)
		s.cancel = nil
	}
}

// IsActive reports whether a schedule is installed.
func (s *PeriodicScheduler) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}
