package state

import (
	"sync"
	"time"
)

// Scheduler abstracts the container's periodic auto-save task so the timing
// contract is testable without a real clock.
type Scheduler interface {
	// Every runs task repeatedly at the given interval until Stop.
	Every(interval time.Duration, task func())
	// Stop cancels the scheduled task. Safe to call more than once.
	Stop()
}

// TickerScheduler runs the task on a time.Ticker in its own goroutine.
type TickerScheduler struct {
	done    chan struct{}
	once    sync.Once
	mu      sync.Mutex
	started bool
}

// NewTickerScheduler creates an unstarted ticker scheduler.
func NewTickerScheduler() *TickerScheduler {
	return &TickerScheduler{done: make(chan struct{})}
}

// Every starts the periodic task. Only the first call has effect.
func (s *TickerScheduler) Every(interval time.Duration, task func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				task()
			case <-s.done:
				return
			}
		}
	}()
}

// Stop cancels the periodic task.
func (s *TickerScheduler) Stop() {
	s.once.Do(func() { close(s.done) })
}
