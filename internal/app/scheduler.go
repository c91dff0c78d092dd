package app

import (
	"sync"
	"time"
)

// Cancel stops a scheduled task. Calling it more than once is harmless.
type Cancel func()

// Scheduler runs callbacks later. Production code uses wall-clock timers; tests drive a fake.
type Scheduler interface {
	// Every invokes fn once per interval until cancelled.
	Every(interval time.Duration, fn func()) Cancel
	// After invokes fn once after delay unless cancelled first.
	After(delay time.Duration, fn func()) Cancel
}

type timerScheduler struct{}

// NewScheduler returns a Scheduler backed by time.Ticker and time.AfterFunc.
func NewScheduler() Scheduler {
	return timerScheduler{}
}

func (timerScheduler) Every(interval time.Duration, fn func()) Cancel {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}

func (timerScheduler) After(delay time.Duration, fn func()) Cancel {
	t := time.AfterFunc(delay, fn)
	return func() { t.Stop() }
}
