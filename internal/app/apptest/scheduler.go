// Package apptest provides deterministic collaborators for quiz machine tests.
package apptest

import (
	"sync"
	"time"

	"campus-map-quiz/internal/app"
)

// Task is one scheduled callback recorded by Scheduler.
type Task struct {
	Interval    time.Duration
	Repeating   bool
	CancelCalls int
	fired       bool
	fn          func()
}

// Cancelled reports whether the task's cancel function ran at least once.
func (t *Task) Cancelled() bool {
	return t.CancelCalls > 0
}

// Scheduler records tasks and runs them only when the test says so.
type Scheduler struct {
	mu    sync.Mutex
	tasks []*Task
}

var _ app.Scheduler = (*Scheduler)(nil)

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

func (s *Scheduler) Every(interval time.Duration, fn func()) app.Cancel {
	return s.add(&Task{Interval: interval, Repeating: true, fn: fn})
}

func (s *Scheduler) After(delay time.Duration, fn func()) app.Cancel {
	return s.add(&Task{Interval: delay, fn: fn})
}

func (s *Scheduler) add(task *Task) app.Cancel {
	s.mu.Lock()
	s.tasks = append(s.tasks, task)
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		task.CancelCalls++
		s.mu.Unlock()
	}
}

// Tick fires every live repeating task n times.
func (s *Scheduler) Tick(n int) {
	for i := 0; i < n; i++ {
		for _, task := range s.live(true) {
			task.fn()
		}
	}
}

// Settle fires every pending one-shot task once.
func (s *Scheduler) Settle() {
	pending := s.live(false)
	s.mu.Lock()
	for _, task := range pending {
		task.fired = true
	}
	s.mu.Unlock()
	for _, task := range pending {
		task.fn()
	}
}

// Tickers returns all repeating tasks ever scheduled, oldest first.
func (s *Scheduler) Tickers() []*Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Task
	for _, task := range s.tasks {
		if task.Repeating {
			out = append(out, task)
		}
	}
	return out
}

// Pending counts one-shot tasks that are neither fired nor cancelled.
func (s *Scheduler) Pending() int {
	return len(s.live(false))
}

func (s *Scheduler) live(repeating bool) []*Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Task
	for _, task := range s.tasks {
		if task.Repeating != repeating || task.CancelCalls > 0 || task.fired {
			continue
		}
		out = append(out, task)
	}
	return out
}
