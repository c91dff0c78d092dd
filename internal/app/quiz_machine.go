package app

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"campus-map-quiz/internal/domain"
)

const (
	// DefaultSettleDelay is the pause between judging an answer and moving on.
	DefaultSettleDelay = 1500 * time.Millisecond
	// DefaultTickInterval is how often ElapsedSeconds grows by one.
	DefaultTickInterval = time.Second
)

// EventSink receives state machine events in order.
// Handle is called with the machine's lock held and must not call back into the machine.
type EventSink interface {
	Handle(domain.Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(domain.Event)

func (f EventSinkFunc) Handle(ev domain.Event) { f(ev) }

// ScoreRecorder persists perfect runs. *ScoreStore satisfies it.
type ScoreRecorder interface {
	Load(ctx context.Context) (domain.ScoreBoard, error)
	Record(ctx context.Context, elapsedSeconds int) (domain.ScoreBoard, error)
}

// MachineOptions tunes timing and collaborators. Zero values fall back to defaults.
type MachineOptions struct {
	SettleDelay  time.Duration
	TickInterval time.Duration
	Scheduler    Scheduler
	Scores       ScoreRecorder
}

// QuizMachine drives one player through an ordered list of locations.
type QuizMachine struct {
	locations    []domain.Location
	sink         EventSink
	scores       ScoreRecorder
	sched        Scheduler
	settleDelay  time.Duration
	tickInterval time.Duration

	mu      sync.Mutex
	state   domain.SessionState
	session domain.QuizSession
	// open is true while the current question still accepts a click.
	open bool
	// generation invalidates callbacks scheduled by an earlier session.
	generation    uint64
	stopTicker    Cancel
	pendingSettle Cancel
	closed        bool
}

func NewQuizMachine(locations []domain.Location, sink EventSink, opts MachineOptions) (*QuizMachine, error) {
	if len(locations) == 0 {
		return nil, domain.ErrNoLocations
	}
	for _, loc := range locations {
		if err := loc.Bounds.Validate(); err != nil {
			return nil, fmt.Errorf("location %q: %w", loc.Name, err)
		}
	}
	if sink == nil {
		sink = EventSinkFunc(func(domain.Event) {})
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = DefaultSettleDelay
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.Scheduler == nil {
		opts.Scheduler = NewScheduler()
	}

	locs := make([]domain.Location, len(locations))
	copy(locs, locations)
	return &QuizMachine{
		locations:    locs,
		sink:         sink,
		scores:       opts.Scores,
		sched:        opts.Scheduler,
		settleDelay:  opts.SettleDelay,
		tickInterval: opts.TickInterval,
		state:        domain.StateIdle,
	}, nil
}

// Total is the number of questions per session.
func (m *QuizMachine) Total() int {
	return len(m.locations)
}

// State reports the lifecycle position.
func (m *QuizMachine) State() domain.SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Snapshot returns a copy of the current counters.
func (m *QuizMachine) Snapshot() domain.QuizSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Start begins a session from Idle or Finished. It reports false when a session is already running.
func (m *QuizMachine) Start(_ context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || m.state == domain.StateRunning {
		return false
	}
	m.startLocked()
	return true
}

// Restart abandons the current session and starts a new one. It is a no-op while Idle.
func (m *QuizMachine) Restart(_ context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || m.state == domain.StateIdle {
		return false
	}
	m.cancelTimersLocked()
	m.startLocked()
	return true
}

// SubmitAnswer judges a double-click against the current location.
// Clicks outside a running session, or after the current question was judged, are dropped.
func (m *QuizMachine) SubmitAnswer(ctx context.Context, click domain.Coordinate) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || m.state != domain.StateRunning || !m.open {
		return false
	}

	index := m.session.CurrentIndex
	loc := m.locations[index]
	correct := loc.Bounds.Contains(click)
	if correct {
		m.session.CorrectCount++
	} else {
		m.session.IncorrectCount++
	}
	m.session.CurrentIndex++
	m.open = false

	m.sink.Handle(domain.AnswerJudged{
		Index:        index,
		Correct:      correct,
		LocationName: loc.Name,
		Bounds:       loc.Bounds,
		Click:        click,
	})

	gen := m.generation
	if m.session.CurrentIndex == len(m.locations) {
		m.pendingSettle = m.sched.After(m.settleDelay, func() { m.finish(ctx, gen) })
	} else {
		m.pendingSettle = m.sched.After(m.settleDelay, func() { m.advance(gen) })
	}
	return true
}

// Close stops all timers. No event is emitted after Close returns.
func (m *QuizMachine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelTimersLocked()
	m.session.Active = false
	m.closed = true
}

func (m *QuizMachine) startLocked() {
	m.generation++
	m.session = domain.QuizSession{Active: true}
	m.state = domain.StateRunning
	m.open = true

	gen := m.generation
	m.stopTicker = m.sched.Every(m.tickInterval, func() { m.tick(gen) })

	m.sink.Handle(domain.SessionStarted{Total: len(m.locations)})
	m.showQuestionLocked()
}

func (m *QuizMachine) showQuestionLocked() {
	index := m.session.CurrentIndex
	m.sink.Handle(domain.QuestionShown{
		Index:    index,
		Total:    len(m.locations),
		Location: m.locations[index],
	})
}

func (m *QuizMachine) tick(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || gen != m.generation || m.state != domain.StateRunning {
		return
	}
	m.session.ElapsedSeconds++
	m.sink.Handle(domain.ClockTicked{ElapsedSeconds: m.session.ElapsedSeconds})
}

func (m *QuizMachine) advance(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || gen != m.generation || m.state != domain.StateRunning {
		return
	}
	m.pendingSettle = nil
	m.open = true
	m.showQuestionLocked()
}

func (m *QuizMachine) finish(ctx context.Context, gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || gen != m.generation || m.state != domain.StateRunning {
		return
	}
	m.pendingSettle = nil
	m.state = domain.StateFinished
	m.session.Active = false
	if m.stopTicker != nil {
		m.stopTicker()
		m.stopTicker = nil
	}

	elapsed := m.session.ElapsedSeconds
	perfect := m.session.CorrectCount == len(m.locations)
	board := domain.ScoreBoard{}
	if m.scores != nil {
		var err error
		if perfect {
			board, err = m.scores.Record(ctx, elapsed)
		} else {
			board, err = m.scores.Load(ctx)
		}
		if err != nil {
			log.Printf("score store: %v", err)
			board = domain.ScoreBoard{}
		}
	}

	if perfect {
		m.sink.Handle(domain.PerfectCompletion{ElapsedSeconds: elapsed})
	}
	m.sink.Handle(domain.SessionEnded{
		CorrectCount:   m.session.CorrectCount,
		IncorrectCount: m.session.IncorrectCount,
		ElapsedSeconds: elapsed,
		Total:          len(m.locations),
		Scores:         board,
	})
}

func (m *QuizMachine) cancelTimersLocked() {
	if m.stopTicker != nil {
		m.stopTicker()
		m.stopTicker = nil
	}
	if m.pendingSettle != nil {
		m.pendingSettle()
		m.pendingSettle = nil
	}
}
