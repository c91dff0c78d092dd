package app_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"campus-map-quiz/internal/app"
	"campus-map-quiz/internal/app/apptest"
	"campus-map-quiz/internal/catalog"
	"campus-map-quiz/internal/domain"
	"campus-map-quiz/internal/infra/memory"
	"github.com/google/go-cmp/cmp"
)

var outside = domain.Coordinate{Lat: 0, Lng: 0}

type recorder struct {
	events []domain.Event
}

func (r *recorder) Handle(ev domain.Event) {
	r.events = append(r.events, ev)
}

func (r *recorder) names() []string {
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.EventName())
	}
	return out
}

func (r *recorder) judged() []domain.AnswerJudged {
	var out []domain.AnswerJudged
	for _, ev := range r.events {
		if j, ok := ev.(domain.AnswerJudged); ok {
			out = append(out, j)
		}
	}
	return out
}

func (r *recorder) reset() {
	r.events = nil
}

type harness struct {
	machine *app.QuizMachine
	sched   *apptest.Scheduler
	events  *recorder
	scores  *app.ScoreStore
	course  domain.Course
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	course := catalog.CSUN()
	sched := apptest.NewScheduler()
	events := &recorder{}
	fixed := func() time.Time { return time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC) }
	scores := app.NewScoreStoreWithClock(memory.NewKVStore(), app.DefaultScoresKey, fixed)

	machine, err := app.NewQuizMachine(course.Locations, events, app.MachineOptions{
		Scheduler: sched,
		Scores:    scores,
	})
	if err != nil {
		t.Fatalf("new machine: %v", err)
	}
	return &harness{machine: machine, sched: sched, events: events, scores: scores, course: course}
}

func (h *harness) answer(t *testing.T, click domain.Coordinate) {
	t.Helper()
	if !h.machine.SubmitAnswer(context.Background(), click) {
		t.Fatalf("answer was not accepted")
	}
	h.sched.Settle()
}

func TestPerfectRunRecordsScore(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	if !h.machine.Start(ctx) {
		t.Fatalf("start rejected")
	}
	h.sched.Tick(42)
	for _, loc := range h.course.Locations {
		h.answer(t, loc.Center)
	}

	if h.machine.State() != domain.StateFinished {
		t.Fatalf("expected finished, got %s", h.machine.State())
	}

	var perfect *domain.PerfectCompletion
	var ended *domain.SessionEnded
	for _, ev := range h.events.events {
		switch e := ev.(type) {
		case domain.PerfectCompletion:
			perfect = &e
		case domain.SessionEnded:
			ended = &e
		}
	}
	if perfect == nil || perfect.ElapsedSeconds != 42 {
		t.Fatalf("expected perfect completion at 42s, got %+v", perfect)
	}
	if ended == nil || ended.CorrectCount != 5 || ended.IncorrectCount != 0 || ended.ElapsedSeconds != 42 {
		t.Fatalf("unexpected session end %+v", ended)
	}

	want := domain.ScoreBoard{{ElapsedSeconds: 42, DateLabel: "10/19/2026"}}
	if diff := cmp.Diff(want, ended.Scores); diff != "" {
		t.Fatalf("board in event mismatch (-want +got):\n%s", diff)
	}
	stored, err := h.scores.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(want, stored); diff != "" {
		t.Fatalf("stored board mismatch (-want +got):\n%s", diff)
	}

	names := h.events.names()
	if names[len(names)-2] != "perfectCompletion" || names[len(names)-1] != "sessionEnded" {
		t.Fatalf("expected perfectCompletion then sessionEnded at the end, got %v", names)
	}
}

func TestWrongFirstAnswerAdvances(t *testing.T) {
	h := newHarness(t)
	h.machine.Start(context.Background())

	if !h.machine.SubmitAnswer(context.Background(), outside) {
		t.Fatalf("answer rejected")
	}

	snap := h.machine.Snapshot()
	if snap.IncorrectCount != 1 || snap.CorrectCount != 0 || snap.CurrentIndex != 1 {
		t.Fatalf("unexpected counters %+v", snap)
	}
	judged := h.events.judged()
	if len(judged) != 1 {
		t.Fatalf("expected one judged event, got %d", len(judged))
	}
	want := domain.AnswerJudged{
		Index:        0,
		Correct:      false,
		LocationName: "BookStore",
		Bounds:       h.course.Locations[0].Bounds,
		Click:        outside,
	}
	if diff := cmp.Diff(want, judged[0]); diff != "" {
		t.Fatalf("judged mismatch (-want +got):\n%s", diff)
	}

	// Next question only appears after the settle delay.
	last := h.events.events[len(h.events.events)-1]
	if _, ok := last.(domain.AnswerJudged); !ok {
		t.Fatalf("expected no question before settle, got %s", last.EventName())
	}
	h.sched.Settle()
	shown, ok := h.events.events[len(h.events.events)-1].(domain.QuestionShown)
	if !ok || shown.Index != 1 || shown.Location.Name != "Bayramian Hall" {
		t.Fatalf("expected question 1 after settle, got %+v", h.events.events[len(h.events.events)-1])
	}
}

func TestSecondClickIgnored(t *testing.T) {
	h := newHarness(t)
	h.machine.Start(context.Background())

	h.machine.SubmitAnswer(context.Background(), h.course.Locations[0].Center)
	if h.machine.SubmitAnswer(context.Background(), outside) {
		t.Fatalf("second click must be dropped")
	}

	snap := h.machine.Snapshot()
	if snap.CorrectCount != 1 || snap.IncorrectCount != 0 || snap.CurrentIndex != 1 {
		t.Fatalf("counts changed by second click: %+v", snap)
	}
	if got := h.sched.Pending(); got != 1 {
		t.Fatalf("expected exactly one settle callback pending, got %d", got)
	}
}

func TestRestartMidGame(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.machine.Start(ctx)
	h.sched.Tick(7)
	h.answer(t, h.course.Locations[0].Center)
	h.answer(t, outside)

	if snap := h.machine.Snapshot(); snap.CurrentIndex != 2 {
		t.Fatalf("expected index 2 before restart, got %+v", snap)
	}

	h.events.reset()
	if !h.machine.Restart(ctx) {
		t.Fatalf("restart rejected")
	}

	snap := h.machine.Snapshot()
	want := domain.QuizSession{Active: true}
	if diff := cmp.Diff(want, snap); diff != "" {
		t.Fatalf("session not reset (-want +got):\n%s", diff)
	}

	tickers := h.sched.Tickers()
	if len(tickers) != 2 {
		t.Fatalf("expected a second ticker after restart, got %d", len(tickers))
	}
	if tickers[0].CancelCalls != 1 {
		t.Fatalf("old ticker cancelled %d times", tickers[0].CancelCalls)
	}
	if tickers[1].Cancelled() {
		t.Fatalf("new ticker must be live")
	}

	if diff := cmp.Diff([]string{"sessionStarted", "questionShown"}, h.events.names()); diff != "" {
		t.Fatalf("restart events mismatch (-want +got):\n%s", diff)
	}

	h.sched.Tick(1)
	if got := h.machine.Snapshot().ElapsedSeconds; got != 1 {
		t.Fatalf("expected fresh clock to tick once, got %d", got)
	}
}

func TestRestartDuringSettleDropsStaleAdvance(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.machine.Start(ctx)
	h.machine.SubmitAnswer(ctx, outside)

	h.machine.Restart(ctx)
	if got := h.sched.Pending(); got != 0 {
		t.Fatalf("expected pending settle to be cancelled, got %d", got)
	}
	h.sched.Settle()

	if snap := h.machine.Snapshot(); snap.CurrentIndex != 0 {
		t.Fatalf("stale callback advanced the new session: %+v", snap)
	}
}

func TestStrayInputIsNoop(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	if h.machine.SubmitAnswer(ctx, outside) {
		t.Fatalf("click while idle must be ignored")
	}
	if h.machine.Restart(ctx) {
		t.Fatalf("restart while idle must be ignored")
	}
	if len(h.events.events) != 0 {
		t.Fatalf("expected no events, got %v", h.events.names())
	}

	h.machine.Start(ctx)
	if h.machine.Start(ctx) {
		t.Fatalf("start while running must be ignored")
	}
}

func TestTickerCancelledOnceAtFinish(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.machine.Start(ctx)
	for range h.course.Locations {
		h.answer(t, outside)
	}

	tickers := h.sched.Tickers()
	if len(tickers) != 1 || tickers[0].CancelCalls != 1 {
		t.Fatalf("expected ticker cancelled exactly once, got %+v", tickers)
	}

	// Ticks after the finish do not move the clock.
	before := h.machine.Snapshot().ElapsedSeconds
	h.sched.Tick(3)
	if got := h.machine.Snapshot().ElapsedSeconds; got != before {
		t.Fatalf("clock moved after finish: %d -> %d", before, got)
	}

	if !h.machine.Restart(ctx) {
		t.Fatalf("restart from finished rejected")
	}
	if tickers[0].CancelCalls != 1 {
		t.Fatalf("finished ticker cancelled again on restart")
	}
}

func TestImperfectRunDoesNotRecord(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.machine.Start(ctx)
	for i, loc := range h.course.Locations {
		if i == 3 {
			h.answer(t, outside)
			continue
		}
		h.answer(t, loc.Center)
	}

	for _, ev := range h.events.events {
		if _, ok := ev.(domain.PerfectCompletion); ok {
			t.Fatalf("perfect completion fired for 4/5")
		}
	}
	ended, ok := h.events.events[len(h.events.events)-1].(domain.SessionEnded)
	if !ok || ended.CorrectCount != 4 || ended.IncorrectCount != 1 {
		t.Fatalf("unexpected final event %+v", h.events.events[len(h.events.events)-1])
	}
	board, _ := h.scores.Load(ctx)
	if len(board) != 0 {
		t.Fatalf("expected empty board, got %+v", board)
	}
}

func TestCountersInvariantUnderRandomAnswers(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for run := 0; run < 50; run++ {
		h := newHarness(t)
		h.machine.Start(context.Background())

		prev := h.machine.Snapshot()
		for step := 0; step < len(h.course.Locations)+3; step++ {
			click := outside
			if rnd.Intn(2) == 0 && prev.CurrentIndex < len(h.course.Locations) {
				click = h.course.Locations[prev.CurrentIndex].Center
			}
			h.machine.SubmitAnswer(context.Background(), click)
			if rnd.Intn(3) > 0 {
				h.sched.Settle()
			}

			snap := h.machine.Snapshot()
			if snap.CorrectCount+snap.IncorrectCount != snap.CurrentIndex {
				t.Fatalf("invariant broken: %+v", snap)
			}
			if snap.CorrectCount < prev.CorrectCount || snap.IncorrectCount < prev.IncorrectCount {
				t.Fatalf("counters decreased: %+v -> %+v", prev, snap)
			}
			if snap.CurrentIndex > len(h.course.Locations) {
				t.Fatalf("index out of range: %+v", snap)
			}
			prev = snap
		}
	}
}

func TestNewQuizMachineValidates(t *testing.T) {
	if _, err := app.NewQuizMachine(nil, nil, app.MachineOptions{}); !errors.Is(err, domain.ErrNoLocations) {
		t.Fatalf("expected ErrNoLocations, got %v", err)
	}
	bad := []domain.Location{{Name: "x", Bounds: domain.BoundingBox{North: 0, South: 1, East: 1, West: 0}}}
	if _, err := app.NewQuizMachine(bad, nil, app.MachineOptions{}); !errors.Is(err, domain.ErrInvalidBounds) {
		t.Fatalf("expected ErrInvalidBounds, got %v", err)
	}
}

func TestRealSchedulerTicks(t *testing.T) {
	events := make(chan domain.Event, 64)
	machine, err := app.NewQuizMachine(catalog.CSUN().Locations, app.EventSinkFunc(func(ev domain.Event) {
		select {
		case events <- ev:
		default:
		}
	}), app.MachineOptions{TickInterval: 5 * time.Millisecond, SettleDelay: 5 * time.Millisecond})
	if err != nil {
		t.Fatalf("new machine: %v", err)
	}
	defer machine.Close()

	machine.Start(context.Background())
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-events:
			if tick, ok := ev.(domain.ClockTicked); ok && tick.ElapsedSeconds >= 2 {
				return
			}
		case <-deadline:
			t.Fatalf("ticker never fired")
		}
	}
}
