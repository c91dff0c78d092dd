package domain

// Event is emitted by the quiz state machine for the presentation layer.
type Event interface {
	EventName() string
}

// SessionStarted marks a fresh session; anything drawn for an earlier session is stale.
type SessionStarted struct {
	Total int
}

// QuestionShown asks for the prompt at Index to be displayed.
type QuestionShown struct {
	Index    int
	Total    int
	Location Location
}

// AnswerJudged carries the verdict for one question and the box to highlight.
type AnswerJudged struct {
	Index        int
	Correct      bool
	LocationName string
	Bounds       BoundingBox
	Click        Coordinate
}

// ClockTicked reports the new elapsed time.
type ClockTicked struct {
	ElapsedSeconds int
}

// PerfectCompletion fires when every question was answered correctly.
type PerfectCompletion struct {
	ElapsedSeconds int
}

// SessionEnded is always the last event of a finished session.
type SessionEnded struct {
	CorrectCount   int
	IncorrectCount int
	ElapsedSeconds int
	Total          int
	Scores         ScoreBoard
}

func (SessionStarted) EventName() string { return "sessionStarted" }
func (QuestionShown) EventName() string { return "questionShown" }
func (AnswerJudged) EventName() string { return "answerJudged" }
func (ClockTicked) EventName() string { return "clockTicked" }
func (PerfectCompletion) EventName() string { return "perfectCompletion" }
func (SessionEnded) EventName() string { return "sessionEnded" }
