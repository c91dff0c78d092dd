// Package presentation turns quiz events into map and page rendering calls.
package presentation

import (
	"fmt"

	"campus-map-quiz/internal/domain"
)

var confettiColors = []string{"#cf0a2c", "#4CAF50", "#FFD700", "#2196F3", "#9C27B0"}

const confettiParticles = 100

// Adapter implements app.EventSink. It owns the overlays of the current session.
type Adapter struct {
	mapView  Map
	ui       UI
	overlays []OverlayHandle
}

func NewAdapter(mapView Map, ui UI) *Adapter {
	return &Adapter{mapView: mapView, ui: ui}
}

// Attach configures the map for a course: fixed view, double-click as the only interaction.
func (a *Adapter) Attach(course domain.Course) {
	a.mapView.Configure(MapOptions{
		Center:          course.Center,
		Zoom:            course.Zoom,
		MapType:         "roadmap",
		DoubleClickOnly: true,
		HiddenFeatures:  []string{"poi.labels", "transit"},
	})
}

// Overlays returns the handles drawn during the current session.
func (a *Adapter) Overlays() []OverlayHandle {
	out := make([]OverlayHandle, len(a.overlays))
	copy(out, a.overlays)
	return out
}

func (a *Adapter) Handle(ev domain.Event) {
	switch e := ev.(type) {
	case domain.SessionStarted:
		a.clearOverlays()
		a.ui.SetVisible(RegionInstructions, false)
		a.ui.SetVisible(RegionFinalScore, false)
		a.ui.ClearQuestions()
		a.ui.SetText(RegionTimer, FormatTimer(0))
	case domain.QuestionShown:
		a.ui.AppendQuestion(e.Index, e.Location.Prompt)
		a.ui.PulseMap()
	case domain.ClockTicked:
		a.ui.SetText(RegionTimer, FormatTimer(e.ElapsedSeconds))
	case domain.AnswerJudged:
		a.renderJudgement(e)
	case domain.PerfectCompletion:
		a.ui.Celebrate(Celebration{Particles: confettiParticles, Colors: confettiColors})
	case domain.SessionEnded:
		a.renderSummary(e)
	}
}

func (a *Adapter) renderJudgement(e domain.AnswerJudged) {
	style := OverlayIncorrect
	if e.Correct {
		style = OverlayCorrect
	}
	a.overlays = append(a.overlays, a.mapView.DrawOverlay(e.Bounds, style))

	if e.Correct {
		a.ui.MarkQuestion(e.Index, "Your answer is correct!!", true)
		a.ui.ShowToast(Toast{
			Title:   "✓ Correct!",
			Message: fmt.Sprintf("Great job finding %s!", e.LocationName),
			Correct: true,
		})
		return
	}
	a.ui.MarkQuestion(e.Index, "Sorry wrong location.", false)
	a.ui.ShowToast(Toast{
		Title:   "✗ Incorrect",
		Message: fmt.Sprintf("That's not %s. The correct location is shown on the map.", e.LocationName),
	})
}

func (a *Adapter) renderSummary(e domain.SessionEnded) {
	a.ui.SetText(RegionScoreText, fmt.Sprintf("%d Correct, %d Incorrect", e.CorrectCount, e.IncorrectCount))
	a.ui.SetText(RegionStatsText, "Completed in "+FormatDuration(e.ElapsedSeconds))
	a.ui.RenderScores(ScoreLines(e.Scores), fmt.Sprintf("Get all %d correct to set a score!", e.Total))
	a.ui.SetVisible(RegionFinalScore, true)
}

func (a *Adapter) clearOverlays() {
	for _, h := range a.overlays {
		a.mapView.RemoveOverlay(h)
	}
	a.overlays = nil
}

// ScoreLines ranks a board for display.
func ScoreLines(board domain.ScoreBoard) []ScoreLine {
	lines := make([]ScoreLine, 0, len(board))
	for i, entry := range board {
		lines = append(lines, ScoreLine{
			Rank: i + 1,
			Time: FormatDuration(entry.ElapsedSeconds),
			Date: entry.DateLabel,
		})
	}
	return lines
}

// FormatTimer renders the running clock as MM:SS.
func FormatTimer(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// FormatDuration renders a completion time as M:SS.
func FormatDuration(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
