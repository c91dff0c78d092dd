package presentation

import "campus-map-quiz/internal/domain"

// OverlayStyle selects how a highlighted box is painted.
type OverlayStyle string

const (
	OverlayCorrect   OverlayStyle = "correct"
	OverlayIncorrect OverlayStyle = "incorrect"
)

// Color is the stroke and fill colour for the style.
func (s OverlayStyle) Color() string {
	if s == OverlayCorrect {
		return "#4CAF50"
	}
	return "#F44336"
}

// OverlayHandle identifies a drawn overlay so it can be removed later.
type OverlayHandle string

// MapOptions configures the map view once per page.
type MapOptions struct {
	Center          domain.Coordinate `json:"center"`
	Zoom            int               `json:"zoom"`
	MapType         string            `json:"mapType"`
	DoubleClickOnly bool              `json:"doubleClickOnly"`
	HiddenFeatures  []string          `json:"hiddenFeatures"`
}

// Map is the map widget capability.
type Map interface {
	Configure(opts MapOptions)
	DrawOverlay(box domain.BoundingBox, style OverlayStyle) OverlayHandle
	RemoveOverlay(handle OverlayHandle)
}

// Region names a text or panel area of the page.
type Region string

const (
	RegionInstructions Region = "instructionsOverlay"
	RegionTimer        Region = "timer"
	RegionFinalScore   Region = "finalScore"
	RegionScoreText    Region = "scoreText"
	RegionStatsText    Region = "statsText"
)

// Toast is a short-lived feedback message.
type Toast struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Correct bool   `json:"correct"`
}

// ScoreLine is one rendered row of the best-times list.
type ScoreLine struct {
	Rank int    `json:"rank"`
	Time string `json:"time"`
	Date string `json:"date"`
}

// Celebration describes the particle effect for a perfect run.
type Celebration struct {
	Particles int      `json:"particles"`
	Colors    []string `json:"colors"`
}

// UI is the page capability.
type UI interface {
	SetText(region Region, text string)
	SetVisible(region Region, visible bool)
	ClearQuestions()
	AppendQuestion(index int, prompt string)
	MarkQuestion(index int, result string, correct bool)
	ShowToast(toast Toast)
	// RenderScores draws lines, or placeholder when lines is empty.
	RenderScores(lines []ScoreLine, placeholder string)
	Celebrate(c Celebration)
	PulseMap()
}
