package domain

import (
	"fmt"
	"time"
)

// Coordinate is a geographic point in degrees.
type Coordinate struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// BoundingBox is an axis-aligned latitude/longitude rectangle.
type BoundingBox struct {
	North float64 `json:"north" yaml:"north"`
	South float64 `json:"south" yaml:"south"`
	East  float64 `json:"east" yaml:"east"`
	West  float64 `json:"west" yaml:"west"`
}

// Contains reports whether c lies inside the box, edges included.
func (b BoundingBox) Contains(c Coordinate) bool {
	return IsWithinBounds(c.Lat, c.Lng, b)
}

// Validate checks that the box is non-degenerate.
func (b BoundingBox) Validate() error {
	if !(b.North > b.South) || !(b.East > b.West) {
		return fmt.Errorf("%w: north=%v south=%v east=%v west=%v", ErrInvalidBounds, b.North, b.South, b.East, b.West)
	}
	return nil
}

// IsWithinBounds is true iff south <= lat <= north and west <= lng <= east.
func IsWithinBounds(lat, lng float64, box BoundingBox) bool {
	return lat <= box.North &&
		lat >= box.South &&
		lng <= box.East &&
		lng >= box.West
}

// Location is a single quiz target. The box is hand-picked data and is never derived from Center.
type Location struct {
	Name   string      `json:"name" yaml:"name"`
	Prompt string      `json:"prompt" yaml:"prompt"`
	Center Coordinate  `json:"center" yaml:"center"`
	Bounds BoundingBox `json:"bounds" yaml:"bounds"`
}

// Course is an ordered set of locations shown on one map view.
type Course struct {
	ID        string     `json:"id" yaml:"id"`
	Name      string     `json:"name" yaml:"name"`
	Center    Coordinate `json:"center" yaml:"center"`
	Zoom      int        `json:"zoom" yaml:"zoom"`
	Locations []Location `json:"locations" yaml:"locations"`
}

// Validate rejects courses that cannot be played.
func (c Course) Validate() error {
	if len(c.Locations) == 0 {
		return fmt.Errorf("course %q: %w", c.ID, ErrNoLocations)
	}
	for _, loc := range c.Locations {
		if err := loc.Bounds.Validate(); err != nil {
			return fmt.Errorf("course %q location %q: %w", c.ID, loc.Name, err)
		}
	}
	return nil
}

// SessionState is the quiz lifecycle position.
type SessionState int

const (
	StateIdle SessionState = iota
	StateRunning
	StateFinished
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// QuizSession holds the running counters of one play-through.
// CorrectCount+IncorrectCount always equals CurrentIndex.
type QuizSession struct {
	CurrentIndex   int  `json:"currentIndex"`
	CorrectCount   int  `json:"correctCount"`
	IncorrectCount int  `json:"incorrectCount"`
	ElapsedSeconds int  `json:"elapsedSeconds"`
	Active         bool `json:"active"`
}

// ScoreEntry is one perfect completion. The JSON names match the stored blob format.
type ScoreEntry struct {
	ElapsedSeconds int    `json:"time"`
	DateLabel      string `json:"date"`
}

// ScoreBoard is ordered ascending by ElapsedSeconds.
type ScoreBoard []ScoreEntry

// DateLabel renders t the way score entries are labelled (month/day/year).
func DateLabel(t time.Time) string {
	return t.Format("1/2/2006")
}
