package domain

import "errors"

var (
	// ErrCourseNotFound indicates the course could not be loaded.
	ErrCourseNotFound = errors.New("course not found")
	// ErrNoLocations is returned for a course without any location.
	ErrNoLocations = errors.New("course has no locations")
	// ErrInvalidBounds indicates a bounding box with north<=south or east<=west.
	ErrInvalidBounds = errors.New("invalid bounding box")
)
