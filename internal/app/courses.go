package app

import (
	"context"

	"campus-map-quiz/internal/domain"
)

// CourseLoader fetches course content from a backing store (built-in data, YAML, Postgres).
type CourseLoader interface {
	LoadCourse(ctx context.Context, courseID string) (domain.Course, error)
	ListCourses(ctx context.Context) ([]domain.Course, error)
}

// CourseRepository serves courses, usually from a cache in front of a CourseLoader.
type CourseRepository interface {
	GetCourse(ctx context.Context, courseID string) (domain.Course, error)
	ListCourses(ctx context.Context) ([]domain.Course, error)
}
