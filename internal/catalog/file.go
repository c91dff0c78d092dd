package catalog

import (
	"fmt"
	"os"

	"campus-map-quiz/internal/domain"
	"gopkg.in/yaml.v3"
)

type courseFile struct {
	Courses []domain.Course `yaml:"courses"`
}

// LoadFile reads courses from a YAML document of the form `courses: [...]`.
// Every course is validated; the first invalid one fails the whole file.
func LoadFile(path string) (map[string]domain.Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read courses file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML course data.
func Parse(data []byte) (map[string]domain.Course, error) {
	var file courseFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode courses: %w", err)
	}

	courses := make(map[string]domain.Course, len(file.Courses))
	for _, course := range file.Courses {
		if course.ID == "" {
			return nil, fmt.Errorf("decode courses: course without id")
		}
		if err := course.Validate(); err != nil {
			return nil, err
		}
		courses[course.ID] = course
	}
	return courses, nil
}

// Merge overlays extra on top of base; later IDs win.
func Merge(base, extra map[string]domain.Course) map[string]domain.Course {
	out := make(map[string]domain.Course, len(base)+len(extra))
	for id, c := range base {
		out[id] = c
	}
	for id, c := range extra {
		out[id] = c
	}
	return out
}
