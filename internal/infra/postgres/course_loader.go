package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"campus-map-quiz/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// CourseLoader loads course JSONB from Postgres.
type CourseLoader struct {
	pool *pgxpool.Pool
}

func NewCourseLoader(pool *pgxpool.Pool) *CourseLoader {
	return &CourseLoader{pool: pool}
}

func (l *CourseLoader) LoadCourse(ctx context.Context, courseID string) (domain.Course, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM courses WHERE id=$1`, courseID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Course{}, domain.ErrCourseNotFound
	}
	if err != nil {
		return domain.Course{}, fmt.Errorf("load course: %w", err)
	}
	var course domain.Course
	if err := json.Unmarshal(raw, &course); err != nil {
		return domain.Course{}, fmt.Errorf("unmarshal course: %w", err)
	}
	course.ID = courseID
	return course, nil
}

func (l *CourseLoader) ListCourses(ctx context.Context) ([]domain.Course, error) {
	rows, err := l.pool.Query(ctx, `SELECT id, data FROM courses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var courses []domain.Course
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		var course domain.Course
		if err := json.Unmarshal(raw, &course); err != nil {
			return nil, fmt.Errorf("unmarshal course %s: %w", id, err)
		}
		course.ID = id
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

// SaveCourse upserts a validated course document.
func (l *CourseLoader) SaveCourse(ctx context.Context, course domain.Course) error {
	if err := course.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(course)
	if err != nil {
		return fmt.Errorf("marshal course: %w", err)
	}
	_, err = l.pool.Exec(ctx,
		`INSERT INTO courses (id, data) VALUES ($1, $2::jsonb)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`,
		course.ID, string(data))
	if err != nil {
		return fmt.Errorf("save course: %w", err)
	}
	return nil
}
