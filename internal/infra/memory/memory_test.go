package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"campus-map-quiz/internal/app"
	"campus-map-quiz/internal/catalog"
	"campus-map-quiz/internal/domain"
)

func TestCourseRepositoryCaches(t *testing.T) {
	loader := &countingLoader{CourseLoader: NewStaticCourseLoader(catalog.Builtin())}
	repo := NewCourseRepository(loader, time.Minute)

	if _, err := repo.GetCourse(context.Background(), catalog.DefaultCourseID); err != nil {
		t.Fatalf("get course: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	course, err := repo.GetCourse(context.Background(), catalog.DefaultCourseID)
	if err != nil {
		t.Fatalf("get course 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
	if len(course.Locations) != 5 {
		t.Fatalf("unexpected course %+v", course)
	}
}

func TestCourseRepositoryExpires(t *testing.T) {
	loader := &countingLoader{CourseLoader: NewStaticCourseLoader(catalog.Builtin())}
	repo := NewCourseRepository(loader, time.Minute)
	now := time.Now()
	repo.clock = func() time.Time { return now }

	_, _ = repo.GetCourse(context.Background(), catalog.DefaultCourseID)
	now = now.Add(2 * time.Minute)
	_, _ = repo.GetCourse(context.Background(), catalog.DefaultCourseID)
	if loader.calls != 2 {
		t.Fatalf("expected reload after expiry, got %d calls", loader.calls)
	}
}

func TestCourseRepositoryRejectsUnknownAndInvalid(t *testing.T) {
	bad := domain.Course{ID: "bad"}
	repo := NewCourseRepository(NewStaticCourseLoader(map[string]domain.Course{"bad": bad}), time.Minute)

	if _, err := repo.GetCourse(context.Background(), "missing"); !errors.Is(err, domain.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
	if _, err := repo.GetCourse(context.Background(), "bad"); !errors.Is(err, domain.ErrNoLocations) {
		t.Fatalf("expected ErrNoLocations, got %v", err)
	}
}

func TestKVStoreGetSet(t *testing.T) {
	ctx := context.Background()
	kv := NewKVStore()

	if _, ok, err := kv.GetString(ctx, "k"); ok || err != nil {
		t.Fatalf("expected absent key, ok=%v err=%v", ok, err)
	}
	if err := kv.SetString(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, ok, _ := kv.GetString(ctx, "k"); !ok || v != "v" {
		t.Fatalf("expected v, got %q ok=%v", v, ok)
	}
}

type countingLoader struct {
	app.CourseLoader
	calls int
}

func (l *countingLoader) LoadCourse(ctx context.Context, courseID string) (domain.Course, error) {
	l.calls++
	return l.CourseLoader.LoadCourse(ctx, courseID)
}
