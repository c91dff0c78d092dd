package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"campus-map-quiz/internal/app"
	"campus-map-quiz/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// CourseRepository caches course documents in Redis and falls back to a loader on cache miss.
// Each course is stored as JSON under course:{courseID}.
type CourseRepository struct {
	client *redis.Client
	loader app.CourseLoader
	ttl    time.Duration
	sf     singleflight.Group
	rndMu  sync.Mutex
	rnd    *rand.Rand
}

func NewCourseRepository(client *redis.Client, loader app.CourseLoader, ttl time.Duration) *CourseRepository {
	return &CourseRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CourseRepository) GetCourse(ctx context.Context, courseID string) (domain.Course, error) {
	if course, ok := r.fromCache(ctx, courseID); ok {
		return course, nil
	}

	result, err, _ := r.sf.Do(courseID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if course, ok := r.fromCache(ctx, courseID); ok {
			return course, nil
		}

		course, err := r.loader.LoadCourse(ctx, courseID)
		if err != nil {
			return domain.Course{}, err
		}
		if err := course.Validate(); err != nil {
			return domain.Course{}, err
		}

		if data, err := json.Marshal(course); err == nil {
			// best-effort; a failed write only costs a reload
			_ = r.client.Set(ctx, r.key(courseID), data, r.ttlWithJitter()).Err()
		}
		return course, nil
	})
	if err != nil {
		return domain.Course{}, err
	}
	return result.(domain.Course), nil
}

func (r *CourseRepository) ListCourses(ctx context.Context) ([]domain.Course, error) {
	return r.loader.ListCourses(ctx)
}

func (r *CourseRepository) fromCache(ctx context.Context, courseID string) (domain.Course, bool) {
	raw, err := r.client.Get(ctx, r.key(courseID)).Bytes()
	if err != nil || len(raw) == 0 {
		return domain.Course{}, false
	}
	var course domain.Course
	if err := json.Unmarshal(raw, &course); err != nil {
		return domain.Course{}, false
	}
	return course, true
}

func (r *CourseRepository) key(courseID string) string {
	return "course:" + courseID
}

func (r *CourseRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
