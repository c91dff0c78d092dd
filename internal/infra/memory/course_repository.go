package memory

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"campus-map-quiz/internal/app"
	"campus-map-quiz/internal/domain"
	"golang.org/x/sync/singleflight"
)

// CourseRepository caches courses with a TTL so each page load does not hit the loader.
type CourseRepository struct {
	loader app.CourseLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedCourse
}

type cachedCourse struct {
	course    domain.Course
	expiresAt time.Time
}

func NewCourseRepository(loader app.CourseLoader, ttl time.Duration) *CourseRepository {
	return &CourseRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedCourse),
	}
}

func (r *CourseRepository) GetCourse(ctx context.Context, courseID string) (domain.Course, error) {
	if course, ok := r.cached(courseID); ok {
		return course, nil
	}

	result, err, _ := r.sf.Do(courseID, func() (interface{}, error) {
		if course, ok := r.cached(courseID); ok {
			return course, nil
		}

		course, err := r.loader.LoadCourse(ctx, courseID)
		if err != nil {
			return domain.Course{}, err
		}
		if err := course.Validate(); err != nil {
			return domain.Course{}, err
		}

		r.mu.Lock()
		r.cache[courseID] = cachedCourse{
			course:    course,
			expiresAt: r.clock().Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return course, nil
	})
	if err != nil {
		return domain.Course{}, err
	}
	return result.(domain.Course), nil
}

// ListCourses is not cached; it backs the catalogue listing only.
func (r *CourseRepository) ListCourses(ctx context.Context) ([]domain.Course, error) {
	return r.loader.ListCourses(ctx)
}

func (r *CourseRepository) cached(courseID string) (domain.Course, bool) {
	now := r.clock()
	r.mu.RLock()
	defer r.mu.RUnlock()
	if entry, ok := r.cache[courseID]; ok && entry.expiresAt.After(now) {
		return entry.course, true
	}
	return domain.Course{}, false
}

func (r *CourseRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticCourseLoader serves courses from a map (built-in catalogue, YAML file, tests).
type StaticCourseLoader struct {
	courses map[string]domain.Course
}

func NewStaticCourseLoader(courses map[string]domain.Course) *StaticCourseLoader {
	return &StaticCourseLoader{courses: courses}
}

func (l *StaticCourseLoader) LoadCourse(_ context.Context, courseID string) (domain.Course, error) {
	if course, ok := l.courses[courseID]; ok {
		return course, nil
	}
	return domain.Course{}, domain.ErrCourseNotFound
}

func (l *StaticCourseLoader) ListCourses(_ context.Context) ([]domain.Course, error) {
	out := make([]domain.Course, 0, len(l.courses))
	for _, c := range l.courses {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
