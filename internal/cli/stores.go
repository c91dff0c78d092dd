package cli

import (
	"context"
	"fmt"
	"time"

	"campus-map-quiz/internal/app"
	"campus-map-quiz/internal/config"
	"campus-map-quiz/internal/infra/memory"
	pgstore "campus-map-quiz/internal/infra/postgres"
	redisstore "campus-map-quiz/internal/infra/redis"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
)

// stores bundles the backends picked from config.
// Postgres wins for courses and scores when configured; Redis caches courses and
// holds scores when Postgres is absent; otherwise everything stays in memory.
type stores struct {
	courses app.CourseRepository
	kv      app.KeyValueStore
	close   func()
}

func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	builtin, err := seedCatalogue(cfg)
	if err != nil {
		return nil, err
	}

	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		closers = append(closers, func() { _ = redisClient.Close() })
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		closers = append(closers, pool.Close)
	}

	var loader app.CourseLoader = memory.NewStaticCourseLoader(builtin)
	if pool != nil {
		loader = pgstore.NewCourseLoader(pool)
	}

	// redis.ttl only bounds cached courses; the score board never expires.
	cacheTTL := config.TTLDuration(cfg.Quiz.CacheTTL, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute))
	var courses app.CourseRepository
	if redisClient != nil {
		courses = redisstore.NewCourseRepository(redisClient, loader, cacheTTL)
	} else {
		courses = memory.NewCourseRepository(loader, cacheTTL)
	}

	var kv app.KeyValueStore
	switch {
	case pool != nil:
		kv = pgstore.NewKVStore(pool)
	case redisClient != nil:
		kv = redisstore.NewKVStore(redisClient, "quiz:", 0)
	default:
		kv = memory.NewKVStore()
	}

	return &stores{courses: courses, kv: kv, close: closeAll}, nil
}
