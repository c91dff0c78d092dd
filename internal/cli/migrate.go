package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"campus-map-quiz/internal/catalog"
	"campus-map-quiz/internal/config"
	"campus-map-quiz/internal/domain"
	pgstore "campus-map-quiz/internal/infra/postgres"
	pgmigrations "campus-map-quiz/internal/infra/postgres/migrations"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

// NewMigrateCmd applies database migrations and seeds the course catalogue.
func NewMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations and seed courses",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd.Context(), *configPath)
		},
	}
}

func runMigrations(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	return runMigrationsWithConfig(ctx, cfg)
}

func runMigrationsWithConfig(ctx context.Context, cfg config.Config) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)

	if err := migrator.Init(ctx); err != nil {
		return err
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}
	if group.IsZero() {
		log.Printf("no new migrations")
	} else {
		log.Printf("migrated to %s", group)
	}

	courses, err := seedCatalogue(cfg)
	if err != nil {
		return err
	}
	return seedCourses(ctx, cfg.Postgres.URL, courses)
}

// seedCatalogue is the builtin catalogue merged with the configured courses file.
func seedCatalogue(cfg config.Config) (map[string]domain.Course, error) {
	courses := catalog.Builtin()
	if cfg.Quiz.CoursesFile == "" {
		return courses, nil
	}
	fromFile, err := catalog.LoadFile(cfg.Quiz.CoursesFile)
	if err != nil {
		return nil, err
	}
	return catalog.Merge(courses, fromFile), nil
}

func seedCourses(ctx context.Context, url string, courses map[string]domain.Course) error {
	pool, err := pgxpool.Connect(ctx, url)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	loader := pgstore.NewCourseLoader(pool)
	for id, course := range courses {
		if err := loader.SaveCourse(ctx, course); err != nil {
			return fmt.Errorf("seed course %s: %w", id, err)
		}
	}
	log.Printf("seeded %d courses", len(courses))
	return nil
}
