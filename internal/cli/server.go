package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"campus-map-quiz/internal/app"
	"campus-map-quiz/internal/catalog"
	"campus-map-quiz/internal/config"
	transport "campus-map-quiz/internal/transport/http"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	router := transport.NewRouter(st.courses, st.kv, quizOptions(cfg))

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("starting campus map quiz on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func quizOptions(cfg config.Config) transport.QuizOptions {
	scoresKey := cfg.Quiz.ScoresKey
	if scoresKey == "" {
		scoresKey = app.DefaultScoresKey
	}
	defaultCourse := cfg.Quiz.DefaultCourse
	if defaultCourse == "" {
		defaultCourse = catalog.DefaultCourseID
	}
	return transport.QuizOptions{
		DefaultCourse: defaultCourse,
		ScoresKey:     scoresKey,
		SettleDelay:   config.TTLDuration(cfg.Quiz.SettleDelay, app.DefaultSettleDelay),
		TickInterval:  config.TTLDuration(cfg.Quiz.TickInterval, app.DefaultTickInterval),
	}
}
