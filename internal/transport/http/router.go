package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"campus-map-quiz/internal/app"
	"campus-map-quiz/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts the websocket endpoint and the read-only JSON API.
func NewRouter(courses app.CourseRepository, kv app.KeyValueStore, opts QuizOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	ws := NewWSHandler(courses, kv, opts)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ws", ws.ServeWS)

	r.Route("/api", func(r chi.Router) {
		r.Get("/courses", handleListCourses(courses))
		r.Get("/courses/{courseID}", handleGetCourse(courses))
		r.Get("/scores", handleScores(kv, opts.ScoresKey))
	})
	return r
}

func handleListCourses(courses app.CourseRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := courses.ListCourses(r.Context())
		if err != nil {
			log.Printf("list courses: %v", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if list == nil {
			list = []domain.Course{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func handleGetCourse(courses app.CourseRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		course, err := courses.GetCourse(r.Context(), chi.URLParam(r, "courseID"))
		if errors.Is(err, domain.ErrCourseNotFound) {
			writeError(w, http.StatusNotFound, "course not found")
			return
		}
		if err != nil {
			log.Printf("get course: %v", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, course)
	}
}

func handleScores(kv app.KeyValueStore, baseKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := app.NewScoreStore(kv, app.PlayerScoresKey(baseKey, r.URL.Query().Get("playerId")))
		board, err := store.Load(r.Context())
		if err != nil {
			log.Printf("load scores: %v", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, board)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
