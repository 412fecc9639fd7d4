// Package server exposes the REST surface consumed by the UI shell.
package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/repquest/internal/catalog"
	"github.com/claude/repquest/internal/session"
	"github.com/claude/repquest/internal/storage"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db      *storage.DB
	tracker *session.Tracker
	catalog *catalog.Manager
	log     *slog.Logger
	apiKey  string
	router  chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, tracker *session.Tracker, cm *catalog.Manager, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:      db,
		tracker: tracker,
		catalog: cm,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/exercises", s.handleListExercises)
		r.Post("/exercises", s.handleAddExercise)
		r.Put("/exercises/{id}", s.handleRenameExercise)
		r.Delete("/exercises/{id}", s.handleRemoveExercise)

		r.Get("/workouts", s.handleListWorkouts)
		r.Post("/workouts", s.handleCreateWorkout)
		r.Get("/workouts/next-name", s.handleNextWorkoutName)
		r.Put("/workouts/{id}", s.handleUpdateWorkout)
		r.Delete("/workouts/{id}", s.handleDeleteWorkout)
		r.Post("/workouts/{id}/select", s.handleSelectWorkout)

		r.Get("/session", s.handleGetSession)
		r.Post("/session/reps", s.handleRecordReps)
		r.Post("/session/advance", s.handleAdvanceRound)
		r.Post("/session/finish", s.handleFinishSession)

		r.Get("/history", s.handleHistory)
		r.Get("/history/{id}/sets", s.handleSessionSets)
		r.Delete("/history/{id}", s.handleDeleteSession)

		r.Get("/stats/volume", s.handleVolumeStats)

		r.Get("/profile", s.handleProfile)
		r.With(APIKeyAuth(s.apiKey)).Post("/profile/reset", s.handleResetProfile)

		r.Get("/schedule", s.handleGetSchedule)
		r.Put("/schedule", s.handleSetSchedule)

		r.Get("/settings/{key}", s.handleGetSetting)
		r.Put("/settings/{key}", s.handleSetSetting)
	})
}
