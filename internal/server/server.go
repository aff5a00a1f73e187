// Package server exposes the arena store to presentation layers as a JSON
// HTTP API: command endpoints mutate sessions and the profile, snapshot
// endpoints serve read-only views for rendering.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/claude/neptune/internal/models"
	"github.com/claude/neptune/internal/store"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store  *store.Store
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured. An empty apiKey
// disables the auth check on mutating routes.
func New(st *store.Store, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		store:  st,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
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

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Snapshot endpoints (read-only, no auth)
	s.router.Get("/api/v1/profile", s.handleProfile)
	s.router.Get("/api/v1/workout", s.handleCurrentWorkout)
	s.router.Get("/api/v1/workouts", s.handleWorkoutHistory)
	s.router.Get("/api/v1/battle", s.handleCurrentBattle)
	s.router.Get("/api/v1/battles", s.handleBattleHistory)

	// Command endpoints (API key required when configured)
	s.router.Group(func(r chi.Router) {
		if s.apiKey != "" {
			r.Use(APIKeyAuth(s.apiKey))
		}

		r.Post("/api/v1/profile/name", s.handleSetName)
		r.Post("/api/v1/profile/avatar", s.handleSetAvatar)
		r.Post("/api/v1/profile/streak", s.handleSetStreak)
		r.Post("/api/v1/profile/reset", s.handleResetProfile)

		r.Post("/api/v1/workout/start", s.handleStartWorkout)
		r.Post("/api/v1/workout/tick", s.handleTickWorkout)
		r.Post("/api/v1/workout/pause", s.handlePauseWorkout)
		r.Post("/api/v1/workout/resume", s.handleResumeWorkout)
		r.Post("/api/v1/workout/complete", s.handleCompleteWorkout)
		r.Post("/api/v1/workout/cancel", s.handleCancelWorkout)

		r.Post("/api/v1/battle/create", s.handleCreateBattle)
		r.Post("/api/v1/battle/start", s.handleStartBattle)
		r.Post("/api/v1/battle/tick", s.handleTickBattle)
		r.Post("/api/v1/battle/eliminate", s.handleEliminatePlayer)
		r.Post("/api/v1/battle/pause", s.handlePauseBattle)
		r.Post("/api/v1/battle/resume", s.handleResumeBattle)
		r.Post("/api/v1/battle/complete", s.handleCompleteBattle)
		r.Post("/api/v1/battle/cancel", s.handleCancelBattle)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error kinds onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrInvalidState):
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return false
	}
	return true
}
