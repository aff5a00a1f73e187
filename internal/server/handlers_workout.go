package server

import (
	"net/http"

	"github.com/claude/neptune/internal/models"
)

func (s *Server) handleCurrentWorkout(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.store.CurrentWorkout()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no workout in flight"})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleWorkoutHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.WorkoutHistory())
}

func (s *Server) handleStartWorkout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ExerciseType string `json:"exerciseType"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	ws, err := s.store.StartWorkout(r.Context(), models.ExerciseType(req.ExerciseType))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ws)
}

// handleTickWorkout accepts an externally driven clock update. Stale ticks
// after a complete or cancel are absorbed as no-ops, matching the tick
// contract: the response is 200 either way.
func (s *Server) handleTickWorkout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ElapsedMs int64 `json:"elapsedMs"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	s.store.TickWorkout(req.ElapsedMs)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePauseWorkout(w http.ResponseWriter, r *http.Request) {
	if err := s.store.PauseWorkout(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleResumeWorkout(w http.ResponseWriter, r *http.Request) {
	if err := s.store.ResumeWorkout(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCompleteWorkout(w http.ResponseWriter, r *http.Request) {
	done, user, err := s.store.CompleteWorkout(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session": done,
		"user":    user,
	})
}

func (s *Server) handleCancelWorkout(w http.ResponseWriter, r *http.Request) {
	if err := s.store.CancelWorkout(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
