package server

import (
	"net/http"

	"github.com/claude/neptune/internal/models"
	"github.com/claude/neptune/internal/session"
)

func (s *Server) handleCurrentBattle(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.store.CurrentBattle()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no battle in flight"})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleBattleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.BattleHistory())
}

func (s *Server) handleCreateBattle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Players []struct {
			Name  string `json:"name"`
			Color string `json:"color"`
		} `json:"players"`
		ExerciseType string `json:"exerciseType"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	players := make([]session.PlayerSetup, 0, len(req.Players))
	for _, p := range req.Players {
		players = append(players, session.PlayerSetup{
			Name:  p.Name,
			Color: models.PlayerColor(p.Color),
		})
	}

	b, err := s.store.CreateBattle(players, models.ExerciseType(req.ExerciseType))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) handleStartBattle(w http.ResponseWriter, r *http.Request) {
	if err := s.store.StartBattle(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleTickBattle accepts an externally driven clock update; stale ticks
// are no-ops, so the response is 200 either way.
func (s *Server) handleTickBattle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ElapsedMs int64 `json:"elapsedMs"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	s.store.TickBattle(req.ElapsedMs)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleEliminatePlayer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerID string `json:"playerId"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	b, err := s.store.EliminatePlayer(req.PlayerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handlePauseBattle(w http.ResponseWriter, r *http.Request) {
	if err := s.store.PauseBattle(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleResumeBattle(w http.ResponseWriter, r *http.Request) {
	if err := s.store.ResumeBattle(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCompleteBattle(w http.ResponseWriter, r *http.Request) {
	done, err := s.store.CompleteBattle()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, done)
}

func (s *Server) handleCancelBattle(w http.ResponseWriter, r *http.Request) {
	if err := s.store.CancelBattle(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
