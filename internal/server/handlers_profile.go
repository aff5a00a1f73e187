package server

import "net/http"

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Profile())
}

func (s *Server) handleSetName(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.store.SetName(r.Context(), req.Name); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Profile())
}

func (s *Server) handleSetAvatar(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Avatar string `json:"avatar"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	s.store.SetAvatar(r.Context(), req.Avatar)
	writeJSON(w, http.StatusOK, s.store.Profile())
}

func (s *Server) handleSetStreak(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Streak int `json:"streak"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.store.UpdateStreak(r.Context(), req.Streak); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Profile())
}

func (s *Server) handleResetProfile(w http.ResponseWriter, r *http.Request) {
	s.store.ResetProfile(r.Context())
	writeJSON(w, http.StatusOK, s.store.Profile())
}
