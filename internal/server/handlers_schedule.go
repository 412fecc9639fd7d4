package server

import (
	"encoding/json"
	"net/http"

	"github.com/claude/repquest/internal/models"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	entries, err := s.db.GetSchedule(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []models.ScheduleEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleSetSchedule replaces the whole weekly schedule: one enabled
// reminder slot per active day, all at the same time.
func (s *Server) handleSetSchedule(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ActiveDays []int `json:"active_days"`
		Hour       int   `json:"hour"`
		Minute     int   `json:"minute"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if body.Hour < 0 || body.Hour > 23 || body.Minute < 0 || body.Minute > 59 {
		writeError(w, http.StatusBadRequest, "hour must be 0-23 and minute 0-59")
		return
	}
	for _, day := range body.ActiveDays {
		if day < 0 || day > 6 {
			writeError(w, http.StatusBadRequest, "day_of_week must be 0-6")
			return
		}
	}
	if err := s.db.SetSchedule(r.Context(), body.ActiveDays, body.Hour, body.Minute); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	value, found, err := s.db.GetSetting(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "setting not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": value})
}

func (s *Server) handleSetSetting(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := s.db.SetSetting(r.Context(), chi.URLParam(r, "key"), body.Value); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
