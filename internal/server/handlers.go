package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/claude/repquest/internal/leveling"
	"github.com/claude/repquest/internal/models"
	"github.com/claude/repquest/internal/storage"
	"github.com/go-chi/chi/v5"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// --- Exercises ---

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.AllExercises())
}

func (s *Server) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}
	id, err := s.catalog.AddExercise(r.Context(), body.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleRenameExercise(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}
	if err := s.catalog.RenameExercise(r.Context(), chi.URLParam(r, "id"), body.Name); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveExercise(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.RemoveExercise(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Workouts ---

type workoutBody struct {
	Name        string   `json:"name"`
	ExerciseIDs []string `json:"exercise_ids"`
	Rounds      int      `json:"rounds"`
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"workouts":    s.catalog.Workouts(),
		"selected_id": s.catalog.SelectedID(),
	})
}

func (s *Server) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	var body workoutBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if body.Rounds < 1 {
		body.Rounds = 1
	}
	id, err := s.catalog.CreateWorkout(r.Context(), body.Name, body.ExerciseIDs, body.Rounds)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"id": id})
}

func (s *Server) handleNextWorkoutName(w http.ResponseWriter, r *http.Request) {
	name, err := s.catalog.NextWorkoutName(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"name": name})
}

func (s *Server) handleUpdateWorkout(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid workout id")
		return
	}
	var body workoutBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if body.Rounds < 1 {
		body.Rounds = 1
	}
	if err := s.catalog.UpdateWorkout(r.Context(), id, body.Name, body.ExerciseIDs, body.Rounds); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid workout id")
		return
	}
	ok, err := s.catalog.DeleteWorkout(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusConflict, "at least one workout must exist")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSelectWorkout(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid workout id")
		return
	}
	// Selecting an unknown template is a silent no-op.
	if err := s.catalog.SelectWorkout(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeSessionState(w)
}

// --- Session ---

func (s *Server) writeSessionState(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]any{
		"session":   s.tracker.Snapshot(),
		"exercises": s.catalog.Exercises(),
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s.writeSessionState(w)
}

func (s *Server) handleRecordReps(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RoundIndex int    `json:"round_index"`
		ExerciseID string `json:"exercise_id"`
		Reps       any    `json:"reps"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if body.ExerciseID == "" {
		writeError(w, http.StatusBadRequest, "exercise_id required")
		return
	}
	s.tracker.RecordReps(body.RoundIndex, body.ExerciseID, coerceReps(body.Reps))
	s.writeSessionState(w)
}

// coerceReps turns loosely-typed rep input into an integer; anything
// non-numeric becomes 0.
func coerceReps(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0
		}
		return i
	default:
		return 0
	}
}

func (s *Server) handleAdvanceRound(w http.ResponseWriter, r *http.Request) {
	s.tracker.AdvanceRound()
	s.writeSessionState(w)
}

func (s *Server) handleFinishSession(w http.ResponseWriter, r *http.Request) {
	gained, err := s.tracker.Finish(r.Context())
	if err != nil {
		s.log.Error("finish failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"gained_xp": gained})
}

// --- History ---

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.db.GetWorkoutHistory(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if sessions == nil {
		sessions = []models.WorkoutSession{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleSessionSets(w http.ResponseWriter, r *http.Request) {
	sets, err := s.db.GetSessionSets(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if sets == nil {
		sets = []models.SessionSet{}
	}
	writeJSON(w, http.StatusOK, sets)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.db.DeleteWorkoutSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Stats ---

func (s *Server) handleVolumeStats(w http.ResponseWriter, r *http.Request) {
	filter := storage.VolumeFilter(r.URL.Query().Get("filter"))
	if filter == "" {
		filter = storage.FilterDay
	}
	switch filter {
	case storage.FilterDay, storage.FilterWeek, storage.FilterYear:
	default:
		writeError(w, http.StatusBadRequest, "filter must be day, week, or year")
		return
	}
	stats, err := s.db.GetVolumeStats(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// --- Profile ---

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.db.GetUserProfile(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, "profile not initialized")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"profile":  profile,
		"progress": leveling.XPProgress(profile.ExperiencePoints, profile.CurrentLevel),
	})
}

func (s *Server) handleResetProfile(w http.ResponseWriter, r *http.Request) {
	if err := s.db.UpdateUserProfile(r.Context(), 0, 0, 1); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
