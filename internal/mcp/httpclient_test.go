package mcp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/claude/repquest/internal/storage"
)

func TestHTTPClientGetUserProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/profile" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		// The REST API wraps the profile next to its level progress.
		_, _ = w.Write([]byte(`{
			"profile": {"id":"user-1","current_level":2,"total_volume":15,"experience_points":150},
			"progress": {"current":50,"required":150,"percentage":33.3}
		}`))
	}))
	defer srv.Close()

	profile, err := NewHTTPClient(srv.URL).GetUserProfile(context.Background())
	if err != nil {
		t.Fatalf("GetUserProfile: %v", err)
	}
	if profile == nil {
		t.Fatal("nil profile")
	}
	if profile.CurrentLevel != 2 || profile.ExperiencePoints != 150 || profile.TotalVolume != 15 {
		t.Errorf("profile = %+v", profile)
	}
}

func TestHTTPClientGetWorkoutHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/history" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"session-1","date":"2026-08-26T18:00:00Z","total_rounds":3,"total_volume":45,"workout_id":1},
			{"id":"session-2","date":"2026-08-24T18:00:00Z","total_rounds":2,"total_volume":30,"workout_id":null}
		]`))
	}))
	defer srv.Close()

	sessions, err := NewHTTPClient(srv.URL).GetWorkoutHistory(context.Background())
	if err != nil {
		t.Fatalf("GetWorkoutHistory: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(sessions))
	}
	if sessions[0].TotalVolume != 45 {
		t.Errorf("volume = %d, want 45", sessions[0].TotalVolume)
	}
	if sessions[1].WorkoutID != nil {
		t.Errorf("workout_id = %v, want nil", sessions[1].WorkoutID)
	}
}

func TestHTTPClientGetVolumeStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("filter"); got != "week" {
			t.Errorf("filter = %q, want week", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data_points": [{"label":"S34","value":120}],
			"total_sessions": 4, "avg_volume": 30, "best_session": 45
		}`))
	}))
	defer srv.Close()

	stats, err := NewHTTPClient(srv.URL).GetVolumeStats(context.Background(), storage.FilterWeek)
	if err != nil {
		t.Fatalf("GetVolumeStats: %v", err)
	}
	if len(stats.DataPoints) != 1 || stats.DataPoints[0].Label != "S34" {
		t.Errorf("data points = %+v", stats.DataPoints)
	}
	if stats.BestSession != 45 {
		t.Errorf("best = %d, want 45", stats.BestSession)
	}
}

func TestHTTPClientGetWorkouts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"workouts": [{"id":1,"name":"Training #1","exercise_ids":["ex-a"],"rounds":3}],
			"selected_id": 1
		}`))
	}))
	defer srv.Close()

	workouts, err := NewHTTPClient(srv.URL).GetWorkouts(context.Background())
	if err != nil {
		t.Fatalf("GetWorkouts: %v", err)
	}
	if len(workouts) != 1 || workouts[0].Name != "Training #1" {
		t.Errorf("workouts = %+v", workouts)
	}
}

func TestHTTPClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"profile not initialized"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := NewHTTPClient(srv.URL).GetUserProfile(context.Background()); err == nil {
		t.Error("expected error for non-200 response, got nil")
	}
}
