package mcp

import (
	"context"

	"github.com/claude/repquest/internal/models"
	"github.com/claude/repquest/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB
// (local) and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	GetUserProfile(ctx context.Context) (*models.UserProfile, error)
	GetWorkoutHistory(ctx context.Context) ([]models.WorkoutSession, error)
	GetSessionSets(ctx context.Context, sessionID string) ([]models.SessionSet, error)
	GetVolumeStats(ctx context.Context, filter storage.VolumeFilter) (*storage.VolumeStats, error)
	GetExercises(ctx context.Context) ([]models.Exercise, error)
	GetWorkouts(ctx context.Context) ([]models.Workout, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
