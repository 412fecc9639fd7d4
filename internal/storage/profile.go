package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/repquest/internal/models"
	"github.com/jackc/pgx/v5"
)

// profileID is the fixed id of the singleton user profile row.
const profileID = "user-1"

// GetUserProfile returns the singleton profile, or nil if it has not
// been initialized.
func (db *DB) GetUserProfile(ctx context.Context) (*models.UserProfile, error) {
	var p models.UserProfile
	err := db.Pool.QueryRow(ctx,
		`SELECT id, current_level, total_volume, experience_points
		 FROM user_profile LIMIT 1`).
		Scan(&p.ID, &p.CurrentLevel, &p.TotalVolume, &p.ExperiencePoints)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying user profile: %w", err)
	}
	return &p, nil
}

// UpdateUserProfile overwrites the profile aggregates. Callers must
// pass a level computed by leveling.LevelFromXP so the level/XP
// invariant holds.
func (db *DB) UpdateUserProfile(ctx context.Context, totalVolume, experiencePoints, currentLevel int) error {
	_, err := db.Pool.Exec(ctx,
		`UPDATE user_profile
		 SET total_volume = $1, experience_points = $2, current_level = $3
		 WHERE id = $4`,
		totalVolume, experiencePoints, currentLevel, profileID)
	if err != nil {
		return fmt.Errorf("updating user profile: %w", err)
	}
	return nil
}
