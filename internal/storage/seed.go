package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/claude/repquest/internal/models"
)

// defaultExercises are created on first run so a fresh install has a
// usable catalog.
var defaultExercises = []models.Exercise{
	{ID: "exercise-default-1", Name: "Pull-ups", Order: 0},
	{ID: "exercise-default-2", Name: "Squats", Order: 1},
	{ID: "exercise-default-3", Name: "Push-ups", Order: 2},
	{ID: "exercise-default-4", Name: "Dips", Order: 3},
	{ID: "exercise-default-5", Name: "Knee Raises", Order: 4},
}

// Seed initializes first-run data: the default exercises, the singleton
// user profile, and one workout template covering the whole catalog.
// Idempotent — every insert is ON CONFLICT DO NOTHING or count-guarded,
// so it is safe to run on each startup.
func (db *DB) Seed(ctx context.Context, log *slog.Logger) error {
	for _, e := range defaultExercises {
		tag, err := db.Pool.Exec(ctx,
			`INSERT INTO exercises (id, name, "order") VALUES ($1, $2, $3)
			 ON CONFLICT (id) DO NOTHING`,
			e.ID, e.Name, e.Order)
		if err != nil {
			return fmt.Errorf("seeding exercise %s: %w", e.ID, err)
		}
		if tag.RowsAffected() > 0 {
			log.Info("seeded exercise", "id", e.ID, "name", e.Name)
		}
	}

	tag, err := db.Pool.Exec(ctx,
		`INSERT INTO user_profile (id, current_level, total_volume, experience_points)
		 VALUES ($1, 1, 0, 0)
		 ON CONFLICT (id) DO NOTHING`, profileID)
	if err != nil {
		return fmt.Errorf("seeding user profile: %w", err)
	}
	if tag.RowsAffected() > 0 {
		log.Info("seeded user profile")
	}

	// One template must always exist; seed it only on a truly empty table
	// so a user who renamed or replaced theirs is left alone.
	var workoutCount int
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM workouts`).Scan(&workoutCount); err != nil {
		return fmt.Errorf("counting workouts: %w", err)
	}
	if workoutCount == 0 {
		ids := make([]string, len(defaultExercises))
		for i, e := range defaultExercises {
			ids[i] = e.ID
		}
		if _, err := db.Pool.Exec(ctx,
			`INSERT INTO workouts (name, exercise_ids, rounds) VALUES ($1, $2, 1)`,
			"Training #1", ids); err != nil {
			return fmt.Errorf("seeding default workout: %w", err)
		}
		log.Info("seeded default workout", "name", "Training #1")
	}

	return nil
}
