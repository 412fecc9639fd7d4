package storage

import (
	"context"
	"fmt"

	"github.com/claude/repquest/internal/models"
)

// GetWorkouts returns all workout templates in stable id order.
func (db *DB) GetWorkouts(ctx context.Context) ([]models.Workout, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, exercise_ids, rounds FROM workouts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var result []models.Workout
	for rows.Next() {
		var w models.Workout
		if err := rows.Scan(&w.ID, &w.Name, &w.ExerciseIDs, &w.Rounds); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

// CreateWorkout inserts a template and returns its assigned id.
func (db *DB) CreateWorkout(ctx context.Context, name string, exerciseIDs []string, rounds int) (int, error) {
	var id int
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO workouts (name, exercise_ids, rounds) VALUES ($1, $2, $3) RETURNING id`,
		name, exerciseIDs, rounds).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting workout: %w", err)
	}
	return id, nil
}

// UpdateWorkout replaces a template's name, exercise list, and round count.
func (db *DB) UpdateWorkout(ctx context.Context, id int, name string, exerciseIDs []string, rounds int) error {
	_, err := db.Pool.Exec(ctx,
		`UPDATE workouts SET name = $1, exercise_ids = $2, rounds = $3, updated_at = now()
		 WHERE id = $4`,
		name, exerciseIDs, rounds, id)
	if err != nil {
		return fmt.Errorf("updating workout: %w", err)
	}
	return nil
}

// DeleteWorkout removes a template. Sessions that referenced it keep
// their history with workout_id set to NULL by the schema.
func (db *DB) DeleteWorkout(ctx context.Context, id int) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM workouts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting workout: %w", err)
	}
	return nil
}

// NextWorkoutName suggests a default name for a new template.
func (db *DB) NextWorkoutName(ctx context.Context) (string, error) {
	var count int
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM workouts`).Scan(&count); err != nil {
		return "", fmt.Errorf("counting workouts: %w", err)
	}
	return fmt.Sprintf("Training #%d", count+1), nil
}
