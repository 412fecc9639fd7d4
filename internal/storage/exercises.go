package storage

import (
	"context"
	"fmt"

	"github.com/claude/repquest/internal/models"
	"github.com/google/uuid"
)

// GetExercises returns the full catalog in display order.
func (db *DB) GetExercises(ctx context.Context) ([]models.Exercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, "order" FROM exercises ORDER BY "order"`)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var result []models.Exercise
	for rows.Next() {
		var e models.Exercise
		if err := rows.Scan(&e.ID, &e.Name, &e.Order); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// CreateExercise appends a new exercise at the end of the display order
// and returns its id.
func (db *DB) CreateExercise(ctx context.Context, name string) (string, error) {
	id := "exercise-" + uuid.NewString()
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO exercises (id, name, "order")
		 VALUES ($1, $2, (SELECT COALESCE(MAX("order"), -1) + 1 FROM exercises))`,
		id, name)
	if err != nil {
		return "", fmt.Errorf("inserting exercise: %w", err)
	}
	return id, nil
}

// UpdateExercise renames an exercise.
func (db *DB) UpdateExercise(ctx context.Context, id, name string) error {
	_, err := db.Pool.Exec(ctx,
		`UPDATE exercises SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return fmt.Errorf("updating exercise: %w", err)
	}
	return nil
}

// DeleteExercise removes an exercise and purges its id from every
// workout template, preserving the relative order of the remaining ids.
// Sessions and sets referencing the exercise are left untouched.
func (db *DB) DeleteExercise(ctx context.Context, id string) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning exercise delete: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM exercises WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting exercise: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE workouts
		 SET exercise_ids = array_remove(exercise_ids, $1), updated_at = now()
		 WHERE $1 = ANY(exercise_ids)`, id); err != nil {
		return fmt.Errorf("purging exercise from templates: %w", err)
	}

	return tx.Commit(ctx)
}
