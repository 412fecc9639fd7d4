package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/claude/repquest/internal/leveling"
	"github.com/claude/repquest/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SetEntry is one rep entry to persist with a finished session.
type SetEntry struct {
	ExerciseID  string
	Reps        int
	RoundNumber int
}

// FinishedSession carries everything the finish reconciliation writes:
// the session record, its sets, and the recomputed profile aggregates.
type FinishedSession struct {
	TotalRounds int
	TotalVolume int
	WorkoutID   *int
	Sets        []SetEntry

	ProfileVolume int
	ProfileXP     int
	ProfileLevel  int
}

// newSessionID derives a session id from the wall clock, matching the
// historical id format.
func newSessionID() string {
	return fmt.Sprintf("session-%d", time.Now().UnixMilli())
}

// SaveSession writes a finished session, its sets, and the updated
// profile in a single transaction, so a crash can never leave a
// session without its sets or a stale profile. Returns the session id.
func (db *DB) SaveSession(ctx context.Context, fs FinishedSession) (string, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("beginning session save: %w", err)
	}
	defer tx.Rollback(ctx)

	id := newSessionID()
	if _, err := tx.Exec(ctx,
		`INSERT INTO workout_sessions (id, date, total_rounds, total_volume, workout_id)
		 VALUES ($1, now(), $2, $3, $4)`,
		id, fs.TotalRounds, fs.TotalVolume, fs.WorkoutID); err != nil {
		return "", fmt.Errorf("inserting session: %w", err)
	}

	if err := insertSets(ctx, tx, id, fs.Sets); err != nil {
		return "", err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE user_profile
		 SET total_volume = $1, experience_points = $2, current_level = $3
		 WHERE id = $4`,
		fs.ProfileVolume, fs.ProfileXP, fs.ProfileLevel, profileID); err != nil {
		return "", fmt.Errorf("updating profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("committing session save: %w", err)
	}
	return id, nil
}

func insertSets(ctx context.Context, tx pgx.Tx, sessionID string, sets []SetEntry) error {
	if len(sets) == 0 {
		return nil
	}

	query := `INSERT INTO workout_sets (id, exercise_id, reps, round_number, workout_session_id) VALUES `
	args := make([]any, 0, len(sets)*5)
	valueStrings := make([]string, 0, len(sets))

	for i, s := range sets {
		base := i * 5
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5,
		))
		args = append(args, "set-"+uuid.NewString(), s.ExerciseID, s.Reps, s.RoundNumber, sessionID)
	}

	if _, err := tx.Exec(ctx, query+strings.Join(valueStrings, ","), args...); err != nil {
		return fmt.Errorf("inserting workout sets: %w", err)
	}
	return nil
}

// CreateWorkoutSession inserts a bare session record and returns its id.
// SaveSession is the atomic path used by the session aggregator; this
// exists for callers that manage sets and the profile themselves.
func (db *DB) CreateWorkoutSession(ctx context.Context, totalRounds, totalVolume int, workoutID *int) (string, error) {
	id := newSessionID()
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO workout_sessions (id, date, total_rounds, total_volume, workout_id)
		 VALUES ($1, now(), $2, $3, $4)`,
		id, totalRounds, totalVolume, workoutID)
	if err != nil {
		return "", fmt.Errorf("inserting session: %w", err)
	}
	return id, nil
}

// AddWorkoutSet inserts a single set row and returns its id.
func (db *DB) AddWorkoutSet(ctx context.Context, exerciseID string, reps, roundNumber int, sessionID string) (string, error) {
	id := "set-" + uuid.NewString()
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO workout_sets (id, exercise_id, reps, round_number, workout_session_id)
		 VALUES ($1, $2, $3, $4, $5)`,
		id, exerciseID, reps, roundNumber, sessionID)
	if err != nil {
		return "", fmt.Errorf("inserting workout set: %w", err)
	}
	return id, nil
}

// GetWorkoutHistory returns all sessions, newest first.
func (db *DB) GetWorkoutHistory(ctx context.Context) ([]models.WorkoutSession, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, date, total_rounds, total_volume, workout_id
		 FROM workout_sessions ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutSession
	for rows.Next() {
		var s models.WorkoutSession
		if err := rows.Scan(&s.ID, &s.Date, &s.TotalRounds, &s.TotalVolume, &s.WorkoutID); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// GetSessionSets returns a session's sets with exercise names resolved.
// A LEFT JOIN keeps sets whose exercise was deleted; their name comes
// back empty and display layers show nothing for it.
func (db *DB) GetSessionSets(ctx context.Context, sessionID string) ([]models.SessionSet, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT ws.id, ws.exercise_id, ws.reps, ws.round_number, ws.workout_session_id,
		        COALESCE(e.name, '')
		 FROM workout_sets ws
		 LEFT JOIN exercises e ON ws.exercise_id = e.id
		 WHERE ws.workout_session_id = $1
		 ORDER BY ws.round_number, e."order"`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying session sets: %w", err)
	}
	defer rows.Close()

	var result []models.SessionSet
	for rows.Next() {
		var s models.SessionSet
		if err := rows.Scan(&s.ID, &s.ExerciseID, &s.Reps, &s.RoundNumber, &s.SessionID, &s.ExerciseName); err != nil {
			return nil, fmt.Errorf("scanning session set: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// DeleteWorkoutSession removes a session and its sets, then recomputes
// the profile from the remaining sessions. The recompute is a full
// re-sum, never a decrement, so repeated create/delete cycles cannot
// drift the aggregates.
func (db *DB) DeleteWorkoutSession(ctx context.Context, sessionID string) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning session delete: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM workout_sets WHERE workout_session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("deleting session sets: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM workout_sessions WHERE id = $1`, sessionID); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	var totalVolume int
	if err := tx.QueryRow(ctx,
		`SELECT COALESCE(SUM(total_volume), 0) FROM workout_sessions`).Scan(&totalVolume); err != nil {
		return fmt.Errorf("summing remaining volume: %w", err)
	}

	totalXP := leveling.XPFromVolume(totalVolume)
	level := leveling.LevelFromXP(totalXP)

	if _, err := tx.Exec(ctx,
		`UPDATE user_profile
		 SET total_volume = $1, experience_points = $2, current_level = $3
		 WHERE id = $4`,
		totalVolume, totalXP, level, profileID); err != nil {
		return fmt.Errorf("recomputing profile: %w", err)
	}

	return tx.Commit(ctx)
}
