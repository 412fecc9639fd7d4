package storage

import (
	"context"
	"fmt"

	"github.com/claude/repquest/internal/models"
)

// GetSchedule returns the weekly reminder slots ordered by day.
func (db *DB) GetSchedule(ctx context.Context) ([]models.ScheduleEntry, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, day_of_week, reminder_hour, reminder_minute, enabled
		 FROM training_schedule ORDER BY day_of_week`)
	if err != nil {
		return nil, fmt.Errorf("querying schedule: %w", err)
	}
	defer rows.Close()

	var result []models.ScheduleEntry
	for rows.Next() {
		var e models.ScheduleEntry
		if err := rows.Scan(&e.ID, &e.DayOfWeek, &e.ReminderHour, &e.ReminderMinute, &e.Enabled); err != nil {
			return nil, fmt.Errorf("scanning schedule entry: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// SetSchedule replaces the whole schedule with one enabled slot per
// active day, all at the same time of day. Delete-all-then-reinsert in
// one transaction.
func (db *DB) SetSchedule(ctx context.Context, activeDays []int, hour, minute int) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning schedule update: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM training_schedule`); err != nil {
		return fmt.Errorf("clearing schedule: %w", err)
	}

	for _, day := range activeDays {
		if _, err := tx.Exec(ctx,
			`INSERT INTO training_schedule (day_of_week, reminder_hour, reminder_minute, enabled)
			 VALUES ($1, $2, $3, TRUE)`,
			day, hour, minute); err != nil {
			return fmt.Errorf("inserting schedule entry: %w", err)
		}
	}

	return tx.Commit(ctx)
}
