// Package models holds the row types shared by the storage layer and
// its callers.
package models

import "time"

// Exercise is a catalog entry. Order defines the default display and
// round sequence.
type Exercise struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// Workout is a reusable template: an ordered subset of the exercise
// catalog plus a round count.
type Workout struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	ExerciseIDs []string `json:"exercise_ids"`
	Rounds      int      `json:"rounds"`
}

// WorkoutSession is one completed workout. WorkoutID is nil when the
// originating template was deleted or the session predates template
// tracking.
type WorkoutSession struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	TotalRounds int       `json:"total_rounds"`
	TotalVolume int       `json:"total_volume"`
	WorkoutID   *int      `json:"workout_id"`
}

// WorkoutSet is one exercise entry within a session round. ExerciseID
// may dangle if the exercise was deleted later; sets are never
// repaired.
type WorkoutSet struct {
	ID          string `json:"id"`
	ExerciseID  string `json:"exercise_id"`
	Reps        int    `json:"reps"`
	RoundNumber int    `json:"round_number"`
	SessionID   string `json:"workout_session_id"`
}

// SessionSet is a set joined with its exercise name for display.
// ExerciseName is empty when the exercise no longer exists.
type SessionSet struct {
	WorkoutSet
	ExerciseName string `json:"exercise_name"`
}

// UserProfile is the singleton progress record. The storage layer keeps
// CurrentLevel consistent with ExperiencePoints on every mutation.
type UserProfile struct {
	ID               string `json:"id"`
	CurrentLevel     int    `json:"current_level"`
	TotalVolume      int    `json:"total_volume"`
	ExperiencePoints int    `json:"experience_points"`
}

// ScheduleEntry is one weekly reminder slot.
type ScheduleEntry struct {
	ID             int  `json:"id"`
	DayOfWeek      int  `json:"day_of_week"`
	ReminderHour   int  `json:"reminder_hour"`
	ReminderMinute int  `json:"reminder_minute"`
	Enabled        bool `json:"enabled"`
}
