// Package session owns the in-progress workout state machine: rounds
// of per-exercise rep entries, and the finish reconciliation that turns
// them into persisted records and updated profile aggregates.
package session

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/claude/repquest/internal/leveling"
	"github.com/claude/repquest/internal/storage"
)

// Round maps exercise id to the reps logged for it in one pass.
type Round map[string]int

// State is a snapshot of the in-progress session.
type State struct {
	Rounds       []Round `json:"rounds"`
	CurrentRound int     `json:"current_round"`
	WorkoutID    *int    `json:"workout_id"`
}

// Tracker is the in-progress session. It is owned state, never a
// global: callers hold a reference and funnel every mutation through
// its methods. Safe for concurrent use.
type Tracker struct {
	mu           sync.Mutex
	rounds       []Round
	currentRound int
	workoutID    *int
	seedCount    int

	gw  Gateway
	log *slog.Logger
}

// NewTracker creates a tracker in the Empty state: one empty round.
func NewTracker(gw Gateway, log *slog.Logger) *Tracker {
	t := &Tracker{gw: gw, log: log, seedCount: 1}
	t.rounds = emptyRounds(1)
	return t
}

func emptyRounds(n int) []Round {
	rounds := make([]Round, n)
	for i := range rounds {
		rounds[i] = Round{}
	}
	return rounds
}

// Seed resets the session to roundCount empty rounds for the given
// template. Subsequent resets re-seed with the same shape until the
// next Seed call.
func (t *Tracker) Seed(workoutID *int, roundCount int) {
	if roundCount < 1 {
		roundCount = 1
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.workoutID = workoutID
	t.seedCount = roundCount
	t.rounds = emptyRounds(roundCount)
	t.currentRound = 0
}

// RecordReps upserts the rep count for an exercise within a round.
// Idempotent for repeated identical calls. Negative values are accepted
// and summed as-is; an out-of-range round index is a silent no-op.
func (t *Tracker) RecordReps(roundIndex int, exerciseID string, reps int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if roundIndex < 0 || roundIndex >= len(t.rounds) {
		return
	}
	t.rounds[roundIndex][exerciseID] = reps
}

// AdvanceRound moves to the next round. Within the pre-seeded length it
// only moves the cursor, preserving any data already entered there;
// past the seeded count it appends a fresh empty round.
func (t *Tracker) AdvanceRound() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.currentRound+1 < len(t.rounds) {
		t.currentRound++
		return
	}
	t.rounds = append(t.rounds, Round{})
	t.currentRound++
}

// Reset discards the in-progress session and re-seeds it to the shape
// of the current template.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reset()
}

func (t *Tracker) reset() {
	t.rounds = emptyRounds(t.seedCount)
	t.currentRound = 0
}

// Snapshot returns a copy of the current session state.
func (t *Tracker) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	rounds := make([]Round, len(t.rounds))
	for i, r := range t.rounds {
		cp := make(Round, len(r))
		for k, v := range r {
			cp[k] = v
		}
		rounds[i] = cp
	}
	return State{Rounds: rounds, CurrentRound: t.currentRound, WorkoutID: t.workoutID}
}

// Finish reconciles the in-progress session into durable records and
// returns the XP gained.
//
// A zero-volume session is never persisted: the tracker resets and 0
// comes back. A missing profile (impossible after seeding) logs and
// returns 0 with no side effects. Otherwise the session, its positive
// rep entries, and the recomputed profile are written through one
// atomic gateway call, and the tracker resets for the next session.
func (t *Tracker) Finish(ctx context.Context) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	totalRounds := t.currentRound + 1
	sessionVolume := 0
	for _, round := range t.rounds {
		for _, reps := range round {
			sessionVolume += reps
		}
	}

	if sessionVolume == 0 {
		t.log.Warn("no volume recorded, skipping session save")
		t.reset()
		return 0, nil
	}

	profile, err := t.gw.GetUserProfile(ctx)
	if err != nil {
		return 0, err
	}
	if profile == nil {
		t.log.Error("no user profile found, aborting finish")
		return 0, nil
	}

	gainedXP := leveling.XPFromVolume(sessionVolume)
	newTotalXP := profile.ExperiencePoints + gainedXP
	newTotalVolume := profile.TotalVolume + sessionVolume
	newLevel := leveling.LevelFromXP(newTotalXP)

	fs := storage.FinishedSession{
		TotalRounds:   totalRounds,
		TotalVolume:   sessionVolume,
		WorkoutID:     t.workoutID,
		Sets:          t.collectSets(),
		ProfileVolume: newTotalVolume,
		ProfileXP:     newTotalXP,
		ProfileLevel:  newLevel,
	}

	sessionID, err := t.gw.SaveSession(ctx, fs)
	if err != nil {
		// Keep the entered reps so the user can retry the finish.
		return 0, err
	}

	t.log.Info("session saved",
		"session_id", sessionID,
		"rounds", totalRounds,
		"volume", sessionVolume,
		"gained_xp", gainedXP,
		"level", newLevel,
	)

	t.reset()
	return gainedXP, nil
}

// collectSets flattens positive rep entries into set rows, round by
// round in exercise-id order. Entries with reps <= 0 are dropped.
func (t *Tracker) collectSets() []storage.SetEntry {
	var sets []storage.SetEntry
	for roundIndex, round := range t.rounds {
		ids := make([]string, 0, len(round))
		for id := range round {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			if round[id] > 0 {
				sets = append(sets, storage.SetEntry{
					ExerciseID:  id,
					Reps:        round[id],
					RoundNumber: roundIndex + 1,
				})
			}
		}
	}
	return sets
}
