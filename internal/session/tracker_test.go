package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/claude/repquest/internal/leveling"
	"github.com/claude/repquest/internal/models"
	"github.com/claude/repquest/internal/storage"
)

// memGateway is an in-memory Gateway that mirrors the persistence
// contract, including the recompute-from-history rule on delete.
type memGateway struct {
	profile  *models.UserProfile
	sessions map[string]storage.FinishedSession
	saves    int
}

func newMemGateway() *memGateway {
	return &memGateway{
		profile:  &models.UserProfile{ID: "user-1", CurrentLevel: 1},
		sessions: map[string]storage.FinishedSession{},
	}
}

func (g *memGateway) GetUserProfile(_ context.Context) (*models.UserProfile, error) {
	if g.profile == nil {
		return nil, nil
	}
	cp := *g.profile
	return &cp, nil
}

func (g *memGateway) SaveSession(_ context.Context, fs storage.FinishedSession) (string, error) {
	g.saves++
	id := fmt.Sprintf("session-%d", g.saves)
	g.sessions[id] = fs
	g.profile.TotalVolume = fs.ProfileVolume
	g.profile.ExperiencePoints = fs.ProfileXP
	g.profile.CurrentLevel = fs.ProfileLevel
	return id, nil
}

// DeleteSession mirrors the gateway's recompute-on-delete contract:
// re-sum the remaining sessions, never decrement.
func (g *memGateway) DeleteSession(id string) {
	delete(g.sessions, id)
	total := 0
	for _, fs := range g.sessions {
		total += fs.TotalVolume
	}
	xp := leveling.XPFromVolume(total)
	g.profile.TotalVolume = total
	g.profile.ExperiencePoints = xp
	g.profile.CurrentLevel = leveling.LevelFromXP(xp)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTracker(gw Gateway) *Tracker {
	return NewTracker(gw, testLogger())
}

// TestSeedShape verifies seeding produces the requested number of empty
// rounds with the cursor on the first one.
func TestSeedShape(t *testing.T) {
	tr := newTestTracker(newMemGateway())
	wid := 3
	tr.Seed(&wid, 4)

	state := tr.Snapshot()
	if len(state.Rounds) != 4 {
		t.Fatalf("rounds = %d, want 4", len(state.Rounds))
	}
	if state.CurrentRound != 0 {
		t.Errorf("currentRound = %d, want 0", state.CurrentRound)
	}
	for i, r := range state.Rounds {
		if len(r) != 0 {
			t.Errorf("round %d not empty: %v", i, r)
		}
	}
	if state.WorkoutID == nil || *state.WorkoutID != 3 {
		t.Errorf("workoutID = %v, want 3", state.WorkoutID)
	}
}

// TestSeedMinimumOneRound verifies a zero or negative round count still
// seeds one round.
func TestSeedMinimumOneRound(t *testing.T) {
	tr := newTestTracker(newMemGateway())
	tr.Seed(nil, 0)
	if got := len(tr.Snapshot().Rounds); got != 1 {
		t.Errorf("rounds = %d, want 1", got)
	}
}

// TestRecordReps verifies upsert, idempotence, negative passthrough,
// and the silent out-of-range guard.
func TestRecordReps(t *testing.T) {
	tr := newTestTracker(newMemGateway())
	tr.Seed(nil, 2)

	tr.RecordReps(0, "ex1", 10)
	tr.RecordReps(0, "ex1", 10) // idempotent
	tr.RecordReps(0, "ex2", -5) // negatives accepted as-is
	tr.RecordReps(1, "ex1", 7)
	tr.RecordReps(5, "ex1", 99)  // out of range: dropped
	tr.RecordReps(-1, "ex1", 99) // out of range: dropped

	state := tr.Snapshot()
	if state.Rounds[0]["ex1"] != 10 || state.Rounds[0]["ex2"] != -5 {
		t.Errorf("round 0 = %v", state.Rounds[0])
	}
	if state.Rounds[1]["ex1"] != 7 {
		t.Errorf("round 1 = %v", state.Rounds[1])
	}
}

// TestAdvanceRound verifies the pre-seeded-vs-appended distinction:
// advancing within the seeded length only moves the cursor and
// preserves existing data, advancing past it appends an empty round.
func TestAdvanceRound(t *testing.T) {
	tr := newTestTracker(newMemGateway())
	tr.Seed(nil, 2)
	tr.RecordReps(1, "ex1", 5) // data entered ahead of the cursor

	tr.AdvanceRound()
	state := tr.Snapshot()
	if state.CurrentRound != 1 {
		t.Fatalf("currentRound = %d, want 1", state.CurrentRound)
	}
	if len(state.Rounds) != 2 {
		t.Fatalf("rounds = %d, want 2 (no append within seeded length)", len(state.Rounds))
	}
	if state.Rounds[1]["ex1"] != 5 {
		t.Errorf("pre-entered data lost on advance: %v", state.Rounds[1])
	}

	tr.AdvanceRound() // past seeded length: appends
	state = tr.Snapshot()
	if len(state.Rounds) != 3 || state.CurrentRound != 2 {
		t.Errorf("rounds = %d currentRound = %d, want 3 and 2", len(state.Rounds), state.CurrentRound)
	}
	if len(state.Rounds[2]) != 0 {
		t.Errorf("appended round not empty: %v", state.Rounds[2])
	}
}

// TestFinishScenario walks the canonical progression: one round of
// {ex1:10, ex2:5} earns 150 XP and lifts a fresh profile to level 2.
func TestFinishScenario(t *testing.T) {
	gw := newMemGateway()
	tr := newTestTracker(gw)
	wid := 1
	tr.Seed(&wid, 1)
	tr.RecordReps(0, "ex1", 10)
	tr.RecordReps(0, "ex2", 5)

	gained, err := tr.Finish(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gained != 150 {
		t.Errorf("gained = %d, want 150", gained)
	}

	if gw.profile.TotalVolume != 15 {
		t.Errorf("totalVolume = %d, want 15", gw.profile.TotalVolume)
	}
	if gw.profile.ExperiencePoints != 150 {
		t.Errorf("xp = %d, want 150", gw.profile.ExperiencePoints)
	}
	if gw.profile.CurrentLevel != 2 {
		t.Errorf("level = %d, want 2", gw.profile.CurrentLevel)
	}

	if len(gw.sessions) != 1 {
		t.Fatalf("sessions = %d, want 1", len(gw.sessions))
	}
	for _, fs := range gw.sessions {
		if fs.TotalRounds != 1 || fs.TotalVolume != 15 {
			t.Errorf("session = %+v", fs)
		}
		if fs.WorkoutID == nil || *fs.WorkoutID != 1 {
			t.Errorf("workoutID = %v, want 1", fs.WorkoutID)
		}
		if len(fs.Sets) != 2 {
			t.Errorf("sets = %d, want 2", len(fs.Sets))
		}
	}

	// The tracker reset for the next session.
	state := tr.Snapshot()
	if len(state.Rounds) != 1 || state.CurrentRound != 0 || len(state.Rounds[0]) != 0 {
		t.Errorf("tracker not reset: %+v", state)
	}
}

// TestFinishDropsNonPositiveSets verifies entries with reps <= 0 are
// never persisted while still counting toward volume.
func TestFinishDropsNonPositiveSets(t *testing.T) {
	gw := newMemGateway()
	tr := newTestTracker(gw)
	tr.Seed(nil, 2)
	tr.RecordReps(0, "ex1", 10)
	tr.RecordReps(0, "ex2", 0)
	tr.AdvanceRound()
	tr.RecordReps(1, "ex1", 8)

	if _, err := tr.Finish(context.Background()); err != nil {
		t.Fatal(err)
	}

	for _, fs := range gw.sessions {
		if len(fs.Sets) != 2 {
			t.Fatalf("sets = %d, want 2 (zero-rep entry dropped)", len(fs.Sets))
		}
		if fs.Sets[0].RoundNumber != 1 || fs.Sets[1].RoundNumber != 2 {
			t.Errorf("round numbers = %d,%d, want 1,2", fs.Sets[0].RoundNumber, fs.Sets[1].RoundNumber)
		}
	}
}

// TestFinishZeroVolume verifies the guarded no-op: nothing is written,
// the tracker resets, and repeated finishes stay at 0.
func TestFinishZeroVolume(t *testing.T) {
	gw := newMemGateway()
	tr := newTestTracker(gw)
	tr.Seed(nil, 3)
	tr.RecordReps(0, "ex1", 0)
	tr.AdvanceRound()

	for i := 0; i < 3; i++ {
		gained, err := tr.Finish(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gained != 0 {
			t.Errorf("gained = %d, want 0", gained)
		}
	}

	if len(gw.sessions) != 0 {
		t.Errorf("sessions = %d, want 0", len(gw.sessions))
	}
	if gw.profile.TotalVolume != 0 || gw.profile.ExperiencePoints != 0 || gw.profile.CurrentLevel != 1 {
		t.Errorf("profile mutated: %+v", gw.profile)
	}
	if got := len(tr.Snapshot().Rounds); got != 3 {
		t.Errorf("reset rounds = %d, want 3 (re-seeded per template)", got)
	}
}

// TestFinishMissingProfile verifies the fatal-but-non-crashing guard.
func TestFinishMissingProfile(t *testing.T) {
	gw := newMemGateway()
	gw.profile = nil
	tr := newTestTracker(gw)
	tr.Seed(nil, 1)
	tr.RecordReps(0, "ex1", 10)

	gained, err := tr.Finish(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gained != 0 {
		t.Errorf("gained = %d, want 0", gained)
	}
	if len(gw.sessions) != 0 {
		t.Errorf("sessions = %d, want 0", len(gw.sessions))
	}
}

// TestNegativeVolumeFlowsThrough documents that negative reps are
// summed as-is: a net-negative session still persists.
func TestNegativeVolumeFlowsThrough(t *testing.T) {
	gw := newMemGateway()
	tr := newTestTracker(gw)
	tr.Seed(nil, 1)
	tr.RecordReps(0, "ex1", -3)

	if _, err := tr.Finish(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(gw.sessions) != 1 {
		t.Fatalf("sessions = %d, want 1", len(gw.sessions))
	}
	for _, fs := range gw.sessions {
		if fs.TotalVolume != -3 {
			t.Errorf("volume = %d, want -3", fs.TotalVolume)
		}
		if len(fs.Sets) != 0 {
			t.Errorf("sets = %d, want 0 (non-positive dropped)", len(fs.Sets))
		}
	}
}

// TestSessionRoundTrip verifies the recompute-from-history invariant:
// creating and deleting sessions in any interleaving restores the
// profile exactly, with no drift from decrementing.
func TestSessionRoundTrip(t *testing.T) {
	gw := newMemGateway()
	tr := newTestTracker(gw)

	finish := func(volume int) string {
		tr.Seed(nil, 1)
		tr.RecordReps(0, "ex1", volume)
		before := len(gw.sessions)
		if _, err := tr.Finish(context.Background()); err != nil {
			t.Fatal(err)
		}
		if len(gw.sessions) != before+1 {
			t.Fatal("session not recorded")
		}
		return fmt.Sprintf("session-%d", gw.saves)
	}

	id50 := finish(50)
	id70 := finish(70)

	// Deleting the 50-volume session must leave exactly the 70-volume
	// remainder, recomputed, not 120-50 by decrement.
	gw.DeleteSession(id50)
	if gw.profile.TotalVolume != 70 {
		t.Errorf("totalVolume = %d, want 70", gw.profile.TotalVolume)
	}
	if gw.profile.ExperiencePoints != 700 {
		t.Errorf("xp = %d, want 700", gw.profile.ExperiencePoints)
	}
	if want := leveling.LevelFromXP(700); gw.profile.CurrentLevel != want {
		t.Errorf("level = %d, want %d", gw.profile.CurrentLevel, want)
	}

	// Deleting the last session restores the pristine profile.
	gw.DeleteSession(id70)
	if gw.profile.TotalVolume != 0 || gw.profile.ExperiencePoints != 0 || gw.profile.CurrentLevel != 1 {
		t.Errorf("profile = %+v, want zeroed at level 1", gw.profile)
	}
}
