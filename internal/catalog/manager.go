// Package catalog maintains the exercise catalog, the workout-template
// list, and the active-workout selection that seeds new sessions.
package catalog

import (
	"context"
	"sync"

	"github.com/claude/repquest/internal/models"
	"github.com/claude/repquest/internal/storage"
)

// Store is the slice of the persistence layer the manager uses.
type Store interface {
	GetExercises(ctx context.Context) ([]models.Exercise, error)
	CreateExercise(ctx context.Context, name string) (string, error)
	UpdateExercise(ctx context.Context, id, name string) error
	DeleteExercise(ctx context.Context, id string) error
	GetWorkouts(ctx context.Context) ([]models.Workout, error)
	CreateWorkout(ctx context.Context, name string, exerciseIDs []string, rounds int) (int, error)
	UpdateWorkout(ctx context.Context, id int, name string, exerciseIDs []string, rounds int) error
	DeleteWorkout(ctx context.Context, id int) error
	NextWorkoutName(ctx context.Context) (string, error)
}

// Compile-time check: *storage.DB satisfies Store.
var _ Store = (*storage.DB)(nil)

// Seeder receives the active template's shape when the selection
// changes. Satisfied by *session.Tracker.
type Seeder interface {
	Seed(workoutID *int, roundCount int)
}

// Manager holds the catalog state and the current selection. All
// mutation goes through its methods; it is owned by the caller, not a
// global. Safe for concurrent use.
type Manager struct {
	mu         sync.Mutex
	store      Store
	seeder     Seeder
	exercises  []models.Exercise
	workouts   []models.Workout
	selectedID *int
	view       []models.Exercise
}

// NewManager creates a manager. Call LoadAll before first use.
func NewManager(store Store, seeder Seeder) *Manager {
	return &Manager{store: store, seeder: seeder}
}

// LoadAll refreshes the catalog and template list. If the previous
// selection no longer exists (or nothing was selected yet) it falls
// back to the first template, seeding a fresh session for it; an
// unchanged selection keeps the in-progress session and only refreshes
// the filtered exercise view.
func (m *Manager) LoadAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.refresh(ctx); err != nil {
		return err
	}

	if m.selectedID != nil && m.findWorkout(*m.selectedID) != nil {
		m.view = m.filterView(*m.findWorkout(*m.selectedID))
		return nil
	}

	if len(m.workouts) == 0 {
		m.selectedID = nil
		m.view = nil
		return nil
	}
	m.applySelection(m.workouts[0])
	return nil
}

// SelectWorkout makes the given template active: the exercise view is
// filtered to its ids in template order and the session is re-seeded
// with its round count. Unknown ids are a silent no-op.
func (m *Manager) SelectWorkout(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.refresh(ctx); err != nil {
		return err
	}
	w := m.findWorkout(id)
	if w == nil {
		return nil
	}
	m.applySelection(*w)
	return nil
}

// CreateWorkout inserts a template and refreshes the list. The
// selection is unchanged.
func (m *Manager) CreateWorkout(ctx context.Context, name string, exerciseIDs []string, rounds int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, err := m.store.CreateWorkout(ctx, name, exerciseIDs, rounds)
	if err != nil {
		return 0, err
	}
	return id, m.refresh(ctx)
}

// UpdateWorkout edits a template. Editing the active template re-runs
// the selection so the filtered view and round count follow the edit.
func (m *Manager) UpdateWorkout(ctx context.Context, id int, name string, exerciseIDs []string, rounds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.UpdateWorkout(ctx, id, name, exerciseIDs, rounds); err != nil {
		return err
	}
	if err := m.refresh(ctx); err != nil {
		return err
	}
	if m.selectedID != nil && *m.selectedID == id {
		if w := m.findWorkout(id); w != nil {
			m.applySelection(*w)
		}
	}
	return nil
}

// DeleteWorkout removes a template. At least one template must always
// exist: deleting the last one returns false with no mutation. When the
// deleted template was selected, selection falls back to the first
// remaining one and the session re-seeds.
func (m *Manager) DeleteWorkout(ctx context.Context, id int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.refresh(ctx); err != nil {
		return false, err
	}
	if len(m.workouts) <= 1 {
		return false, nil
	}
	if err := m.store.DeleteWorkout(ctx, id); err != nil {
		return false, err
	}
	if err := m.refresh(ctx); err != nil {
		return false, err
	}

	if m.selectedID != nil && *m.selectedID == id && len(m.workouts) > 0 {
		m.applySelection(m.workouts[0])
	}
	return true, nil
}

// AddExercise appends a catalog entry and returns its id.
func (m *Manager) AddExercise(ctx context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, err := m.store.CreateExercise(ctx, name)
	if err != nil {
		return "", err
	}
	return id, m.refreshWithView(ctx)
}

// RenameExercise renames a catalog entry.
func (m *Manager) RenameExercise(ctx context.Context, id, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.UpdateExercise(ctx, id, name); err != nil {
		return err
	}
	return m.refreshWithView(ctx)
}

// RemoveExercise deletes a catalog entry. The store cascades the id out
// of every template; the filtered view refreshes in case the active
// template changed. The in-progress session is not re-seeded.
func (m *Manager) RemoveExercise(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.DeleteExercise(ctx, id); err != nil {
		return err
	}
	return m.refreshWithView(ctx)
}

// NextWorkoutName suggests a default name for a new template.
func (m *Manager) NextWorkoutName(ctx context.Context) (string, error) {
	return m.store.NextWorkoutName(ctx)
}

// Exercises returns the filtered view: the active template's exercises
// in template order.
func (m *Manager) Exercises() []models.Exercise {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Exercise(nil), m.view...)
}

// AllExercises returns the full catalog.
func (m *Manager) AllExercises() []models.Exercise {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Exercise(nil), m.exercises...)
}

// Workouts returns all templates in stable id order.
func (m *Manager) Workouts() []models.Workout {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Workout(nil), m.workouts...)
}

// SelectedID returns the active template id, or nil when none exists.
func (m *Manager) SelectedID() *int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selectedID
}

// refresh reloads both lists from the store. Callers hold the lock.
func (m *Manager) refresh(ctx context.Context) error {
	exercises, err := m.store.GetExercises(ctx)
	if err != nil {
		return err
	}
	workouts, err := m.store.GetWorkouts(ctx)
	if err != nil {
		return err
	}
	m.exercises = exercises
	m.workouts = workouts
	return nil
}

// refreshWithView reloads the lists and rebuilds the filtered view for
// the current selection without re-seeding the session.
func (m *Manager) refreshWithView(ctx context.Context) error {
	if err := m.refresh(ctx); err != nil {
		return err
	}
	if m.selectedID != nil {
		if w := m.findWorkout(*m.selectedID); w != nil {
			m.view = m.filterView(*w)
		}
	}
	return nil
}

func (m *Manager) findWorkout(id int) *models.Workout {
	for i := range m.workouts {
		if m.workouts[i].ID == id {
			return &m.workouts[i]
		}
	}
	return nil
}

// applySelection sets the active template, rebuilds the filtered view,
// and seeds a fresh session sized to the template. Callers hold the lock.
func (m *Manager) applySelection(w models.Workout) {
	id := w.ID
	m.selectedID = &id
	m.view = m.filterView(w)
	m.seeder.Seed(&id, w.Rounds)
}

// filterView maps the template's exercise ids onto catalog entries,
// preserving template order and dropping ids whose exercise no longer
// exists.
func (m *Manager) filterView(w models.Workout) []models.Exercise {
	byID := make(map[string]models.Exercise, len(m.exercises))
	for _, e := range m.exercises {
		byID[e.ID] = e
	}
	var view []models.Exercise
	for _, id := range w.ExerciseIDs {
		if e, ok := byID[id]; ok {
			view = append(view, e)
		}
	}
	return view
}
