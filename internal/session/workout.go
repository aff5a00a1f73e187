// Package session implements the two in-memory session state machines: the
// solo workout timer and the last-one-standing battle. Managers are not
// safe for concurrent use; the store serializes access to them.
package session

import (
	"fmt"
	"time"

	"github.com/claude/neptune/internal/models"
	"github.com/google/uuid"
)

// newSessionID returns a unique, creation-time-ordered session id.
func newSessionID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// WorkoutManager owns the current solo workout session and the completed
// history. Lifecycle: Idle → Running ⇄ Paused → (Completed | Cancelled),
// returning to Idle after either terminal transition.
type WorkoutManager struct {
	current *models.WorkoutSession
	active  bool
	history []models.WorkoutSession
}

// NewWorkoutManager returns an idle manager with empty history.
func NewWorkoutManager() *WorkoutManager {
	return &WorkoutManager{}
}

// Start begins a new workout session of the given type and marks it
// running. Fails if a session is already in flight.
func (m *WorkoutManager) Start(exerciseType models.ExerciseType) (models.WorkoutSession, error) {
	if m.current != nil {
		return models.WorkoutSession{}, fmt.Errorf("start workout: session %s already in flight: %w", m.current.ID, models.ErrInvalidState)
	}
	if _, ok := models.ParseExerciseType(string(exerciseType)); !ok {
		return models.WorkoutSession{}, fmt.Errorf("start workout: unknown exercise type %q: %w", exerciseType, models.ErrInvalidArgument)
	}
	m.current = &models.WorkoutSession{
		ID:           newSessionID(),
		ExerciseType: exerciseType,
		CompletedAt:  time.Now(),
	}
	m.active = true
	return *m.current, nil
}

// Tick records the caller's cumulative elapsed time. Silently ignored when
// no session is running, so a tick that races a complete or cancel is
// absorbed rather than resurrecting state.
func (m *WorkoutManager) Tick(elapsedMs int64) {
	if m.current == nil || !m.active || elapsedMs < 0 {
		return
	}
	m.current.Duration = elapsedMs
}

// Pause suspends the running session. Ticks are ignored while paused.
func (m *WorkoutManager) Pause() error {
	if m.current == nil {
		return fmt.Errorf("pause workout: no session in flight: %w", models.ErrInvalidState)
	}
	m.active = false
	return nil
}

// Resume continues a paused session.
func (m *WorkoutManager) Resume() error {
	if m.current == nil {
		return fmt.Errorf("resume workout: no session in flight: %w", models.ErrInvalidState)
	}
	m.active = true
	return nil
}

// Complete finishes the current session: energy gained is one point per
// full second held, the completion time is stamped, and the session joins
// the history. The caller is responsible for awarding the energy to the
// user; the manager only reports it.
func (m *WorkoutManager) Complete() (models.WorkoutSession, error) {
	if m.current == nil {
		return models.WorkoutSession{}, fmt.Errorf("complete workout: no session in flight: %w", models.ErrInvalidState)
	}
	done := *m.current
	done.EnergyGained = int(done.Duration / 1000)
	done.CompletedAt = time.Now()
	m.history = append(m.history, done)
	m.current = nil
	m.active = false
	return done, nil
}

// Cancel discards the current session without recording it.
func (m *WorkoutManager) Cancel() error {
	if m.current == nil {
		return fmt.Errorf("cancel workout: no session in flight: %w", models.ErrInvalidState)
	}
	m.current = nil
	m.active = false
	return nil
}

// Current returns a snapshot of the in-flight session, if any.
func (m *WorkoutManager) Current() (models.WorkoutSession, bool) {
	if m.current == nil {
		return models.WorkoutSession{}, false
	}
	return *m.current, true
}

// Active reports whether the current session is running (not paused).
func (m *WorkoutManager) Active() bool {
	return m.current != nil && m.active
}

// History returns the completed sessions in completion order.
func (m *WorkoutManager) History() []models.WorkoutSession {
	out := make([]models.WorkoutSession, len(m.history))
	copy(out, m.history)
	return out
}

// RestoreHistory replaces the completed-session history, used when
// rehydrating persisted state at startup.
func (m *WorkoutManager) RestoreHistory(history []models.WorkoutSession) {
	m.history = make([]models.WorkoutSession, len(history))
	copy(m.history, history)
}
