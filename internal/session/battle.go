package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/claude/neptune/internal/models"
)

// Battle size limits. A contest needs an opponent, and the setup screen
// offers six colors.
const (
	MinBattlePlayers = 2
	MaxBattlePlayers = 6
)

// PlayerSetup is the input for one battle participant.
type PlayerSetup struct {
	Name  string
	Color models.PlayerColor
}

// BattleManager owns the current battle and the completed battle history.
// Lifecycle: Idle → Created → Running ⇄ Paused → Finished(winner) →
// Completed | Idle, with Cancel reachable from any non-idle state.
type BattleManager struct {
	current *models.BattleSession
	active  bool
	started bool
	history []models.BattleSession
}

// NewBattleManager returns an idle manager with empty history.
func NewBattleManager() *BattleManager {
	return &BattleManager{}
}

// Create sets up a new battle in the not-yet-started state. Players get
// stable ids in list order. An in-flight battle is replaced, matching the
// setup-screen flow where building a new battle abandons the old one.
// Duplicate colors are allowed here; uniqueness is a setup-UI concern.
func (m *BattleManager) Create(players []PlayerSetup, exerciseType models.ExerciseType) (models.BattleSession, error) {
	if len(players) < MinBattlePlayers || len(players) > MaxBattlePlayers {
		return models.BattleSession{}, fmt.Errorf("create battle: need %d-%d players, got %d: %w",
			MinBattlePlayers, MaxBattlePlayers, len(players), models.ErrInvalidArgument)
	}
	if _, ok := models.ParseExerciseType(string(exerciseType)); !ok {
		return models.BattleSession{}, fmt.Errorf("create battle: unknown exercise type %q: %w", exerciseType, models.ErrInvalidArgument)
	}

	battle := &models.BattleSession{
		ID:           newSessionID(),
		ExerciseType: exerciseType,
		Players:      make([]models.BattlePlayer, 0, len(players)),
		CompletedAt:  time.Now(),
	}
	for i, p := range players {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return models.BattleSession{}, fmt.Errorf("create battle: player %d has empty name: %w", i, models.ErrInvalidArgument)
		}
		if _, ok := models.ParsePlayerColor(string(p.Color)); !ok {
			return models.BattleSession{}, fmt.Errorf("create battle: player %d has unknown color %q: %w", i, p.Color, models.ErrInvalidArgument)
		}
		battle.Players = append(battle.Players, models.BattlePlayer{
			ID:       fmt.Sprintf("player-%d", i),
			Name:     name,
			Color:    p.Color,
			IsActive: true,
		})
	}

	m.current = battle
	m.active = false
	m.started = false
	return m.snapshot(), nil
}

// Start begins the contest. The clock restarts from zero at this moment,
// independent of when the battle was created.
func (m *BattleManager) Start() error {
	if m.current == nil {
		return fmt.Errorf("start battle: no battle in flight: %w", models.ErrInvalidState)
	}
	if m.started {
		return fmt.Errorf("start battle: battle %s already started: %w", m.current.ID, models.ErrInvalidState)
	}
	m.started = true
	m.active = true
	m.current.Duration = 0
	return nil
}

// Tick records the battle-wide elapsed time and mirrors it onto every
// still-active player. All active players share one clock; eliminated
// players keep their frozen value. Silently ignored when the battle is not
// running.
func (m *BattleManager) Tick(elapsedMs int64) {
	if m.current == nil || !m.active || elapsedMs < 0 {
		return
	}
	m.current.Duration = elapsedMs
	for i := range m.current.Players {
		if m.current.Players[i].IsActive {
			m.current.Players[i].TimeHeld = elapsedMs
		}
	}
}

// Eliminate takes a player out of the contest, freezing their held time.
// When exactly one active player remains, that player becomes the winner
// and the battle auto-pauses. A decided battle accepts no further
// eliminations. If elimination somehow leaves zero active players, no
// winner is guessed and the inconsistent state is reported as an error.
func (m *BattleManager) Eliminate(playerID string) error {
	if m.current == nil {
		return fmt.Errorf("eliminate: no battle in flight: %w", models.ErrInvalidState)
	}
	if m.current.Winner != "" {
		return fmt.Errorf("eliminate: battle %s already decided: %w", m.current.ID, models.ErrInvalidState)
	}

	found := false
	for i := range m.current.Players {
		if m.current.Players[i].ID == playerID {
			m.current.Players[i].IsActive = false
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("eliminate: no player %q in battle %s: %w", playerID, m.current.ID, models.ErrNotFound)
	}

	active := m.current.ActivePlayers()
	switch len(active) {
	case 1:
		m.current.Winner = active[0].ID
		m.active = false
	case 0:
		m.active = false
		return fmt.Errorf("eliminate: battle %s has no active players and no winner: %w", m.current.ID, models.ErrInvalidState)
	}
	return nil
}

// Pause suspends a running battle. No-op when nothing is running or the
// battle is already decided.
func (m *BattleManager) Pause() error {
	if m.current == nil || m.current.Winner != "" {
		return nil
	}
	m.active = false
	return nil
}

// Resume continues a paused battle. A decided battle cannot be resumed.
func (m *BattleManager) Resume() error {
	if m.current == nil || m.current.Winner != "" {
		return nil
	}
	if !m.started {
		return fmt.Errorf("resume battle: battle %s not started: %w", m.current.ID, models.ErrInvalidState)
	}
	m.active = true
	return nil
}

// Complete records the battle in the history with final held times and the
// winner, if decided, then returns the manager to idle.
func (m *BattleManager) Complete() (models.BattleSession, error) {
	if m.current == nil {
		return models.BattleSession{}, fmt.Errorf("complete battle: no battle in flight: %w", models.ErrInvalidState)
	}
	done := m.snapshot()
	done.CompletedAt = time.Now()
	m.history = append(m.history, done)
	m.current = nil
	m.active = false
	m.started = false
	return done, nil
}

// Cancel discards the current battle without recording it.
func (m *BattleManager) Cancel() error {
	if m.current == nil {
		return fmt.Errorf("cancel battle: no battle in flight: %w", models.ErrInvalidState)
	}
	m.current = nil
	m.active = false
	m.started = false
	return nil
}

// Current returns a snapshot of the in-flight battle, if any.
func (m *BattleManager) Current() (models.BattleSession, bool) {
	if m.current == nil {
		return models.BattleSession{}, false
	}
	return m.snapshot(), true
}

// Active reports whether the current battle is running (started, not
// paused, not decided).
func (m *BattleManager) Active() bool {
	return m.current != nil && m.active
}

// Started reports whether the current battle has been started.
func (m *BattleManager) Started() bool {
	return m.current != nil && m.started
}

// History returns the completed battles in completion order.
func (m *BattleManager) History() []models.BattleSession {
	out := make([]models.BattleSession, len(m.history))
	copy(out, m.history)
	return out
}

// snapshot copies the current battle, detaching the player slice so
// callers cannot mutate manager state.
func (m *BattleManager) snapshot() models.BattleSession {
	b := *m.current
	b.Players = make([]models.BattlePlayer, len(m.current.Players))
	copy(b.Players, m.current.Players)
	return b
}
