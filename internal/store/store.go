// Package store is the single source of truth for arena state. It owns the
// user profile, both session managers and their histories, applies every
// mutation under one lock, and pushes the persisted subset (profile plus
// workout history) through the persistence boundary best-effort: a failed
// save is logged, never rolled back into memory.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/claude/neptune/internal/models"
	"github.com/claude/neptune/internal/progression"
	"github.com/claude/neptune/internal/session"
)

// PersistedState is the subset of store state that survives a restart.
// Battle history and in-flight sessions are deliberately excluded: a
// restart mid-session abandons it.
type PersistedState struct {
	User           models.User
	WorkoutHistory []models.WorkoutSession
}

// Persister is the persistence boundary. Implementations must be safe for
// use from a single goroutine at a time; the store serializes calls.
type Persister interface {
	// Load returns the previously saved state, or nil if none exists.
	Load(ctx context.Context) (*PersistedState, error)
	// SaveUser writes the profile, replacing any previous version.
	SaveUser(ctx context.Context, user models.User) error
	// AppendWorkout appends one completed workout to the history.
	AppendWorkout(ctx context.Context, s models.WorkoutSession) error
	// Reset clears all persisted state back to empty.
	Reset(ctx context.Context) error
}

// Store aggregates user progression and both session state machines behind
// a single mutation surface. All operations are atomic: each takes the
// lock, applies one transition, and returns.
type Store struct {
	mu sync.Mutex

	user    models.User
	workout *session.WorkoutManager
	battle  *session.BattleManager

	workoutTicker *Ticker
	battleTicker  *Ticker

	persister Persister
	log       *slog.Logger
}

// New builds a store, rehydrating the profile and workout history from the
// persister. A load failure falls back to a default profile: persistence
// problems must never prevent the arena from opening.
func New(ctx context.Context, p Persister, log *slog.Logger) *Store {
	s := &Store{
		user:      models.DefaultUser(),
		workout:   session.NewWorkoutManager(),
		battle:    session.NewBattleManager(),
		persister: p,
		log:       log,
	}

	if p == nil {
		return s
	}
	state, err := p.Load(ctx)
	if err != nil {
		log.Warn("loading persisted state failed, starting fresh", "error", err)
		return s
	}
	if state != nil {
		s.user = state.User
		s.workout.RestoreHistory(state.WorkoutHistory)
		log.Info("state rehydrated", "energy", state.User.Energy, "workouts", len(state.WorkoutHistory))
	}
	return s
}

// AttachTickers wires internal clocks that drive elapsed-time updates at
// the configured granularity. Without tickers the presentation layer is
// expected to deliver ticks itself.
func (s *Store) AttachTickers(workoutInterval, battleInterval time.Duration) {
	s.workoutTicker = NewTicker(workoutInterval, s.TickWorkout)
	s.battleTicker = NewTicker(battleInterval, s.TickBattle)
}

// Close stops any attached tickers.
func (s *Store) Close() {
	if s.workoutTicker != nil {
		s.workoutTicker.Stop()
	}
	if s.battleTicker != nil {
		s.battleTicker.Stop()
	}
}

// persistUser saves the profile best-effort.
func (s *Store) persistUser(ctx context.Context) {
	if s.persister == nil {
		return
	}
	if err := s.persister.SaveUser(ctx, s.user); err != nil {
		s.log.Warn("persisting profile failed", "error", err)
	}
}

// --- Profile operations ---

// SetName records the user's name, completing onboarding.
func (s *Store) SetName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("set name: empty name: %w", models.ErrInvalidArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user.Name = name
	s.persistUser(ctx)
	return nil
}

// SetAvatar records the avatar reference. The value is opaque to the core:
// an emoji or a photo URI, the presentation layer decides.
func (s *Store) SetAvatar(ctx context.Context, avatar string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user.Avatar = avatar
	s.persistUser(ctx)
}

// UpdateStreak sets the consecutive-day counter, maintained externally,
// and re-evaluates streak achievements.
func (s *Store) UpdateStreak(ctx context.Context, streak int) error {
	if streak < 0 {
		return fmt.Errorf("update streak: negative streak %d: %w", streak, models.ErrInvalidArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user.Streak = streak
	s.user = progression.EvaluateAchievements(s.user, time.Now())
	s.persistUser(ctx)
	return nil
}

// ResetProfile wipes the profile back to defaults and clears persisted
// state. Session histories and any in-flight sessions are untouched.
func (s *Store) ResetProfile(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = models.DefaultUser()
	if s.persister != nil {
		if err := s.persister.Reset(ctx); err != nil {
			s.log.Warn("resetting persisted state failed", "error", err)
		}
	}
}

// --- Workout operations ---

// StartWorkout begins a solo session and starts its clock.
func (s *Store) StartWorkout(ctx context.Context, exerciseType models.ExerciseType) (models.WorkoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, err := s.workout.Start(exerciseType)
	if err != nil {
		return models.WorkoutSession{}, err
	}
	if s.workoutTicker != nil {
		s.workoutTicker.Start()
	}
	s.log.Info("workout started", "id", ws.ID, "exercise", ws.ExerciseType)
	return ws, nil
}

// TickWorkout delivers cumulative elapsed time to the current workout.
// Stale ticks are silent no-ops.
func (s *Store) TickWorkout(elapsedMs int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workout.Tick(elapsedMs)
}

// PauseWorkout suspends the current workout and its clock.
func (s *Store) PauseWorkout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.workout.Pause(); err != nil {
		return err
	}
	if s.workoutTicker != nil {
		s.workoutTicker.Pause()
	}
	return nil
}

// ResumeWorkout continues a paused workout.
func (s *Store) ResumeWorkout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.workout.Resume(); err != nil {
		return err
	}
	if s.workoutTicker != nil {
		s.workoutTicker.Resume()
	}
	return nil
}

// CompleteWorkout finishes the current workout and applies the whole
// reward in one transition: energy award, rank recompute, workout counter,
// achievement evaluation, persistence. Returns the completed session and
// the updated profile.
func (s *Store) CompleteWorkout(ctx context.Context) (models.WorkoutSession, models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	done, err := s.workout.Complete()
	if err != nil {
		return models.WorkoutSession{}, models.User{}, err
	}
	if s.workoutTicker != nil {
		s.workoutTicker.Stop()
	}

	user, err := progression.AwardEnergy(s.user, done.EnergyGained)
	if err != nil {
		// EnergyGained is derived from a non-negative duration, so this
		// cannot happen through the normal flow.
		return done, s.user, err
	}
	user.TotalWorkouts++
	user = progression.EvaluateAchievements(user, time.Now())
	s.user = user

	s.persistUser(ctx)
	if s.persister != nil {
		if err := s.persister.AppendWorkout(ctx, done); err != nil {
			s.log.Warn("persisting workout failed", "id", done.ID, "error", err)
		}
	}
	s.log.Info("workout completed", "id", done.ID, "energy", done.EnergyGained, "rank", s.user.Rank)
	return done, s.user, nil
}

// CancelWorkout discards the current workout and stops its clock.
func (s *Store) CancelWorkout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.workout.Cancel(); err != nil {
		return err
	}
	if s.workoutTicker != nil {
		s.workoutTicker.Stop()
	}
	return nil
}

// --- Battle operations ---

// CreateBattle sets up a new battle in the not-yet-started state.
func (s *Store) CreateBattle(players []session.PlayerSetup, exerciseType models.ExerciseType) (models.BattleSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.battle.Create(players, exerciseType)
	if err != nil {
		return models.BattleSession{}, err
	}
	if s.battleTicker != nil {
		s.battleTicker.Stop()
	}
	s.log.Info("battle created", "id", b.ID, "players", len(b.Players))
	return b, nil
}

// StartBattle begins the contest and starts the battle clock from zero.
func (s *Store) StartBattle() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.battle.Start(); err != nil {
		return err
	}
	if s.battleTicker != nil {
		s.battleTicker.Start()
	}
	return nil
}

// TickBattle delivers cumulative elapsed time to the current battle.
// Stale ticks are silent no-ops.
func (s *Store) TickBattle(elapsedMs int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.battle.Tick(elapsedMs)
}

// EliminatePlayer removes a participant from the contest. When the
// elimination decides the battle, the clock stops with it.
func (s *Store) EliminatePlayer(playerID string) (models.BattleSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.battle.Eliminate(playerID)
	if !s.battle.Active() && s.battleTicker != nil {
		s.battleTicker.Pause()
	}
	b, ok := s.battle.Current()
	if err != nil {
		return b, err
	}
	if !ok {
		return b, fmt.Errorf("eliminate: no battle in flight: %w", models.ErrInvalidState)
	}
	if b.Winner != "" {
		s.log.Info("battle decided", "id", b.ID, "winner", b.Winner)
	}
	return b, nil
}

// PauseBattle suspends a running battle and its clock.
func (s *Store) PauseBattle() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.battle.Pause(); err != nil {
		return err
	}
	if s.battleTicker != nil {
		s.battleTicker.Pause()
	}
	return nil
}

// ResumeBattle continues a paused battle. Decided battles stay paused.
func (s *Store) ResumeBattle() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.battle.Resume(); err != nil {
		return err
	}
	if s.battle.Active() && s.battleTicker != nil {
		s.battleTicker.Resume()
	}
	return nil
}

// CompleteBattle records the battle in the in-memory history and stops the
// clock. Battle history is never persisted.
func (s *Store) CompleteBattle() (models.BattleSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	done, err := s.battle.Complete()
	if err != nil {
		return models.BattleSession{}, err
	}
	if s.battleTicker != nil {
		s.battleTicker.Stop()
	}
	s.log.Info("battle completed", "id", done.ID, "winner", done.Winner, "duration_ms", done.Duration)
	return done, nil
}

// CancelBattle discards the current battle and stops its clock.
func (s *Store) CancelBattle() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.battle.Cancel(); err != nil {
		return err
	}
	if s.battleTicker != nil {
		s.battleTicker.Stop()
	}
	return nil
}
