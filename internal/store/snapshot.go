package store

import (
	"time"

	"github.com/claude/neptune/internal/models"
	"github.com/claude/neptune/internal/progression"
)

// ProfileSnapshot is the read-only profile view handed to the
// presentation layer.
type ProfileSnapshot struct {
	models.User
	Onboarded     bool        `json:"onboarded"`
	Quote         string      `json:"quote"`
	NextRank      models.Rank `json:"nextRank,omitempty"`
	EnergyToNext  int         `json:"energyToNext,omitempty"`
	AtHighestRank bool        `json:"atHighestRank"`
}

// WorkoutSnapshot is the current solo session plus its running flag.
type WorkoutSnapshot struct {
	models.WorkoutSession
	Active bool `json:"active"`
}

// BattleSnapshot is the current battle plus its derived views: running
// flag, active and eliminated player lists, and the defensive
// inconsistent-state signal.
type BattleSnapshot struct {
	models.BattleSession
	Active            bool                  `json:"active"`
	Started           bool                  `json:"started"`
	ActivePlayers     []models.BattlePlayer `json:"activePlayers"`
	EliminatedPlayers []models.BattlePlayer `json:"eliminatedPlayers"`
	Inconsistent      bool                  `json:"inconsistent,omitempty"`
}

// Profile returns the current profile view.
func (s *Store) Profile() ProfileSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := ProfileSnapshot{
		User:      s.user,
		Onboarded: s.user.Onboarded(),
		Quote:     progression.QuoteOfTheDay(time.Now()),
	}
	if next, remaining, ok := progression.NextRank(s.user.Energy); ok {
		snap.NextRank = next
		snap.EnergyToNext = remaining
	} else {
		snap.AtHighestRank = true
	}
	return snap
}

// CurrentWorkout returns the in-flight solo session, if any.
func (s *Store) CurrentWorkout() (WorkoutSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, ok := s.workout.Current()
	if !ok {
		return WorkoutSnapshot{}, false
	}
	return WorkoutSnapshot{WorkoutSession: ws, Active: s.workout.Active()}, true
}

// WorkoutHistory returns the completed solo sessions in completion order.
func (s *Store) WorkoutHistory() []models.WorkoutSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workout.History()
}

// CurrentBattle returns the in-flight battle with its derived lists, if any.
func (s *Store) CurrentBattle() (BattleSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.battle.Current()
	if !ok {
		return BattleSnapshot{}, false
	}
	return BattleSnapshot{
		BattleSession:     b,
		Active:            s.battle.Active(),
		Started:           s.battle.Started(),
		ActivePlayers:     b.ActivePlayers(),
		EliminatedPlayers: b.EliminatedPlayers(),
		Inconsistent:      b.Inconsistent(),
	}, true
}

// BattleHistory returns the completed battles in completion order.
// Memory-only: battle history does not survive a restart.
func (s *Store) BattleHistory() []models.BattleSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.battle.History()
}
