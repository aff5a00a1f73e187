package mcp

import (
	"context"

	"github.com/claude/neptune/internal/models"
	"github.com/claude/neptune/internal/store"
)

// DataSource abstracts the arena state for MCP tools. Both the in-process
// store (local mode) and HTTPClient (remote via the REST API) satisfy it.
// Current-session lookups return nil when nothing is in flight.
type DataSource interface {
	Profile(ctx context.Context) (store.ProfileSnapshot, error)
	CurrentWorkout(ctx context.Context) (*store.WorkoutSnapshot, error)
	WorkoutHistory(ctx context.Context) ([]models.WorkoutSession, error)
	CurrentBattle(ctx context.Context) (*store.BattleSnapshot, error)
	BattleHistory(ctx context.Context) ([]models.BattleSession, error)
}

// StoreSource adapts the in-process store to the DataSource interface.
type StoreSource struct {
	Store *store.Store
}

var _ DataSource = StoreSource{}

func (s StoreSource) Profile(ctx context.Context) (store.ProfileSnapshot, error) {
	return s.Store.Profile(), nil
}

func (s StoreSource) CurrentWorkout(ctx context.Context) (*store.WorkoutSnapshot, error) {
	snap, ok := s.Store.CurrentWorkout()
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (s StoreSource) WorkoutHistory(ctx context.Context) ([]models.WorkoutSession, error) {
	return s.Store.WorkoutHistory(), nil
}

func (s StoreSource) CurrentBattle(ctx context.Context) (*store.BattleSnapshot, error) {
	snap, ok := s.Store.CurrentBattle()
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (s StoreSource) BattleHistory(ctx context.Context) ([]models.BattleSession, error) {
	return s.Store.BattleHistory(), nil
}
