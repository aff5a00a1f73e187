package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/neptune/internal/models"
	"github.com/claude/neptune/internal/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres persists arena state in a PostgreSQL database, for deployments
// where several devices share one profile server.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ store.Persister = (*Postgres)(nil)

// OpenPostgres creates a connection pool and verifies connectivity.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

// Load reads the persisted profile and workout history. Returns nil when
// no profile has ever been saved.
func (p *Postgres) Load(ctx context.Context) (*store.PersistedState, error) {
	state := &store.PersistedState{}

	var rank string
	err := p.pool.QueryRow(ctx,
		`SELECT name, avatar, energy, rank, total_workouts, streak FROM users WHERE id = 1`).
		Scan(&state.User.Name, &state.User.Avatar, &state.User.Energy,
			&rank, &state.User.TotalWorkouts, &state.User.Streak)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w: %w", err, models.ErrPersistence)
	}
	state.User.Rank = models.Rank(rank)

	rows, err := p.pool.Query(ctx,
		`SELECT id, name, description, icon, unlocked_at FROM achievements ORDER BY unlocked_at`)
	if err != nil {
		return nil, fmt.Errorf("loading achievements: %w: %w", err, models.ErrPersistence)
	}
	defer rows.Close()
	for rows.Next() {
		var a models.Achievement
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Icon, &a.UnlockedAt); err != nil {
			return nil, fmt.Errorf("scanning achievement: %w: %w", err, models.ErrPersistence)
		}
		state.User.Achievements = append(state.User.Achievements, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading achievements: %w: %w", err, models.ErrPersistence)
	}

	wrows, err := p.pool.Query(ctx,
		`SELECT id, exercise_type, duration_ms, energy_gained, completed_at
		 FROM workout_history ORDER BY completed_at`)
	if err != nil {
		return nil, fmt.Errorf("loading workout history: %w: %w", err, models.ErrPersistence)
	}
	defer wrows.Close()
	for wrows.Next() {
		var ws models.WorkoutSession
		var exercise string
		if err := wrows.Scan(&ws.ID, &exercise, &ws.Duration, &ws.EnergyGained, &ws.CompletedAt); err != nil {
			return nil, fmt.Errorf("scanning workout: %w: %w", err, models.ErrPersistence)
		}
		ws.ExerciseType = models.ExerciseType(exercise)
		state.WorkoutHistory = append(state.WorkoutHistory, ws)
	}
	if err := wrows.Err(); err != nil {
		return nil, fmt.Errorf("loading workout history: %w: %w", err, models.ErrPersistence)
	}

	return state, nil
}

// SaveUser writes the profile and its achievements, replacing any
// previous version.
func (p *Postgres) SaveUser(ctx context.Context, user models.User) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("saving profile: %w: %w", err, models.ErrPersistence)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO users (id, name, avatar, energy, rank, total_workouts, streak)
		 VALUES (1, $1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name, avatar = EXCLUDED.avatar, energy = EXCLUDED.energy,
		   rank = EXCLUDED.rank, total_workouts = EXCLUDED.total_workouts, streak = EXCLUDED.streak`,
		user.Name, user.Avatar, user.Energy, string(user.Rank), user.TotalWorkouts, user.Streak)
	if err != nil {
		return fmt.Errorf("saving profile: %w: %w", err, models.ErrPersistence)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM achievements`); err != nil {
		return fmt.Errorf("saving achievements: %w: %w", err, models.ErrPersistence)
	}
	for _, a := range user.Achievements {
		_, err := tx.Exec(ctx,
			`INSERT INTO achievements (id, name, description, icon, unlocked_at) VALUES ($1, $2, $3, $4, $5)`,
			a.ID, a.Name, a.Description, a.Icon, a.UnlockedAt)
		if err != nil {
			return fmt.Errorf("saving achievement %s: %w: %w", a.ID, err, models.ErrPersistence)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("saving profile: %w: %w", err, models.ErrPersistence)
	}
	return nil
}

// AppendWorkout appends one completed workout to the history.
func (p *Postgres) AppendWorkout(ctx context.Context, ws models.WorkoutSession) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO workout_history (id, exercise_type, duration_ms, energy_gained, completed_at)
		 VALUES ($1, $2, $3, $4, $5) ON CONFLICT (id) DO NOTHING`,
		ws.ID, string(ws.ExerciseType), ws.Duration, ws.EnergyGained, ws.CompletedAt)
	if err != nil {
		return fmt.Errorf("appending workout %s: %w: %w", ws.ID, err, models.ErrPersistence)
	}
	return nil
}

// Reset clears all persisted state.
func (p *Postgres) Reset(ctx context.Context) error {
	for _, table := range []string{"workout_history", "achievements", "users"} {
		if _, err := p.pool.Exec(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("resetting %s: %w: %w", table, err, models.ErrPersistence)
		}
	}
	return nil
}
