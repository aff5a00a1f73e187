package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/claude/neptune/internal/models"
	"github.com/claude/neptune/internal/store"
	_ "modernc.org/sqlite"
)

// SQLite persists arena state in a single local database file.
type SQLite struct {
	db *sql.DB
}

// Compile-time check: *SQLite satisfies the store's persistence boundary.
var _ store.Persister = (*SQLite)(nil)

// OpenSQLite opens (or creates) the database file, creating parent
// directories as needed. Run migrations before first use.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data dir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Load reads the persisted profile and workout history. Returns nil when
// no profile has ever been saved.
func (s *SQLite) Load(ctx context.Context) (*store.PersistedState, error) {
	state := &store.PersistedState{}

	row := s.db.QueryRowContext(ctx,
		`SELECT name, avatar, energy, rank, total_workouts, streak FROM users WHERE id = 1`)
	var rank string
	err := row.Scan(&state.User.Name, &state.User.Avatar, &state.User.Energy,
		&rank, &state.User.TotalWorkouts, &state.User.Streak)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w: %w", err, models.ErrPersistence)
	}
	state.User.Rank = models.Rank(rank)

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, icon, unlocked_at FROM achievements ORDER BY unlocked_at`)
	if err != nil {
		return nil, fmt.Errorf("loading achievements: %w: %w", err, models.ErrPersistence)
	}
	defer rows.Close()
	for rows.Next() {
		var a models.Achievement
		var unlockedMs int64
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Icon, &unlockedMs); err != nil {
			return nil, fmt.Errorf("scanning achievement: %w: %w", err, models.ErrPersistence)
		}
		a.UnlockedAt = time.UnixMilli(unlockedMs)
		state.User.Achievements = append(state.User.Achievements, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading achievements: %w: %w", err, models.ErrPersistence)
	}

	wrows, err := s.db.QueryContext(ctx,
		`SELECT id, exercise_type, duration_ms, energy_gained, completed_at
		 FROM workout_history ORDER BY completed_at`)
	if err != nil {
		return nil, fmt.Errorf("loading workout history: %w: %w", err, models.ErrPersistence)
	}
	defer wrows.Close()
	for wrows.Next() {
		var ws models.WorkoutSession
		var exercise string
		var completedMs int64
		if err := wrows.Scan(&ws.ID, &exercise, &ws.Duration, &ws.EnergyGained, &completedMs); err != nil {
			return nil, fmt.Errorf("scanning workout: %w: %w", err, models.ErrPersistence)
		}
		ws.ExerciseType = models.ExerciseType(exercise)
		ws.CompletedAt = time.UnixMilli(completedMs)
		state.WorkoutHistory = append(state.WorkoutHistory, ws)
	}
	if err := wrows.Err(); err != nil {
		return nil, fmt.Errorf("loading workout history: %w: %w", err, models.ErrPersistence)
	}

	return state, nil
}

// SaveUser writes the profile and its achievements, replacing any
// previous version.
func (s *SQLite) SaveUser(ctx context.Context, user models.User) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("saving profile: %w: %w", err, models.ErrPersistence)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (id, name, avatar, energy, rank, total_workouts, streak)
		 VALUES (1, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   name = excluded.name, avatar = excluded.avatar, energy = excluded.energy,
		   rank = excluded.rank, total_workouts = excluded.total_workouts, streak = excluded.streak`,
		user.Name, user.Avatar, user.Energy, string(user.Rank), user.TotalWorkouts, user.Streak)
	if err != nil {
		return fmt.Errorf("saving profile: %w: %w", err, models.ErrPersistence)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM achievements`); err != nil {
		return fmt.Errorf("saving achievements: %w: %w", err, models.ErrPersistence)
	}
	for _, a := range user.Achievements {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO achievements (id, name, description, icon, unlocked_at) VALUES (?, ?, ?, ?, ?)`,
			a.ID, a.Name, a.Description, a.Icon, a.UnlockedAt.UnixMilli())
		if err != nil {
			return fmt.Errorf("saving achievement %s: %w: %w", a.ID, err, models.ErrPersistence)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("saving profile: %w: %w", err, models.ErrPersistence)
	}
	return nil
}

// AppendWorkout appends one completed workout to the history.
func (s *SQLite) AppendWorkout(ctx context.Context, ws models.WorkoutSession) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO workout_history (id, exercise_type, duration_ms, energy_gained, completed_at)
		 VALUES (?, ?, ?, ?, ?) ON CONFLICT (id) DO NOTHING`,
		ws.ID, string(ws.ExerciseType), ws.Duration, ws.EnergyGained, ws.CompletedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("appending workout %s: %w: %w", ws.ID, err, models.ErrPersistence)
	}
	return nil
}

// Reset clears all persisted state.
func (s *SQLite) Reset(ctx context.Context) error {
	for _, table := range []string{"workout_history", "achievements", "users"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("resetting %s: %w: %w", table, err, models.ErrPersistence)
		}
	}
	return nil
}
