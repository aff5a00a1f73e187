package models

import (
	"strings"
	"time"
)

// ExerciseType identifies the exercise performed in a session.
type ExerciseType string

const (
	ExercisePushups          ExerciseType = "pushups"
	ExerciseSquats           ExerciseType = "squats"
	ExercisePlank            ExerciseType = "plank"
	ExerciseBurpees          ExerciseType = "burpees"
	ExerciseMountainClimbers ExerciseType = "mountain-climbers"
)

var exerciseTypes = map[ExerciseType]bool{
	ExercisePushups:          true,
	ExerciseSquats:           true,
	ExercisePlank:            true,
	ExerciseBurpees:          true,
	ExerciseMountainClimbers: true,
}

// ParseExerciseType validates a raw exercise type string.
func ParseExerciseType(raw string) (ExerciseType, bool) {
	et := ExerciseType(strings.ToLower(strings.TrimSpace(raw)))
	return et, exerciseTypes[et]
}

// PlayerColor is the color a battle participant picks during setup. The
// setup UI steers players toward unique colors; the core does not enforce
// uniqueness.
type PlayerColor string

const (
	ColorBlue   PlayerColor = "blue"
	ColorRed    PlayerColor = "red"
	ColorGreen  PlayerColor = "green"
	ColorYellow PlayerColor = "yellow"
	ColorPurple PlayerColor = "purple"
	ColorOrange PlayerColor = "orange"
)

var playerColors = map[PlayerColor]bool{
	ColorBlue: true, ColorRed: true, ColorGreen: true,
	ColorYellow: true, ColorPurple: true, ColorOrange: true,
}

// ParsePlayerColor validates a raw player color string.
func ParsePlayerColor(raw string) (PlayerColor, bool) {
	c := PlayerColor(strings.ToLower(strings.TrimSpace(raw)))
	return c, playerColors[c]
}

// WorkoutSession is one solo exercise attempt. Duration is cumulative
// elapsed milliseconds supplied by the caller's clock; EnergyGained is
// derived at completion (one energy per full second held).
type WorkoutSession struct {
	ID           string       `json:"id"`
	ExerciseType ExerciseType `json:"exerciseType"`
	Duration     int64        `json:"duration"`
	EnergyGained int          `json:"energyGained"`
	CompletedAt  time.Time    `json:"completedAt"`
}

// BattlePlayer is a participant in a battle. TimeHeld mirrors the battle
// clock while the player is active and freezes at its last value on
// elimination.
type BattlePlayer struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Color    PlayerColor `json:"color"`
	TimeHeld int64       `json:"timeHeld"`
	IsActive bool        `json:"isActive"`
}

// BattleSession is one last-one-standing contest. Winner is the id of the
// sole remaining active player, set exactly once.
type BattleSession struct {
	ID           string         `json:"id"`
	Players      []BattlePlayer `json:"players"`
	ExerciseType ExerciseType   `json:"exerciseType"`
	Duration     int64          `json:"duration"`
	Winner       string         `json:"winner,omitempty"`
	CompletedAt  time.Time      `json:"completedAt"`
}

// ActivePlayers returns the players still in the contest, in creation order.
func (b BattleSession) ActivePlayers() []BattlePlayer {
	var out []BattlePlayer
	for _, p := range b.Players {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out
}

// EliminatedPlayers returns the players already out, in creation order.
func (b BattleSession) EliminatedPlayers() []BattlePlayer {
	var out []BattlePlayer
	for _, p := range b.Players {
		if !p.IsActive {
			out = append(out, p)
		}
	}
	return out
}

// Inconsistent reports the defensive zero-active-players condition: every
// player eliminated but no winner recorded. A well-formed elimination
// sequence cannot reach it; it is reported rather than resolved by
// guessing a winner.
func (b BattleSession) Inconsistent() bool {
	return b.Winner == "" && len(b.ActivePlayers()) == 0
}
