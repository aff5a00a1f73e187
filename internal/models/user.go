package models

import (
	"strings"
	"time"
)

// Rank is one of the five ordered progression tiers. Ordering is defined by
// the energy thresholds in the progression package, not by string comparison.
type Rank string

const (
	RankTriton             Rank = "triton"
	RankSailor             Rank = "sailor"
	RankKeeperOfWaves      Rank = "keeper-of-waves"
	RankChampionOfOcean    Rank = "champion-of-ocean"
	RankMessengerOfNeptune Rank = "messenger-of-neptune"
)

// Achievement is an unlocked achievement on a user profile. Locked
// achievements are not stored; the catalog lives in the progression package.
type Achievement struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	UnlockedAt  time.Time `json:"unlockedAt"`
}

// User is the player profile. Rank is derived from Energy and never set
// directly by callers outside the progression package.
type User struct {
	Name          string        `json:"name"`
	Avatar        string        `json:"avatar,omitempty"`
	Energy        int           `json:"energy"`
	Rank          Rank          `json:"rank"`
	TotalWorkouts int           `json:"totalWorkouts"`
	Streak        int           `json:"streak"`
	Achievements  []Achievement `json:"achievements"`
}

// DefaultUser returns the zero-progress profile created at first launch.
func DefaultUser() User {
	return User{Rank: RankTriton}
}

// Onboarded reports whether the user has completed onboarding, which ends
// with choosing a non-empty name.
func (u User) Onboarded() bool {
	return strings.TrimSpace(u.Name) != ""
}

// HasAchievement reports whether the achievement with the given id is
// already unlocked.
func (u User) HasAchievement(id string) bool {
	for _, a := range u.Achievements {
		if a.ID == id {
			return true
		}
	}
	return false
}
