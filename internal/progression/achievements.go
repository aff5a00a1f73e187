package progression

import (
	"time"

	"github.com/claude/neptune/internal/models"
)

// achievementDef is a catalog entry with its unlock condition.
type achievementDef struct {
	id          string
	name        string
	description string
	icon        string
	unlocked    func(models.User) bool
}

var achievementCatalog = []achievementDef{
	{
		id:          "first-workout",
		name:        "First Workout",
		description: "Complete your first workout",
		icon:        "🏆",
		unlocked:    func(u models.User) bool { return u.TotalWorkouts >= 1 },
	},
	{
		id:          "energy-master",
		name:        "Energy Master",
		description: "Reach 100 energy",
		icon:        "⚡",
		unlocked:    func(u models.User) bool { return u.Energy >= 100 },
	},
	{
		id:          "week-warrior",
		name:        "Week Warrior",
		description: "Keep a 7-day streak",
		icon:        "🔥",
		unlocked:    func(u models.User) bool { return u.Streak >= 7 },
	},
}

// EvaluateAchievements returns the user with any newly earned achievements
// unlocked at the given time. Already-unlocked achievements are never
// duplicated or re-stamped.
func EvaluateAchievements(user models.User, now time.Time) models.User {
	for _, def := range achievementCatalog {
		if user.HasAchievement(def.id) || !def.unlocked(user) {
			continue
		}
		user.Achievements = append(user.Achievements, models.Achievement{
			ID:          def.id,
			Name:        def.name,
			Description: def.description,
			Icon:        def.icon,
			UnlockedAt:  now,
		})
	}
	return user
}
