// Package progression holds the pure rules that turn workout effort into
// profile progress: energy-to-rank thresholds, energy awards, and the
// achievement catalog. Nothing here touches storage or session state; the
// store invokes these functions as an explicit orchestration step.
package progression

import (
	"fmt"

	"github.com/claude/neptune/internal/models"
)

// rankThreshold pairs a rank with the minimum energy that earns it.
// Ordered highest first so RankForEnergy can return the first match.
type rankThreshold struct {
	rank   models.Rank
	energy int
}

var rankThresholds = []rankThreshold{
	{models.RankMessengerOfNeptune, 500},
	{models.RankChampionOfOcean, 300},
	{models.RankKeeperOfWaves, 150},
	{models.RankSailor, 50},
	{models.RankTriton, 0},
}

// RankForEnergy maps cumulative energy to a rank tier. Monotonic: more
// energy never yields a lower rank.
func RankForEnergy(energy int) models.Rank {
	for _, t := range rankThresholds {
		if energy >= t.energy {
			return t.rank
		}
	}
	return models.RankTriton
}

// NextRank returns the rank above the current energy level and the energy
// still needed to reach it. ok is false at the top tier.
func NextRank(energy int) (rank models.Rank, remaining int, ok bool) {
	for i := len(rankThresholds) - 1; i >= 0; i-- {
		if energy < rankThresholds[i].energy {
			return rankThresholds[i].rank, rankThresholds[i].energy - energy, true
		}
	}
	return "", 0, false
}

// AwardEnergy returns a copy of the user with the amount added and rank
// recomputed. Negative amounts are rejected; energy never decreases
// outside an explicit profile reset.
func AwardEnergy(user models.User, amount int) (models.User, error) {
	if amount < 0 {
		return user, fmt.Errorf("award energy: negative amount %d: %w", amount, models.ErrInvalidArgument)
	}
	user.Energy += amount
	user.Rank = RankForEnergy(user.Energy)
	return user, nil
}
