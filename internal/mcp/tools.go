package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolGetProfile = mcp.NewTool("get_profile",
	mcp.WithDescription("Get the player profile: name, avatar, energy, rank, total workouts, streak, and unlocked achievements."),
)

var toolGetRankProgress = mcp.NewTool("get_rank_progress",
	mcp.WithDescription("Get the player's current rank, the next rank tier, and the energy still needed to reach it."),
)

var toolGetWorkoutHistory = mcp.NewTool("get_workout_history",
	mcp.WithDescription("List completed solo workout sessions with exercise type, duration, energy gained, and completion time."),
	mcp.WithNumber("limit", mcp.Description("Return only the most recent N sessions. Defaults to all.")),
)

var toolGetBattleHistory = mcp.NewTool("get_battle_history",
	mcp.WithDescription("List completed battles with players, final held times, and the winner. Battle history resets when the server restarts."),
	mcp.WithNumber("limit", mcp.Description("Return only the most recent N battles. Defaults to all.")),
)

var toolGetBattleSnapshot = mcp.NewTool("get_battle_snapshot",
	mcp.WithDescription("Get the battle currently in flight: elapsed time, active and eliminated players, and the winner once decided."),
)

var toolGetWorkoutSnapshot = mcp.NewTool("get_workout_snapshot",
	mcp.WithDescription("Get the solo workout currently in flight: exercise type, elapsed time, and whether the timer is running."),
)

// --- Tool handlers ---

func (h *handlers) getProfile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	profile, err := h.ds.Profile(ctx)
	if err != nil {
		h.log.Error("mcp get_profile", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(profile)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRankProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	profile, err := h.ds.Profile(ctx)
	if err != nil {
		h.log.Error("mcp get_rank_progress", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	progress := map[string]any{
		"energy":        profile.Energy,
		"rank":          profile.Rank,
		"atHighestRank": profile.AtHighestRank,
	}
	if !profile.AtHighestRank {
		progress["nextRank"] = profile.NextRank
		progress["energyToNext"] = profile.EnergyToNext
	}
	result, err := mcp.NewToolResultJSON(progress)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkoutHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	history, err := h.ds.WorkoutHistory(ctx)
	if err != nil {
		h.log.Error("mcp get_workout_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if limit := req.GetInt("limit", 0); limit > 0 && limit < len(history) {
		history = history[len(history)-limit:]
	}
	result, err := mcp.NewToolResultJSON(history)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getBattleHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	history, err := h.ds.BattleHistory(ctx)
	if err != nil {
		h.log.Error("mcp get_battle_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if limit := req.GetInt("limit", 0); limit > 0 && limit < len(history) {
		history = history[len(history)-limit:]
	}
	result, err := mcp.NewToolResultJSON(history)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getBattleSnapshot(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := h.ds.CurrentBattle(ctx)
	if err != nil {
		h.log.Error("mcp get_battle_snapshot", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if snap == nil {
		return mcp.NewToolResultText("no battle in flight"), nil
	}
	result, err := mcp.NewToolResultJSON(snap)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkoutSnapshot(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := h.ds.CurrentWorkout(ctx)
	if err != nil {
		h.log.Error("mcp get_workout_snapshot", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if snap == nil {
		return mcp.NewToolResultText("no workout in flight"), nil
	}
	result, err := mcp.NewToolResultJSON(snap)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
