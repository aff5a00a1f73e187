package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

var resProfile = mcp.NewResource(
	"neptune://profile",
	"Player Profile",
	mcp.WithResourceDescription("The player profile with energy, rank, achievements, and the quote of the day"),
	mcp.WithMIMEType("application/json"),
)

var resRecentWorkouts = mcp.NewResource(
	"neptune://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("The ten most recently completed solo workout sessions"),
	mcp.WithMIMEType("application/json"),
)

func (h *handlers) profileResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	profile, err := h.ds.Profile(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) recentWorkoutsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	history, err := h.ds.WorkoutHistory(ctx)
	if err != nil {
		return nil, err
	}
	if len(history) > 10 {
		history = history[len(history)-10:]
	}
	data, err := json.Marshal(history)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
