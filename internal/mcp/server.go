// Package mcp exposes read-only arena state to assistants through the
// Model Context Protocol: profile and rank progress, session histories,
// and the live battle snapshot.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Neptune's Arena", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Neptune's Arena fitness game server. Query the player profile, rank progression, workout history, battle history, and the live battle state. All data is read-only."),
	)

	h := &handlers{ds: ds, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGetProfile, Handler: h.getProfile},
		server.ServerTool{Tool: toolGetRankProgress, Handler: h.getRankProgress},
		server.ServerTool{Tool: toolGetWorkoutHistory, Handler: h.getWorkoutHistory},
		server.ServerTool{Tool: toolGetBattleHistory, Handler: h.getBattleHistory},
		server.ServerTool{Tool: toolGetBattleSnapshot, Handler: h.getBattleSnapshot},
		server.ServerTool{Tool: toolGetWorkoutSnapshot, Handler: h.getWorkoutSnapshot},
	)

	s.AddResources(
		server.ServerResource{Resource: resProfile, Handler: h.profileResource},
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkoutsResource},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}
