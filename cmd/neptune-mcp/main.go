// neptune-mcp is a stdio MCP server exposing read-only arena state from a
// running Neptune's Arena server. It speaks MCP on stdin/stdout and
// forwards queries to the arena's REST API, so logs go to stderr.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/claude/neptune/internal/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "base URL of the arena server")
	apiKey := flag.String("api-key", os.Getenv("NEPTUNE_AUTH_API_KEY"), "API key for the arena server (optional)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ds := mcp.NewHTTPClient(*baseURL, *apiKey)
	srv := mcp.New(ds, Version, log)

	log.Info("neptune-mcp starting", "url", *baseURL)
	if err := server.ServeStdio(srv); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
