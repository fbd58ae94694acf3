package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("RepFeed", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("RepFeed turns workout descriptions, YouTube links and Instagram captions into structured workouts with exercises, sets, reps, durations and rest. Use the parse tools on free text or links and get_saved_workouts to browse stored results."),
	)

	h := &handlers{ds: ds, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolParseWorkoutText, Handler: h.parseWorkoutText},
		server.ServerTool{Tool: toolParseVideoLink, Handler: h.parseVideoLink},
		server.ServerTool{Tool: toolParseSocialCaption, Handler: h.parseSocialCaption},
		server.ServerTool{Tool: toolGetSavedWorkouts, Handler: h.getSavedWorkouts},
	)

	s.AddResources(
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resRecentWorkouts = mcp.NewResource(
	"repfeed://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("The most recently saved parsed workouts"),
	mcp.WithMIMEType("application/json"),
)
