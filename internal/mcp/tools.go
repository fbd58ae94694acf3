package mcp

import (
	"context"

	"github.com/claude/repfeed/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolParseWorkoutText = mcp.NewTool("parse_workout_text",
	mcp.WithDescription("Parse free workout text (a routine, notes, a pasted description) into a structured workout with exercises, sets, reps, durations and rest."),
	mcp.WithString("text", mcp.Required(), mcp.Description("The workout text, one exercise per line works best")),
	mcp.WithString("source_type", mcp.Description("Source label recorded on the result. Defaults to 'custom'.")),
)

var toolParseVideoLink = mcp.NewTool("parse_video_link",
	mcp.WithDescription("Parse a YouTube video link. Uses the video's title and description when available, plus any caption text given."),
	mcp.WithString("url", mcp.Required(), mcp.Description("YouTube URL (watch, youtu.be, shorts or embed)")),
	mcp.WithString("caption", mcp.Description("Optional extra text, e.g. a pasted description")),
)

var toolParseSocialCaption = mcp.NewTool("parse_social_caption",
	mcp.WithDescription("Parse an Instagram post caption into a structured workout. The post URL is recorded but not fetched."),
	mcp.WithString("url", mcp.Required(), mcp.Description("Instagram post URL")),
	mcp.WithString("caption", mcp.Required(), mcp.Description("The post caption text")),
)

var toolGetSavedWorkouts = mcp.NewTool("get_saved_workouts",
	mcp.WithDescription("List saved parsed workouts, newest first."),
	mcp.WithString("source", mcp.Description("Filter by source type"), mcp.Enum(models.SourceCustom, models.SourceYouTube, models.SourceInstagram)),
	mcp.WithNumber("limit", mcp.Description("Maximum number of workouts. Defaults to 20.")),
)

// --- Tool handlers ---

func (h *handlers) parseWorkoutText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	w, err := h.ds.ParseText(ctx, text, req.GetString("source_type", ""))
	return h.workoutResult("parse_workout_text", w, err)
}

func (h *handlers) parseVideoLink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	w, err := h.ds.ParseVideo(ctx, url, req.GetString("caption", ""))
	return h.workoutResult("parse_video_link", w, err)
}

func (h *handlers) parseSocialCaption(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	caption, err := req.RequireString("caption")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	w, err := h.ds.ParseCaption(ctx, url, caption)
	return h.workoutResult("parse_social_caption", w, err)
}

func (h *handlers) getSavedWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", recentWorkoutsLimit)
	if limit <= 0 || limit > 200 {
		limit = recentWorkoutsLimit
	}

	workouts, err := h.ds.ListParsedWorkouts(ctx, req.GetString("source", ""), limit)
	if err != nil {
		h.log.Error("mcp get_saved_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(workouts)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) workoutResult(tool string, w *models.ParsedWorkout, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		h.log.Error("mcp "+tool, "error", err)
		return mcp.NewToolResultError("parse failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(w)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
