package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/claude/repquest/internal/leveling"
	"github.com/claude/repquest/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolGetProfile = mcp.NewTool("get_profile",
	mcp.WithDescription("Get the user's progression profile: current level, lifetime rep volume, experience points, and progress within the current level."),
)

var toolGetWorkoutHistory = mcp.NewTool("get_workout_history",
	mcp.WithDescription("List all workout sessions, newest first. Each session has its date, round count, total rep volume, and originating workout template id (null if the template was deleted)."),
)

var toolGetSessionSets = mcp.NewTool("get_session_sets",
	mcp.WithDescription("List the sets of one workout session: exercise, reps, and round number. Exercise names are empty for exercises deleted after the session."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id, e.g. session-1718822400000")),
)

var toolGetVolumeStats = mcp.NewTool("get_volume_stats",
	mcp.WithDescription("Bucketed rep-volume statistics plus all-time summary (session count, average volume, best session)."),
	mcp.WithString("filter", mcp.Description("Bucketing window: 'day' (14 daily buckets), 'week' (12 ISO weeks), or 'year' (12 months). Defaults to 'day'."), mcp.Enum("day", "week", "year")),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List the exercise catalog in display order."),
)

var toolListWorkouts = mcp.NewTool("list_workouts",
	mcp.WithDescription("List workout templates: name, ordered exercise ids, and round count."),
)

// --- Tool handlers ---

func (h *handlers) getProfile(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	profile, err := h.ds.GetUserProfile(ctx)
	if err != nil {
		h.log.Error("mcp get_profile", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if profile == nil {
		return mcp.NewToolResultError("profile not initialized"), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"profile":  profile,
		"progress": leveling.XPProgress(profile.ExperiencePoints, profile.CurrentLevel),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkoutHistory(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions, err := h.ds.GetWorkoutHistory(ctx)
	if err != nil {
		h.log.Error("mcp get_workout_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(sessions)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSessionSets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")
	if sessionID == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	sets, err := h.ds.GetSessionSets(ctx, sessionID)
	if err != nil {
		h.log.Error("mcp get_session_sets", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(sets)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getVolumeStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := storage.VolumeFilter(req.GetString("filter", string(storage.FilterDay)))

	stats, err := h.ds.GetVolumeStats(ctx, filter)
	if err != nil {
		h.log.Error("mcp get_volume_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listExercises(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercises, err := h.ds.GetExercises(ctx)
	if err != nil {
		h.log.Error("mcp list_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(exercises)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listWorkouts(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workouts, err := h.ds.GetWorkouts(ctx)
	if err != nil {
		h.log.Error("mcp list_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(workouts)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// --- Resource handlers ---

func (h *handlers) profileResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	profile, err := h.ds.GetUserProfile(ctx)
	if err != nil {
		return nil, err
	}

	summary := map[string]any{"profile": profile}
	if profile != nil {
		summary["progress"] = leveling.XPProgress(profile.ExperiencePoints, profile.CurrentLevel)
	}

	data, err := json.Marshal(summary)
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

func (h *handlers) recentSessionsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	sessions, err := h.ds.GetWorkoutHistory(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().AddDate(0, 0, -14)
	var recent []any
	for _, s := range sessions {
		if s.Date.After(cutoff) {
			recent = append(recent, s)
		}
	}

	data, err := json.Marshal(recent)
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
