package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

// --- Resource definitions ---

var resRecentWorkouts = mcp.NewResource(
	"ironcoach://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("The user's 14 most recent completed workout sessions"),
	mcp.WithMIMEType("application/json"),
)

var resRecordBoard = mcp.NewResource(
	"ironcoach://record_board",
	"Personal Record Board",
	mcp.WithResourceDescription("All of the user's personal records, newest first"),
	mcp.WithMIMEType("application/json"),
)

var resCoachFeed = mcp.NewResource(
	"ironcoach://coach_feed",
	"Coach Message Feed",
	mcp.WithResourceDescription("The user's 20 most recent coaching messages"),
	mcp.WithMIMEType("application/json"),
)

func (h *handlers) recentWorkouts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)

	sessions, err := h.ds.ListSessionsByUser(ctx, uid, 14)
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, sessions)
}

func (h *handlers) recordBoard(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)

	records, err := h.ds.ListRecordsByUser(ctx, uid, "")
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, records)
}

func (h *handlers) coachFeed(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)

	msgs, err := h.ds.ListCoachMessages(ctx, uid, 20)
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, msgs)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
