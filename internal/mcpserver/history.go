package mcpserver

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

const defaultHistoryLimit = 20

// HistoryTool handles the lockscore_history MCP tool
type HistoryTool struct {
	history History
}

// Definition returns the MCP tool definition for registration.
func (t *HistoryTool) Definition() mcp.Tool {
	return mcp.NewTool("lockscore_history",
		mcp.WithDescription(
			"Fetch one saved assessment by id, list saved assessments newest first, or show how one vendor's score changed over "+
				"time. Requires the assessment store to be enabled.",
		),
		mcp.WithString("id",
			mcp.Description("Return the full saved assessment with this id"),
		),
		mcp.WithString("vendor",
			mcp.Description("Only assessments for this vendor (case-insensitive). Required for trend."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum records to list (default 20)"),
		),
		mcp.WithBoolean("trend",
			mcp.Description("Return the vendor's score trend, oldest first, with category scores"),
		),
	)
}

// Handle processes the lockscore_history tool call.
func (t *HistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.history == nil {
		return mcp.NewToolResultError("assessment history is disabled; set store.enabled in the config"), nil
	}

	if id := strings.TrimSpace(req.GetString("id", "")); id != "" {
		a, err := t.history.Get(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(a)
	}

	vendor := strings.TrimSpace(req.GetString("vendor", ""))

	if boolArg(req, "trend") {
		if vendor == "" {
			return mcp.NewToolResultError("'vendor' is required for trend"), nil
		}
		points, err := t.history.Trend(ctx, vendor)
		if err != nil {
			return mcp.NewToolResultError("trend: " + err.Error()), nil
		}
		return jsonResult(points)
	}

	limit := int(req.GetFloat("limit", defaultHistoryLimit))
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	records, err := t.history.List(ctx, vendor, limit)
	if err != nil {
		return mcp.NewToolResultError("list: " + err.Error()), nil
	}
	return jsonResult(records)
}
