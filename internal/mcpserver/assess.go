package mcpserver

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// AssessTextTool handles the lockscore_assess_text MCP tool
type AssessTextTool struct {
	assessor Assessor
	history  History
	logger   *slog.Logger
}

// Definition returns the MCP tool definition for registration.
func (t *AssessTextTool) Definition() mcp.Tool {
	return mcp.NewTool("lockscore_assess_text",
		mcp.WithDescription(
			"Score the vendor lock-in risk of contract text. Returns the full assessment JSON: "+
				"0-100 total, LOW/MEDIUM/HIGH tier, per-category breakdown, critical issues, "+
				"recommendations and the matched clauses.",
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Contract text or HTML markup (at least 1000 characters of visible text)"),
		),
		mcp.WithString("vendor",
			mcp.Required(),
			mcp.Description("Vendor name; clause ids are prefixed with it"),
		),
		mcp.WithString("contract_file",
			mcp.Description("Source name recorded with the assessment"),
		),
		mcp.WithString("format",
			mcp.Description("Input format (default text)"),
			mcp.Enum("text", "html"),
		),
		mcp.WithBoolean("save",
			mcp.Description("Store the assessment in history"),
		),
	)
}

// Handle processes the lockscore_assess_text tool call.
func (t *AssessTextTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("text", "")
	vendor := strings.TrimSpace(req.GetString("vendor", ""))
	if strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("'text' is required"), nil
	}
	if vendor == "" {
		return mcp.NewToolResultError("'vendor' is required"), nil
	}
	file := req.GetString("contract_file", "")

	contentType := "text/plain"
	switch req.GetString("format", "text") {
	case "text":
	case "html":
		contentType = "text/html"
	default:
		return mcp.NewToolResultError("'format' must be text or html"), nil
	}

	a, err := t.assessor.AssessDocument(ctx, []byte(text), contentType, vendor, file)
	if err != nil {
		return errorResult(err, vendor, file)
	}

	saveIfRequested(ctx, t.history, t.logger, boolArg(req, "save"), a)
	return jsonResult(a)
}

// AssessSourceTool handles the lockscore_assess_source MCP tool
type AssessSourceTool struct {
	assessor Assessor
	history  History
	logger   *slog.Logger
}

// Definition returns the MCP tool definition for registration.
func (t *AssessSourceTool) Definition() mcp.Tool {
	return mcp.NewTool("lockscore_assess_source",
		mcp.WithDescription(
			"Fetch a contract from an http(s) URL or read it from a local path, then score its "+
				"vendor lock-in risk. The vendor name is derived from the file name or host.",
		),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("http(s) URL or local file path of the contract"),
		),
		mcp.WithBoolean("save",
			mcp.Description("Store the assessment in history"),
		),
	)
}

// Handle processes the lockscore_assess_source tool call.
func (t *AssessSourceTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source := strings.TrimSpace(req.GetString("source", ""))
	if source == "" {
		return mcp.NewToolResultError("'source' is required"), nil
	}

	a, err := t.assessor.Assess(ctx, source)
	if err != nil {
		return errorResult(err, "", source)
	}

	saveIfRequested(ctx, t.history, t.logger, boolArg(req, "save"), a)
	return jsonResult(a)
}
