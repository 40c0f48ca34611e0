// Package mcpserver exposes lockscore assessments as MCP tools over stdio,
// so agents can score contracts and read assessment history.
package mcpserver

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ppiankov/lockscore/internal/model"
	"github.com/ppiankov/lockscore/internal/pipeline"
	"github.com/ppiankov/lockscore/internal/score"
	"github.com/ppiankov/lockscore/internal/store"
)

// Assessor is the slice of the pipeline the tools call into
type Assessor interface {
	Assess(ctx context.Context, source string) (*model.Assessment, error)
	AssessDocument(ctx context.Context, raw []byte, contentType, vendor, file string) (*model.Assessment, error)
	AssessQuestionnaire(ctx context.Context, answers score.Answers) (*model.Assessment, error)
}

// History is the assessment store; nil disables saving and history
type History interface {
	Save(ctx context.Context, a *model.Assessment) (*store.Record, error)
	Get(ctx context.Context, id string) (*model.Assessment, error)
	List(ctx context.Context, vendor string, limit int) ([]store.Record, error)
	Trend(ctx context.Context, vendor string) ([]store.TrendPoint, error)
}

// New creates the MCP server with every lockscore tool registered
func New(assessor Assessor, history History, version string, logger *slog.Logger) *server.MCPServer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := server.NewMCPServer(
		"lockscore",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	text := &AssessTextTool{assessor: assessor, history: history, logger: logger}
	s.AddTool(text.Definition(), text.Handle)

	source := &AssessSourceTool{assessor: assessor, history: history, logger: logger}
	s.AddTool(source.Definition(), source.Handle)

	q := &QuestionnaireTool{assessor: assessor, history: history, logger: logger}
	s.AddTool(q.Definition(), q.Handle)

	h := &HistoryTool{history: history}
	s.AddTool(h.Definition(), h.Handle)

	return s
}

// Serve runs the server on stdin/stdout until the client disconnects
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// jsonResult renders v as indented JSON text content
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("encode result: " + err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// errorResult reports a failed assessment with the structured payload
func errorResult(err error, vendor, source string) (*mcp.CallToolResult, error) {
	data, mErr := json.Marshal(pipeline.ErrorResult(err, vendor, source))
	if mErr != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultError(string(data)), nil
}

// saveIfRequested stores a when the caller asked and history is available.
// A failed save is logged; the assessment is still returned.
func saveIfRequested(ctx context.Context, history History, logger *slog.Logger, save bool, a *model.Assessment) {
	if !save || history == nil {
		return
	}
	if _, err := history.Save(ctx, a); err != nil {
		logger.Warn("saving assessment failed", "id", a.ID, "error", err)
	}
}

func boolArg(req mcp.CallToolRequest, key string) bool {
	v, ok := req.GetArguments()[key].(bool)
	return ok && v
}
