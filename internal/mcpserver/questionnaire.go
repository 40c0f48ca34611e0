package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/ppiankov/lockscore/internal/score"
)

// QuestionnaireTool handles the lockscore_questionnaire MCP tool
type QuestionnaireTool struct {
	assessor Assessor
	history  History
	logger   *slog.Logger
}

// Definition returns the MCP tool definition for registration.
func (t *QuestionnaireTool) Definition() mcp.Tool {
	var keys []string
	for _, q := range score.Questions() {
		k := q.Key
		if len(q.Options) > 0 {
			k += " (" + strings.Join(q.Options, "/") + ")"
		}
		keys = append(keys, k)
	}

	return mcp.NewTool("lockscore_questionnaire",
		mcp.WithDescription(
			"Score vendor lock-in risk from direct answers to the fixed questionnaire instead of "+
				"contract text. Questions: "+strings.Join(keys, ", ")+". Conditional questions are "+
				"only required when their parent answer is yes.",
		),
		mcp.WithString("answers",
			mcp.Required(),
			mcp.Description("JSON object mapping question key to answer, e.g. {\"vendor_name\":\"Acme\",\"data_export\":\"Yes\"}"),
		),
		mcp.WithBoolean("save",
			mcp.Description("Store the assessment in history"),
		),
	)
}

// Handle processes the lockscore_questionnaire tool call.
func (t *QuestionnaireTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	answers, err := answersArg(req.GetArguments()["answers"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	a, err := t.assessor.AssessQuestionnaire(ctx, answers)
	if err != nil {
		return errorResult(err, answers["vendor_name"], "questionnaire")
	}

	saveIfRequested(ctx, t.history, t.logger, boolArg(req, "save"), a)
	return jsonResult(a)
}

// answersArg accepts the answers either as a JSON string or as an object
// the client already decoded
func answersArg(raw any) (score.Answers, error) {
	switch v := raw.(type) {
	case nil:
		return nil, fmt.Errorf("'answers' is required")
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("'answers' is required")
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(v), &m); err != nil {
			return nil, fmt.Errorf("'answers' must be a JSON object: %w", err)
		}
		return answersFromMap(m)
	case map[string]any:
		return answersFromMap(v)
	default:
		return nil, fmt.Errorf("'answers' must be a JSON object")
	}
}

func answersFromMap(m map[string]any) (score.Answers, error) {
	out := make(score.Answers, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case string:
			out[k] = val
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			if val {
				out[k] = "Yes"
			} else {
				out[k] = "No"
			}
		default:
			return nil, fmt.Errorf("answer %q must be a string, number or boolean", k)
		}
	}
	return out, nil
}
