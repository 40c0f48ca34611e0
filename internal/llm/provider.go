package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/lockscore/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize writes a narrative for an assessment. In strict mode the
	// narrative may only cite clause ids from the request allowlist.
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is configured and reachable
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for a narrative
type SummarizeRequest struct {
	// Assessment is the scored contract; it is read, never modified
	Assessment *model.Assessment

	// ClauseIDs is the allowlist of clause ids the narrative may cite
	ClauseIDs []string

	// Prompt overrides the default prompt when set
	Prompt string

	// Model overrides the configured model when set
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the narrative output
type SummarizeResponse struct {
	Summary      string
	CitedClauses []string // Clause ids found in the summary
	Model        string
	TokensUsed   int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", or "" (disabled)
	Provider string

	Model   string
	APIKey  string
	BaseURL string // OpenAI-compatible endpoint override

	// Timeout for API requests
	Timeout int // seconds

	// StrictClauses rejects narratives citing unknown clause ids
	StrictClauses bool

	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Timeout:       30,
		StrictClauses: true,
		MaxTokens:     800,
	}
}

// maxPromptClauses bounds how many clauses are quoted in a prompt
const maxPromptClauses = 12

// BuildPrompt constructs the default narrative prompt. Only clause ids in
// allowed may be cited; the scores are stated as fixed facts.
func BuildPrompt(a *model.Assessment, allowed []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are explaining a vendor contract lock-in risk assessment to an IT buyer with no legal background.
The scores below were computed by a fixed rubric. Do not recompute, dispute or change them.

RULES:
1. You may ONLY cite clause ids from this list, written exactly as shown:
%s
2. Do not quote contract text that is not shown below.
3. If a category had no clauses, say the contract is silent on it; do not guess its terms.

Assessment:
- Vendor: %s
- Total score: %.2f/100 (%s risk)
- Clauses analyzed: %d

Category scores:
`, joinClauseIDs(allowed), a.Vendor, a.TotalScore, a.RiskLevel, a.TotalClauses)

	for _, c := range model.Categories() {
		d, ok := a.CategoryDetails[c]
		if !ok {
			continue
		}
		note := ""
		if d.MissingCoverage {
			note = " (no clauses found)"
		}
		fmt.Fprintf(&b, "- %s: %.2f/%.0f%s\n", c.Title(), d.Score, d.MaxPoints, note)
	}

	if len(a.CriticalIssues) > 0 {
		b.WriteString("\nCritical issues:\n")
		for _, i := range a.CriticalIssues {
			fmt.Fprintf(&b, "- [%s] %s", i.Severity, i.Issue)
			if i.ClauseID != "" {
				fmt.Fprintf(&b, " (%s)", i.ClauseID)
			}
			b.WriteString("\n")
		}
	}

	if len(a.Clauses) > 0 {
		b.WriteString("\nHigh-risk clauses:\n")
		n := 0
		for _, c := range a.Clauses {
			if !c.IsHighRisk() {
				continue
			}
			if n == maxPromptClauses {
				break
			}
			fmt.Fprintf(&b, "- %s [%s, %s]: %s\n", c.ID, c.Category, c.Mechanism, c.Text)
			n++
		}
	}

	b.WriteString("\nWrite 3-5 sentences: the overall risk, the two most important negotiation points, and what to ask the vendor for. Cite clause ids in parentheses.")

	return b.String()
}

func joinClauseIDs(ids []string) string {
	if len(ids) == 0 {
		return "(No clause ids available, cite none)"
	}
	const limit = 40
	var b strings.Builder
	for i, id := range ids {
		if i == limit {
			fmt.Fprintf(&b, "\n... and %d more clause ids", len(ids)-limit)
			break
		}
		b.WriteString("\n- ")
		b.WriteString(id)
	}
	return b.String()
}

// ClauseIDs lists the ids of an assessment's clauses in order
func ClauseIDs(a *model.Assessment) []string {
	ids := make([]string, 0, len(a.Clauses))
	for _, c := range a.Clauses {
		ids = append(ids, c.ID)
	}
	return ids
}
