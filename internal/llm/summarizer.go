package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/lockscore/internal/model"
)

// Summarizer attaches optional narratives to finished assessments.
// It never modifies scores and degrades to warnings instead of failing.
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer creates a summarizer; a disabled config yields a
// summarizer whose IsEnabled is false
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Summarizer{provider: provider, config: config}, nil
}

// IsEnabled reports whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s != nil && s.provider != nil
}

// ProviderName returns the configured provider, or "" when disabled
func (s *Summarizer) ProviderName() string {
	if !s.IsEnabled() {
		return ""
	}
	return s.provider.Name()
}

// GenerateSummary produces a narrative for a. It returns (nil, nil) when
// disabled; provider problems are reported in Narrative.Warnings.
func (s *Summarizer) GenerateSummary(ctx context.Context, a *model.Assessment) (*model.Narrative, error) {
	if !s.IsEnabled() || a == nil {
		return nil, nil
	}

	narrative := &model.Narrative{
		Enabled:  true,
		Provider: s.provider.Name(),
		Model:    s.config.Model,
		Strict:   s.config.StrictClauses,
	}

	if !s.provider.IsAvailable(ctx) {
		narrative.Enabled = false
		narrative.Warnings = append(narrative.Warnings,
			fmt.Sprintf("LLM provider %s is not available (check API key, base URL and network)", s.provider.Name()))
		return narrative, nil
	}

	allowed := ClauseIDs(a)
	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Assessment: a,
		ClauseIDs:  allowed,
		Model:      s.config.Model,
		MaxTokens:  s.config.MaxTokens,
	})
	if err != nil {
		narrative.Warnings = append(narrative.Warnings, fmt.Sprintf("Narrative generation failed: %v", err))
		return narrative, nil
	}

	narrative.SummaryMD = resp.Summary
	if resp.Model != "" {
		narrative.Model = resp.Model
	}
	if resp.TokensUsed > 0 {
		narrative.Warnings = append(narrative.Warnings, fmt.Sprintf("Tokens used: %d", resp.TokensUsed))
	}
	if s.config.StrictClauses {
		narrative.Warnings = append(narrative.Warnings,
			fmt.Sprintf("Verified %d clause citations against the assessment", len(resp.CitedClauses)))
	}

	return narrative, nil
}

// RenderSeparateMarkdown renders a narrative as its own markdown document
func RenderSeparateMarkdown(n *model.Narrative) string {
	if n == nil || !n.Enabled {
		return ""
	}

	var b strings.Builder
	b.WriteString("# Narrative Summary\n\n")
	fmt.Fprintf(&b, "**Provider:** %s  \n", n.Provider)
	if n.Model != "" {
		fmt.Fprintf(&b, "**Model:** %s  \n", n.Model)
	}
	fmt.Fprintf(&b, "**Strict clause citations:** %t\n\n", n.Strict)

	b.WriteString("## Summary\n\n")
	if n.SummaryMD == "" {
		b.WriteString("_No summary generated._\n\n")
	} else {
		b.WriteString(n.SummaryMD)
		b.WriteString("\n\n")
	}

	if len(n.Warnings) > 0 {
		b.WriteString("## Notes\n\n")
		for _, w := range n.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
	b.WriteString("_Scores were determined independently by the rubric. This narrative is explanatory and does not change them._\n")

	return b.String()
}
