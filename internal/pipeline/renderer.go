package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ppiankov/lockscore/internal/model"
)

const reportFooter = "_Scores are computed from keyword and mechanism matches against a fixed rubric. " +
	"They flag clauses for review and are not legal advice._\n"

// Renderer writes assessments as JSON, Markdown and terminal summaries
type Renderer struct {
	includeFooter bool
	out           io.Writer
}

// NewRenderer creates a renderer; summaries go to out
func NewRenderer(includeFooter bool, out io.Writer) *Renderer {
	if out == nil {
		out = io.Discard
	}
	return &Renderer{includeFooter: includeFooter, out: out}
}

// RenderJSON writes the assessment JSON to path
func (r *Renderer) RenderJSON(a *model.Assessment, path string) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal assessment: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes the Markdown report to path
func (r *Renderer) RenderMarkdown(a *model.Assessment, path string) error {
	return writeFile(path, []byte(r.Markdown(a)))
}

// RenderNarrative writes already-rendered narrative Markdown to path
func (r *Renderer) RenderNarrative(markdown string, path string) error {
	return writeFile(path, []byte(markdown))
}

// Markdown renders a human-readable report of an assessment
func (r *Renderer) Markdown(a *model.Assessment) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Vendor Lock-In Risk Assessment: %s\n\n", a.Vendor)
	if a.ContractFile != "" {
		fmt.Fprintf(&b, "**Contract:** %s  \n", a.ContractFile)
	}
	fmt.Fprintf(&b, "**Assessment ID:** %s  \n", a.ID)
	fmt.Fprintf(&b, "**Method:** %s  \n", a.Method)
	fmt.Fprintf(&b, "**Risk Score:** %s/100  \n", points(a.TotalScore))
	fmt.Fprintf(&b, "**Risk Level:** %s\n\n", a.RiskLevel)

	if a.Interpretation != "" {
		fmt.Fprintf(&b, "%s\n\n", a.Interpretation)
	}

	b.WriteString("## Category Scores\n\n")
	b.WriteString("| Category | Score | Max | Clauses | High risk | Notes |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, c := range model.Categories() {
		d, ok := a.CategoryDetails[c]
		if !ok {
			continue
		}
		note := ""
		if d.MissingCoverage {
			note = "missing coverage"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %d | %d (%s%%) | %s |\n",
			c.Title(), points(d.Score), points(d.MaxPoints), d.ClauseCount,
			d.HighRiskCount, strconv.FormatFloat(d.HighRiskPercentage, 'f', 1, 64), note)
	}
	b.WriteString("\n")

	b.WriteString("## Critical Issues\n\n")
	if len(a.CriticalIssues) == 0 {
		b.WriteString("No critical issues detected.\n\n")
	}
	for _, issue := range a.CriticalIssues {
		fmt.Fprintf(&b, "- **[%s]** %s: %s", issue.Severity, issue.Category.Title(), issue.Issue)
		if issue.ClauseID != "" {
			fmt.Fprintf(&b, " (`%s`)", issue.ClauseID)
		}
		fmt.Fprintf(&b, "\n  - Impact: %s\n", issue.Impact)
	}
	if len(a.CriticalIssues) > 0 {
		b.WriteString("\n")
	}

	if len(a.Recommendations) > 0 {
		b.WriteString("## Recommendations\n\n```\n")
		for _, line := range a.Recommendations {
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("```\n\n")
	}

	var high []model.Clause
	for _, c := range a.Clauses {
		if c.IsHighRisk() {
			high = append(high, c)
		}
	}
	if len(high) > 0 {
		b.WriteString("## High-Risk Clauses\n\n")
		for _, c := range high {
			fmt.Fprintf(&b, "### %s (%s, %s)\n\n", c.ID, c.Category.Label(), model.MechanismLabel(c.Mechanism))
			fmt.Fprintf(&b, "> %s\n\n", strings.ReplaceAll(c.Text, "\n", "\n> "))
		}
	}

	if len(a.Answers) > 0 {
		b.WriteString("## Questionnaire Responses\n\n")
		for _, k := range sortedKeys(a.Answers) {
			fmt.Fprintf(&b, "- %s: %s\n", k, a.Answers[k])
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		b.WriteString(reportFooter)
	}

	return b.String()
}

// RenderSummary prints a short terminal summary
func (r *Renderer) RenderSummary(a *model.Assessment) {
	fmt.Fprintf(r.out, "\n%s: %s/100 (%s risk)\n", a.Vendor, points(a.TotalScore), a.RiskLevel)
	for _, c := range model.Categories() {
		d, ok := a.CategoryDetails[c]
		if !ok {
			continue
		}
		marker := "  "
		if d.MissingCoverage {
			marker = "✗ "
		}
		fmt.Fprintf(r.out, "  %s%-20s %6s / %s\n", marker, c.Title(), points(d.Score), points(d.MaxPoints))
	}
	if n := len(a.CriticalIssues); n > 0 {
		fmt.Fprintf(r.out, "  %d critical issue(s)\n", n)
	}
	fmt.Fprintln(r.out)
}

// RenderError prints a failed source
func (r *Renderer) RenderError(e model.ErrorResult) {
	fmt.Fprintf(r.out, "\n✗ %s: %s\n", e.Source, e.Error)
}

// RenderComparison writes the comparison JSON to path
func (r *Renderer) RenderComparison(c *model.Comparison, path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal comparison: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// NarrativePath derives the narrative file name from a Markdown report path
func NarrativePath(mdPath string) string {
	return strings.TrimSuffix(mdPath, ".md") + ".narrative.md"
}

func points(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
