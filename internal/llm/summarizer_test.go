package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ppiankov/lockscore/internal/model"
)

// MockProvider implements the Provider interface for testing
type MockProvider struct {
	name      string
	available bool
	response  *SummarizeResponse
	err       error
	lastReq   SummarizeRequest
}

func (m *MockProvider) Name() string {
	return m.name
}

func (m *MockProvider) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *MockProvider) IsAvailable(ctx context.Context) bool {
	return m.available
}

func TestNewSummarizer_DisabledProvider(t *testing.T) {
	summarizer, err := NewSummarizer(Config{Provider: ""})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if summarizer.IsEnabled() {
		t.Error("Expected summarizer to be disabled")
	}
	if summarizer.ProviderName() != "" {
		t.Error("Expected empty provider name when disabled")
	}

	n, err := summarizer.GenerateSummary(context.Background(), testAssessment())
	if err != nil || n != nil {
		t.Errorf("disabled summarizer should return (nil, nil), got (%v, %v)", n, err)
	}
}

func TestNewSummarizer_UnknownProvider(t *testing.T) {
	if _, err := NewSummarizer(Config{Provider: "nope"}); err == nil {
		t.Fatal("Expected error for unknown provider")
	}
}

func TestSummarizer_GenerateSummary_ProviderUnavailable(t *testing.T) {
	summarizer := &Summarizer{
		provider: &MockProvider{name: "test-provider", available: false},
		config:   Config{StrictClauses: true},
	}

	n, err := summarizer.GenerateSummary(context.Background(), testAssessment())
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if n == nil {
		t.Fatal("Expected narrative with warnings")
	}
	if n.Enabled {
		t.Error("Expected narrative to be marked as disabled")
	}
	if len(n.Warnings) == 0 || !strings.Contains(n.Warnings[0], "not available") {
		t.Errorf("Expected unavailability warning, got %v", n.Warnings)
	}
}

func TestSummarizer_GenerateSummary_Success(t *testing.T) {
	mock := &MockProvider{
		name:      "test-provider",
		available: true,
		response: &SummarizeResponse{
			Summary:      "Pricing is the main risk (Acme_1).",
			CitedClauses: []string{"Acme_1"},
			Model:        "test-model",
			TokensUsed:   150,
		},
	}
	summarizer := &Summarizer{
		provider: mock,
		config:   Config{Model: "test-model", StrictClauses: true},
	}

	a := testAssessment()
	before := a.TotalScore

	n, err := summarizer.GenerateSummary(context.Background(), a)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !n.Enabled || n.Provider != "test-provider" || n.Model != "test-model" || !n.Strict {
		t.Errorf("Unexpected narrative metadata: %+v", n)
	}
	if n.SummaryMD != "Pricing is the main risk (Acme_1)." {
		t.Errorf("Unexpected summary: %q", n.SummaryMD)
	}
	if a.TotalScore != before {
		t.Error("Summarizing must not change the score")
	}

	if got := strings.Join(mock.lastReq.ClauseIDs, ","); got != "Acme_1,Acme_2" {
		t.Errorf("allowlist = %s, want Acme_1,Acme_2", got)
	}

	var tokens, verified bool
	for _, w := range n.Warnings {
		if strings.Contains(w, "Tokens used: 150") {
			tokens = true
		}
		if strings.Contains(w, "Verified 1 clause citations") {
			verified = true
		}
	}
	if !tokens || !verified {
		t.Errorf("Expected token and citation notes, got %v", n.Warnings)
	}
}

func TestSummarizer_GenerateSummary_ProviderError(t *testing.T) {
	summarizer := &Summarizer{
		provider: &MockProvider{name: "test-provider", available: true, err: errors.New("API rate limit exceeded")},
		config:   Config{StrictClauses: true},
	}

	n, err := summarizer.GenerateSummary(context.Background(), testAssessment())
	if err != nil {
		t.Errorf("Expected graceful degradation, got %v", err)
	}
	if n == nil || !n.Enabled {
		t.Fatal("Expected enabled narrative carrying the failure")
	}
	if n.SummaryMD != "" {
		t.Error("Expected no summary on failure")
	}
	if len(n.Warnings) != 1 || !strings.Contains(n.Warnings[0], "failed") || !strings.Contains(n.Warnings[0], "rate limit") {
		t.Errorf("Expected failure warning, got %v", n.Warnings)
	}
}

func TestRenderSeparateMarkdown(t *testing.T) {
	if RenderSeparateMarkdown(nil) != "" {
		t.Error("nil narrative should render empty")
	}
	if RenderSeparateMarkdown(&model.Narrative{Enabled: false}) != "" {
		t.Error("disabled narrative should render empty")
	}

	md := RenderSeparateMarkdown(&model.Narrative{
		Enabled:   true,
		Provider:  "openai",
		Model:     "gpt-4o-mini",
		Strict:    true,
		SummaryMD: "Pricing is the main risk.",
		Warnings:  []string{"Tokens used: 10"},
	})
	for _, want := range []string{
		"# Narrative Summary",
		"**Provider:** openai",
		"**Model:** gpt-4o-mini",
		"**Strict clause citations:** true",
		"## Summary",
		"Pricing is the main risk.",
		"## Notes",
		"- Tokens used: 10",
		"determined independently",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}

	empty := RenderSeparateMarkdown(&model.Narrative{Enabled: true, Provider: "openai"})
	if !strings.Contains(empty, "No summary generated") {
		t.Errorf("expected placeholder, got:\n%s", empty)
	}
}

func TestBuildPrompt(t *testing.T) {
	a := testAssessment()
	prompt := BuildPrompt(a, ClauseIDs(a))

	for _, want := range []string{
		"- Acme_1",
		"- Acme_2",
		"Vendor: Acme",
		"Total score: 48.50/100 (MEDIUM risk)",
		"- Pricing Terms: 25.00/25",
		"- Service Level: 12.50/25 (no clauses found)",
		"[HIGH] Contains unilateral pricing clause (Acme_1)",
		"Acme_1 [pricing_terms, unilateral_pricing]",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(prompt, "Either party may terminate") {
		t.Error("only high-risk clauses should be quoted")
	}
}

func TestBuildPrompt_NoClauses(t *testing.T) {
	prompt := BuildPrompt(&model.Assessment{Vendor: "Acme"}, nil)
	if !strings.Contains(prompt, "No clause ids available") {
		t.Error("expected empty allowlist marker")
	}
}

func TestJoinClauseIDs_Many(t *testing.T) {
	ids := make([]string, 45)
	for i := range ids {
		ids[i] = "Acme_x"
	}
	if !strings.Contains(joinClauseIDs(ids), "and 5 more clause ids") {
		t.Error("expected truncation marker")
	}
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	if c.Provider != "" || !c.StrictClauses || c.Timeout != 30 {
		t.Errorf("DefaultConfig() = %+v", c)
	}
}
