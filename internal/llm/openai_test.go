package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/lockscore/internal/model"
	"github.com/sashabaranov/go-openai"
)

func testAssessment() *model.Assessment {
	return &model.Assessment{
		Vendor:     "Acme",
		TotalScore: 48.5,
		RiskLevel:  model.TierMedium,
		CategoryDetails: map[model.Category]model.CategoryDetail{
			model.CategoryPricingTerms: {Score: 25, MaxPoints: 25, ClauseCount: 1, HighRiskCount: 1, HighRiskPercentage: 100},
			model.CategoryServiceLevel: {Score: 12.5, MaxPoints: 25, MissingCoverage: true},
		},
		CriticalIssues: []model.Issue{
			{Category: model.CategoryServiceLevel, Severity: model.SeverityHigh, Issue: "No service level clauses found"},
			{Category: model.CategoryPricingTerms, Severity: model.SeverityHigh, Issue: "Contains unilateral pricing clause", ClauseID: "Acme_1"},
		},
		TotalClauses: 2,
		Clauses: []model.Clause{
			{ID: "Acme_1", Category: model.CategoryPricingTerms, RiskLevel: model.RiskHigh, Mechanism: "unilateral_pricing", Text: "We may change prices at our sole discretion."},
			{ID: "Acme_2", Category: model.CategoryTerminationExit, RiskLevel: model.RiskMedium, Mechanism: model.MechanismStandard, Text: "Either party may terminate."},
		},
	}
}

func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected Authorization header Bearer test-key, got %s", r.Header.Get("Authorization"))
		}

		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || !strings.Contains(req.Messages[1].Content, "Acme_1") {
			t.Errorf("prompt should list allowed clause ids: %+v", req.Messages)
		}

		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:    "chatcmpl-123",
			Model: "gpt-4o-mini",
			Choices: []openai.ChatCompletionChoice{{
				Message:      openai.ChatCompletionMessage{Role: "assistant", Content: content},
				FinishReason: "stop",
			}},
			Usage: openai.Usage{TotalTokens: 100},
		})
	}))
}

func TestOpenAIProvider_Summarize_Success(t *testing.T) {
	server := chatServer(t, "Pricing is the main risk (Acme_1). Ask for a price cap, see Acme_1 again.")
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{
		APIKey:        "test-key",
		BaseURL:       server.URL,
		Model:         "gpt-4o-mini",
		Timeout:       5,
		StrictClauses: true,
	})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	a := testAssessment()
	resp, err := provider.Summarize(context.Background(), SummarizeRequest{Assessment: a, ClauseIDs: ClauseIDs(a)})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if !strings.HasPrefix(resp.Summary, "Pricing is the main risk") {
		t.Errorf("Unexpected summary: %s", resp.Summary)
	}
	if len(resp.CitedClauses) != 1 || resp.CitedClauses[0] != "Acme_1" {
		t.Errorf("Unexpected cited clauses: %v", resp.CitedClauses)
	}
	if resp.TokensUsed != 100 || resp.Model != "gpt-4o-mini" {
		t.Errorf("Unexpected metadata: %+v", resp)
	}
}

func TestOpenAIProvider_Summarize_CitationLeak(t *testing.T) {
	server := chatServer(t, "See Acme_1 and Acme_99 for details.")
	defer server.Close()

	provider, _ := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, StrictClauses: true})

	a := testAssessment()
	_, err := provider.Summarize(context.Background(), SummarizeRequest{Assessment: a, ClauseIDs: ClauseIDs(a)})
	if err == nil || !strings.Contains(err.Error(), "CITATION LEAK") || !strings.Contains(err.Error(), "Acme_99") {
		t.Fatalf("Expected citation leak for Acme_99, got %v", err)
	}
}

func TestOpenAIProvider_Summarize_NonStrictAllowsUnknown(t *testing.T) {
	server := chatServer(t, "See Acme_1 and Acme_99 for details.")
	defer server.Close()

	provider, _ := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, StrictClauses: false})

	a := testAssessment()
	resp, err := provider.Summarize(context.Background(), SummarizeRequest{Assessment: a, ClauseIDs: ClauseIDs(a)})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if len(resp.CitedClauses) != 2 {
		t.Errorf("Expected both cited ids recorded, got %v", resp.CitedClauses)
	}
}

func TestOpenAIProvider_Summarize_APIError(t *testing.T) {
	for _, status := range []int{http.StatusInternalServerError, http.StatusTooManyRequests} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error": {"message": "failure", "type": "server_error"}}`))
		}))

		provider, _ := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
		_, err := provider.Summarize(context.Background(), SummarizeRequest{Assessment: testAssessment()})
		if err == nil {
			t.Errorf("status %d: expected error, got nil", status)
		}
		server.Close()
	}
}

func TestOpenAIProvider_Summarize_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{malformed json`))
	}))
	defer server.Close()

	provider, _ := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if _, err := provider.Summarize(context.Background(), SummarizeRequest{Assessment: testAssessment()}); err == nil {
		t.Fatal("Expected error for malformed JSON, got nil")
	}
}

func TestOpenAIProvider_Summarize_ContextDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	provider, _ := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})

	// The caller's deadline wins over the provider timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := provider.Summarize(ctx, SummarizeRequest{Assessment: testAssessment()}); err == nil {
		t.Fatal("Expected timeout error, got nil")
	}
}

func TestOpenAIProvider_Summarize_NilAssessment(t *testing.T) {
	provider, _ := NewOpenAIProvider(Config{APIKey: "test-key"})
	if _, err := provider.Summarize(context.Background(), SummarizeRequest{}); err == nil {
		t.Fatal("Expected error for nil assessment")
	}
}

func TestOpenAIProvider_IsAvailable(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/models" && healthy.Load() {
			_, _ = w.Write([]byte(`{"data": [{"id": "gpt-4o-mini"}]}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	provider, _ := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL})

	if !provider.IsAvailable(context.Background()) {
		t.Error("Expected available to be true")
	}

	healthy.Store(false)
	if provider.IsAvailable(context.Background()) {
		t.Error("Expected available to be false on error")
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		wantName string
		wantNil  bool
		wantErr  bool
	}{
		{"disabled", Config{}, "", true, false},
		{"openai", Config{Provider: "OpenAI", APIKey: "k"}, "openai", false, false},
		{"openai without key", Config{Provider: "openai"}, "", false, true},
		{"ollama", Config{Provider: "ollama", Model: "llama3.1"}, "ollama", false, false},
		{"ollama without model", Config{Provider: "ollama"}, "", false, true},
		{"unknown", Config{Provider: "anthropic"}, "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if tt.wantNil {
				if p != nil {
					t.Errorf("expected nil provider, got %v", p)
				}
				return
			}
			if p.Name() != tt.wantName {
				t.Errorf("Name() = %s, want %s", p.Name(), tt.wantName)
			}
		})
	}
}

func TestOllamaProvider_UsesCompatibleEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer ollama" {
			t.Errorf("Authorization = %q, want placeholder key", got)
		}
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: "Local summary."}}},
		})
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{Model: "llama3.1", BaseURL: server.URL + "/"})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := provider.Summarize(context.Background(), SummarizeRequest{Assessment: testAssessment()})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if resp.Summary != "Local summary." {
		t.Errorf("Unexpected summary: %s", resp.Summary)
	}
}

func TestExtractClauseIDs(t *testing.T) {
	got := extractClauseIDs("Aws Customer Agreement_3 and Aws Customer Agreement_12, again Aws Customer Agreement_3.", "Aws Customer Agreement")
	if len(got) != 2 || got[0] != "Aws Customer Agreement_3" || got[1] != "Aws Customer Agreement_12" {
		t.Errorf("extractClauseIDs() = %v", got)
	}
	if extractClauseIDs("Acme_1", "") != nil {
		t.Error("empty vendor should cite nothing")
	}
}

func TestConfigFromModel(t *testing.T) {
	c := ConfigFromModel(model.LLMConfig{Provider: "ollama", Model: "m", Timeout: 9, StrictClauses: true, MaxTokens: 5})
	if c.Provider != "ollama" || c.Model != "m" || c.Timeout != 9 || !c.StrictClauses || c.MaxTokens != 5 {
		t.Errorf("ConfigFromModel() = %+v", c)
	}
}
