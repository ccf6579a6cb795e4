package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ppiankov/ruleaudit/internal/model"
)

func ollamaStub(t *testing.T, text string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		resp := map[string]interface{}{
			"model":             "llama3.2",
			"response":          text,
			"done":              true,
			"prompt_eval_count": 80,
			"eval_count":        40,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func reportWithDocs(ids ...string) model.Report {
	var report model.Report
	for _, id := range ids {
		report.Documents = append(report.Documents, model.RuleAnalysis{
			Document: &model.RuleDocument{ID: id},
		})
	}
	return report
}

func TestNewSummarizer_Disabled(t *testing.T) {
	summarizer, err := NewSummarizer(model.LLMConfig{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("expected no error when disabled, got %v", err)
	}
	if summarizer.IsEnabled() {
		t.Error("expected a disabled summarizer")
	}
}

func TestSummarizer_GenerateSummary(t *testing.T) {
	server := ollamaStub(t, "Rules a.mdc and b.mdc overlap heavily.")
	defer server.Close()

	summarizer, err := NewSummarizer(model.LLMConfig{
		Provider:    "ollama",
		BaseURL:     server.URL,
		StrictPaths: true,
		RateLimit:   100,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewSummarizer: %v", err)
	}
	if !summarizer.IsEnabled() {
		t.Fatal("expected an enabled summarizer")
	}

	summary := summarizer.GenerateSummary(context.Background(), reportWithDocs("a.mdc", "b.mdc"))

	if !summary.Enabled || summary.Provider != "ollama" {
		t.Errorf("expected an enabled ollama summary, got %+v", summary)
	}
	if !strings.Contains(summary.SummaryMD, "a.mdc") {
		t.Errorf("expected the summary text carried, got %q", summary.SummaryMD)
	}
	if len(summary.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", summary.Warnings)
	}
	if !summary.StrictPaths {
		t.Error("expected strict paths recorded")
	}
}

func TestSummarizer_LeakBecomesWarning(t *testing.T) {
	server := ollamaStub(t, "See invented.mdc for the full story.")
	defer server.Close()

	summarizer, err := NewSummarizer(model.LLMConfig{
		Provider:    "ollama",
		BaseURL:     server.URL,
		StrictPaths: true,
		RateLimit:   100,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewSummarizer: %v", err)
	}

	summary := summarizer.GenerateSummary(context.Background(), reportWithDocs("a.mdc"))

	if summary.SummaryMD != "" {
		t.Errorf("expected no summary after a citation leak, got %q", summary.SummaryMD)
	}
	if len(summary.Warnings) != 1 || !strings.Contains(summary.Warnings[0], "citation leak") {
		t.Errorf("expected the leak degraded to a warning, got %v", summary.Warnings)
	}
}

func TestSummarizer_ProviderFailureBecomesWarning(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer server.Close()

	summarizer, err := NewSummarizer(model.LLMConfig{
		Provider:  "ollama",
		BaseURL:   server.URL,
		RateLimit: 100,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewSummarizer: %v", err)
	}

	summary := summarizer.GenerateSummary(context.Background(), reportWithDocs("a.mdc"))

	if summary.SummaryMD != "" {
		t.Error("expected no summary on provider failure")
	}
	if len(summary.Warnings) == 0 {
		t.Error("expected a warning carrying the provider error")
	}
}
