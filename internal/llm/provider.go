// Package llm generates optional natural-language audit summaries.
// Summaries are advisory output: they never affect findings, actions, or
// the hygiene score.
package llm

import (
	"context"
	"fmt"

	"github.com/ppiankov/ruleaudit/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize generates a summary of the audit report
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for LLM summarization
type SummarizeRequest struct {
	// Report is the audit report to summarize
	Report model.Report

	// AllowedFiles is the STRICT allowlist of rule files the LLM may cite.
	// A summary referencing any file outside this list is rejected.
	AllowedFiles []string

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the LLM's summary output
type SummarizeResponse struct {
	// Summary is the generated summary text
	Summary string

	// CitedFiles are the rule files the LLM actually cited
	CitedFiles []string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests, in seconds
	Timeout int

	// StrictPaths enforces the file allowlist on citations
	StrictPaths bool

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:    "", // Disabled by default
		Timeout:     30,
		StrictPaths: true,
		MaxTokens:   1000,
	}
}

// BuildPrompt constructs the default summarization prompt
func BuildPrompt(report model.Report, allowedFiles []string) string {
	prompt := fmt.Sprintf(`You are summarizing a rule-set audit. The audit detects conflicting and redundant guidance between AI-assistant rule files - it never judges whether the guidance itself is good.

CRITICAL RULES:
1. You MUST ONLY reference rule files from this allowed list:
%s

2. DO NOT invent file names or reference files outside this list.
3. If findings are absent, say so explicitly.
4. Describe WHAT conflicts or overlaps, never which side is right.

Audit Summary:
- Directory: %s
- Hygiene Index: %d/100
- Rules Scanned: %d
- Conflicts: %d
- Redundant Pairs: %d
- Remediation Actions: %d

Key Signals:
`, joinFiles(allowedFiles), report.Directory, report.Score.Index, len(report.Documents), len(report.Conflicts), len(report.Redundancies), len(report.Actions))

	for i, signal := range report.Score.Signals {
		if i >= 3 {
			break
		}
		prompt += fmt.Sprintf("- %s: %s\n", signal.Type, signal.Description)
	}

	prompt += "\nProvide a 3-4 sentence summary of the rule set's health, naming the most important conflicting or redundant files."

	return prompt
}

func joinFiles(files []string) string {
	if len(files) == 0 {
		return "(No rule files scanned)"
	}
	result := ""
	for i, f := range files {
		if i >= 20 { // Cap the list to avoid token bloat
			result += fmt.Sprintf("\n... and %d more files", len(files)-20)
			break
		}
		result += fmt.Sprintf("\n- %s", f)
	}
	return result
}
