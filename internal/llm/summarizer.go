package llm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ppiankov/ruleaudit/internal/model"
	"github.com/ppiankov/ruleaudit/internal/worker"
)

// Summarizer wraps a provider with rate limiting and converts outcomes to
// the report's LLMSummary block. Failures degrade to warnings: a broken
// LLM never fails an audit.
type Summarizer struct {
	provider Provider
	config   Config
	limiter  *worker.Limiter
	endpoint string
	log      zerolog.Logger
}

// NewSummarizer creates a summarizer from the model config; a nil return
// with nil error means LLM summaries are disabled.
func NewSummarizer(cfg model.LLMConfig, log zerolog.Logger) (*Summarizer, error) {
	config := ConfigFromModel(cfg)

	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, nil
	}

	rps := cfg.RateLimit
	if rps <= 0 {
		rps = 1
	}

	return &Summarizer{
		provider: provider,
		config:   config,
		limiter:  worker.NewLimiter(float64(rps), 1),
		endpoint: endpointFor(config),
		log:      log,
	}, nil
}

// IsEnabled reports whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s != nil && s.provider != nil
}

// GenerateSummary produces the LLMSummary for a finished report. The
// allowlist is the set of scanned rule file IDs; in strict mode any
// citation outside it rejects the summary.
func (s *Summarizer) GenerateSummary(ctx context.Context, report model.Report) *model.LLMSummary {
	summary := &model.LLMSummary{
		Enabled:     true,
		Provider:    s.provider.Name(),
		Model:       s.config.Model,
		StrictPaths: s.config.StrictPaths,
	}

	allowed := make([]string, 0, len(report.Documents))
	for _, d := range report.Documents {
		allowed = append(allowed, d.Document.ID)
	}

	if err := s.limiter.Wait(ctx, s.endpoint); err != nil {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("rate limit wait: %v", err))
		return summary
	}

	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Report:       report,
		AllowedFiles: allowed,
		MaxTokens:    s.config.MaxTokens,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("provider", s.provider.Name()).Msg("LLM summary failed")
		summary.Warnings = append(summary.Warnings, err.Error())
		return summary
	}

	summary.Model = resp.Model
	summary.SummaryMD = resp.Summary
	return summary
}

// endpointFor picks the rate-limit key for a provider configuration
func endpointFor(config Config) string {
	if config.BaseURL != "" {
		return config.BaseURL
	}
	switch config.Provider {
	case "anthropic", "claude":
		return "https://api.anthropic.com"
	case "ollama":
		return "http://localhost:11434"
	default:
		return "https://api.openai.com"
	}
}
