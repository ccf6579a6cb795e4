package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/ruleaudit/internal/model"
	"github.com/ppiankov/ruleaudit/internal/pipeline"
)

var (
	outJSON      string
	outMD        string
	auditTimeout time.Duration
	dryRun       bool
	noCache      bool
	noFooter     bool
	llmEnabled   bool
	llmProvider  string
	llmModel     string
)

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit <dir>",
	Short: "Audit one rules directory for conflicts and redundancy",
	Long: `Audit scans a rules directory (or a project root containing
.cursor/rules) to:
- Detect contradictory guidance between rules with overlapping scopes
- Find near-duplicate rules worth merging
- Lint headers, globs, and @file references
- Apply remediation: merge, split, and cross-annotate

Example:
  ruleaudit audit .
  ruleaudit audit ./my-project --dry-run --md report.md
  ruleaudit audit ./rules --llm --llm-provider ollama --llm-model llama3.2`,
	Args: cobra.ExactArgs(1),
	RunE: runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)

	// Output flags
	auditCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	auditCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")

	// Audit flags
	auditCmd.Flags().DurationVar(&auditTimeout, "timeout", 2*time.Minute, "overall audit timeout")
	auditCmd.Flags().BoolVar(&dryRun, "dry-run", false, "report the remediation plan without writing files")
	auditCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the analysis cache")
	auditCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// LLM flags
	auditCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM summary generation")
	auditCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	auditCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default when empty)")
}

func runAudit(cmd *cobra.Command, args []string) error {
	dir := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	log := newLogger()
	p := pipeline.NewPipeline(cfg, log)

	report, err := p.AuditDir(ctx, dir)
	if err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}

	fmt.Print(p.Summary(report))

	if err := p.RenderReport(report, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

// buildConfig assembles the runtime configuration from defaults and flags
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.Audit.DryRun = dryRun
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel

		// API keys come from the environment only, never from config files
		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "anthropic", "claude":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
			}
		case "ollama":
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}

	return cfg, nil
}
