package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/ruleaudit/internal/pipeline"
	"github.com/ppiankov/ruleaudit/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Audit multiple rules directories from a file in parallel",
	Long: `Batch audits multiple directories concurrently:
- Read directory paths from an input file (one per line)
- Audit directories in parallel with a configurable worker count
- Generate individual reports for each directory

Example:
  ruleaudit batch repos.txt
  ruleaudit batch repos.txt --concurrency 8 --output-dir ./audit-reports
  ruleaudit batch repos.txt --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./ruleaudit-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	batchCmd.Flags().BoolVar(&dryRun, "dry-run", false, "report remediation plans without writing rule files")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the analysis cache")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	batchCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM summary generation")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default when empty)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.Concurrency.Workers = concurrency

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	dirs, err := worker.ReadDirsFromFile(file)
	if err != nil {
		return fmt.Errorf("read directories: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Auditing %d directories with %d workers\n\n", len(dirs), concurrency)

	log := newLogger()
	p := pipeline.NewPipeline(cfg, log)
	processor := worker.NewBatchProcessor(p, concurrency)

	outcomes := processor.ProcessDirs(ctx, dirs)

	successCount := 0
	failureCount := 0
	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)

	for _, outcome := range outcomes {
		if outcome.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", outcome.Dir, outcome.Error)
			continue
		}
		successCount++

		slug := sanitizeFilename(outcome.Dir)
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")

		if err := renderer.RenderJSON(outcome.Report, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", outcome.Dir, err)
			continue
		}
		if err := renderer.RenderMarkdown(outcome.Report, mdPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", outcome.Dir, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "✓ %s (index: %d/100, conflicts: %d)\n",
			outcome.Dir, outcome.Report.Score.Index, len(outcome.Report.Conflicts))
	}

	fmt.Fprintf(os.Stderr, "\nBatch complete: %d total, %d succeeded, %d failed, reports in %s\n",
		len(outcomes), successCount, failureCount, outputDir)

	return nil
}

// sanitizeFilename turns a directory path into a safe report file stem
func sanitizeFilename(s string) string {
	s = strings.Trim(filepath.Clean(s), string(filepath.Separator))
	replacer := strings.NewReplacer(
		string(filepath.Separator), "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "_",
		".", "_",
	)
	s = replacer.Replace(s)
	if s == "" {
		s = "report"
	}
	return s
}
