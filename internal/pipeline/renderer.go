package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/ruleaudit/internal/model"
)

// Renderer writes audit reports as JSON, Markdown, or console text
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the full report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// RenderMarkdown writes the human-readable report
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Rule Audit: %s\n\n", report.Directory)
	fmt.Fprintf(&b, "Scanned: %s\n\n", report.ScannedAt.Format("2006-01-02 15:04:05 UTC"))
	if report.DryRun {
		b.WriteString("**Dry run:** remediation was planned but not applied.\n\n")
	}

	fmt.Fprintf(&b, "## Hygiene Index: %d/100 (%s confidence)\n\n", report.Score.Index, report.Score.Confidence)
	for _, signal := range report.Score.Signals {
		fmt.Fprintf(&b, "- **%s** (%s): %s\n", signal.Type, signal.Severity, signal.Description)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Rules (%d)\n\n", len(report.Documents))
	b.WriteString("| Rule | Tier | Scope | Directives |\n")
	b.WriteString("|------|------|-------|------------|\n")
	for _, a := range report.Documents {
		scope := "-"
		if len(a.Scope.Patterns) > 0 {
			scope = strings.Join(a.Scope.Patterns, ", ")
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %d |\n", a.Document.ID, a.Scope.Tier, scope, len(a.Directives))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Conflicts (%d)\n\n", len(report.Conflicts))
	if len(report.Conflicts) == 0 {
		b.WriteString("No conflicting guidance detected.\n\n")
	}
	for _, c := range report.Conflicts {
		topic := string(c.Kind)
		if c.Topic != "" {
			topic = c.Topic
		}
		fmt.Fprintf(&b, "- **%s** / **%s** (%s): %s\n", c.RuleA, c.RuleB, topic, c.Detail)
	}
	if len(report.Conflicts) > 0 {
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Redundancies (%d)\n\n", len(report.Redundancies))
	if len(report.Redundancies) == 0 {
		b.WriteString("No redundant guidance detected.\n\n")
	}
	for _, red := range report.Redundancies {
		marker := ""
		if red.NearCertain {
			marker = " (near-certain)"
		}
		fmt.Fprintf(&b, "- **%s** / **%s**: %.0f%% overlap%s\n", red.RuleA, red.RuleB, red.OverlapRatio*100, marker)
	}
	if len(report.Redundancies) > 0 {
		b.WriteString("\n")
	}

	if len(report.Actions) > 0 {
		fmt.Fprintf(&b, "## Remediation (%d)\n\n", len(report.Actions))
		for _, result := range report.Actions {
			status := "planned"
			if result.Applied {
				status = "applied"
			}
			if result.Err != "" {
				status = "failed: " + result.Err
			}
			fmt.Fprintf(&b, "- %s [%s]\n", result.Action.Describe(), status)
		}
		b.WriteString("\n")
	}

	if len(report.Lint) > 0 {
		fmt.Fprintf(&b, "## Lint (%d)\n\n", len(report.Lint))
		for _, note := range report.Lint {
			fmt.Fprintf(&b, "- `%s` %s: %s\n", note.Rule, note.Check, note.Detail)
		}
		b.WriteString("\n")
	}

	if len(report.Diagnostics) > 0 {
		fmt.Fprintf(&b, "## Skipped Files (%d)\n\n", len(report.Diagnostics))
		for _, d := range report.Diagnostics {
			fmt.Fprintf(&b, "- `%s`: %s\n", d.File, d.Err)
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\nGenerated by ruleaudit. Findings describe consistency between rules, not the quality of the guidance itself.\n")
	}

	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// RenderLLMSummary writes the LLM summary as its own Markdown file
func (r *Renderer) RenderLLMSummary(report *model.Report, path string) error {
	if report.LLM == nil {
		return fmt.Errorf("report has no LLM summary")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# LLM Summary: %s\n\n", report.Directory)
	fmt.Fprintf(&b, "Provider: %s (%s), strict paths: %v\n\n", report.LLM.Provider, report.LLM.Model, report.LLM.StrictPaths)
	b.WriteString(report.LLM.SummaryMD)
	b.WriteString("\n")
	for _, w := range report.LLM.Warnings {
		fmt.Fprintf(&b, "\n> Warning: %s\n", w)
	}

	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// RenderSummary produces the short console summary
func (r *Renderer) RenderSummary(report *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Audited %s: %d rule(s)\n", report.Directory, len(report.Documents))
	fmt.Fprintf(&b, "Hygiene index: %d/100 (%s confidence)\n", report.Score.Index, report.Score.Confidence)
	fmt.Fprintf(&b, "Conflicts: %d, redundant pairs: %d, lint notes: %d\n",
		len(report.Conflicts), len(report.Redundancies), len(report.Lint))

	applied, failed := 0, 0
	for _, result := range report.Actions {
		if result.Applied {
			applied++
		}
		if result.Err != "" {
			failed++
		}
	}
	if len(report.Actions) > 0 {
		verb := "applied"
		if report.DryRun {
			verb = "planned"
		}
		fmt.Fprintf(&b, "Remediation: %d action(s), %d %s, %d failed\n", len(report.Actions), planCount(report, applied), verb, failed)
	}

	for _, d := range report.Diagnostics {
		fmt.Fprintf(&b, "Skipped %s: %s\n", d.File, d.Err)
	}

	return b.String()
}

func planCount(report *model.Report, applied int) int {
	if report.DryRun {
		return len(report.Actions)
	}
	return applied
}

// llmSummaryPath derives the side-file path for the LLM summary
func llmSummaryPath(mdPath string) string {
	if strings.HasSuffix(mdPath, ".md") {
		return strings.TrimSuffix(mdPath, ".md") + ".llm.md"
	}
	return mdPath + ".llm.md"
}
