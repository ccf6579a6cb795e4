package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ppiankov/ruleaudit/internal/cache"
	"github.com/ppiankov/ruleaudit/internal/detect"
	"github.com/ppiankov/ruleaudit/internal/extract"
	"github.com/ppiankov/ruleaudit/internal/llm"
	"github.com/ppiankov/ruleaudit/internal/model"
	"github.com/ppiankov/ruleaudit/internal/plan"
	"github.com/ppiankov/ruleaudit/internal/scope"
	"github.com/ppiankov/ruleaudit/internal/score"
	"github.com/ppiankov/ruleaudit/internal/validate"
)

// Pipeline orchestrates the complete audit of one rules directory
type Pipeline struct {
	loader     *Loader
	directives *extract.DirectiveExtractor
	references *extract.ReferenceExtractor
	conflicts  *detect.ConflictDetector
	redundancy *detect.RedundancyDetector
	planner    *plan.Planner
	applier    *plan.Applier
	scorer     *score.Scorer
	renderer   *Renderer
	summarizer *llm.Summarizer // nil when disabled
	store      cache.Store     // nil when caching is off
	config     *model.Config
	log        zerolog.Logger
}

// NewPipeline creates a pipeline from the runtime configuration
func NewPipeline(cfg *model.Config, log zerolog.Logger) *Pipeline {
	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(cfg.LLM, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize LLM provider, summaries disabled")
		} else {
			summarizer = s
		}
	}

	var store cache.Store
	if cfg.Cache.Enabled {
		store = cache.NewLayeredStore(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	return &Pipeline{
		loader:     NewLoader(),
		directives: extract.NewDirectiveExtractor(),
		references: extract.NewReferenceExtractor(),
		conflicts:  detect.NewConflictDetector(nil),
		redundancy: detect.NewRedundancyDetector(cfg.Audit.ReportThreshold, cfg.Audit.EmphasisThreshold),
		planner:    plan.NewPlanner(cfg.Audit),
		applier:    plan.NewApplier(cfg.Audit.DryRun, log),
		scorer:     score.NewScorer(cfg.Audit.SplitThreshold),
		renderer:   NewRenderer(cfg.Output.IncludeFooter),
		summarizer: summarizer,
		store:      store,
		config:     cfg,
		log:        log,
	}
}

// AuditDir audits one directory and returns the complete report.
// Findings are always computed; the remediation step is gated by DryRun.
func (p *Pipeline) AuditDir(ctx context.Context, dir string) (*model.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rulesDir := ResolveRulesDir(dir, p.config.Audit.RulesSubdir)
	loaded, err := p.loader.Load(rulesDir, p.config.Audit.Extensions)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	p.log.Debug().Str("dir", rulesDir).Int("documents", len(loaded.Documents)).Msg("loaded rule documents")

	// 1. Per-document analysis, cached by content hash
	analyses := make([]*model.RuleAnalysis, len(loaded.Documents))
	for i, doc := range loaded.Documents {
		analyses[i] = p.analyze(doc, loaded.Raw[doc.ID])
	}

	// 2. Pairwise detection in scan order
	var conflicts []model.ConflictFinding
	var redundancies []model.RedundancyFinding
	for i := 0; i < len(analyses); i++ {
		for j := i + 1; j < len(analyses); j++ {
			conflicts = append(conflicts, p.conflicts.Detect(analyses[i], analyses[j])...)
			if finding := p.redundancy.Detect(analyses[i], analyses[j]); finding != nil {
				redundancies = append(redundancies, *finding)
			}
		}
	}

	// 3. Lint checks; @references resolve against the audited path, not
	// the rules subdirectory
	validator := validate.NewValidator(dir, p.config.Audit.SplitThreshold, p.config.Concurrency.ReferenceWorkers)
	lint := validator.Check(analyses)

	// 4. Hygiene score
	scoreResult := p.scorer.Calculate(analyses, conflicts, redundancies, lint)

	// 5. Remediation plan and apply
	actions := p.planner.Plan(analyses, conflicts, redundancies)
	docsByID := make(map[string]*model.RuleDocument, len(loaded.Documents))
	for _, doc := range loaded.Documents {
		docsByID[doc.ID] = doc
	}
	results := p.applier.Apply(actions, docsByID)

	report := &model.Report{
		Directory:    rulesDir,
		ScannedAt:    time.Now().UTC(),
		DryRun:       p.config.Audit.DryRun,
		Documents:    dereference(analyses),
		Conflicts:    conflicts,
		Redundancies: redundancies,
		Lint:         lint,
		Diagnostics:  loaded.Diagnostics,
		Actions:      results,
		Score:        scoreResult,
	}

	// 6. LLM summary last, so it can never affect findings or the score
	if p.summarizer.IsEnabled() {
		report.LLM = p.summarizer.GenerateSummary(ctx, *report)
	}

	return report, nil
}

// analyze derives scope, directives, and references for one document,
// consulting the content-hash cache first
func (p *Pipeline) analyze(doc *model.RuleDocument, raw []byte) *model.RuleAnalysis {
	analysis := &model.RuleAnalysis{Document: doc}

	var key string
	if p.store != nil {
		key = cache.ContentKey(raw)
		if snap, found := cache.GetSnapshot(p.store, key); found {
			analysis.Scope = snap.Scope
			analysis.Unscoped = snap.Unscoped
			analysis.Directives = snap.Directives
			analysis.References = snap.References
			return analysis
		}
	}

	analysis.Scope = scope.Resolve(doc.Header)
	analysis.Unscoped = doc.HeaderErr != ""
	analysis.Directives = p.directives.Extract(doc.Body)
	analysis.References = p.references.Extract(doc.Body)

	if p.store != nil {
		snap := cache.AnalysisSnapshot{
			Scope:      analysis.Scope,
			Unscoped:   analysis.Unscoped,
			Directives: analysis.Directives,
			References: analysis.References,
		}
		if err := cache.PutSnapshot(p.store, key, snap, 0); err != nil {
			p.log.Debug().Err(err).Str("rule", doc.ID).Msg("cache write failed")
		}
	}
	return analysis
}

// RenderReport writes the report to the requested outputs
func (p *Pipeline) RenderReport(report *model.Report, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}

		if report.LLM != nil && report.LLM.SummaryMD != "" {
			llmPath := llmSummaryPath(mdPath)
			if err := p.renderer.RenderLLMSummary(report, llmPath); err != nil {
				return fmt.Errorf("render LLM summary: %w", err)
			}
			if verbose {
				fmt.Printf("✓ Wrote LLM summary: %s\n", llmPath)
			}
		}
	}

	return nil
}

// Summary renders the console summary for a finished audit
func (p *Pipeline) Summary(report *model.Report) string {
	return p.renderer.RenderSummary(report)
}

func dereference(analyses []*model.RuleAnalysis) []model.RuleAnalysis {
	out := make([]model.RuleAnalysis, len(analyses))
	for i, a := range analyses {
		out[i] = *a
	}
	return out
}
