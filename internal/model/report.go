package model

import "time"

// Report is the complete result of auditing one rules directory
type Report struct {
	Directory string    `json:"directory"`          // Rules directory that was audited
	ScannedAt time.Time `json:"scanned_at"`         // When the audit ran
	DryRun    bool      `json:"dry_run"`            // Whether filesystem mutation was gated off

	Documents []RuleAnalysis `json:"documents"` // Per-document analysis

	Conflicts    []ConflictFinding   `json:"conflicts"`    // Error-equivalent findings
	Redundancies []RedundancyFinding `json:"redundancies"` // Warning-equivalent findings
	Lint         []LintNote          `json:"lint,omitempty"`
	Diagnostics  []Diagnostic        `json:"diagnostics,omitempty"` // Unreadable files etc.

	Actions []ActionResult `json:"actions"` // Applied or proposed remediation

	Score Score `json:"score"` // Hygiene index, reporting-only

	LLM *LLMSummary `json:"llm,omitempty"` // Optional LLM summary (never affects findings)
}

// Score is the transparent rule-set hygiene breakdown
type Score struct {
	Index      int      `json:"index"`      // Overall hygiene index (0-100)
	Confidence string   `json:"confidence"` // "low", "medium", "high"
	Conflict   bool     `json:"conflict"`   // Whether any conflict was detected
	Signals    []Signal `json:"signals"`    // Diagnostic signals with transparent data
}

// Signal is a diagnostic signal with transparent scoring data
type Signal struct {
	Type        SignalType             `json:"type"`
	Severity    SignalSeverity         `json:"severity"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"` // Formulas and inputs
}

// SignalType classifies the type of diagnostic signal
type SignalType string

const (
	SignalConsistency   SignalType = "consistency"    // Conflicting rule pairs
	SignalUniqueness    SignalType = "uniqueness"     // Redundant rule pairs
	SignalHygiene       SignalType = "hygiene"        // Lint note density
	SignalScopeCoverage SignalType = "scope_coverage" // Rules that never activate
	SignalOversized     SignalType = "oversized"      // Split candidates
)

// SignalSeverity indicates the importance of the signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)

// LLMSummary contains the optional LLM-generated summary.
// It never affects findings, actions, or the score.
type LLMSummary struct {
	Enabled     bool     `json:"enabled"`
	Provider    string   `json:"provider,omitempty"`
	Model       string   `json:"model,omitempty"`
	StrictPaths bool     `json:"strict_paths"` // Whether path-allowlist enforcement was on
	SummaryMD   string   `json:"summary_md,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
}
