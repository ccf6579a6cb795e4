package model

// ConflictKind categorizes how a conflict was detected
type ConflictKind string

const (
	// ConflictDirective means opposing verbs on the same normalized subject
	ConflictDirective ConflictKind = "directive"

	// ConflictPattern means a curated topic pattern pair matched both bodies
	ConflictPattern ConflictKind = "pattern"
)

// ConflictFinding reports contradictory guidance between two rules.
// RuleA always precedes RuleB in scan order so findings are deterministic.
type ConflictFinding struct {
	RuleA string       `json:"rule_a"`
	RuleB string       `json:"rule_b"`
	Kind  ConflictKind `json:"kind"`

	// Topic is the curated topic label; empty for directive conflicts
	Topic string `json:"topic,omitempty"`

	// Detail is the human-readable explanation including matched phrases
	Detail string `json:"detail"`
}

// RedundancyFinding reports duplicative guidance between two rules.
type RedundancyFinding struct {
	RuleA string `json:"rule_a"`
	RuleB string `json:"rule_b"`

	// OverlapRatio is the Jaccard word-set similarity over normalized
	// bodies, in [0,1]
	OverlapRatio float64 `json:"overlap_ratio"`

	// LineOverlap is the independent corroborating measure: exact-matching
	// non-trivial lines divided by the smaller line-set size
	LineOverlap float64 `json:"line_overlap"`

	// NearCertain marks ratios at or above the emphasis threshold
	NearCertain bool `json:"near_certain"`
}

// LintNote is a per-document hygiene observation. Notes never gate the
// conflict or redundancy analysis.
type LintNote struct {
	Rule   string `json:"rule"`
	Check  string `json:"check"`
	Detail string `json:"detail"`
}

// Lint check identifiers
const (
	CheckHeaderError        = "header-error"
	CheckUnknownKey         = "unknown-key"
	CheckMissingDescription = "missing-description"
	CheckInvalidGlob        = "invalid-glob"
	CheckWrongType          = "wrong-type"
	CheckEmptyBody          = "empty-body"
	CheckOversizedBody      = "oversized-body"
	CheckDeadReference      = "dead-reference"
)

// Diagnostic identifies a document that could not participate in the scan
// (unreadable file, etc.) together with the underlying OS error.
type Diagnostic struct {
	File string `json:"file"`
	Err  string `json:"error"`
}
