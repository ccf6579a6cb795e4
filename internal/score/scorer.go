// Package score computes the reporting-only rule-set hygiene index.
package score

import (
	"fmt"
	"math"

	"github.com/ppiankov/ruleaudit/internal/model"
)

// Scorer calculates the hygiene index and generates signals.
// The index never gates findings or remediation.
type Scorer struct {
	// oversizedRunes is the body length above which a document counts as a
	// split candidate
	oversizedRunes int
}

// NewScorer creates a new scorer
func NewScorer(oversizedRunes int) *Scorer {
	return &Scorer{oversizedRunes: oversizedRunes}
}

// Calculate computes the hygiene index and diagnostic signals
func (s *Scorer) Calculate(analyses []*model.RuleAnalysis, conflicts []model.ConflictFinding, redundancies []model.RedundancyFinding, lint []model.LintNote) model.Score {
	var signals []model.Signal

	// 1. Consistency (0-40 points)
	consistencyScore, consistencySignal := s.calculateConsistency(analyses, conflicts)
	signals = append(signals, consistencySignal)

	// 2. Uniqueness (0-30 points)
	uniquenessScore, uniquenessSignal := s.calculateUniqueness(analyses, redundancies)
	signals = append(signals, uniquenessSignal)

	// 3. Hygiene (0-20 points)
	hygieneScore, hygieneSignal := s.calculateHygiene(analyses, lint)
	signals = append(signals, hygieneSignal)

	// 4. Scope coverage (0-10 points)
	scopeScore, scopeSignal := s.calculateScopeCoverage(analyses)
	signals = append(signals, scopeSignal)

	// 5. Oversized documents (informational)
	oversizedSignal := s.detectOversized(analyses)
	if oversizedSignal.Type != "" {
		signals = append(signals, oversizedSignal)
	}

	totalScore := consistencyScore + uniquenessScore + hygieneScore + scopeScore

	conflictDetected := len(conflicts) > 0
	confidence := s.determineConfidence(totalScore, len(analyses), conflictDetected)

	return model.Score{
		Index:      totalScore,
		Confidence: confidence,
		Conflict:   conflictDetected,
		Signals:    signals,
	}
}

// calculateConsistency scores conflict density over rule pairs (0-40)
func (s *Scorer) calculateConsistency(analyses []*model.RuleAnalysis, conflicts []model.ConflictFinding) (int, model.Signal) {
	totalPairs := pairCount(len(analyses))
	if totalPairs == 0 {
		return 40, model.Signal{
			Type:        model.SignalConsistency,
			Severity:    model.SeverityInfo,
			Description: "Too few rules to conflict",
			Data: map[string]interface{}{
				"rules": len(analyses),
				"score": 40,
			},
		}
	}

	conflictPairs := len(distinctPairs(func(yield func(a, b string)) {
		for _, c := range conflicts {
			yield(c.RuleA, c.RuleB)
		}
	}))

	ratio := float64(conflictPairs) / float64(totalPairs)
	score := int(math.Max(0, (1-ratio*4)*40))

	severity := model.SeverityInfo
	if conflictPairs > 0 {
		severity = model.SeverityCritical
	}

	return score, model.Signal{
		Type:        model.SignalConsistency,
		Severity:    severity,
		Description: fmt.Sprintf("%d of %d rule pairs conflict", conflictPairs, totalPairs),
		Data: map[string]interface{}{
			"conflict_pairs": conflictPairs,
			"total_pairs":    totalPairs,
			"ratio":          ratio,
			"score":          score,
			"formula":        "max(0, (1 - conflict_pairs / total_pairs * 4) * 40)",
		},
	}
}

// calculateUniqueness scores redundancy density over rule pairs (0-30)
func (s *Scorer) calculateUniqueness(analyses []*model.RuleAnalysis, redundancies []model.RedundancyFinding) (int, model.Signal) {
	totalPairs := pairCount(len(analyses))
	if totalPairs == 0 {
		return 30, model.Signal{
			Type:        model.SignalUniqueness,
			Severity:    model.SeverityInfo,
			Description: "Too few rules to overlap",
			Data: map[string]interface{}{
				"rules": len(analyses),
				"score": 30,
			},
		}
	}

	redundantPairs := len(distinctPairs(func(yield func(a, b string)) {
		for _, r := range redundancies {
			yield(r.RuleA, r.RuleB)
		}
	}))

	ratio := float64(redundantPairs) / float64(totalPairs)
	score := int(math.Max(0, (1-ratio*2)*30))

	severity := model.SeverityInfo
	if redundantPairs > 0 {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalUniqueness,
		Severity:    severity,
		Description: fmt.Sprintf("%d of %d rule pairs are redundant", redundantPairs, totalPairs),
		Data: map[string]interface{}{
			"redundant_pairs": redundantPairs,
			"total_pairs":     totalPairs,
			"ratio":           ratio,
			"score":           score,
			"formula":         "max(0, (1 - redundant_pairs / total_pairs * 2) * 30)",
		},
	}
}

// calculateHygiene scores lint note density per document (0-20)
func (s *Scorer) calculateHygiene(analyses []*model.RuleAnalysis, lint []model.LintNote) (int, model.Signal) {
	if len(analyses) == 0 {
		return 0, model.Signal{
			Type:        model.SignalHygiene,
			Severity:    model.SeverityWarning,
			Description: "No rules to lint",
			Data: map[string]interface{}{
				"rules": 0,
				"score": 0,
			},
		}
	}

	density := float64(len(lint)) / float64(len(analyses))
	score := int(math.Max(0, (1-density/2)*20))

	severity := model.SeverityInfo
	if density >= 2 {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalHygiene,
		Severity:    severity,
		Description: fmt.Sprintf("%.1f lint notes per rule", density),
		Data: map[string]interface{}{
			"notes":   len(lint),
			"rules":   len(analyses),
			"density": density,
			"score":   score,
			"formula": "max(0, (1 - notes_per_rule / 2) * 20)",
		},
	}
}

// calculateScopeCoverage scores how many rules have a clear activation
// story (0-10). A rule is unclear when its header failed to parse or when
// it never activates automatically and carries no description to surface
// it.
func (s *Scorer) calculateScopeCoverage(analyses []*model.RuleAnalysis) (int, model.Signal) {
	if len(analyses) == 0 {
		return 0, model.Signal{
			Type:        model.SignalScopeCoverage,
			Severity:    model.SeverityWarning,
			Description: "No rules to scope",
			Data: map[string]interface{}{
				"rules": 0,
				"score": 0,
			},
		}
	}

	clear := 0
	for _, a := range analyses {
		if a.Unscoped {
			continue
		}
		if a.Scope.Tier == model.TierManual && a.Document.Description() == "" {
			continue
		}
		clear++
	}

	ratio := float64(clear) / float64(len(analyses))
	score := int(ratio * 10)

	severity := model.SeverityInfo
	if ratio < 0.5 {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalScopeCoverage,
		Severity:    severity,
		Description: fmt.Sprintf("%d of %d rules have a clear activation scope", clear, len(analyses)),
		Data: map[string]interface{}{
			"clear":   clear,
			"rules":   len(analyses),
			"ratio":   ratio,
			"score":   score,
			"formula": "clear_rules / total_rules * 10",
		},
	}
}

// detectOversized reports split candidates; informational only
func (s *Scorer) detectOversized(analyses []*model.RuleAnalysis) model.Signal {
	if s.oversizedRunes <= 0 {
		return model.Signal{}
	}

	count := 0
	for _, a := range analyses {
		if len([]rune(a.Document.Body)) > s.oversizedRunes {
			count++
		}
	}
	if count == 0 {
		return model.Signal{}
	}

	return model.Signal{
		Type:        model.SignalOversized,
		Severity:    model.SeverityInfo,
		Description: fmt.Sprintf("%d rule(s) above the %d-rune split threshold", count, s.oversizedRunes),
		Data: map[string]interface{}{
			"oversized": count,
			"threshold": s.oversizedRunes,
		},
	}
}

// determineConfidence maps the index and context to a confidence level
func (s *Scorer) determineConfidence(score, ruleCount int, conflict bool) string {
	if ruleCount == 0 || score < 50 {
		return "low"
	}
	if score >= 80 && ruleCount >= 3 && !conflict {
		return "high"
	}
	return "medium"
}

// pairCount is n choose 2
func pairCount(n int) int {
	return n * (n - 1) / 2
}

// distinctPairs collapses findings onto unordered rule pairs
func distinctPairs(each func(yield func(a, b string))) map[string]bool {
	pairs := make(map[string]bool)
	each(func(a, b string) {
		if a > b {
			a, b = b, a
		}
		pairs[a+"\x00"+b] = true
	})
	return pairs
}
