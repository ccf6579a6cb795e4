// Package plan turns findings into remediation actions and applies them.
package plan

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ppiankov/ruleaudit/internal/model"
)

// MarkerPrefix opens the annotation comment inserted after a header block
const MarkerPrefix = "<!-- ruleaudit:conflicts-with "

// MarkerFor returns the literal annotation marker naming a counterpart.
// Idempotence is a literal-presence check on this exact string.
func MarkerFor(counterpart string) string {
	return MarkerPrefix + counterpart + " -->"
}

// Planner decides per finding whether to merge, split, or annotate
type Planner struct {
	cfg model.AuditConfig
}

// NewPlanner creates a planner with the given audit configuration
func NewPlanner(cfg model.AuditConfig) *Planner {
	return &Planner{cfg: cfg}
}

// Plan converts findings into a per-run action set. A document consumed
// by a Merge is removed from the Split and Annotate candidate pools so no
// document is ever targeted by two conflicting actions in one run.
func (p *Planner) Plan(analyses []*model.RuleAnalysis, conflicts []model.ConflictFinding, redundancies []model.RedundancyFinding) []model.RemediationAction {
	byID := make(map[string]*model.RuleAnalysis, len(analyses))
	for _, a := range analyses {
		byID[a.Document.ID] = a
	}

	var actions []model.RemediationAction

	// Merge decisions come first and consume their documents
	consumed := make(map[string]bool)
	merged := make(map[string]bool) // pair key: both docs of an auto-merged pair
	// mergedInto maps a removed doc to the doc that absorbed it; deleted
	// marks docs that will not exist after this run
	mergedInto := make(map[string]string)
	deleted := make(map[string]bool)
	for _, r := range redundancies {
		if r.OverlapRatio < p.cfg.MergeThreshold || r.LineOverlap < p.cfg.LineOverlapThreshold {
			continue
		}
		a, b := byID[r.RuleA], byID[r.RuleB]
		if a == nil || b == nil || consumed[r.RuleA] || consumed[r.RuleB] {
			continue
		}

		keep, remove := pickKeep(a, b)
		actions = append(actions, model.RemediationAction{
			Kind:    model.ActionMerge,
			Keep:    keep.Document.ID,
			Remove:  remove.Document.ID,
			Overlap: r.OverlapRatio,
		})
		consumed[keep.Document.ID] = true
		consumed[remove.Document.ID] = true
		merged[pairKey(r.RuleA, r.RuleB)] = true
		mergedInto[remove.Document.ID] = keep.Document.ID
		deleted[remove.Document.ID] = true
	}

	// Split decisions for oversized documents not touched by a merge
	for _, a := range analyses {
		if consumed[a.Document.ID] {
			continue
		}
		if len([]rune(a.Document.Body)) <= p.cfg.SplitThreshold {
			continue
		}
		parts := SplitBody(a.Document.Body)
		if len(parts) < 2 {
			continue
		}
		actions = append(actions, model.RemediationAction{
			Kind:   model.ActionSplit,
			Source: a.Document.ID,
			Parts:  partNames(a.Document.ID, len(parts)),
		})
		consumed[a.Document.ID] = true
		deleted[a.Document.ID] = true
	}

	// Annotate genuinely different guidance: conflict pairs that were not
	// auto-merged and whose documents were not consumed above
	annotated := make(map[string]bool)
	for _, c := range conflicts {
		if merged[pairKey(c.RuleA, c.RuleB)] {
			continue
		}
		reason := c.Topic
		if reason == "" {
			reason = "conflicting directives"
		}
		for _, pair := range [][2]string{{c.RuleA, c.RuleB}, {c.RuleB, c.RuleA}} {
			target, counterpart := pair[0], pair[1]
			if consumed[target] {
				continue
			}
			// A marker must name a document that survives this run:
			// point at the document a merge absorbed the counterpart
			// into, and drop the annotation when a split removes it
			if into, ok := mergedInto[counterpart]; ok {
				counterpart = into
			}
			if deleted[counterpart] || counterpart == target {
				continue
			}
			key := target + "\x00" + counterpart
			if annotated[key] {
				continue
			}
			annotated[key] = true

			doc := byID[target]
			if doc == nil || strings.Contains(doc.Document.Body, MarkerFor(counterpart)) {
				// Already carries the marker from a previous run
				continue
			}
			actions = append(actions, model.RemediationAction{
				Kind:        model.ActionAnnotate,
				Target:      target,
				Counterpart: counterpart,
				Reason:      reason,
			})
		}
	}

	return actions
}

// pickKeep applies the broader-scope total order: Always tier, then more
// glob patterns, then first-encountered-in-scan order as the stable
// tie-break
func pickKeep(a, b *model.RuleAnalysis) (keep, remove *model.RuleAnalysis) {
	aAlways := a.Scope.Tier == model.TierAlways
	bAlways := b.Scope.Tier == model.TierAlways
	switch {
	case aAlways && !bAlways:
		return a, b
	case bAlways && !aAlways:
		return b, a
	}

	if len(a.Scope.Patterns) != len(b.Scope.Patterns) {
		if len(a.Scope.Patterns) > len(b.Scope.Patterns) {
			return a, b
		}
		return b, a
	}

	if a.Document.Order <= b.Document.Order {
		return a, b
	}
	return b, a
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "\x00" + b
}

// partNames derives split part file names by suffixing the stem
func partNames(id string, count int) []string {
	ext := filepath.Ext(id)
	stem := strings.TrimSuffix(id, ext)
	names := make([]string, count)
	for i := range names {
		names[i] = fmt.Sprintf("%s-part-%d%s", stem, i+1, ext)
	}
	return names
}

// MergeBodies extends the kept body with every line of the removed body
// not already present: kept lines keep their order, novel lines append in
// the removed document's original order. Running the merge twice appends
// nothing the second time.
func MergeBodies(keep, remove string) string {
	keepLines := strings.Split(keep, "\n")
	present := make(map[string]bool, len(keepLines))
	for _, line := range keepLines {
		present[strings.TrimSpace(line)] = true
	}

	var novel []string
	for _, line := range strings.Split(remove, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || present[trimmed] {
			continue
		}
		present[trimmed] = true
		novel = append(novel, line)
	}

	if len(novel) == 0 {
		return keep
	}

	merged := strings.TrimRight(keep, "\n")
	if merged != "" {
		merged += "\n"
	}
	return merged + strings.Join(novel, "\n") + "\n"
}

// SplitBody divides a body at level-2 heading boundaries into two
// token-balanced parts, falling back to paragraph boundaries when the
// document has no headings. Returns the body unchanged (single part)
// when there is no boundary to split at.
func SplitBody(body string) []string {
	sections := splitSections(body, isLevel2Heading)
	if len(sections) < 2 {
		sections = splitSections(body, nil)
	}
	if len(sections) < 2 {
		return []string{body}
	}

	// Pick the boundary that best balances whitespace-token counts
	counts := make([]int, len(sections))
	total := 0
	for i, s := range sections {
		counts[i] = len(strings.Fields(s))
		total += counts[i]
	}

	best, bestImbalance := 1, -1
	running := 0
	for i := 1; i < len(sections); i++ {
		running += counts[i-1]
		imbalance := running - (total - running)
		if imbalance < 0 {
			imbalance = -imbalance
		}
		if bestImbalance < 0 || imbalance < bestImbalance {
			best, bestImbalance = i, imbalance
		}
	}

	first := strings.Join(sections[:best], "")
	second := strings.Join(sections[best:], "")
	return []string{first, second}
}

func isLevel2Heading(line string) bool {
	return strings.HasPrefix(line, "## ")
}

// splitSections cuts the body before every boundary line. A nil boundary
// predicate splits at paragraph breaks (blank lines) instead.
func splitSections(body string, boundary func(string) bool) []string {
	lines := strings.Split(body, "\n")

	var sections []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			sections = append(sections, strings.Join(current, "\n")+"\n")
			current = nil
		}
	}

	prevBlank := false
	for i, line := range lines {
		if boundary != nil {
			if boundary(line) && len(current) > 0 {
				flush()
			}
		} else {
			blank := strings.TrimSpace(line) == ""
			if prevBlank && !blank && len(current) > 0 {
				flush()
			}
			prevBlank = blank
		}
		// The empty tail produced by a trailing newline closes the last
		// section instead of starting a new line
		if i == len(lines)-1 && line == "" {
			flush()
			return sections
		}
		current = append(current, line)
	}
	flush()
	return sections
}
