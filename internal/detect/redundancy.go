package detect

import (
	"strings"

	"github.com/ppiankov/ruleaudit/internal/model"
)

// minLineRunes is the cutoff below which a line is too generic to count
// for the line-overlap measure
const minLineRunes = 5

// RedundancyDetector flags near-duplicate rule bodies
type RedundancyDetector struct {
	reportThreshold   float64
	emphasisThreshold float64
}

// NewRedundancyDetector creates a detector with the given thresholds:
// ratios strictly above reportThreshold are reportable, ratios at or
// above emphasisThreshold are flagged near-certain
func NewRedundancyDetector(reportThreshold, emphasisThreshold float64) *RedundancyDetector {
	return &RedundancyDetector{
		reportThreshold:   reportThreshold,
		emphasisThreshold: emphasisThreshold,
	}
}

// Detect compares two rule bodies and returns a finding when the overlap
// ratio clears the reporting threshold, nil otherwise. Documents with
// missing or malformed headers still participate: only body text is
// compared. The earlier-scanned document is always named first.
func (d *RedundancyDetector) Detect(a, b *model.RuleAnalysis) *model.RedundancyFinding {
	if a.Document.Order > b.Document.Order {
		a, b = b, a
	}

	ratio := Similarity(a.Document.Body, b.Document.Body)
	if ratio <= d.reportThreshold {
		return nil
	}

	return &model.RedundancyFinding{
		RuleA:        a.Document.ID,
		RuleB:        b.Document.ID,
		OverlapRatio: ratio,
		LineOverlap:  LineOverlap(a.Document.Body, b.Document.Body),
		NearCertain:  ratio >= d.emphasisThreshold,
	}
}

// Similarity computes the textual overlap ratio between two bodies,
// in [0,1]. Normalization: lower-case, collapse whitespace runs, trim.
// A body that is a strict extract of the other scores 1.0; otherwise the
// score is Jaccard similarity over whitespace-delimited word tokens.
func Similarity(bodyA, bodyB string) float64 {
	na := normalizeBody(bodyA)
	nb := normalizeBody(bodyB)

	if na == "" && nb == "" {
		return 1.0
	}
	if na == "" || nb == "" {
		return 0.0
	}

	// Substring shortcut: one rule being an extract of the other
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return 1.0
	}

	setA := tokenSet(na)
	setB := tokenSet(nb)

	intersection := 0
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 1.0
	}

	return float64(intersection) / float64(union)
}

// LineOverlap is the independent corroborating measure used before
// auto-merging: exact-matching non-trivial lines divided by the smaller
// line-set size. Short generically-worded documents that pass the Jaccard
// bar alone are not merged without this second signal.
func LineOverlap(bodyA, bodyB string) float64 {
	setA := lineSet(bodyA)
	setB := lineSet(bodyB)

	if len(setA) == 0 && len(setB) == 0 {
		return 1.0
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	matching := 0
	for line := range setA {
		if setB[line] {
			matching++
		}
	}

	smaller := len(setA)
	if len(setB) < smaller {
		smaller = len(setB)
	}
	return float64(matching) / float64(smaller)
}

func normalizeBody(body string) string {
	return strings.Join(strings.Fields(strings.ToLower(body)), " ")
}

func tokenSet(normalized string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(normalized) {
		set[tok] = true
	}
	return set
}

// lineSet collects normalized non-trivial lines
func lineSet(body string) map[string]bool {
	set := make(map[string]bool)
	for _, line := range strings.Split(body, "\n") {
		line = strings.Join(strings.Fields(strings.ToLower(line)), " ")
		if len([]rune(line)) >= minLineRunes {
			set[line] = true
		}
	}
	return set
}
