package detect

import (
	"fmt"
	"strings"

	"github.com/ppiankov/ruleaudit/internal/model"
	"github.com/ppiankov/ruleaudit/internal/scope"
)

// oppositions maps each verb to the verbs it contradicts when both apply
// to the same normalized subject
var oppositions = map[model.Verb][]model.Verb{
	model.VerbRequire: {model.VerbForbid, model.VerbAvoid},
	model.VerbForbid:  {model.VerbRequire, model.VerbPrefer},
	model.VerbPrefer:  {model.VerbForbid},
	model.VerbAvoid:   {model.VerbRequire},
}

// ConflictDetector finds contradictory guidance between rule pairs
type ConflictDetector struct {
	table *PatternTable
}

// NewConflictDetector creates a detector with the given pattern table
func NewConflictDetector(table *PatternTable) *ConflictDetector {
	if table == nil {
		table = DefaultPatternTable()
	}
	return &ConflictDetector{table: table}
}

// Detect returns conflict findings between two analyzed rules. Rules
// whose activation scopes can never apply to the same file cannot
// conflict, so the scope-overlap gate runs first; documents with
// unparseable headers conservatively never pass it.
func (d *ConflictDetector) Detect(a, b *model.RuleAnalysis) []model.ConflictFinding {
	if a.Unscoped || b.Unscoped {
		return nil
	}
	if !scope.Overlap(a.Scope, b.Scope) {
		return nil
	}

	// Findings always name the earlier-scanned document first
	if a.Document.Order > b.Document.Order {
		a, b = b, a
	}

	var findings []model.ConflictFinding
	findings = append(findings, d.directiveConflicts(a, b)...)
	findings = append(findings, d.patternConflicts(a, b)...)
	return findings
}

// directiveConflicts pairs every directive of a against every directive
// of b with the same subject and looks up the opposition table. The
// directive lists are bags: repeated statements produce repeated findings.
func (d *ConflictDetector) directiveConflicts(a, b *model.RuleAnalysis) []model.ConflictFinding {
	var findings []model.ConflictFinding

	for _, da := range a.Directives {
		for _, db := range b.Directives {
			if da.Subject != db.Subject {
				continue
			}
			if !verbOpposes(da.Verb, db.Verb) {
				continue
			}
			findings = append(findings, model.ConflictFinding{
				RuleA: a.Document.ID,
				RuleB: b.Document.ID,
				Kind:  model.ConflictDirective,
				Detail: fmt.Sprintf("%s says %s %q, %s says %s %q",
					a.Document.ID, da.Verb, da.Subject,
					b.Document.ID, db.Verb, db.Subject),
			})
		}
	}

	return findings
}

// patternConflicts walks the curated table, testing each entry in both
// assignments (a-side against ruleA and ruleB) so either ordering of the
// opposing phrases is caught. Duplicate findings for the same
// (topic, ruleA, ruleB) triple are suppressed; distinct topics between
// the same two files each produce their own finding.
func (d *ConflictDetector) patternConflicts(a, b *model.RuleAnalysis) []model.ConflictFinding {
	bodyA := strings.ToLower(a.Document.Body)
	bodyB := strings.ToLower(b.Document.Body)

	seen := make(map[string]bool)
	var findings []model.ConflictFinding

	emit := func(entry *PatternEntry, inA, inB match) {
		key := entry.Topic + "\x00" + a.Document.ID + "\x00" + b.Document.ID
		if seen[key] {
			return
		}
		seen[key] = true
		findings = append(findings, model.ConflictFinding{
			RuleA: a.Document.ID,
			RuleB: b.Document.ID,
			Kind:  model.ConflictPattern,
			Topic: entry.Topic,
			Detail: fmt.Sprintf("%s: %s matches %q, %s matches %q",
				entry.Topic, a.Document.ID, inA.snippet, b.Document.ID, inB.snippet),
		})
	}

	for i := range d.table.entries {
		entry := &d.table.entries[i]

		if mA, okA := probe(entry.regexA, bodyA); okA {
			if mB, okB := probe(entry.regexB, bodyB); okB && entry.opposes(mA, mB) {
				emit(entry, mA, mB)
			}
		}

		// Reversed assignment
		if mB, okB := probe(entry.regexA, bodyB); okB {
			if mA, okA := probe(entry.regexB, bodyA); okA && entry.opposes(mB, mA) {
				emit(entry, mA, mB)
			}
		}
	}

	return findings
}

func verbOpposes(a, b model.Verb) bool {
	for _, v := range oppositions[a] {
		if v == b {
			return true
		}
	}
	return false
}
