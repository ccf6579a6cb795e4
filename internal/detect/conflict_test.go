package detect

import (
	"strings"
	"testing"

	"github.com/ppiankov/ruleaudit/internal/extract"
	"github.com/ppiankov/ruleaudit/internal/model"
)

func analysis(id string, order int, tier model.Tier, patterns []string, body string) *model.RuleAnalysis {
	a := &model.RuleAnalysis{
		Document: &model.RuleDocument{
			ID:    id,
			Order: order,
			Body:  body,
		},
		Scope: model.ActivationScope{Tier: tier, Patterns: patterns},
	}
	a.Directives = extract.NewDirectiveExtractor().Extract(body)
	return a
}

func TestConflictDetector_IndentationPatternConflict(t *testing.T) {
	detector := NewConflictDetector(nil)

	a := analysis("style-a.mdc", 0, model.TierAlways, nil, "Use tabs for indentation in all files.")
	b := analysis("style-b.mdc", 1, model.TierAlways, nil, "Use spaces for indentation everywhere.")

	findings := detector.Detect(a, b)
	if len(findings) != 1 {
		t.Fatalf("Expected exactly 1 finding, got %d: %v", len(findings), findings)
	}

	f := findings[0]
	if f.Kind != model.ConflictPattern {
		t.Errorf("Expected pattern conflict, got %s", f.Kind)
	}
	if f.Topic != "indentation style" {
		t.Errorf("Expected topic 'indentation style', got %q", f.Topic)
	}
	if f.RuleA != "style-a.mdc" || f.RuleB != "style-b.mdc" {
		t.Errorf("Expected both files named, got %s / %s", f.RuleA, f.RuleB)
	}
}

func TestConflictDetector_NoOverlapNoConflict(t *testing.T) {
	detector := NewConflictDetector(nil)

	// Textbook-opposing phrases, but disjoint scopes
	a := analysis("ts.mdc", 0, model.TierScoped, []string{"*.ts"}, "Always use interfaces for data shapes.")
	b := analysis("py.mdc", 1, model.TierScoped, []string{"*.py"}, "Never use interfaces here.")

	findings := detector.Detect(a, b)
	if len(findings) != 0 {
		t.Fatalf("Expected zero findings for non-overlapping scopes, got %v", findings)
	}
}

func TestConflictDetector_DirectiveConflict(t *testing.T) {
	detector := NewConflictDetector(nil)

	a := analysis("a.mdc", 0, model.TierScoped, []string{"*.ts"}, "Always use interfaces for models.")
	b := analysis("b.mdc", 1, model.TierScoped, []string{"**/*.ts"}, "Never use interfaces for models.")

	findings := detector.Detect(a, b)

	var directive []model.ConflictFinding
	for _, f := range findings {
		if f.Kind == model.ConflictDirective {
			directive = append(directive, f)
		}
	}
	if len(directive) != 1 {
		t.Fatalf("Expected 1 directive conflict, got %d: %v", len(directive), findings)
	}
	if !strings.Contains(directive[0].Detail, "interfaces") {
		t.Errorf("Expected subject in detail, got %q", directive[0].Detail)
	}
}

func TestConflictDetector_UnscopedDocumentsGated(t *testing.T) {
	detector := NewConflictDetector(nil)

	a := analysis("broken.mdc", 0, model.TierManual, nil, "Use tabs for indentation.")
	a.Unscoped = true
	b := analysis("ok.mdc", 1, model.TierAlways, nil, "Use spaces for indentation.")

	if findings := detector.Detect(a, b); len(findings) != 0 {
		t.Errorf("Expected unscoped document to be excluded, got %v", findings)
	}
	if findings := detector.Detect(b, a); len(findings) != 0 {
		t.Errorf("Expected gate to be symmetric, got %v", findings)
	}
}

func TestConflictDetector_ReversedAssignmentSingleFinding(t *testing.T) {
	detector := NewConflictDetector(nil)

	// The spaces rule is scanned first: the table's a-side (tabs) matches
	// the second document, exercising the reversed assignment
	a := analysis("spaces.mdc", 0, model.TierAlways, nil, "Use spaces for indentation.")
	b := analysis("tabs.mdc", 1, model.TierAlways, nil, "Use tabs for indentation.")

	findings := detector.Detect(a, b)
	count := 0
	for _, f := range findings {
		if f.Topic == "indentation style" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected one indentation finding regardless of ordering, got %d: %v", count, findings)
	}
}

func TestConflictDetector_OrderingDeterministic(t *testing.T) {
	detector := NewConflictDetector(nil)

	a := analysis("first.mdc", 0, model.TierAlways, nil, "Use tabs for indentation.")
	b := analysis("second.mdc", 1, model.TierAlways, nil, "Use spaces for indentation.")

	// Passing arguments in either order names the earlier-scanned rule first
	for _, findings := range [][]model.ConflictFinding{detector.Detect(a, b), detector.Detect(b, a)} {
		if len(findings) != 1 {
			t.Fatalf("Expected 1 finding, got %v", findings)
		}
		if findings[0].RuleA != "first.mdc" || findings[0].RuleB != "second.mdc" {
			t.Errorf("Expected scan-order naming, got %s / %s", findings[0].RuleA, findings[0].RuleB)
		}
	}
}

func TestConflictDetector_MultipleTopicsMultipleFindings(t *testing.T) {
	detector := NewConflictDetector(nil)

	a := analysis("a.mdc", 0, model.TierAlways, nil,
		"Use tabs for indentation. Prefer single quotes for strings.")
	b := analysis("b.mdc", 1, model.TierAlways, nil,
		"Use spaces for indentation. Prefer double quotes for strings.")

	findings := detector.Detect(a, b)
	topics := make(map[string]bool)
	for _, f := range findings {
		if f.Kind == model.ConflictPattern {
			topics[f.Topic] = true
		}
	}
	if !topics["indentation style"] || !topics["quote style"] {
		t.Errorf("Expected findings for both topics, got %v", findings)
	}
}

func TestConflictDetector_SameCaptureAbsolutes(t *testing.T) {
	detector := NewConflictDetector(nil)

	a := analysis("a.mdc", 0, model.TierAlways, nil, "Always use zod for validation.")
	b := analysis("b.mdc", 1, model.TierAlways, nil, "Never use zod in this project.")
	c := analysis("c.mdc", 2, model.TierAlways, nil, "Never use lodash in this project.")

	findings := detector.Detect(a, b)
	found := false
	for _, f := range findings {
		if f.Topic == "absolute directive" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected absolute-directive conflict for identical token, got %v", findings)
	}

	// Different tokens must not trip the capture-equality entry
	for _, f := range detector.Detect(a, c) {
		if f.Topic == "absolute directive" {
			t.Errorf("Expected no absolute-directive conflict for different tokens, got %v", f)
		}
	}
}

func TestConflictDetector_DifferentCaptureThresholds(t *testing.T) {
	detector := NewConflictDetector(nil)

	a := analysis("a.mdc", 0, model.TierAlways, nil, "Files should be under 200 lines.")
	b := analysis("b.mdc", 1, model.TierAlways, nil, "Files should be under 500 lines.")
	c := analysis("c.mdc", 2, model.TierAlways, nil, "Files should be under 200 lines.")

	findings := detector.Detect(a, b)
	found := false
	for _, f := range findings {
		if f.Topic == "file length limit" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected file-length conflict for differing thresholds, got %v", findings)
	}

	// Identical thresholds agree; no conflict
	for _, f := range detector.Detect(a, c) {
		if f.Topic == "file length limit" {
			t.Errorf("Expected no conflict for identical thresholds, got %v", f)
		}
	}
}

func TestConflictDetector_InjectableTable(t *testing.T) {
	table, err := LoadPatternTable([]byte(`
patterns:
  - topic: greeting
    a: 'say hello'
    b: 'say goodbye'
`))
	if err != nil {
		t.Fatalf("Expected table to load, got %v", err)
	}
	if table.Len() != 1 {
		t.Fatalf("Expected 1 entry, got %d", table.Len())
	}

	detector := NewConflictDetector(table)

	a := analysis("a.mdc", 0, model.TierAlways, nil, "Always say hello first.")
	b := analysis("b.mdc", 1, model.TierAlways, nil, "Always say goodbye first.")

	findings := detector.Detect(a, b)
	if len(findings) != 1 || findings[0].Topic != "greeting" {
		t.Errorf("Expected one greeting finding from substituted table, got %v", findings)
	}

	// The substituted table must not know the built-in topics
	tabs := analysis("t.mdc", 0, model.TierAlways, nil, "Use tabs for indentation.")
	spaces := analysis("s.mdc", 1, model.TierAlways, nil, "Use spaces for indentation.")
	if findings := detector.Detect(tabs, spaces); len(findings) != 0 {
		t.Errorf("Expected no findings outside the substituted table, got %v", findings)
	}
}

func TestLoadPatternTable_Invalid(t *testing.T) {
	cases := []string{
		"patterns:\n  - topic: bad regex\n    a: '['\n    b: 'x'\n",
		"patterns:\n  - a: 'x'\n    b: 'y'\n", // missing topic
		"patterns:\n  - topic: t\n    a: 'x'\n    b: 'y'\n    compare: bogus\n",
	}
	for _, data := range cases {
		if _, err := LoadPatternTable([]byte(data)); err == nil {
			t.Errorf("Expected error for %q", data)
		}
	}
}

func TestDefaultPatternTable_Loads(t *testing.T) {
	table := DefaultPatternTable()
	if table.Len() < 10 {
		t.Errorf("Expected the curated table to carry its topics, got %d entries", table.Len())
	}
}
