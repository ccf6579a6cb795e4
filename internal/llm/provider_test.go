package llm

import (
	"strings"
	"testing"

	"github.com/ppiankov/ruleaudit/internal/model"
)

func TestBuildPrompt_CarriesAllowlistAndStats(t *testing.T) {
	report := model.Report{
		Directory: "/repo/.cursor/rules",
		Score: model.Score{
			Index: 72,
			Signals: []model.Signal{
				{Type: model.SignalConsistency, Description: "1 of 3 rule pairs conflict"},
			},
		},
		Conflicts: []model.ConflictFinding{{RuleA: "a.mdc", RuleB: "b.mdc"}},
	}

	prompt := BuildPrompt(report, []string{"a.mdc", "b.mdc"})

	for _, want := range []string{"a.mdc", "b.mdc", "72/100", "1 of 3 rule pairs conflict", "ONLY reference rule files"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("expected prompt to contain %q", want)
		}
	}
}

func TestBuildPrompt_EmptyAllowlist(t *testing.T) {
	prompt := BuildPrompt(model.Report{}, nil)
	if !strings.Contains(prompt, "No rule files scanned") {
		t.Error("expected the empty-allowlist placeholder")
	}
}

func TestBuildPrompt_CapsFileList(t *testing.T) {
	files := make([]string, 30)
	for i := range files {
		files[i] = "rule.mdc"
	}
	prompt := BuildPrompt(model.Report{}, files)
	if !strings.Contains(prompt, "and 10 more files") {
		t.Error("expected the file list capped at 20 entries")
	}
}

func TestExtractRuleFiles(t *testing.T) {
	text := "The conflict is between style-a.mdc and ./style-b.mdc; style-a.mdc also overlaps nested/dir/style-c.mdc."
	files := extractRuleFiles(text)

	want := []string{"style-a.mdc", "style-b.mdc", "nested/dir/style-c.mdc"}
	if len(files) != len(want) {
		t.Fatalf("expected %v, got %v", want, files)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("expected %s at %d, got %s", want[i], i, files[i])
		}
	}
}

func TestVerifyCitations(t *testing.T) {
	allowed := []string{"a.mdc", "b.mdc"}

	if err := verifyCitations([]string{"a.mdc"}, allowed); err != nil {
		t.Errorf("expected allowed citation accepted, got %v", err)
	}
	if err := verifyCitations([]string{"a.mdc", "ghost.mdc"}, allowed); err == nil {
		t.Error("expected a citation leak error for a file outside the allowlist")
	}
}
