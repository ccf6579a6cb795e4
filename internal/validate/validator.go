// Package validate runs per-document hygiene checks over a rule set.
package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ppiankov/ruleaudit/internal/model"
)

// Validator lints rule documents. Checks are advisory: they never gate
// detection or remediation.
type Validator struct {
	// projectRoot anchors @path reference resolution
	projectRoot string

	// oversizedRunes mirrors the split threshold so lint and remediation
	// agree on what "too long" means
	oversizedRunes int

	workers int
}

// NewValidator creates a validator rooted at projectRoot
func NewValidator(projectRoot string, oversizedRunes, workers int) *Validator {
	if workers < 1 {
		workers = 1
	}
	return &Validator{
		projectRoot:    projectRoot,
		oversizedRunes: oversizedRunes,
		workers:        workers,
	}
}

// Check runs every lint check over every analysis concurrently and returns
// notes in deterministic order (scan order, then check order within a
// document).
func (v *Validator) Check(analyses []*model.RuleAnalysis) []model.LintNote {
	perDoc := make([][]model.LintNote, len(analyses))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < v.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				perDoc[i] = v.checkOne(analyses[i])
			}
		}()
	}
	for i := range analyses {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var notes []model.LintNote
	for _, n := range perDoc {
		notes = append(notes, n...)
	}
	return notes
}

func (v *Validator) checkOne(a *model.RuleAnalysis) []model.LintNote {
	doc := a.Document
	var notes []model.LintNote

	note := func(check, format string, args ...interface{}) {
		notes = append(notes, model.LintNote{
			Rule:   doc.ID,
			Check:  check,
			Detail: fmt.Sprintf(format, args...),
		})
	}

	if doc.HeaderErr != "" {
		note(model.CheckHeaderError, "header failed to parse: %s", doc.HeaderErr)
	}

	for _, key := range doc.HeaderKeys {
		if !model.RecognizedHeaderKey(key) {
			note(model.CheckUnknownKey, "unrecognized header key %q is preserved but not interpreted", key)
		}
	}

	if doc.HeaderFound && doc.HeaderErr == "" && doc.Description() == "" {
		note(model.CheckMissingDescription, "header has no description")
	}

	notes = append(notes, v.checkGlobs(doc)...)
	notes = append(notes, v.checkTypes(doc)...)

	if strings.TrimSpace(doc.Body) == "" {
		note(model.CheckEmptyBody, "document has no body text")
	} else if v.oversizedRunes > 0 && len([]rune(doc.Body)) > v.oversizedRunes {
		note(model.CheckOversizedBody, "body is %d runes, above the %d split threshold", len([]rune(doc.Body)), v.oversizedRunes)
	}

	notes = append(notes, v.checkReferences(doc.ID, a.References)...)
	return notes
}

// checkGlobs validates every glob pattern the scope resolver would consume
func (v *Validator) checkGlobs(doc *model.RuleDocument) []model.LintNote {
	value, ok := doc.Header[model.KeyGlobs]
	if !ok {
		return nil
	}

	var patterns []string
	if list, isList := value.AsList(); isList {
		patterns = list
	} else if s, isStr := value.AsString(); isStr {
		for _, p := range strings.Split(s, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				patterns = append(patterns, trimmed)
			}
		}
	}

	var notes []model.LintNote
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			notes = append(notes, model.LintNote{
				Rule:   doc.ID,
				Check:  model.CheckInvalidGlob,
				Detail: fmt.Sprintf("glob %q does not compile", p),
			})
		}
	}
	return notes
}

// checkTypes flags recognized keys carrying the wrong value shape
func (v *Validator) checkTypes(doc *model.RuleDocument) []model.LintNote {
	var notes []model.LintNote
	wrong := func(key, want string) {
		notes = append(notes, model.LintNote{
			Rule:   doc.ID,
			Check:  model.CheckWrongType,
			Detail: fmt.Sprintf("header key %q should be %s", key, want),
		})
	}

	if value, ok := doc.Header[model.KeyAlwaysApply]; ok {
		if _, isBool := value.AsBool(); !isBool {
			wrong(model.KeyAlwaysApply, "a boolean")
		}
	}
	if value, ok := doc.Header[model.KeyDescription]; ok {
		if _, isStr := value.AsString(); !isStr {
			wrong(model.KeyDescription, "a string")
		}
	}
	if value, ok := doc.Header[model.KeyGlobs]; ok {
		_, isList := value.AsList()
		_, isStr := value.AsString()
		if !isList && !isStr {
			wrong(model.KeyGlobs, "a list or comma-separated string")
		}
	}
	return notes
}

// checkReferences resolves @path references against the project root
func (v *Validator) checkReferences(ruleID string, refs []string) []model.LintNote {
	if v.projectRoot == "" {
		return nil
	}

	var notes []model.LintNote
	seen := make(map[string]bool)
	for _, ref := range refs {
		if seen[ref] {
			continue
		}
		seen[ref] = true

		target := filepath.Join(v.projectRoot, filepath.FromSlash(ref))
		if _, err := os.Stat(target); err != nil {
			notes = append(notes, model.LintNote{
				Rule:   ruleID,
				Check:  model.CheckDeadReference,
				Detail: fmt.Sprintf("@%s does not resolve under the project root", ref),
			})
		}
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].Detail < notes[j].Detail })
	return notes
}
