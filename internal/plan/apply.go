package plan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ppiankov/ruleaudit/internal/model"
)

// Applier writes planned actions back to the filesystem. Every rewrite is
// an atomic swap (write to a temp path in the same directory, then rename)
// and deletions only happen after all writes of the action succeeded, so a
// failure can leave extra files behind but never a half-rewritten pair.
type Applier struct {
	dryRun bool
	log    zerolog.Logger
}

// NewApplier creates an applier; dryRun gates all filesystem mutation
func NewApplier(dryRun bool, log zerolog.Logger) *Applier {
	return &Applier{dryRun: dryRun, log: log}
}

// Apply executes the action set. Actions are independent: one failing is
// reported in its result and never blocks the rest. In dry-run mode the
// plan is returned unapplied.
func (ap *Applier) Apply(actions []model.RemediationAction, docs map[string]*model.RuleDocument) []model.ActionResult {
	results := make([]model.ActionResult, 0, len(actions))

	for _, action := range actions {
		result := model.ActionResult{Action: action}

		if ap.dryRun {
			ap.log.Debug().Str("action", action.Describe()).Msg("dry-run: skipping apply")
			results = append(results, result)
			continue
		}

		var err error
		switch action.Kind {
		case model.ActionMerge:
			err = ap.applyMerge(action, docs)
		case model.ActionSplit:
			err = ap.applySplit(action, docs)
		case model.ActionAnnotate:
			err = ap.applyAnnotate(action, docs)
		default:
			err = fmt.Errorf("unknown action kind %q", action.Kind)
		}

		if err != nil {
			result.Err = err.Error()
			ap.log.Error().Err(err).Str("action", action.Describe()).Msg("action failed")
		} else {
			result.Applied = true
			ap.log.Debug().Str("action", action.Describe()).Msg("applied")
		}
		results = append(results, result)
	}

	return results
}

// applyMerge rewrites the kept document with the line union, then deletes
// the removed document. A failed rewrite leaves the removed file in place.
func (ap *Applier) applyMerge(action model.RemediationAction, docs map[string]*model.RuleDocument) error {
	keep, ok := docs[action.Keep]
	if !ok {
		return fmt.Errorf("merge: kept document %s not loaded", action.Keep)
	}
	remove, ok := docs[action.Remove]
	if !ok {
		return fmt.Errorf("merge: removed document %s not loaded", action.Remove)
	}

	mergedBody := MergeBodies(keep.Body, remove.Body)
	if err := writeAtomic(keep.Path, keep.RawHeader+mergedBody); err != nil {
		return fmt.Errorf("merge: rewrite %s: %w", action.Keep, err)
	}
	keep.Body = mergedBody

	if err := os.Remove(remove.Path); err != nil {
		return fmt.Errorf("merge: %s rewritten but removing %s failed: %w", action.Keep, action.Remove, err)
	}
	return nil
}

// applySplit writes every part before deleting the source; a failed part
// write rolls back the parts already written.
func (ap *Applier) applySplit(action model.RemediationAction, docs map[string]*model.RuleDocument) error {
	source, ok := docs[action.Source]
	if !ok {
		return fmt.Errorf("split: source document %s not loaded", action.Source)
	}

	parts := SplitBody(source.Body)
	if len(parts) != len(action.Parts) {
		return fmt.Errorf("split: %s: expected %d parts, computed %d", action.Source, len(action.Parts), len(parts))
	}

	dir := filepath.Dir(source.Path)
	var written []string
	for i, name := range action.Parts {
		path := filepath.Join(dir, filepath.Base(name))
		if err := writeAtomic(path, source.RawHeader+parts[i]); err != nil {
			for _, w := range written {
				_ = os.Remove(w)
			}
			return fmt.Errorf("split: write part %s: %w", name, err)
		}
		written = append(written, path)
	}

	if err := os.Remove(source.Path); err != nil {
		return fmt.Errorf("split: parts written but removing %s failed: %w", action.Source, err)
	}
	return nil
}

// applyAnnotate inserts the marker immediately after the header block.
// A marker already present makes this a no-op.
func (ap *Applier) applyAnnotate(action model.RemediationAction, docs map[string]*model.RuleDocument) error {
	doc, ok := docs[action.Target]
	if !ok {
		return fmt.Errorf("annotate: document %s not loaded", action.Target)
	}

	marker := MarkerFor(action.Counterpart)
	if strings.Contains(doc.Body, marker) {
		return nil
	}

	newBody := marker + "\n" + doc.Body
	if err := writeAtomic(doc.Path, doc.RawHeader+newBody); err != nil {
		return fmt.Errorf("annotate: rewrite %s: %w", action.Target, err)
	}
	doc.Body = newBody
	return nil
}

// writeAtomic writes data to a temp file in the target's directory and
// renames it over the target, preserving an existing file mode.
func writeAtomic(path string, data string) error {
	var mode os.FileMode = 0o644
	if st, err := os.Stat(path); err == nil && st.Mode().Perm() != 0 {
		mode = st.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".ruleaudit-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.WriteString(data); err != nil {
		cleanup()
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("chmod temp: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename over %s: %w", path, err)
	}
	return nil
}
