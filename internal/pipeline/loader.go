// Package pipeline orchestrates the audit: load, analyze, detect, lint,
// score, plan, apply, report.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ppiankov/ruleaudit/internal/extract/adapters"
	"github.com/ppiankov/ruleaudit/internal/model"
)

// LoadedRules is the result of reading one rules directory
type LoadedRules struct {
	// Dir is the resolved rules directory actually read
	Dir string

	// Documents are the parsed rule files in scan order
	Documents []*model.RuleDocument

	// Raw holds each document's on-disk bytes, keyed by ID, for cache keys
	Raw map[string][]byte

	// Diagnostics lists files that could not participate
	Diagnostics []model.Diagnostic
}

// Loader reads rule documents from disk
type Loader struct {
	registry *adapters.Registry
}

// NewLoader creates a loader with the standard format adapters
func NewLoader() *Loader {
	return &Loader{registry: adapters.NewRegistry()}
}

// ResolveRulesDir returns path/subdir when that directory exists,
// otherwise the path itself. This lets users point at either a project
// root or a rules directory directly.
func ResolveRulesDir(path, subdir string) string {
	if subdir == "" {
		return path
	}
	candidate := filepath.Join(path, subdir)
	if info, err := os.Stat(candidate); err == nil && info.IsDir() {
		return candidate
	}
	return path
}

// Load reads every matching file in dir, in sorted name order so scan
// order is deterministic across platforms. An unreadable file becomes a
// diagnostic, never a failed scan.
func (l *Loader) Load(dir string, extensions []string) (*LoadedRules, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read rules directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if matchesExtension(entry.Name(), extensions) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	loaded := &LoadedRules{
		Dir: dir,
		Raw: make(map[string][]byte, len(names)),
	}

	for _, name := range names {
		path := filepath.Join(dir, name)
		raw, err := os.ReadFile(path)
		if err != nil {
			loaded.Diagnostics = append(loaded.Diagnostics, model.Diagnostic{
				File: name,
				Err:  err.Error(),
			})
			continue
		}

		adapter := l.registry.FindAdapter(name)
		result := adapter.Parse(string(raw))

		doc := &model.RuleDocument{
			ID:          name,
			Path:        path,
			Order:       len(loaded.Documents),
			HeaderFound: result.Found,
			HeaderErr:   result.Err,
			RawHeader:   result.Raw,
			Header:      result.Data,
			HeaderKeys:  result.Keys,
			Body:        result.Body,
		}

		loaded.Documents = append(loaded.Documents, doc)
		loaded.Raw[name] = raw
	}

	return loaded, nil
}

func matchesExtension(name string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := filepath.Ext(name)
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}
