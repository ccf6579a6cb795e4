// Package detect finds semantic conflicts and textual redundancy between
// pairs of rule documents.
package detect

import (
	_ "embed"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

//go:embed patterns.yaml
var defaultPatternsYAML []byte

// CompareMode refines when a co-match of both sides counts as a conflict
type CompareMode string

const (
	// CompareNone: both sides matching is a conflict
	CompareNone CompareMode = ""

	// CompareSameCapture: conflict only when the captured tokens are equal
	// (Go regexes have no backreferences; explicit capture comparison
	// stands in for them)
	CompareSameCapture CompareMode = "same-capture"

	// CompareDifferentCapture: conflict only when the captured tokens
	// differ, e.g. two different file-length limits
	CompareDifferentCapture CompareMode = "different-capture"
)

// PatternEntry is one curated (patternA, patternB, topic) triple
type PatternEntry struct {
	Topic   string      `yaml:"topic"`
	A       string      `yaml:"a"`
	B       string      `yaml:"b"`
	Compare CompareMode `yaml:"compare,omitempty"`

	regexA *regexp.Regexp
	regexB *regexp.Regexp
}

// PatternTable is an immutable, ordered set of curated opposing-phrase
// pairs. Tables are injectable so tests can substitute smaller ones.
type PatternTable struct {
	entries []PatternEntry
}

type patternFile struct {
	Patterns []PatternEntry `yaml:"patterns"`
}

// LoadPatternTable parses and compiles a pattern table from YAML
func LoadPatternTable(data []byte) (*PatternTable, error) {
	var file patternFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse pattern table: %w", err)
	}

	for i := range file.Patterns {
		entry := &file.Patterns[i]
		if entry.Topic == "" {
			return nil, fmt.Errorf("pattern entry %d: missing topic", i)
		}
		switch entry.Compare {
		case CompareNone, CompareSameCapture, CompareDifferentCapture:
		default:
			return nil, fmt.Errorf("pattern entry %d (%s): unknown compare mode %q", i, entry.Topic, entry.Compare)
		}

		var err error
		if entry.regexA, err = regexp.Compile(entry.A); err != nil {
			return nil, fmt.Errorf("pattern entry %d (%s): side a: %w", i, entry.Topic, err)
		}
		if entry.regexB, err = regexp.Compile(entry.B); err != nil {
			return nil, fmt.Errorf("pattern entry %d (%s): side b: %w", i, entry.Topic, err)
		}
	}

	return &PatternTable{entries: file.Patterns}, nil
}

// DefaultPatternTable returns the built-in curated table. The embedded
// YAML is covered by tests, so a load failure here is a programming error.
func DefaultPatternTable() *PatternTable {
	table, err := LoadPatternTable(defaultPatternsYAML)
	if err != nil {
		panic(fmt.Sprintf("built-in pattern table invalid: %v", err))
	}
	return table
}

// Len returns the number of entries
func (t *PatternTable) Len() int {
	return len(t.entries)
}

// match is a successful single-side probe
type match struct {
	snippet string // the literal matched text
	capture string // first non-empty capture group, "" if none
}

// probe tests one compiled side against a body
func probe(re *regexp.Regexp, body string) (match, bool) {
	groups := re.FindStringSubmatch(body)
	if groups == nil {
		return match{}, false
	}

	m := match{snippet: groups[0]}
	for _, g := range groups[1:] {
		if g != "" {
			m.capture = g
			break
		}
	}
	return m, true
}

// opposes applies the entry's compare mode to a pair of side matches
func (e *PatternEntry) opposes(a, b match) bool {
	switch e.Compare {
	case CompareSameCapture:
		return a.capture != "" && a.capture == b.capture
	case CompareDifferentCapture:
		return a.capture != "" && b.capture != "" && a.capture != b.capture
	default:
		return true
	}
}
