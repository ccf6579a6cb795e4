package extract

import (
	"regexp"
	"strings"
)

// refPattern matches @path file references inside rule bodies, e.g.
// "@src/db/schema.ts". Email-like text is excluded by requiring the @
// to start a token.
var refPattern = regexp.MustCompile(`(?:^|[\s(])@([\w~-][\w./~-]*)`)

// ReferenceExtractor finds @path file references in rule bodies
type ReferenceExtractor struct{}

// NewReferenceExtractor creates a new reference extractor
func NewReferenceExtractor() *ReferenceExtractor {
	return &ReferenceExtractor{}
}

// Extract returns the referenced paths in order of first appearance,
// deduplicated
func (e *ReferenceExtractor) Extract(body string) []string {
	matches := refPattern.FindAllStringSubmatch(body, -1)

	seen := make(map[string]bool)
	var refs []string
	for _, m := range matches {
		// A reference ending a sentence keeps the period in the raw
		// match; sentence punctuation is never part of the path
		path := strings.TrimRight(m[1], ".")
		if path == "" {
			continue
		}
		if !seen[path] {
			seen[path] = true
			refs = append(refs, path)
		}
	}
	return refs
}
