package adapters

import (
	"strings"

	"github.com/ppiankov/ruleaudit/internal/header"
)

// MarkdownAdapter handles headerless rule files: plain markdown guidance
// documents (AGENTS.md style) and bare instruction files. The whole file
// is body; the resulting rule sits in the manual activation tier.
type MarkdownAdapter struct{}

// NewMarkdownAdapter creates a new plain-markdown adapter
func NewMarkdownAdapter() *MarkdownAdapter {
	return &MarkdownAdapter{}
}

// Name returns the adapter name
func (a *MarkdownAdapter) Name() string {
	return "markdown"
}

// CanHandle accepts the known headerless formats; as the registry
// fallback it also receives everything no other adapter claimed
func (a *MarkdownAdapter) CanHandle(path string) bool {
	switch ext(path) {
	case ".md", ".markdown", ".txt":
		return true
	}
	base := strings.ToLower(path)
	return strings.HasSuffix(base, ".cursorrules") || strings.HasSuffix(base, ".windsurfrules")
}

// Parse returns the whole normalized file as body with no header.
// A frontmatter-looking block in a markdown file is still treated as
// body: these formats do not define one.
func (a *MarkdownAdapter) Parse(raw string) header.ParseResult {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return header.ParseResult{Found: false, Body: normalized}
}
