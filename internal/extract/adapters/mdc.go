package adapters

import "github.com/ppiankov/ruleaudit/internal/header"

// MDCAdapter handles .mdc rule documents: a frontmatter metadata block
// followed by free-text guidance
type MDCAdapter struct{}

// NewMDCAdapter creates a new .mdc adapter
func NewMDCAdapter() *MDCAdapter {
	return &MDCAdapter{}
}

// Name returns the adapter name
func (a *MDCAdapter) Name() string {
	return "mdc"
}

// CanHandle checks for the .mdc extension
func (a *MDCAdapter) CanHandle(path string) bool {
	return ext(path) == ".mdc"
}

// Parse delegates to the minimal frontmatter parser
func (a *MDCAdapter) Parse(raw string) header.ParseResult {
	return header.Parse(raw)
}
