// Package adapters splits raw rule files into header metadata and body
// text, one adapter per on-disk rule format.
package adapters

import (
	"path/filepath"
	"strings"

	"github.com/ppiankov/ruleaudit/internal/header"
)

// Adapter handles one rule document format
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// CanHandle checks if this adapter handles the given file name
	CanHandle(path string) bool

	// Parse splits raw document text into header and body
	Parse(raw string) header.ParseResult
}

// Registry manages format adapters
type Registry struct {
	adapters []Adapter
	generic  Adapter
}

// NewRegistry creates a registry with the built-in adapters registered
// and the plain-markdown adapter as fallback
func NewRegistry() *Registry {
	registry := &Registry{}
	registry.Register(NewMDCAdapter())
	registry.generic = NewMarkdownAdapter()
	return registry
}

// Register registers a new adapter
func (r *Registry) Register(adapter Adapter) {
	r.adapters = append(r.adapters, adapter)
}

// FindAdapter finds the adapter for the given file name, falling back to
// the generic markdown adapter
func (r *Registry) FindAdapter(path string) Adapter {
	for _, adapter := range r.adapters {
		if adapter.CanHandle(path) {
			return adapter
		}
	}
	return r.generic
}

// ext returns the lower-cased file extension
func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
