package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the full runtime configuration.
// Hierarchy (highest to lowest priority): CLI flags, RULEAUDIT_* env vars,
// ~/.ruleaudit/config.yaml, these defaults.
type Config struct {
	Audit       AuditConfig       `yaml:"audit" mapstructure:"audit"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
}

// AuditConfig controls the conflict/redundancy/remediation engine
type AuditConfig struct {
	// RulesSubdir is the conventional subdirectory searched below the
	// audited path; the path itself is used when the subdir is absent
	RulesSubdir string `yaml:"rules_subdir" mapstructure:"rules_subdir"`

	// Extensions lists the rule file suffixes picked up by the loader
	Extensions []string `yaml:"extensions" mapstructure:"extensions"`

	// ReportThreshold: pairs with Jaccard ratio strictly above it are
	// reported as redundant
	ReportThreshold float64 `yaml:"report_threshold" mapstructure:"report_threshold"`

	// MergeThreshold: ratio at or above it makes a pair a merge candidate
	MergeThreshold float64 `yaml:"merge_threshold" mapstructure:"merge_threshold"`

	// LineOverlapThreshold: corroborating line-overlap bar required before
	// a merge candidate is actually merged
	LineOverlapThreshold float64 `yaml:"line_overlap_threshold" mapstructure:"line_overlap_threshold"`

	// EmphasisThreshold: ratio at or above it is flagged near-certain
	EmphasisThreshold float64 `yaml:"emphasis_threshold" mapstructure:"emphasis_threshold"`

	// SplitThreshold is the body size in runes above which a document
	// becomes a split candidate
	SplitThreshold int `yaml:"split_threshold" mapstructure:"split_threshold"`

	// DryRun reports the remediation plan without touching the filesystem
	DryRun bool `yaml:"dry_run" mapstructure:"dry_run"`
}

// CacheConfig controls the per-file analysis cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls worker counts. A single directory audit is
// synchronous; workers apply to batch mode and reference validation.
type ConcurrencyConfig struct {
	Workers          int `yaml:"workers" mapstructure:"workers"`
	ReferenceWorkers int `yaml:"reference_workers" mapstructure:"reference_workers"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// LLMConfig configures the optional audit summarizer
type LLMConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama, ""
	Model       string  `yaml:"model" mapstructure:"model"`
	APIKey      string  `yaml:"-" mapstructure:"-"` // Env vars only, never persisted
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	Timeout     int     `yaml:"timeout" mapstructure:"timeout"` // seconds
	StrictPaths bool    `yaml:"strict_paths" mapstructure:"strict_paths"`
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"` // requests/sec in batch mode
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}

	return &Config{
		Audit: AuditConfig{
			RulesSubdir:          filepath.Join(".cursor", "rules"),
			Extensions:           []string{".mdc"},
			ReportThreshold:      0.6,
			MergeThreshold:       0.6,
			LineOverlapThreshold: 0.6,
			EmphasisThreshold:    0.8,
			SplitThreshold:       4000,
			DryRun:               false,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       filepath.Join(cacheDir, "ruleaudit"),
			MemoryTTL: 10 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers:          4,
			ReferenceWorkers: 8,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
		LLM: LLMConfig{
			Provider:    "", // Disabled by default
			Timeout:     30,
			StrictPaths: true,
			MaxTokens:   1000,
			RateLimit:   1,
		},
	}
}
