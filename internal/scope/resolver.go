// Package scope derives activation scopes from rule headers and decides
// whether two rules can ever apply to the same file.
package scope

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ppiankov/ruleaudit/internal/model"
)

// Resolve converts parsed header metadata into an activation scope.
// Tier decision: alwaysApply true wins, then a non-empty glob list, then
// manual (the rule never activates automatically).
func Resolve(header map[string]model.HeaderValue) model.ActivationScope {
	if v, ok := header[model.KeyAlwaysApply]; ok {
		if b, isBool := v.AsBool(); isBool && b {
			return model.ActivationScope{Tier: model.TierAlways}
		}
	}

	patterns := globPatterns(header)
	if len(patterns) > 0 {
		return model.ActivationScope{Tier: model.TierScoped, Patterns: patterns}
	}

	return model.ActivationScope{Tier: model.TierManual}
}

// globPatterns reads the globs key. The canonical form is a string list;
// a bare scalar is accepted as a comma-separated pattern list since rule
// documents in the wild frequently write it that way.
func globPatterns(header map[string]model.HeaderValue) []string {
	v, ok := header[model.KeyGlobs]
	if !ok {
		return nil
	}

	var raw []string
	if list, isList := v.AsList(); isList {
		raw = list
	} else if s, isStr := v.AsString(); isStr {
		raw = strings.Split(s, ",")
	}

	var patterns []string
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

// Overlap reports whether two rules' activation scopes could plausibly
// apply to the same file. It is deterministic and symmetric.
//
// An always-active rule overlaps with every other rule regardless of that
// rule's own tier; a manual rule otherwise never overlaps since it never
// activates automatically.
func Overlap(a, b model.ActivationScope) bool {
	if a.Tier == model.TierAlways || b.Tier == model.TierAlways {
		return true
	}
	if a.Tier == model.TierManual || b.Tier == model.TierManual {
		return false
	}
	return GlobsOverlap(a.Patterns, b.Patterns)
}

// GlobsOverlap applies the conservative pairwise heuristic over two glob
// lists. Exact glob-set intersection is not computed; the goal is "could
// plausibly apply to the same file", not formal proof.
func GlobsOverlap(patternsA, patternsB []string) bool {
	// An empty list means unconditional (always-tier rules carry none)
	if len(patternsA) == 0 || len(patternsB) == 0 {
		return true
	}

	for _, pa := range patternsA {
		for _, pb := range patternsB {
			if patternsOverlap(pa, pb) {
				return true
			}
		}
	}
	return false
}

// patternsOverlap is the single-pair heuristic. Symmetric by construction:
// every probe is applied in both directions.
func patternsOverlap(pa, pb string) bool {
	if pa == pb {
		return true
	}

	extA := trailingExt(pa)
	extB := trailingExt(pb)

	// Both reducible to a leading-wildcard single-extension form
	if isStarDotExt(pa) && isStarDotExt(pb) && extA == extB {
		return true
	}

	// A recursive wildcard on either side with a shared trailing extension
	if hasRecursiveSegment(pa) || hasRecursiveSegment(pb) {
		if extA != "" && extA == extB {
			return true
		}
	}

	// A wildcard-free pattern is a literal path: probe it against the
	// other side's glob
	if literalMatches(pa, pb) || literalMatches(pb, pa) {
		return true
	}

	return false
}

// literalMatches probes a wildcard-free candidate path against a glob
func literalMatches(literal, glob string) bool {
	if strings.ContainsAny(literal, "*?[{") {
		return false
	}
	matched, err := doublestar.Match(glob, literal)
	return err == nil && matched
}

// trailingExt returns the lower-cased extension a pattern constrains its
// matches to, or "" when the extension itself contains wildcards
func trailingExt(p string) string {
	i := strings.LastIndex(p, ".")
	if i < 0 || i == len(p)-1 {
		return ""
	}
	ext := p[i+1:]
	if strings.ContainsAny(ext, "*?[{}/") {
		return ""
	}
	return strings.ToLower(ext)
}

// isStarDotExt reports whether a pattern reduces to the *.ext form:
// either *.ext itself or **/*.ext
func isStarDotExt(p string) bool {
	p = strings.TrimPrefix(p, "**/")
	if !strings.HasPrefix(p, "*.") {
		return false
	}
	return trailingExt(p) != "" && !strings.ContainsAny(p[1:], "*?[{")
}

// hasRecursiveSegment reports whether a pattern contains a ** segment
func hasRecursiveSegment(p string) bool {
	return strings.Contains(p, "**")
}
