// Package extract pulls normative directives and file references out of
// rule body text using lexical heuristics.
package extract

import (
	"strings"
	"unicode"

	"github.com/ppiankov/ruleaudit/internal/model"
)

// trigger maps a lexical phrase to its canonical verb
type trigger struct {
	phrase string
	verb   model.Verb
}

// DirectiveExtractor scans body text for normative statements
type DirectiveExtractor struct {
	triggers []trigger
}

// NewDirectiveExtractor creates a directive extractor with the built-in
// trigger set. Subject capture is deliberately narrow: the single
// whitespace-delimited token after the trigger phrase. Multi-word subjects
// are the curated pattern table's job, not this extractor's.
func NewDirectiveExtractor() *DirectiveExtractor {
	return &DirectiveExtractor{
		triggers: []trigger{
			{phrase: "always use ", verb: model.VerbRequire},
			{phrase: "never use ", verb: model.VerbForbid},
			{phrase: "do not use ", verb: model.VerbForbid},
			{phrase: "prefer ", verb: model.VerbPrefer},
			{phrase: "avoid ", verb: model.VerbAvoid},
		},
	}
}

// Extract returns all directives found in the body. Duplicates are
// preserved: the conflict detector treats the result as a bag, not a set.
func (e *DirectiveExtractor) Extract(body string) []model.Directive {
	lower := strings.ToLower(body)

	var directives []model.Directive
	for _, tr := range e.triggers {
		for start := 0; ; {
			i := strings.Index(lower[start:], tr.phrase)
			if i < 0 {
				break
			}
			pos := start + i + len(tr.phrase)
			start = pos

			subject := NormalizeSubject(nextToken(lower[pos:]))
			if subject == "" {
				continue
			}

			directives = append(directives, model.Directive{
				Verb:    tr.verb,
				Subject: subject,
				Trigger: strings.TrimSpace(tr.phrase),
			})
		}
	}

	return directives
}

// nextToken returns the first whitespace-delimited token of s
func nextToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// NormalizeSubject lower-cases, trims, and strips surrounding punctuation
// from a captured subject token
func NormalizeSubject(token string) string {
	token = strings.ToLower(strings.TrimSpace(token))
	return strings.TrimFunc(token, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
}
