// Package header parses the metadata block at the top of a rule document.
//
// This is deliberately NOT a YAML parser. The rule header dialect is the
// minimal subset actually used by rule documents: flat key/value scalars,
// one level of string lists, and single- or double-quoted scalars. Nested
// mappings, multi-line values, anchors, and everything else YAML allows
// are out of contract and surface as parse errors.
package header

import (
	"fmt"
	"strings"

	"github.com/ppiankov/ruleaudit/internal/model"
)

// Delimiter opens and closes a header block, each on its own line
const Delimiter = "---"

// ParseResult is the outcome of parsing one raw document.
// Found reports whether an opening delimiter block was present at all;
// Err is set for a malformed block. Callers must treat a parse error
// identically to "header missing" for scope and directive purposes.
type ParseResult struct {
	Found bool
	Data  map[string]model.HeaderValue
	Keys  []string // header keys in document order
	Raw   string   // original block verbatim, delimiters included
	Body  string   // text after the block, newline-normalized
	Err   string
}

// Parse splits a raw document into header metadata and body text.
// Input is newline-normalized first since documents may originate on any
// platform.
func Parse(text string) ParseResult {
	normalized := normalizeNewlines(text)

	lines := strings.Split(normalized, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], " \t") != Delimiter {
		return ParseResult{Found: false, Body: normalized}
	}

	// Find the closing delimiter; without one there is no header block
	closing := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t") == Delimiter {
			closing = i
			break
		}
	}
	if closing < 0 {
		return ParseResult{Found: false, Body: normalized}
	}

	raw := strings.Join(lines[:closing+1], "\n") + "\n"
	body := strings.Join(lines[closing+1:], "\n")

	data := make(map[string]model.HeaderValue)
	var keys []string

	// openList is the key of the list currently being collected, "" if none
	openList := ""

	fail := func(lineNo int, format string, args ...interface{}) ParseResult {
		msg := fmt.Sprintf("line %d: %s", lineNo, fmt.Sprintf(format, args...))
		return ParseResult{Found: true, Raw: raw, Body: body, Err: msg}
	}

	for i := 1; i < closing; i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			continue
		}

		indented := line != strings.TrimLeft(line, " \t")
		trimmed := strings.TrimSpace(line)

		if indented {
			// The only legal indented line is a list item under an open list
			if !strings.HasPrefix(trimmed, "-") {
				return fail(i+1, "unexpected indented line %q", trimmed)
			}
			if openList == "" {
				return fail(i+1, "list item without a list key")
			}
			item := unquote(strings.TrimSpace(strings.TrimPrefix(trimmed, "-")))
			entry := data[openList]
			entry.List = append(entry.List, item)
			data[openList] = entry
			continue
		}

		// Any non-indented line terminates a pending list
		openList = ""

		colon := strings.Index(trimmed, ":")
		if colon < 0 {
			return fail(i+1, "expected key: value, got %q", trimmed)
		}

		key := strings.TrimSpace(trimmed[:colon])
		value := strings.TrimSpace(trimmed[colon+1:])
		if key == "" {
			return fail(i+1, "empty key")
		}

		keys = append(keys, key)
		if value == "" {
			// List-opening line; items follow indented
			data[key] = model.ListValue(nil)
			openList = key
			continue
		}
		data[key] = coerceScalar(value)
	}

	return ParseResult{Found: true, Data: data, Keys: keys, Raw: raw, Body: body}
}

// coerceScalar applies the scalar coercion rules: true/false become
// booleans, matching-quote-wrapped values become the unwrapped string,
// everything else is the raw trimmed string.
func coerceScalar(value string) model.HeaderValue {
	switch value {
	case "true":
		return model.BoolValue(true)
	case "false":
		return model.BoolValue(false)
	}
	return model.StringValue(unquote(value))
}

// unquote strips one level of matching double or single quotes
func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
