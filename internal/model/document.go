package model

// HeaderValueKind discriminates the three value shapes the rule header
// format allows: booleans, strings, and flat string lists.
type HeaderValueKind int

const (
	KindBool HeaderValueKind = iota
	KindString
	KindStringList
)

// HeaderValue is a tagged union. Exactly one of Bool, Str, List is
// meaningful, selected by Kind.
type HeaderValue struct {
	Kind HeaderValueKind
	Bool bool
	Str  string
	List []string
}

// BoolValue wraps a boolean header value
func BoolValue(v bool) HeaderValue {
	return HeaderValue{Kind: KindBool, Bool: v}
}

// StringValue wraps a string header value
func StringValue(s string) HeaderValue {
	return HeaderValue{Kind: KindString, Str: s}
}

// ListValue wraps a string-list header value
func ListValue(items []string) HeaderValue {
	return HeaderValue{Kind: KindStringList, List: items}
}

// AsBool returns the boolean value and whether the value is a boolean
func (v HeaderValue) AsBool() (bool, bool) {
	return v.Bool, v.Kind == KindBool
}

// AsString returns the string value and whether the value is a string
func (v HeaderValue) AsString() (string, bool) {
	return v.Str, v.Kind == KindString
}

// AsList returns the list value and whether the value is a string list
func (v HeaderValue) AsList() ([]string, bool) {
	return v.List, v.Kind == KindStringList
}

// Header keys this engine understands. Anything else is preserved on
// rewrite and surfaced as a lint note, never interpreted.
const (
	KeyDescription = "description"
	KeyGlobs       = "globs"
	KeyAlwaysApply = "alwaysApply"
)

// RecognizedHeaderKey reports whether the engine interprets the given key
func RecognizedHeaderKey(key string) bool {
	switch key {
	case KeyDescription, KeyGlobs, KeyAlwaysApply:
		return true
	}
	return false
}

// RuleDocument is one on-disk rule file, read fresh on every scan.
type RuleDocument struct {
	// ID is the stable identifier: the file name relative to the rules dir
	ID string `json:"id"`

	// Path is the absolute on-disk location
	Path string `json:"path"`

	// Order is the position in scan order, used for deterministic tie-breaks
	Order int `json:"order"`

	// HeaderFound is true when the document opened with a delimiter block
	HeaderFound bool `json:"header_found"`

	// HeaderErr holds the parse error message for a malformed header.
	// A document with HeaderErr set is treated like one with no header.
	HeaderErr string `json:"header_err,omitempty"`

	// RawHeader is the original header block verbatim, delimiters included,
	// so rewrites preserve unrecognized keys and formatting untouched
	RawHeader string `json:"-"`

	// Header maps key to parsed value; nil when no usable header
	Header map[string]HeaderValue `json:"-"`

	// HeaderKeys records header keys in document order
	HeaderKeys []string `json:"header_keys,omitempty"`

	// Body is the text after the header block, newline-normalized
	Body string `json:"-"`
}

// Description returns the description header value, if present
func (d *RuleDocument) Description() string {
	if v, ok := d.Header[KeyDescription]; ok {
		if s, isStr := v.AsString(); isStr {
			return s
		}
	}
	return ""
}

// Tier describes when a rule activates.
type Tier string

const (
	TierAlways Tier = "always" // alwaysApply: true
	TierScoped Tier = "scoped" // glob-gated
	TierManual Tier = "manual" // never activates automatically
)

// ActivationScope is derived from the header, never stored.
type ActivationScope struct {
	Tier Tier `json:"tier"`

	// Patterns holds the glob list; empty for Always and Manual tiers
	Patterns []string `json:"patterns,omitempty"`
}

// Verb is the canonical form of a normative instruction.
type Verb string

const (
	VerbRequire Verb = "require"
	VerbForbid  Verb = "forbid"
	VerbPrefer  Verb = "prefer"
	VerbAvoid   Verb = "avoid"
)

// Directive is one normative statement extracted from a rule body.
type Directive struct {
	Verb Verb `json:"verb"`

	// Subject is the normalized (lower-cased, punctuation-stripped) token
	// the verb applies to
	Subject string `json:"subject"`

	// Trigger records which lexical trigger matched (e.g. "always use")
	Trigger string `json:"trigger,omitempty"`
}

// RuleAnalysis bundles a document with everything derived from it.
type RuleAnalysis struct {
	Document *RuleDocument `json:"document"`

	Scope ActivationScope `json:"scope"`

	// Unscoped marks documents whose header failed to parse: the overlap
	// gate conservatively reports no overlap for them
	Unscoped bool `json:"unscoped,omitempty"`

	Directives []Directive `json:"directives,omitempty"`

	// References are @path file references found in the body
	References []string `json:"references,omitempty"`
}
