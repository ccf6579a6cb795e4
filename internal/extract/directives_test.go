package extract

import (
	"testing"

	"github.com/ppiankov/ruleaudit/internal/model"
)

func TestDirectiveExtractor_Triggers(t *testing.T) {
	extractor := NewDirectiveExtractor()

	cases := []struct {
		name    string
		body    string
		verb    model.Verb
		subject string
	}{
		{"always use", "Always use interfaces for public APIs.", model.VerbRequire, "interfaces"},
		{"never use", "You should never use var in new code.", model.VerbForbid, "var"},
		{"do not use", "Do not use eval anywhere.", model.VerbForbid, "eval"},
		{"prefer", "Prefer const over let.", model.VerbPrefer, "const"},
		{"avoid", "Avoid inheritance when composition works.", model.VerbAvoid, "inheritance"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			directives := extractor.Extract(tc.body)
			if len(directives) == 0 {
				t.Fatalf("Expected a directive in %q", tc.body)
			}

			found := false
			for _, d := range directives {
				if d.Verb == tc.verb && d.Subject == tc.subject {
					found = true
				}
			}
			if !found {
				t.Errorf("Expected (%s, %q), got %v", tc.verb, tc.subject, directives)
			}
		})
	}
}

func TestDirectiveExtractor_SubjectNormalization(t *testing.T) {
	extractor := NewDirectiveExtractor()

	directives := extractor.Extract("Prefer `interfaces`, always.")
	if len(directives) == 0 {
		t.Fatal("Expected a directive")
	}
	if directives[0].Subject != "interfaces" {
		t.Errorf("Expected punctuation stripped from subject, got %q", directives[0].Subject)
	}
}

func TestDirectiveExtractor_DuplicatesPreserved(t *testing.T) {
	extractor := NewDirectiveExtractor()

	body := "Prefer const. In loops too, prefer const."
	directives := extractor.Extract(body)

	count := 0
	for _, d := range directives {
		if d.Verb == model.VerbPrefer && d.Subject == "const" {
			count++
		}
	}
	if count != 2 {
		t.Errorf("Expected duplicates preserved (bag semantics), got %d occurrences", count)
	}
}

func TestDirectiveExtractor_MultipleDirectives(t *testing.T) {
	extractor := NewDirectiveExtractor()

	body := `Always use tabs.
Never use spaces.
Prefer composition.`

	directives := extractor.Extract(body)
	if len(directives) != 3 {
		t.Fatalf("Expected 3 directives, got %d: %v", len(directives), directives)
	}
}

func TestDirectiveExtractor_NoDirectives(t *testing.T) {
	extractor := NewDirectiveExtractor()

	directives := extractor.Extract("This rule just describes the project layout.")
	if len(directives) != 0 {
		t.Errorf("Expected no directives, got %v", directives)
	}
}

func TestDirectiveExtractor_TriggerAtEndOfBody(t *testing.T) {
	extractor := NewDirectiveExtractor()

	// A trigger with nothing after it must not produce an empty subject
	directives := extractor.Extract("In this codebase, prefer ")
	for _, d := range directives {
		if d.Subject == "" {
			t.Errorf("Got directive with empty subject: %+v", d)
		}
	}
}

func TestReferenceExtractor_Basic(t *testing.T) {
	extractor := NewReferenceExtractor()

	body := `See @src/db/schema.ts for the canonical schema.
Also check @docs/style.md and again @src/db/schema.ts.
Contact admin@example.com is not a reference.`

	refs := extractor.Extract(body)
	want := []string{"src/db/schema.ts", "docs/style.md"}
	if len(refs) != len(want) {
		t.Fatalf("Expected %v, got %v", want, refs)
	}
	for i, w := range want {
		if refs[i] != w {
			t.Errorf("Ref %d: expected %q, got %q", i, w, refs[i])
		}
	}
}

func TestReferenceExtractor_SentencePunctuation(t *testing.T) {
	extractor := NewReferenceExtractor()

	// Trailing punctuation belongs to the sentence, not the path, and a
	// dotted capture must still dedup against the clean one
	body := "Check @docs/style.md. Then @a/b.go, and @c/d.ts; finally @docs/style.md again."

	refs := extractor.Extract(body)
	want := []string{"docs/style.md", "a/b.go", "c/d.ts"}
	if len(refs) != len(want) {
		t.Fatalf("Expected %v, got %v", want, refs)
	}
	for i, w := range want {
		if refs[i] != w {
			t.Errorf("Ref %d: expected %q, got %q", i, w, refs[i])
		}
	}
}
